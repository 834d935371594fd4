package fakeapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const maxCommentLength = 1000

func sortCommentsNewestFirst(comments []commentRecord) {
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID > comments[j].ID
	})
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	blogID, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}
	if _, ok := s.blogs.Get(blogID); !ok {
		s.blogNotFoundResponse(w, r)
		return
	}

	v := validator.New()
	p := s.readPageRequest(r.URL.Query(), v)
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	comments := functional.Filter(s.comments.Values(), func(c commentRecord) bool { return c.BlogID == blogID })
	sortCommentsNewestFirst(comments)

	authors := s.usersByID()
	page := paginate(functional.Map(comments, func(c commentRecord) models.Comment {
		return commentResponse(c, authors)
	}), p)
	if err := s.writeJSON(w, http.StatusOK, page, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func validateCommentInput(input *models.CommentInput) *validator.Validator {
	input.Content = strings.TrimSpace(input.Content)

	v := validator.New()
	v.CheckNotBlank(input.Content, "content", "Comment content is required")
	v.CheckMaxLength(input.Content, maxCommentLength, "content", "Comment must not exceed 1000 characters")
	return v
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	blogID, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	var input models.CommentInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	if v := validateCommentInput(&input); !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}
	if _, ok := s.blogs.Get(blogID); !ok {
		s.blogNotFoundResponse(w, r)
		return
	}

	now := s.now()
	comment := commentRecord{
		ID:        s.newID(),
		BlogID:    blogID,
		AuthorID:  user.ID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.comments.Store(comment.ID, comment)

	response := commentResponse(comment, map[int64]userRecord{user.ID: user})
	if err := s.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	var input models.CommentInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	if v := validateCommentInput(&input); !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	existing, ok := s.comments.Get(id)
	if !ok {
		s.commentNotFoundResponse(w, r)
		return
	}
	if existing.AuthorID != user.ID {
		s.forbiddenResponse(w, r, "You can only edit your own comments")
		return
	}

	comment, ok := s.comments.Update(id, func(c commentRecord) commentRecord {
		c.Content = input.Content
		c.Edited = true
		c.UpdatedAt = s.now()
		return c
	})
	if !ok {
		s.commentNotFoundResponse(w, r)
		return
	}

	response := commentResponse(comment, map[int64]userRecord{user.ID: user})
	if err := s.writeJSON(w, http.StatusOK, response, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	existing, ok := s.comments.Get(id)
	if !ok {
		s.commentNotFoundResponse(w, r)
		return
	}
	if existing.AuthorID != user.ID {
		s.forbiddenResponse(w, r, "You can only delete your own comments")
		return
	}
	s.comments.Delete(id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) userComments(w http.ResponseWriter, r *http.Request) {
	userID, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}
	author, ok := s.users.Get(userID)
	if !ok {
		s.userNotFoundResponse(w, r)
		return
	}

	comments := functional.Filter(s.comments.Values(), func(c commentRecord) bool { return c.AuthorID == userID })
	sortCommentsNewestFirst(comments)

	authors := map[int64]userRecord{author.ID: author}
	response := functional.Map(comments, func(c commentRecord) models.Comment {
		return commentResponse(c, authors)
	})
	if err := s.writeJSON(w, http.StatusOK, response, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) commentNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, &AppError{ErrorMessage: "Comment not found"})
}

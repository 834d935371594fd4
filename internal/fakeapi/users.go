package fakeapi

import (
	"net/http"
	"strings"

	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const profileSegment = "profile"

func (s *Server) profileResponse(u userRecord) models.UserProfile {
	var blogCount, commentCount int64
	for _, b := range s.blogs.Values() {
		if b.AuthorID == u.ID {
			blogCount++
		}
	}
	for _, c := range s.comments.Values() {
		if c.AuthorID == u.ID {
			commentCount++
		}
	}

	return models.UserProfile{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      models.Timestamp{Time: u.CreatedAt},
		BlogCount:      blogCount,
		CommentCount:   commentCount,
	}
}

func (s *Server) getUserOrProfile(w http.ResponseWriter, r *http.Request) {
	if s.readNameOrID(r) == profileSegment {
		s.requireAuthenticatedUser(s.currentProfile)(w, r)
		return
	}

	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}
	user, ok := s.users.Get(id)
	if !ok {
		s.userNotFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, s.profileResponse(user), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) currentProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	if err := s.writeJSON(w, http.StatusOK, s.profileResponse(user), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)

	var input models.ProfileInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	v := validator.New()
	v.CheckNotBlank(input.FirstName, "firstName", "First name is required")
	v.CheckMaxLength(input.FirstName, 100, "firstName", "First name must not exceed 100 characters")
	v.CheckNotBlank(input.LastName, "lastName", "Last name is required")
	v.CheckMaxLength(input.LastName, 100, "lastName", "Last name must not exceed 100 characters")
	if input.Bio != nil {
		v.CheckMaxLength(*input.Bio, 500, "bio", "Bio must not exceed 500 characters")
	}
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	updated, ok := s.users.Update(user.ID, func(u userRecord) userRecord {
		u.FirstName = input.FirstName
		u.LastName = input.LastName
		u.Bio = input.Bio
		u.ProfilePicture = input.ProfilePicture
		return u
	})
	if !ok {
		s.userNotFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, s.profileResponse(updated), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) userNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, &AppError{ErrorMessage: "User not found"})
}

package fakeapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const myBlogsSegment = "my-blogs"

func (s *Server) readPageRequest(qs url.Values, v *validator.Validator) filter.PageRequest {
	p := filter.NewPageRequest(
		s.readInt(qs, "page", 0, v),
		s.readInt(qs, "size", filter.DefaultPageSize, v),
	)
	filter.ValidatePageRequest(p, v)
	return p
}

func (s *Server) listBlogs(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	qs := r.URL.Query()

	query := filter.Query{
		Search:      strings.TrimSpace(s.readString(qs, "search", "")),
		Sort:        strings.ToLower(s.readString(qs, "sortBy", filter.SortDate)),
		Tags:        stringutils.SplitCSV(qs.Get("tags")),
		PageRequest: s.readPageRequest(qs, v),
	}
	if !functional.Contains(filter.SortKeys, query.Sort) {
		query.Sort = filter.SortDate
	}
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	blogs := functional.Filter(s.blogs.Values(), func(b blogRecord) bool {
		return matchesSearch(b, query.Search) && s.hasAnyTag(b, query.Tags)
	})
	sortBlogs(blogs, query.Sort)

	page := paginate(functional.Map(blogs, s.blogSummary), query.PageRequest)
	if err := s.writeJSON(w, http.StatusOK, page, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) getBlogOrMine(w http.ResponseWriter, r *http.Request) {
	if s.readNameOrID(r) == myBlogsSegment {
		s.requireAuthenticatedUser(s.myBlogs)(w, r)
		return
	}
	s.getBlog(w, r)
}

func (s *Server) myBlogs(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	v := validator.New()
	p := s.readPageRequest(r.URL.Query(), v)
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	blogs := functional.Filter(s.blogs.Values(), func(b blogRecord) bool { return b.AuthorID == user.ID })
	sortBlogs(blogs, filter.SortDate)

	page := paginate(functional.Map(blogs, s.blogSummary), p)
	if err := s.writeJSON(w, http.StatusOK, page, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) getBlog(w http.ResponseWriter, r *http.Request) {
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	blog, ok := s.blogs.Update(id, func(b blogRecord) blogRecord {
		b.ViewCount++
		return b
	})
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, s.blogResponse(blog), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func validateBlogInput(input *models.BlogInput) *validator.Validator {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	v := validator.New()
	v.CheckNotBlank(input.Title, "title", "Title is required")
	v.CheckMaxLength(input.Title, 200, "title", "Title must not exceed 200 characters")
	v.CheckNotBlank(input.Content, "content", "Content is required")
	return v
}

func (s *Server) createBlog(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)

	var input models.BlogInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	if v := validateBlogInput(&input); !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	now := s.now()
	blog := blogRecord{
		ID:        s.newID(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  user.ID,
		Tags:      s.ensureTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.blogs.Store(blog.ID, blog)

	if err := s.writeJSON(w, http.StatusCreated, s.blogResponse(blog), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) updateBlog(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	var input models.BlogInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	if v := validateBlogInput(&input); !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	existing, ok := s.blogs.Get(id)
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}
	if existing.AuthorID != user.ID {
		s.forbiddenResponse(w, r, "You can only edit your own blogs")
		return
	}

	tags := s.ensureTags(input.Tags)
	blog, ok := s.blogs.Update(id, func(b blogRecord) blogRecord {
		b.Title = input.Title
		b.Content = input.Content
		b.Tags = tags
		b.UpdatedAt = s.now()
		return b
	})
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, s.blogResponse(blog), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) deleteBlog(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	existing, ok := s.blogs.Get(id)
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}
	if existing.AuthorID != user.ID {
		s.forbiddenResponse(w, r, "You can only delete your own blogs")
		return
	}

	s.blogs.Delete(id)
	for _, c := range s.comments.Values() {
		if c.BlogID == id {
			s.comments.Delete(c.ID)
		}
	}
	for _, img := range s.images.Values() {
		if img.BlogID == id {
			s.images.Delete(img.ID)
		}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"}, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) isAuthor(w http.ResponseWriter, r *http.Request) {
	user, _ := authenticatedUser(r)
	id, err := s.readIDParam(r)
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}

	blog, ok := s.blogs.Get(id)
	if !ok {
		s.blogNotFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, blog.AuthorID == user.ID, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) blogNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, &AppError{ErrorMessage: "Blog not found"})
}

func (s *Server) readNameOrID(r *http.Request) string {
	return strings.TrimSpace(paramsFromRequest(r).ByName("id"))
}

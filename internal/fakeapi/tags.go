package fakeapi

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const popularTagsLimit = 10

var colorRX = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (s *Server) tagList(keep func(tagRecord) bool) []models.Tag {
	usage := s.tagUsage()
	tags := functional.Map(functional.Filter(s.tags.Values(), keep), func(t tagRecord) models.Tag {
		return tagResponse(t, usage)
	})
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags
}

func (s *Server) allTags(w http.ResponseWriter, r *http.Request) {
	tags := s.tagList(func(tagRecord) bool { return true })
	if err := s.writeJSON(w, http.StatusOK, tags, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) popularTags(w http.ResponseWriter, r *http.Request) {
	tags := s.tagList(func(tagRecord) bool { return true })
	tags = functional.Filter(tags, func(t models.Tag) bool { return t.UsageCount > 0 })
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].UsageCount > tags[j].UsageCount })
	if len(tags) > popularTagsLimit {
		tags = tags[:popularTagsLimit]
	}

	if err := s.writeJSON(w, http.StatusOK, tags, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) searchTags(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("name")))
	tags := s.tagList(func(t tagRecord) bool {
		return name != "" && strings.Contains(strings.ToLower(t.Name), name)
	})
	if err := s.writeJSON(w, http.StatusOK, tags, nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var input models.TagInput
	if err := s.readJSON(w, r, &input); err != nil {
		s.badRequestResponse(w, r, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}
	input.Name = strings.TrimSpace(input.Name)

	v := validator.New()
	v.CheckNotBlank(input.Name, "name", "Tag name is required")
	v.CheckMaxLength(input.Name, 50, "name", "Tag name must not exceed 50 characters")
	if input.Color != "" {
		v.Check(v.IsMatch(input.Color, colorRX), "color", "Color must be a valid hex color code")
	}
	if !v.IsValid() {
		s.validationResponse(w, r, v.Errors, v.Err().Error())
		return
	}

	key := strings.ToLower(input.Name)
	s.writeMu.Lock()
	if _, exists := s.tags.Get(key); exists {
		s.writeMu.Unlock()
		s.badRequestResponse(w, r, &AppError{ErrorMessage: "Tag already exists: " + input.Name})
		return
	}
	tag := tagRecord{ID: s.newID(), Name: input.Name, Color: input.Color, CreatedAt: s.now()}
	s.tags.Store(key, tag)
	s.writeMu.Unlock()

	if err := s.writeJSON(w, http.StatusCreated, tagResponse(tag, s.tagUsage()), nil); err != nil {
		s.internalErrorResponse(w, r, err)
	}
}

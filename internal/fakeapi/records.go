package fakeapi

import (
	"sort"
	"strings"
	"time"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/utils/collectionutils"
	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/models"
)

const previewLength = 200

type userRecord struct {
	ID             int64
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   []byte
	Bio            *string
	ProfilePicture *string
	CreatedAt      time.Time
}

type blogRecord struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	Tags      []string
	ViewCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type commentRecord struct {
	ID        int64
	BlogID    int64
	AuthorID  int64
	Content   string
	Edited    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type tagRecord struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
}

type imageRecord struct {
	ID           int64
	BlogID       int64
	UploaderID   int64
	FileName     string
	OriginalName string
	ContentType  string
	Data         []byte
}

func (u userRecord) author() models.Author {
	return models.Author{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

func (u userRecord) fullName() string {
	return u.author().FullName()
}

func (s *Server) authorOf(id int64) models.Author {
	user, _ := s.users.Get(id)
	return user.author()
}

func (s *Server) blogResponse(b blogRecord) models.BlogPost {
	return models.BlogPost{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Author:    s.authorOf(b.AuthorID),
		Tags:      append([]string{}, b.Tags...),
		ViewCount: b.ViewCount,
		CreatedAt: models.Timestamp{Time: b.CreatedAt},
		UpdatedAt: models.Timestamp{Time: b.UpdatedAt},
	}
}

// blogSummary drops the full content in favour of a preview, as list endpoints do.
func (s *Server) blogSummary(b blogRecord) models.BlogPost {
	post := s.blogResponse(b)
	post.Content = ""
	post.ContentPreview = stringutils.Truncate(b.Content, previewLength)
	return post
}

func commentResponse(c commentRecord, authors map[int64]userRecord) models.Comment {
	return models.Comment{
		ID:         c.ID,
		Content:    c.Content,
		BlogID:     c.BlogID,
		AuthorID:   c.AuthorID,
		AuthorName: authors[c.AuthorID].fullName(),
		IsEdited:   c.Edited,
		CreatedAt:  models.Timestamp{Time: c.CreatedAt},
		UpdatedAt:  models.Timestamp{Time: c.UpdatedAt},
	}
}

func (s *Server) usersByID() map[int64]userRecord {
	return collectionutils.IndexBy(s.users.Values(), func(u userRecord) int64 { return u.ID })
}

// tagUsage counts the blogs carrying each tag name.
func (s *Server) tagUsage() map[string]int64 {
	var names []string
	for _, b := range s.blogs.Values() {
		names = append(names, b.Tags...)
	}
	return collectionutils.CountBy(names, strings.ToLower)
}

func tagResponse(t tagRecord, usage map[string]int64) models.Tag {
	return models.Tag{
		ID:         t.ID,
		Name:       t.Name,
		Color:      t.Color,
		UsageCount: collectionutils.GetOrDefault(usage, strings.ToLower(t.Name), 0),
		CreatedAt:  models.Timestamp{Time: t.CreatedAt},
	}
}

// ensureTags registers unknown tag names and returns the names in their stored spelling.
func (s *Server) ensureTags(names []string) []string {
	names = stringutils.NormalizeTags(names)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if existing, ok := s.tags.Get(key); ok {
			out = append(out, existing.Name)
			continue
		}
		s.tags.Store(key, tagRecord{ID: s.newID(), Name: name, CreatedAt: s.now()})
		out = append(out, name)
	}
	return out
}

func matchesSearch(b blogRecord, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(b.Title), search) || strings.Contains(strings.ToLower(b.Content), search)
}

// hasAnyTag reports whether b carries at least one of tags. Unknown tag names are ignored
// and a filter with only unknown names matches everything.
func (s *Server) hasAnyTag(b blogRecord, tags []string) bool {
	known := functional.Filter(tags, func(name string) bool {
		_, ok := s.tags.Get(strings.ToLower(name))
		return ok
	})
	if len(known) == 0 {
		return true
	}
	for _, want := range known {
		for _, have := range b.Tags {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

func sortBlogs(blogs []blogRecord, sortBy string) {
	sort.SliceStable(blogs, func(i, j int) bool {
		a, b := blogs[i], blogs[j]
		switch sortBy {
		case filter.SortPopularity:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		case filter.SortTitle:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if at != bt {
				return at < bt
			}
			return a.ID < b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})
}

func paginate[T any](items []T, p filter.PageRequest) models.Page[T] {
	total := len(items)
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Size - 1) / p.Size
	}

	start := p.Page * p.Size
	end := start + p.Size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	content := make([]T, 0, end-start)
	content = append(content, items[start:end]...)
	return models.Page[T]{
		Content:       content,
		TotalPages:    totalPages,
		TotalElements: int64(total),
		Number:        p.Page,
		Size:          p.Size,
	}
}

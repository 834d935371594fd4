package filter

import (
	"net/url"
	"strings"

	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/internal/validator"
)

const (
	SortDate       = "date"
	SortPopularity = "popularity"
	SortTitle      = "title"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

var SortKeys = []string{SortDate, SortPopularity, SortTitle}

type PageRequest struct {
	Page int
	Size int
}

func NewPageRequest(page, size int) PageRequest {
	if size <= 0 {
		size = DefaultPageSize
	}
	return PageRequest{Page: page, Size: size}
}

func (p PageRequest) Values() url.Values {
	values := url.Values{}
	values.Set("page", stringutils.ToString(p.Page))
	values.Set("size", stringutils.ToString(p.Size))
	return values
}

// Query is the effective blog list query: search term, sort key, tag set and page.
type Query struct {
	Search string
	Sort   string
	Tags   []string
	PageRequest
}

func NewQuery(size int) Query {
	return Query{
		Sort:        SortDate,
		PageRequest: NewPageRequest(0, size),
	}
}

func (q Query) Values() url.Values {
	values := q.PageRequest.Values()
	sort := q.Sort
	if sort == "" {
		sort = SortDate
	}
	values.Set("sortBy", sort)
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if len(q.Tags) > 0 {
		values.Set("tags", strings.Join(q.Tags, ","))
	}
	return values
}

// SameFilters reports whether two queries differ only in their page index.
func (q Query) SameFilters(other Query) bool {
	if q.Search != other.Search || q.Sort != other.Sort || len(q.Tags) != len(other.Tags) {
		return false
	}
	seen := make(map[string]bool, len(q.Tags))
	for _, t := range q.Tags {
		seen[t] = true
	}
	for _, t := range other.Tags {
		if !seen[t] {
			return false
		}
	}
	return true
}

func ValidatePageRequest(p PageRequest, v *validator.Validator) {
	v.Check(p.Page >= 0, "page", "must be greater than or equal to 0")
	v.Check(p.Page <= 10_000_000, "page", "must be a maximum of 10_000_000")
	v.Check(p.Size > 0, "size", "must be greater than 0")
	v.Check(p.Size <= MaxPageSize, "size", "must be a maximum of 100")
}

func ValidateQuery(q Query) *validator.Validator {
	v := validator.New()
	ValidatePageRequest(q.PageRequest, v)
	v.CheckPermittedValue(q.Sort, "sortBy", SortKeys...)
	for _, tag := range q.Tags {
		v.CheckNotBlank(tag, "tags", "must not contain blank tags")
	}
	v.Check(v.IsUnique(q.Tags), "tags", "must not contain duplicate tags")
	return v
}

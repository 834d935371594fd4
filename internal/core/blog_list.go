package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

// BlogListState is a snapshot of the list controller.
type BlogListState struct {
	// Query holds the selected filters. Query.Page is the page on screen and only moves
	// when a fetch for another page succeeds.
	Query filter.Query
	// Typed is the search box text, which may not be applied yet.
	Typed     string
	Page      *models.Page[models.BlogPost]
	Loading   bool
	Searching bool
	Err       error
}

func (s BlogListState) Items() []models.BlogPost {
	if s.Page == nil {
		return nil
	}
	return s.Page.Content
}

func (s BlogListState) Metadata() filter.Metadata {
	if s.Page == nil {
		return filter.Metadata{CurrentPage: s.Query.Page}
	}
	return filter.Metadata{
		CurrentPage:   s.Query.Page,
		TotalPages:    s.Page.TotalPages,
		TotalElements: s.Page.TotalElements,
	}
}

func (s BlogListState) Pager() filter.Pager {
	return filter.NewPager(s.Metadata())
}

// BlogList drives the home page list: search with debounce, sort, tag filter and pagination.
// Every fetch carries a sequence number and only the newest one may update the state.
type BlogList struct {
	log      *slog.Logger
	backend  Backend
	debounce time.Duration

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	query     filter.Query
	requested int
	typed     string
	page      *models.Page[models.BlogPost]
	loading   bool
	searching bool
	err       error
	seq       uint64
	timer     *time.Timer
	closed    bool
	listeners []func(BlogListState)
}

func (c *Core) NewBlogList() *BlogList {
	return &BlogList{
		log:      c.log,
		backend:  c.backend,
		debounce: c.options.SearchDebounce,
		query:    filter.NewQuery(c.options.PageSize),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
func (l *BlogList) OnChange(fn func(BlogListState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *BlogList) State() BlogListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *BlogList) snapshotLocked() BlogListState {
	query := l.query
	query.Tags = append([]string(nil), l.query.Tags...)
	return BlogListState{
		Query:     query,
		Typed:     l.typed,
		Page:      l.page,
		Loading:   l.loading,
		Searching: l.searching,
		Err:       l.err,
	}
}

func (l *BlogList) notify(state BlogListState, listeners []func(BlogListState)) {
	for _, fn := range listeners {
		fn(state)
	}
}

// Start performs the first fetch. ctx also bounds the fetches triggered later by the debounce.
func (l *BlogList) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.mu.Unlock()

	return l.fetch(ctx, nil, false)
}

// TypeSearch records the search box text and restarts the debounce timer.
func (l *BlogList) TypeSearch(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.typed = text
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, l.applySearch)
}

func (l *BlogList) applySearch() {
	l.mu.Lock()
	ctx := l.ctx
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := l.search(ctx); err != nil {
		l.log.Debug("debounced search failed", slog.String("error", err.Error()))
	}
}

// FlushSearch applies the typed text immediately, as pressing enter would.
func (l *BlogList) FlushSearch(ctx context.Context) error {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()

	return l.search(ctx)
}

// search applies the typed text. Clearing the search reloads the full list, so it shows the
// loading state instead of the searching indicator.
func (l *BlogList) search(ctx context.Context) error {
	l.mu.Lock()
	term := strings.TrimSpace(l.typed)
	l.mu.Unlock()

	return l.fetch(ctx, func(q *filter.Query) bool {
		if term == q.Search {
			return false
		}
		q.Search = term
		q.Page = 0
		return true
	}, term != "")
}

// SetSort applies a sort key. Unknown keys are rejected without a request.
func (l *BlogList) SetSort(ctx context.Context, sort string) error {
	v := validator.New()
	v.CheckPermittedValue(sort, "sortBy", filter.SortKeys...)
	if !v.IsValid() {
		return v.Err()
	}

	return l.fetch(ctx, func(q *filter.Query) bool {
		if q.Sort == sort {
			return false
		}
		q.Sort = sort
		q.Page = 0
		return true
	}, false)
}

// SetTags replaces the tag filter.
func (l *BlogList) SetTags(ctx context.Context, tags ...string) error {
	tags = stringutils.NormalizeTags(tags)
	return l.fetch(ctx, func(q *filter.Query) bool {
		next := *q
		next.Tags = tags
		if next.SameFilters(*q) {
			return false
		}
		q.Tags = tags
		q.Page = 0
		return true
	}, false)
}

// ToggleTag adds tag to the filter or removes it when already selected.
func (l *BlogList) ToggleTag(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	return l.fetch(ctx, func(q *filter.Query) bool {
		if functional.Contains(q.Tags, tag) {
			q.Tags = functional.Filter(q.Tags, func(t string) bool { return t != tag })
		} else {
			q.Tags = append(append([]string(nil), q.Tags...), tag)
		}
		q.Page = 0
		return true
	}, false)
}

// ClearFilters resets search, sort and tags to their defaults.
func (l *BlogList) ClearFilters(ctx context.Context) error {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.typed = ""
	l.mu.Unlock()

	return l.fetch(ctx, func(q *filter.Query) bool {
		if q.Search == "" && q.Sort == filter.SortDate && len(q.Tags) == 0 {
			return false
		}
		q.Search = ""
		q.Sort = filter.SortDate
		q.Tags = nil
		q.Page = 0
		return true
	}, false)
}

// GoToPage fetches page n keeping the other filters.
func (l *BlogList) GoToPage(ctx context.Context, n int) error {
	var rangeErr error
	err := l.fetch(ctx, func(q *filter.Query) bool {
		if n < 0 || (l.page != nil && l.page.TotalPages > 0 && n >= l.page.TotalPages) {
			v := validator.New()
			v.AddError("page", "page is out of range")
			rangeErr = v.Err()
			return false
		}
		q.Page = n
		return true
	}, false)
	if rangeErr != nil {
		return rangeErr
	}
	return err
}

func (l *BlogList) NextPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.State().Query.Page+1)
}

func (l *BlogList) PreviousPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.State().Query.Page-1)
}

// Retry refetches the last requested query, including a page that failed to load.
func (l *BlogList) Retry(ctx context.Context) error {
	return l.fetch(ctx, nil, false)
}

// Close stops the debounce timer and cancels fetches started by it.
func (l *BlogList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	if l.cancel != nil {
		l.cancel()
	}
}

// fetch applies mutate to the last requested query under the lock and, when it reports a change
// (or mutate is nil), fetches the result. Filters take effect at once; the shown page is committed
// only when the response arrives. A response is dropped when a newer fetch has started meanwhile.
func (l *BlogList) fetch(ctx context.Context, mutate func(q *filter.Query) bool, searching bool) error {
	l.mu.Lock()
	query := l.query
	query.Tags = append([]string(nil), l.query.Tags...)
	query.Page = l.requested
	if mutate != nil && !mutate(&query) {
		l.mu.Unlock()
		return nil
	}
	l.seq++
	seq := l.seq
	shown := l.query.Page
	l.query = query
	l.query.Tags = append([]string(nil), query.Tags...)
	l.query.Page = shown
	l.requested = query.Page
	if searching {
		l.searching = true
	} else {
		l.loading = true
	}
	l.err = nil
	state, listeners := l.snapshotLocked(), l.listeners
	l.mu.Unlock()
	l.notify(state, listeners)

	page, err := l.backend.ListBlogs(ctx, query)

	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		l.log.Debug("discarding stale blog list response", slog.Uint64("seq", seq))
		return nil
	}
	l.loading = false
	l.searching = false
	if err != nil {
		l.err = err
	} else {
		l.page = page
		l.query.Page = query.Page
	}
	state, listeners = l.snapshotLocked(), l.listeners
	l.mu.Unlock()
	l.notify(state, listeners)

	return err
}

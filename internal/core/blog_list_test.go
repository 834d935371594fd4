package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const testDebounce = 50 * time.Millisecond

func newStartedList(t *testing.T) (*fixture, *BlogList) {
	t.Helper()
	f := newFixture(0, Options{SearchDebounce: testDebounce, TagDebounce: testDebounce})
	list := f.core.NewBlogList()
	t.Cleanup(list.Close)
	require.NoError(t, list.Start(context.Background()))
	return f, list
}

func TestBlogList_StartFetchesFirstPage(t *testing.T) {
	f, list := newStartedList(t)

	calls := f.backend.ListCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, filter.NewQuery(filter.DefaultPageSize), calls[0])

	state := list.State()
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
	assert.Equal(t, 3, state.Metadata().TotalPages)
}

func TestBlogList_PaginationScenario(t *testing.T) {
	f, list := newStartedList(t)
	require.NoError(t, list.SetSort(context.Background(), filter.SortPopularity))

	calls := f.backend.ListCalls()
	last := calls[len(calls)-1]
	assert.Equal(t, filter.SortPopularity, last.Sort)
	assert.Equal(t, 0, last.Page)

	pager := list.State().Pager()
	assert.True(t, pager.Visible)
	assert.Len(t, pager.Pages, 3)
	assert.False(t, pager.PreviousEnabled)
	assert.True(t, pager.NextEnabled)
}

func TestBlogList_FilterChangesResetPage(t *testing.T) {
	tests := []struct {
		name   string
		change func(ctx context.Context, l *BlogList) error
		check  func(t *testing.T, q filter.Query)
	}{
		{
			name:   "sort",
			change: func(ctx context.Context, l *BlogList) error { return l.SetSort(ctx, filter.SortTitle) },
			check:  func(t *testing.T, q filter.Query) { assert.Equal(t, filter.SortTitle, q.Sort) },
		},
		{
			name:   "toggle tag",
			change: func(ctx context.Context, l *BlogList) error { return l.ToggleTag(ctx, "go") },
			check:  func(t *testing.T, q filter.Query) { assert.Equal(t, []string{"go"}, q.Tags) },
		},
		{
			name:   "set tags",
			change: func(ctx context.Context, l *BlogList) error { return l.SetTags(ctx, "go", " web ") },
			check:  func(t *testing.T, q filter.Query) { assert.Equal(t, []string{"go", "web"}, q.Tags) },
		},
		{
			name:   "search flush",
			change: func(ctx context.Context, l *BlogList) error { l.TypeSearch("golang"); return l.FlushSearch(ctx) },
			check:  func(t *testing.T, q filter.Query) { assert.Equal(t, "golang", q.Search) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, list := newStartedList(t)
			ctx := context.Background()
			require.NoError(t, list.GoToPage(ctx, 2))
			require.Equal(t, 2, list.State().Query.Page)

			require.NoError(t, tt.change(ctx, list))

			calls := f.backend.ListCalls()
			require.Len(t, calls, 3, "exactly one fetch per change")
			assert.Equal(t, 0, calls[2].Page)
			tt.check(t, calls[2])
			assert.Equal(t, 0, list.State().Query.Page)
		})
	}
}

func TestBlogList_PageChangePreservesFilters(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	require.NoError(t, list.SetSort(ctx, filter.SortTitle))
	require.NoError(t, list.ToggleTag(ctx, "go"))
	list.TypeSearch("generics")
	require.NoError(t, list.FlushSearch(ctx))

	require.NoError(t, list.NextPage(ctx))

	calls := f.backend.ListCalls()
	last := calls[len(calls)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, filter.SortTitle, last.Sort)
	assert.Equal(t, []string{"go"}, last.Tags)
	assert.Equal(t, "generics", last.Search)
	assert.True(t, calls[len(calls)-2].SameFilters(last))
}

func TestBlogList_UnchangedFiltersDoNotFetch(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	require.NoError(t, list.SetSort(ctx, filter.SortDate))
	require.NoError(t, list.SetTags(ctx))
	require.NoError(t, list.ClearFilters(ctx))
	assert.Len(t, f.backend.ListCalls(), 1)
}

func TestBlogList_InvalidInput(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	err := list.SetSort(ctx, "views")
	var validationErr *validator.ValidationError
	require.True(t, errors.As(err, &validationErr))

	err = list.GoToPage(ctx, 3)
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "page is out of range", validationErr.Fields["page"])

	err = list.PreviousPage(ctx)
	require.Error(t, err)

	assert.Len(t, f.backend.ListCalls(), 1, "rejected input sends nothing")
}

func TestBlogList_DebouncedSearchFetchesOncePerBurst(t *testing.T) {
	f, list := newStartedList(t)

	var mu sync.Mutex
	var searching []bool
	list.OnChange(func(s BlogListState) {
		mu.Lock()
		defer mu.Unlock()
		searching = append(searching, s.Searching)
	})

	for _, text := range []string{"g", "go", "gol", "gola", "golan", "golang"} {
		list.TypeSearch(text)
		time.Sleep(testDebounce / 10)
	}

	require.Eventually(t, func() bool { return len(f.backend.ListCalls()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)

	calls := f.backend.ListCalls()
	require.Len(t, calls, 2, "one fetch for the whole burst")
	assert.Equal(t, "golang", calls[1].Search)
	assert.Equal(t, 0, calls[1].Page)

	require.Eventually(t, func() bool { return !list.State().Searching }, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, searching, "search refetch uses the lightweight indicator")
	assert.False(t, list.State().Loading)
}

func TestBlogList_SameSearchAfterDebounceDoesNotFetch(t *testing.T) {
	f, list := newStartedList(t)

	list.TypeSearch("go")
	require.Eventually(t, func() bool { return len(f.backend.ListCalls()) == 2 }, time.Second, 5*time.Millisecond)

	list.TypeSearch(" go ")
	time.Sleep(3 * testDebounce)
	assert.Len(t, f.backend.ListCalls(), 2)
}

func TestBlogList_StaleResponseIsDiscarded(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	slow := make(chan struct{})
	f.backend.mu.Lock()
	f.backend.listPage = func(q filter.Query) (*models.Page[models.BlogPost], error) {
		if q.Sort == filter.SortPopularity {
			<-slow
		}
		return &models.Page[models.BlogPost]{
			Content:    []models.BlogPost{{ID: 1, Title: q.Sort}},
			TotalPages: 1,
			Number:     q.Page,
		}, nil
	}
	f.backend.mu.Unlock()

	staleDone := make(chan error, 1)
	go func() { staleDone <- list.SetSort(ctx, filter.SortPopularity) }()

	require.Eventually(t, func() bool { return len(f.backend.ListCalls()) == 2 }, time.Second, time.Millisecond)
	require.NoError(t, list.SetSort(ctx, filter.SortTitle))
	assert.Equal(t, filter.SortTitle, list.State().Items()[0].Title)

	close(slow)
	require.NoError(t, <-staleDone)

	state := list.State()
	assert.Equal(t, filter.SortTitle, state.Query.Sort)
	require.Len(t, state.Items(), 1)
	assert.Equal(t, filter.SortTitle, state.Items()[0].Title, "older response does not overwrite newer results")
}

func TestBlogList_FetchErrorKeepsResults(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()
	before := list.State().Page

	f.backend.mu.Lock()
	f.backend.listPage = func(filter.Query) (*models.Page[models.BlogPost], error) {
		return nil, stubError("Failed to fetch blogs")
	}
	f.backend.mu.Unlock()

	err := list.SetSort(ctx, filter.SortTitle)
	require.Error(t, err)

	state := list.State()
	assert.Same(t, before, state.Page)
	assert.EqualError(t, state.Err, "Failed to fetch blogs")
	assert.False(t, state.Loading)

	f.backend.mu.Lock()
	f.backend.listPage = nil
	f.backend.mu.Unlock()
	require.NoError(t, list.Retry(ctx))
	assert.NoError(t, list.State().Err)
}

func TestBlogList_FailedPageChangeKeepsShownPage(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	failing := func(fail bool) {
		f.backend.mu.Lock()
		defer f.backend.mu.Unlock()
		f.backend.listPage = nil
		if fail {
			f.backend.listPage = func(filter.Query) (*models.Page[models.BlogPost], error) {
				return nil, stubError("Failed to fetch blogs")
			}
		}
	}

	failing(true)
	require.Error(t, list.GoToPage(ctx, 2))

	state := list.State()
	assert.Equal(t, 0, state.Query.Page)
	assert.Equal(t, 0, state.Page.Number)
	assert.Equal(t, 0, state.Pager().Current)
	assert.EqualError(t, state.Err, "Failed to fetch blogs")

	failing(false)
	require.NoError(t, list.NextPage(ctx))
	calls := f.backend.ListCalls()
	assert.Equal(t, 1, calls[len(calls)-1].Page, "next page counts from the page on screen")
	assert.Equal(t, 1, list.State().Query.Page)

	failing(true)
	require.Error(t, list.GoToPage(ctx, 2))
	assert.Equal(t, 1, list.State().Pager().Current)

	failing(false)
	require.NoError(t, list.Retry(ctx))
	calls = f.backend.ListCalls()
	assert.Equal(t, 2, calls[len(calls)-1].Page, "retry repeats the failed page")
	state = list.State()
	assert.Equal(t, 2, state.Query.Page)
	assert.Equal(t, 2, state.Pager().Current)
	assert.NoError(t, state.Err)
}

func TestBlogList_LoadingIndicators(t *testing.T) {
	type flags struct{ Loading, Searching bool }

	tests := []struct {
		name   string
		setup  func(ctx context.Context, l *BlogList) error
		change func(ctx context.Context, l *BlogList) error
		want   flags
	}{
		{
			name:   "page change",
			change: func(ctx context.Context, l *BlogList) error { return l.GoToPage(ctx, 2) },
			want:   flags{Loading: true},
		},
		{
			name:   "next page",
			change: func(ctx context.Context, l *BlogList) error { return l.NextPage(ctx) },
			want:   flags{Loading: true},
		},
		{
			name:   "sort",
			change: func(ctx context.Context, l *BlogList) error { return l.SetSort(ctx, filter.SortTitle) },
			want:   flags{Loading: true},
		},
		{
			name:   "toggle tag",
			change: func(ctx context.Context, l *BlogList) error { return l.ToggleTag(ctx, "go") },
			want:   flags{Loading: true},
		},
		{
			name:   "retry",
			change: func(ctx context.Context, l *BlogList) error { return l.Retry(ctx) },
			want:   flags{Loading: true},
		},
		{
			name:   "search",
			change: func(ctx context.Context, l *BlogList) error { l.TypeSearch("golang"); return l.FlushSearch(ctx) },
			want:   flags{Searching: true},
		},
		{
			name: "cleared search",
			setup: func(ctx context.Context, l *BlogList) error {
				l.TypeSearch("golang")
				return l.FlushSearch(ctx)
			},
			change: func(ctx context.Context, l *BlogList) error { l.TypeSearch("  "); return l.FlushSearch(ctx) },
			want:   flags{Loading: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, list := newStartedList(t)
			ctx := context.Background()
			if tt.setup != nil {
				require.NoError(t, tt.setup(ctx, list))
			}

			var mu sync.Mutex
			var seen []flags
			list.OnChange(func(s BlogListState) {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, flags{Loading: s.Loading, Searching: s.Searching})
			})

			require.NoError(t, tt.change(ctx, list))

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, []flags{tt.want, {}}, seen)
		})
	}
}

func TestBlogList_DebouncedClearUsesLoadingState(t *testing.T) {
	f, list := newStartedList(t)
	ctx := context.Background()

	list.TypeSearch("golang")
	require.NoError(t, list.FlushSearch(ctx))

	var mu sync.Mutex
	var states []BlogListState
	list.OnChange(func(s BlogListState) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})

	list.TypeSearch("")
	require.Eventually(t, func() bool { return len(f.backend.ListCalls()) == 3 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return !list.State().Loading }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	assert.True(t, states[0].Loading)
	assert.False(t, states[0].Searching)
	assert.Equal(t, "", f.backend.ListCalls()[2].Search)
}

func TestBlogList_CloseStopsPendingSearch(t *testing.T) {
	f, list := newStartedList(t)

	list.TypeSearch("go")
	list.Close()
	time.Sleep(3 * testDebounce)

	assert.Len(t, f.backend.ListCalls(), 1)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "server preview", Preview(models.BlogPost{ContentPreview: "server preview", Content: "full"}))
	long := make([]rune, 250)
	for i := range long {
		long[i] = 'x'
	}
	preview := Preview(models.BlogPost{Content: string(long)})
	assert.Equal(t, PreviewLength+3, len([]rune(preview)))
}

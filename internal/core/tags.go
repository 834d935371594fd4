package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/models"
)

// TagSuggester backs a tag input: it keeps the selected tags and, 300ms after the last
// keystroke, looks up matching tags that are not selected yet.
type TagSuggester struct {
	log      *slog.Logger
	backend  Backend
	debounce time.Duration

	mu          sync.Mutex
	ctx         context.Context
	input       string
	selected    []string
	suggestions []models.Tag
	timer       *time.Timer
	seq         uint64
	onChange    func(suggestions []models.Tag)
}

func (c *Core) NewTagSuggester(ctx context.Context, selected ...string) *TagSuggester {
	return &TagSuggester{
		log:      c.log,
		backend:  c.backend,
		debounce: c.options.TagDebounce,
		ctx:      ctx,
		selected: stringutils.NormalizeTags(selected),
	}
}

// OnSuggestions registers fn to receive every new suggestion list.
func (s *TagSuggester) OnSuggestions(fn func([]models.Tag)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *TagSuggester) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

func (s *TagSuggester) Suggestions() []models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Tag(nil), s.suggestions...)
}

// Type records the input text. Blank text clears the suggestions at once.
func (s *TagSuggester) Type(text string) {
	s.mu.Lock()
	s.input = text
	if s.timer != nil {
		s.timer.Stop()
	}
	if strings.TrimSpace(text) == "" {
		s.seq++
		s.suggestions = nil
		fn := s.onChange
		s.mu.Unlock()
		if fn != nil {
			fn(nil)
		}
		return
	}
	s.timer = time.AfterFunc(s.debounce, s.lookup)
	s.mu.Unlock()
}

func (s *TagSuggester) lookup() {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	input := s.input
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	tags, err := s.backend.SearchTags(ctx, input)
	if err != nil {
		s.log.Debug("tag search failed", slog.String("error", err.Error()))
		tags = nil
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.suggestions = functional.Filter(tags, func(t models.Tag) bool {
		return !functional.Contains(s.selected, t.Name)
	})
	suggestions, fn := append([]models.Tag(nil), s.suggestions...), s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(suggestions)
	}
}

// Add selects a tag and clears the input. Blank and already selected names are ignored.
func (s *TagSuggester) Add(name string) bool {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" || functional.Contains(s.selected, name) {
		return false
	}
	s.selected = append(s.selected, name)
	s.input = ""
	s.suggestions = nil
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	return true
}

func (s *TagSuggester) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.selected)
	s.selected = functional.Filter(s.selected, func(t string) bool { return t != name })
	return len(s.selected) != before
}

func (s *TagSuggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
}

// PopularTags returns the most used tags; failures yield an empty list.
func (c *Core) PopularTags(ctx context.Context) []models.Tag {
	tags, err := c.backend.PopularTags(ctx)
	if err != nil {
		c.log.Debug("popular tags unavailable", slog.String("error", err.Error()))
		return nil
	}
	return tags
}

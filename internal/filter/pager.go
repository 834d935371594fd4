package filter

import "fmt"

// Metadata is the pagination part of a list response.
type Metadata struct {
	CurrentPage   int
	TotalPages    int
	TotalElements int64
}

func (m Metadata) HasNext() bool {
	return m.CurrentPage < m.TotalPages-1
}

func (m Metadata) HasPrevious() bool {
	return m.CurrentPage > 0
}

func (m Metadata) Contains(page int) bool {
	return page >= 0 && page < m.TotalPages
}

// Pager is the view model of the pagination control.
type Pager struct {
	Visible         bool
	Pages           []int
	Current         int
	PreviousEnabled bool
	NextEnabled     bool
}

// NewPager hides the control when there is at most one page.
func NewPager(m Metadata) Pager {
	if m.TotalPages <= 1 {
		return Pager{Current: m.CurrentPage}
	}
	pages := make([]int, m.TotalPages)
	for i := range pages {
		pages[i] = i
	}
	return Pager{
		Visible:         true,
		Pages:           pages,
		Current:         m.CurrentPage,
		PreviousEnabled: m.HasPrevious(),
		NextEnabled:     m.HasNext(),
	}
}

func (p Pager) String() string {
	if !p.Visible {
		return ""
	}
	out := "[Previous]"
	if !p.PreviousEnabled {
		out = "(Previous)"
	}
	for _, page := range p.Pages {
		if page == p.Current {
			out += fmt.Sprintf(" [*%d*]", page+1)
		} else {
			out += fmt.Sprintf(" [%d]", page+1)
		}
	}
	if p.NextEnabled {
		out += " [Next]"
	} else {
		out += " (Next)"
	}
	return out
}

// Plural renders "1 blog" / "3 blogs".
func Plural(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

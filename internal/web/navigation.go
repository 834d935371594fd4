package web

import (
	"log/slog"
	"sync"
)

type View string

const (
	ViewHome       View = "home"
	ViewLogin      View = "login"
	ViewRegister   View = "register"
	ViewBlog       View = "blog"
	ViewCreateBlog View = "create-blog"
	ViewEditBlog   View = "edit-blog"
	ViewProfile    View = "profile"
)

// IsAuthView reports whether v is one of the views where a 401 must not trigger a redirect.
func (v View) IsAuthView() bool {
	return v == ViewLogin || v == ViewRegister
}

// Protected views require a session.
func (v View) Protected() bool {
	switch v {
	case ViewCreateBlog, ViewEditBlog, ViewProfile:
		return true
	default:
		return false
	}
}

type Navigator interface {
	CurrentView() View
	Navigate(to View)
}

// Router is an in-memory Navigator. OnNavigate is invoked after every view change.
type Router struct {
	mu         sync.Mutex
	current    View
	log        *slog.Logger
	OnNavigate func(from, to View)
}

func NewRouter(initial View, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{current: initial, log: log}
}

func (r *Router) CurrentView() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(to View) {
	r.mu.Lock()
	from := r.current
	r.current = to
	hook := r.OnNavigate
	r.mu.Unlock()

	r.log.Debug("navigate", slog.String("from", string(from)), slog.String("to", string(to)))
	if hook != nil {
		hook(from, to)
	}
}

// Show sets the current view without invoking OnNavigate, for views entered by the user directly.
func (r *Router) Show(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = v
}

// Package core holds the client-side controllers: the blog list query, the comment thread,
// tag suggestions and the validated blog and profile mutations.
package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/models"
)

// Backend is the subset of the API client the controllers call.
type Backend interface {
	ListBlogs(ctx context.Context, query filter.Query) (*models.Page[models.BlogPost], error)
	GetBlog(ctx context.Context, id int64) (*models.BlogPost, error)
	CreateBlog(ctx context.Context, input models.BlogInput) (*models.BlogPost, error)
	UpdateBlog(ctx context.Context, id int64, input models.BlogInput) (*models.BlogPost, error)
	DeleteBlog(ctx context.Context, id int64) error

	ListComments(ctx context.Context, blogID int64, p filter.PageRequest) (*models.Page[models.Comment], error)
	CreateComment(ctx context.Context, blogID int64, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error

	SearchTags(ctx context.Context, name string) ([]models.Tag, error)
	PopularTags(ctx context.Context) ([]models.Tag, error)

	CurrentProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.UserProfile, error)
}

// Session is the read-only view of the signed in user.
type Session interface {
	IsAuthenticated() bool
	UserID() int64
	CanModify(authorID int64) bool
}

// Notifier shows transient success and error messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type Options struct {
	PageSize        int
	CommentPageSize int
	SearchDebounce  time.Duration
	TagDebounce     time.Duration
}

const (
	DefaultSearchDebounce = 500 * time.Millisecond
	DefaultTagDebounce    = 300 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = filter.DefaultPageSize
	}
	if o.CommentPageSize <= 0 {
		o.CommentPageSize = filter.DefaultPageSize
	}
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = DefaultSearchDebounce
	}
	if o.TagDebounce <= 0 {
		o.TagDebounce = DefaultTagDebounce
	}
	return o
}

type Core struct {
	log       *slog.Logger
	backend   Backend
	session   Session
	notifier  Notifier
	confirmer Confirmer
	options   Options
}

func NewCore(backend Backend, session Session, notifier Notifier, confirmer Confirmer, log *slog.Logger, options Options) *Core {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if confirmer == nil {
		confirmer = denyConfirmer{}
	}
	return &Core{
		log:       log,
		backend:   backend,
		session:   session,
		notifier:  notifier,
		confirmer: confirmer,
		options:   options.withDefaults(),
	}
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}

// denyConfirmer answers no, so destructive actions never run without a real prompt.
type denyConfirmer struct{}

func (denyConfirmer) Confirm(context.Context, string) bool { return false }

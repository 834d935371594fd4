package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/internal/utils/functional"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const ConfirmDeleteComment = "Are you sure you want to delete this comment?"

type CommentThreadState struct {
	BlogID        int64
	Comments      []models.Comment
	Page          int
	TotalPages    int
	TotalElements int64
	Loading       bool
	Err           error
}

func (s CommentThreadState) Pager() filter.Pager {
	return filter.NewPager(filter.Metadata{
		CurrentPage:   s.Page,
		TotalPages:    s.TotalPages,
		TotalElements: s.TotalElements,
	})
}

// CommentThread is the comment section of one blog post. Local changes are applied only after
// the backend confirmed them.
type CommentThread struct {
	core   *Core
	blogID int64

	mu         sync.Mutex
	comments   []models.Comment
	page       int
	totalPages int
	total      int64
	loading    bool
	err        error
	seq        uint64
}

func (c *Core) NewCommentThread(blogID int64) *CommentThread {
	return &CommentThread{core: c, blogID: blogID}
}

func (t *CommentThread) State() CommentThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CommentThreadState{
		BlogID:        t.blogID,
		Comments:      append([]models.Comment(nil), t.comments...),
		Page:          t.page,
		TotalPages:    t.totalPages,
		TotalElements: t.total,
		Loading:       t.loading,
		Err:           t.err,
	}
}

// CanModify reports whether the signed in user wrote comment.
func (t *CommentThread) CanModify(comment models.Comment) bool {
	return t.core.session.CanModify(comment.AuthorID)
}

func (t *CommentThread) Load(ctx context.Context, page int) error {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.loading = true
	t.mu.Unlock()

	result, err := t.core.backend.ListComments(ctx, t.blogID, filter.NewPageRequest(page, t.core.options.CommentPageSize))

	t.mu.Lock()
	if seq != t.seq {
		t.mu.Unlock()
		return nil
	}
	t.loading = false
	t.err = err
	if err == nil {
		t.comments = append([]models.Comment(nil), result.Content...)
		t.page = result.Number
		t.totalPages = result.TotalPages
		t.total = result.TotalElements
	}
	t.mu.Unlock()

	if err != nil {
		t.core.notifier.Error(errorMessage(err, "Failed to load comments"))
		return err
	}
	return nil
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	v := validator.New()
	v.CheckNotBlank(content, "content", "Comment cannot be empty")
	return content, v.Err()
}

// Create posts a comment. It needs a session and non-blank content; on success the comment is
// put first and the total grows by one.
func (t *CommentThread) Create(ctx context.Context, content string) (*models.Comment, error) {
	if !t.core.session.IsAuthenticated() {
		t.core.notifier.Error("Please login to comment")
		return nil, ErrNotAuthenticated
	}
	content, err := validateComment(content)
	if err != nil {
		t.core.notifier.Error(err.Error())
		return nil, err
	}

	comment, err := t.core.backend.CreateComment(ctx, t.blogID, content)
	if err != nil {
		t.core.notifier.Error(errorMessage(err, "Failed to add comment"))
		return nil, err
	}

	t.mu.Lock()
	t.comments = append([]models.Comment{*comment}, t.comments...)
	t.total++
	t.mu.Unlock()

	t.core.log.Debug("comment created", slog.Int64("blog_id", t.blogID), slog.Int64("comment_id", comment.ID))
	t.core.notifier.Success("Comment added successfully")
	return comment, nil
}

// owner returns the author of a loaded comment.
func (t *CommentThread) owner(commentID int64) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := functional.IndexOf(t.comments, func(c models.Comment) bool { return c.ID == commentID }); i >= 0 {
		return t.comments[i].AuthorID, true
	}
	return 0, false
}

// checkOwner enforces ownership for loaded comments. Comments outside the loaded page are left
// to the backend to authorise.
func (t *CommentThread) checkOwner(action string, commentID int64) error {
	if !t.core.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	ownerID, loaded := t.owner(commentID)
	if !loaded {
		return nil
	}
	if !t.core.session.CanModify(ownerID) {
		return &AuthorizationError{
			Action:   action,
			Resource: "comment",
			UserID:   t.core.session.UserID(),
			OwnerID:  ownerID,
		}
	}
	return nil
}

func (t *CommentThread) Update(ctx context.Context, commentID int64, content string) (*models.Comment, error) {
	if err := t.checkOwner("edit", commentID); err != nil {
		t.core.notifier.Error(err.Error())
		return nil, err
	}
	content, err := validateComment(content)
	if err != nil {
		t.core.notifier.Error(err.Error())
		return nil, err
	}

	updated, err := t.core.backend.UpdateComment(ctx, commentID, content)
	if err != nil {
		t.core.notifier.Error(errorMessage(err, "Failed to update comment"))
		return nil, err
	}

	t.mu.Lock()
	t.comments = functional.Map(t.comments, func(c models.Comment) models.Comment {
		if c.ID == updated.ID {
			return *updated
		}
		return c
	})
	t.mu.Unlock()

	t.core.notifier.Success("Comment updated successfully")
	return updated, nil
}

// Delete removes a comment after confirmation. The total shrinks only when a loaded entry was
// removed.
func (t *CommentThread) Delete(ctx context.Context, commentID int64) error {
	if err := t.checkOwner("delete", commentID); err != nil {
		t.core.notifier.Error(err.Error())
		return err
	}
	if !t.core.confirmer.Confirm(ctx, ConfirmDeleteComment) {
		return ErrCancelled
	}

	if err := t.core.backend.DeleteComment(ctx, commentID); err != nil {
		t.core.notifier.Error(errorMessage(err, "Failed to delete comment"))
		return err
	}

	t.mu.Lock()
	before := len(t.comments)
	t.comments = functional.Filter(t.comments, func(c models.Comment) bool { return c.ID != commentID })
	if removed := before - len(t.comments); removed > 0 {
		t.total -= int64(removed)
	}
	t.mu.Unlock()

	t.core.notifier.Success("Comment deleted successfully")
	return nil
}

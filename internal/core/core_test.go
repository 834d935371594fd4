package core

import (
	"context"
	"sync"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/models"
)

// stubBackend records calls. ListBlogs blocks on gate when one is set.
type stubBackend struct {
	mu sync.Mutex

	listCalls []filter.Query
	listPage  func(q filter.Query) (*models.Page[models.BlogPost], error)
	gate      chan struct{}

	blogs map[int64]models.BlogPost

	comments       []models.Comment
	commentErr     error
	createCalls    int
	updateCalls    int
	deleteCalls    []int64
	nextCommentID  int64
	commentAuthor  int64
	tagSearchCalls []string
	tags           []models.Tag
	deletedBlogs   []int64
}

func newStubBackend() *stubBackend {
	return &stubBackend{blogs: map[int64]models.BlogPost{}, nextCommentID: 100}
}

func (b *stubBackend) ListBlogs(ctx context.Context, q filter.Query) (*models.Page[models.BlogPost], error) {
	b.mu.Lock()
	b.listCalls = append(b.listCalls, q)
	gate, page := b.gate, b.listPage
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if page != nil {
		return page(q)
	}
	return &models.Page[models.BlogPost]{Number: q.Page, Size: q.Size, TotalPages: 3, TotalElements: 25}, nil
}

func (b *stubBackend) ListCalls() []filter.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]filter.Query(nil), b.listCalls...)
}

func (b *stubBackend) GetBlog(_ context.Context, id int64) (*models.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	post, ok := b.blogs[id]
	if !ok {
		return nil, errNotFound
	}
	return &post, nil
}

func (b *stubBackend) CreateBlog(_ context.Context, input models.BlogInput) (*models.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	post := models.BlogPost{ID: int64(len(b.blogs) + 1), Title: input.Title, Content: input.Content, Tags: input.Tags}
	b.blogs[post.ID] = post
	return &post, nil
}

func (b *stubBackend) UpdateBlog(_ context.Context, id int64, input models.BlogInput) (*models.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	post := b.blogs[id]
	post.Title, post.Content, post.Tags = input.Title, input.Content, input.Tags
	b.blogs[id] = post
	return &post, nil
}

func (b *stubBackend) DeleteBlog(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletedBlogs = append(b.deletedBlogs, id)
	delete(b.blogs, id)
	return nil
}

func (b *stubBackend) ListComments(_ context.Context, blogID int64, p filter.PageRequest) (*models.Page[models.Comment], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.commentErr != nil {
		return nil, b.commentErr
	}
	return &models.Page[models.Comment]{
		Content:       append([]models.Comment(nil), b.comments...),
		Number:        p.Page,
		Size:          p.Size,
		TotalPages:    1,
		TotalElements: int64(len(b.comments)),
	}, nil
}

func (b *stubBackend) CreateComment(_ context.Context, blogID int64, content string) (*models.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.commentErr != nil {
		return nil, b.commentErr
	}
	b.nextCommentID++
	return &models.Comment{ID: b.nextCommentID, BlogID: blogID, AuthorID: b.commentAuthor, Content: content}, nil
}

func (b *stubBackend) UpdateComment(_ context.Context, commentID int64, content string) (*models.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateCalls++
	if b.commentErr != nil {
		return nil, b.commentErr
	}
	return &models.Comment{ID: commentID, AuthorID: b.commentAuthor, Content: content, IsEdited: true}, nil
}

func (b *stubBackend) DeleteComment(_ context.Context, commentID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls = append(b.deleteCalls, commentID)
	return b.commentErr
}

func (b *stubBackend) SearchTags(_ context.Context, name string) ([]models.Tag, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tagSearchCalls = append(b.tagSearchCalls, name)
	return append([]models.Tag(nil), b.tags...), nil
}

func (b *stubBackend) PopularTags(context.Context) ([]models.Tag, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Tag(nil), b.tags...), nil
}

func (b *stubBackend) CurrentProfile(context.Context) (*models.UserProfile, error) {
	return &models.UserProfile{ID: 1, FirstName: "A", LastName: "B"}, nil
}

func (b *stubBackend) UpdateProfile(_ context.Context, input models.ProfileInput) (*models.UserProfile, error) {
	return &models.UserProfile{ID: 1, FirstName: input.FirstName, LastName: input.LastName, Bio: input.Bio}, nil
}

type stubSession struct {
	userID int64
}

func (s stubSession) IsAuthenticated() bool { return s.userID != 0 }
func (s stubSession) UserID() int64 { return s.userID }
func (s stubSession) CanModify(authorID int64) bool { return s.userID != 0 && s.userID == authorID }

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

type fixedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fixedConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errNotFound = stubError("Blog not found")

type fixture struct {
	backend   *stubBackend
	notifier  *recordingNotifier
	confirmer *fixedConfirmer
	core      *Core
}

func newFixture(userID int64, opts Options) *fixture {
	f := &fixture{
		backend:   newStubBackend(),
		notifier:  &recordingNotifier{},
		confirmer: &fixedConfirmer{answer: true},
	}
	f.core = NewCore(f.backend, stubSession{userID: userID}, f.notifier, f.confirmer, nil, opts)
	return f
}

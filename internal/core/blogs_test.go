package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

func TestValidateBlogInput(t *testing.T) {
	tests := []struct {
		name   string
		input  models.BlogInput
		fields map[string]string
	}{
		{
			name:  "valid",
			input: models.BlogInput{Title: "Go!", Content: "0123456789"},
		},
		{
			name:   "short title",
			input:  models.BlogInput{Title: "  Go  ", Content: "0123456789"},
			fields: map[string]string{"title": "Title must be at least 3 characters long"},
		},
		{
			name:   "blank fields",
			input:  models.BlogInput{Title: " ", Content: ""},
			fields: map[string]string{"title": "Title is required", "content": "Content is required"},
		},
		{
			name:   "short content",
			input:  models.BlogInput{Title: "Hello", Content: "too short"},
			fields: map[string]string{"content": "Content must be at least 10 characters long"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateBlogInput(&tt.input)
			if tt.fields == nil {
				assert.True(t, v.IsValid())
				return
			}
			assert.Equal(t, tt.fields, v.Errors)
		})
	}
}

func TestCore_CreateBlog(t *testing.T) {
	f := newFixture(me, Options{})

	post, err := f.core.CreateBlog(context.Background(), models.BlogInput{
		Title: "  Hello world ", Content: "Some content here", Tags: []string{"go", " go ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", post.Title)
	assert.Equal(t, []string{"go"}, post.Tags)
	assert.Equal(t, []string{"Blog post created successfully!"}, f.notifier.successes)
}

func TestCore_CreateBlogRejectedLocally(t *testing.T) {
	f := newFixture(0, Options{})
	_, err := f.core.CreateBlog(context.Background(), models.BlogInput{Title: "Hello", Content: "Some content"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	f = newFixture(me, Options{})
	_, err = f.core.CreateBlog(context.Background(), models.BlogInput{Title: "Hi", Content: "Some content"})
	var validationErr *validator.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Empty(t, f.backend.blogs)
}

func TestCore_EditAndDeleteOwnership(t *testing.T) {
	f := newFixture(me, Options{})
	f.backend.blogs[1] = models.BlogPost{ID: 1, Title: "Mine", Author: models.Author{ID: me}}
	f.backend.blogs[2] = models.BlogPost{ID: 2, Title: "Theirs", Author: models.Author{ID: other}}
	ctx := context.Background()

	post, err := f.core.GetBlogForEdit(ctx, 1)
	require.NoError(t, err)
	updated, err := f.core.UpdateBlog(ctx, post, models.BlogInput{Title: "Mine, edited", Content: "Now with content"})
	require.NoError(t, err)
	assert.Equal(t, "Mine, edited", updated.Title)

	_, err = f.core.GetBlogForEdit(ctx, 2)
	var authErr *AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "You are not authorized to edit this blog post", err.Error())
	assert.Equal(t, int64(other), authErr.OwnerID)

	theirs := f.backend.blogs[2]
	err = f.core.DeleteBlog(ctx, &theirs)
	require.True(t, errors.As(err, &authErr))
	assert.Empty(t, f.backend.deletedBlogs)
	assert.Empty(t, f.confirmer.prompts, "no prompt for a post the user does not own")
}

func TestCore_DeleteBlogConfirmation(t *testing.T) {
	f := newFixture(me, Options{})
	post := models.BlogPost{ID: 1, Title: "Mine", Author: models.Author{ID: me}}
	f.backend.blogs[1] = post
	ctx := context.Background()

	f.confirmer.answer = false
	assert.ErrorIs(t, f.core.DeleteBlog(ctx, &post), ErrCancelled)
	assert.Empty(t, f.backend.deletedBlogs)
	assert.Equal(t, []string{`Are you sure you want to delete "Mine"? This action cannot be undone.`}, f.confirmer.prompts)

	f.confirmer.answer = true
	require.NoError(t, f.core.DeleteBlog(ctx, &post))
	assert.Equal(t, []int64{1}, f.backend.deletedBlogs)
}

func TestCore_DefaultConfirmerDenies(t *testing.T) {
	backend := newStubBackend()
	c := NewCore(backend, stubSession{userID: me}, nil, nil, nil, Options{})
	post := models.BlogPost{ID: 1, Author: models.Author{ID: me}}

	assert.ErrorIs(t, c.DeleteBlog(context.Background(), &post), ErrCancelled)
	assert.Empty(t, backend.deletedBlogs)
}

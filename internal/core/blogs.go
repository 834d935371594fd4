package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siahsang/blogclient/internal/utils/stringutils"
	"github.com/siahsang/blogclient/internal/validator"
	"github.com/siahsang/blogclient/models"
)

const (
	MinTitleLength   = 3
	MinContentLength = 10
	PreviewLength    = 200
)

// ValidateBlogInput trims the fields in place and checks the local length rules.
func ValidateBlogInput(input *models.BlogInput) *validator.Validator {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Tags = stringutils.NormalizeTags(input.Tags)

	v := validator.New()
	v.CheckNotBlank(input.Title, "title", "Title is required")
	v.CheckMinLength(input.Title, MinTitleLength, "title", "Title must be at least 3 characters long")
	v.CheckNotBlank(input.Content, "content", "Content is required")
	v.CheckMinLength(input.Content, MinContentLength, "content", "Content must be at least 10 characters long")
	return v
}

// Preview is the list excerpt of a post: the server preview when present, otherwise the first
// 200 characters of the content.
func Preview(post models.BlogPost) string {
	if post.ContentPreview != "" {
		return post.ContentPreview
	}
	return stringutils.Truncate(post.Content, PreviewLength)
}

func (c *Core) CreateBlog(ctx context.Context, input models.BlogInput) (*models.BlogPost, error) {
	if !c.session.IsAuthenticated() {
		c.notifier.Error("Please login to create a blog post")
		return nil, ErrNotAuthenticated
	}
	if v := ValidateBlogInput(&input); !v.IsValid() {
		return nil, v.Err()
	}

	post, err := c.backend.CreateBlog(ctx, input)
	if err != nil {
		c.notifier.Error(errorMessage(err, "Failed to create blog post"))
		return nil, err
	}

	c.log.Info("blog created", slog.Int64("blog_id", post.ID))
	c.notifier.Success("Blog post created successfully!")
	return post, nil
}

// GetBlogForEdit loads a post and refuses it when the signed in user is not the author.
func (c *Core) GetBlogForEdit(ctx context.Context, id int64) (*models.BlogPost, error) {
	post, err := c.backend.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.checkOwner("edit", "blog post", post.Author.ID); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *Core) UpdateBlog(ctx context.Context, post *models.BlogPost, input models.BlogInput) (*models.BlogPost, error) {
	if err := c.checkOwner("edit", "blog post", post.Author.ID); err != nil {
		return nil, err
	}
	if v := ValidateBlogInput(&input); !v.IsValid() {
		return nil, v.Err()
	}

	updated, err := c.backend.UpdateBlog(ctx, post.ID, input)
	if err != nil {
		c.notifier.Error(errorMessage(err, "Failed to update blog post"))
		return nil, err
	}

	c.log.Info("blog updated", slog.Int64("blog_id", updated.ID))
	c.notifier.Success("Blog post updated successfully!")
	return updated, nil
}

// DeleteBlog asks for confirmation first; a refusal returns ErrCancelled without a request.
func (c *Core) DeleteBlog(ctx context.Context, post *models.BlogPost) error {
	if err := c.checkOwner("delete", "blog post", post.Author.ID); err != nil {
		return err
	}

	prompt := fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", post.Title)
	if !c.confirmer.Confirm(ctx, prompt) {
		return ErrCancelled
	}

	if err := c.backend.DeleteBlog(ctx, post.ID); err != nil {
		c.notifier.Error(errorMessage(err, "Failed to delete blog post"))
		return err
	}

	c.log.Info("blog deleted", slog.Int64("blog_id", post.ID))
	c.notifier.Success("Blog post deleted successfully!")
	return nil
}

func (c *Core) checkOwner(action, resource string, ownerID int64) error {
	if !c.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !c.session.CanModify(ownerID) {
		return &AuthorizationError{
			Action:   action,
			Resource: resource,
			UserID:   c.session.UserID(),
			OwnerID:  ownerID,
		}
	}
	return nil
}

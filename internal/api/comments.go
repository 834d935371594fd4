package api

import (
	"context"
	"fmt"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/models"
)

func (c *Client) ListComments(ctx context.Context, blogID int64, p filter.PageRequest) (*models.Page[models.Comment], error) {
	var page models.Page[models.Comment]
	if err := c.get(ctx, opListComments, fmt.Sprintf("/blogs/%d/comments", blogID), p.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateComment(ctx context.Context, blogID int64, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := c.post(ctx, opCreateComment, fmt.Sprintf("/blogs/%d/comments", blogID), models.CommentInput{Content: content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID int64, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := c.put(ctx, opUpdateComment, fmt.Sprintf("/comments/%d", commentID), models.CommentInput{Content: content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.delete(ctx, opDeleteComment, fmt.Sprintf("/comments/%d", commentID))
}

func (c *Client) UserComments(ctx context.Context, userID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.get(ctx, opUserComments, fmt.Sprintf("/users/%d/comments", userID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

package api

import (
	"context"
	"fmt"

	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/models"
)

// ListBlogs returns one page of blog summaries. Blank search and empty tag sets are omitted.
func (c *Client) ListBlogs(ctx context.Context, query filter.Query) (*models.Page[models.BlogPost], error) {
	var page models.Page[models.BlogPost]
	if err := c.get(ctx, opListBlogs, "/blogs", query.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) MyBlogs(ctx context.Context, p filter.PageRequest) (*models.Page[models.BlogPost], error) {
	var page models.Page[models.BlogPost]
	if err := c.get(ctx, opMyBlogs, "/blogs/my-blogs", p.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetBlog(ctx context.Context, id int64) (*models.BlogPost, error) {
	var blog models.BlogPost
	if err := c.get(ctx, opGetBlog, fmt.Sprintf("/blogs/%d", id), nil, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) CreateBlog(ctx context.Context, input models.BlogInput) (*models.BlogPost, error) {
	var blog models.BlogPost
	if err := c.post(ctx, opCreateBlog, "/blogs", input, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id int64, input models.BlogInput) (*models.BlogPost, error) {
	var blog models.BlogPost
	if err := c.put(ctx, opUpdateBlog, fmt.Sprintf("/blogs/%d", id), input, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id int64) error {
	return c.delete(ctx, opDeleteBlog, fmt.Sprintf("/blogs/%d", id))
}

func (c *Client) IsAuthor(ctx context.Context, id int64) (bool, error) {
	var isAuthor bool
	if err := c.get(ctx, opIsAuthor, fmt.Sprintf("/blogs/%d/is-author", id), nil, &isAuthor); err != nil {
		return false, err
	}
	return isAuthor, nil
}

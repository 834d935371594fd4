package api

import (
	"context"
	"net/url"

	"github.com/siahsang/blogclient/models"
)

func (c *Client) AllTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.get(ctx, opAllTags, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) PopularTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.get(ctx, opPopularTags, "/tags/popular", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) SearchTags(ctx context.Context, name string) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.get(ctx, opSearchTags, "/tags/search", url.Values{"name": {name}}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) CreateTag(ctx context.Context, input models.TagInput) (*models.Tag, error) {
	var tag models.Tag
	if err := c.post(ctx, opCreateTag, "/tags", input, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

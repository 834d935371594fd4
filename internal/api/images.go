package api

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/siahsang/blogclient/models"
)

func (c *Client) UploadImage(ctx context.Context, blogID int64, filename string, content io.Reader) (*models.ImageRef, error) {
	var ref models.ImageRef
	if err := c.doMultipart(ctx, opUploadImage, fmt.Sprintf("/blogs/%d/images", blogID), "file", filename, content, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *Client) DeleteImage(ctx context.Context, imageID int64) error {
	return c.delete(ctx, opDeleteImage, fmt.Sprintf("/images/%d", imageID))
}

// ImageURL is the public address of a stored image file.
func (c *Client) ImageURL(filename string) string {
	return c.baseURL + "/images/" + url.PathEscape(filename)
}

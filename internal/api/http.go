package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-ID"
	headerAccept        = "Accept"
	contentTypeJSON     = "application/json"

	maxResponseBytes = 10 << 20
)

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends body (if any) as JSON and decodes the response into result (if any).
func (c *Client) doJSON(ctx context.Context, op operation, method, path string, query url.Values, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return networkError(op, xerrors.Newf("failed to marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), bodyReader)
	if err != nil {
		return networkError(op, xerrors.Newf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	return c.send(ctx, op, req, result)
}

// doMultipart uploads content as a single multipart file field.
func (c *Client) doMultipart(ctx context.Context, op operation, path, field, filename string, content io.Reader, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return networkError(op, xerrors.Newf("failed to create form file: %w", err))
	}
	if _, err := io.Copy(part, content); err != nil {
		return networkError(op, xerrors.Newf("failed to read upload: %w", err))
	}
	if err := writer.Close(); err != nil {
		return networkError(op, xerrors.Newf("failed to finish multipart body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return networkError(op, xerrors.Newf("failed to create request: %w", err))
	}
	req.Header.Set(headerContentType, writer.FormDataContentType())

	return c.send(ctx, op, req, result)
}

func (c *Client) send(ctx context.Context, op operation, req *http.Request, result any) error {
	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(headerAccept, contentTypeJSON)

	if !op.anonymous && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.Warn("could not read credential, sending request anonymously",
				slog.String("op", op.name),
				slog.String("error", err.Error()))
		} else if token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(op.name, "network_error", time.Since(start))
		c.log.Debug("request failed",
			slog.String("op", op.name),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return networkError(op, xerrors.New(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	duration := time.Since(start)
	c.metrics.observe(op.name, strconv.Itoa(resp.StatusCode), duration)
	c.log.Debug("request",
		slog.String("op", op.name),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.String("request_id", requestID))

	if err != nil {
		return networkError(op, xerrors.Newf("failed to read response body: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if h := c.onUnauthorized.Load(); h != nil {
			(*h)(op.name)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(op, resp.StatusCode, respBody, requestID)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return networkError(op, xerrors.Newf("failed to parse response: %w", err))
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, op operation, path string, query url.Values, result any) error {
	return c.doJSON(ctx, op, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, op operation, path string, body any, result any) error {
	return c.doJSON(ctx, op, http.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, op operation, path string, body any, result any) error {
	return c.doJSON(ctx, op, http.MethodPut, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, op operation, path string) error {
	return c.doJSON(ctx, op, http.MethodDelete, path, nil, nil, nil)
}

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/blogclient/internal/fakeapi/fakeapitest"
	"github.com/siahsang/blogclient/internal/filter"
	"github.com/siahsang/blogclient/models"
)

func staticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

type recordedRequest struct {
	method string
	path   string
	header http.Header
}

func recordingServer(t *testing.T, status int, body string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone()})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestClient_Headers(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK, `{"content":[],"totalPages":0,"totalElements":0,"number":0,"size":10}`)
	client := NewClient(staticToken("tok-1"), WithBaseURL(srv.URL+"/api/"), WithUserAgent("blogctl-test"))

	_, err := client.ListBlogs(context.Background(), filter.NewQuery(10))
	require.NoError(t, err)
	_, _ = client.Login(context.Background(), "jane@example.com", "secret")

	got := requests()
	require.Len(t, got, 2)

	assert.Equal(t, "/api/blogs", got[0].path)
	assert.Equal(t, "Bearer tok-1", got[0].header.Get("Authorization"))
	assert.Equal(t, "blogctl-test", got[0].header.Get("User-Agent"))
	assert.NotEmpty(t, got[0].header.Get("X-Request-ID"))

	assert.Equal(t, "/api/auth/login", got[1].path)
	assert.Empty(t, got[1].header.Get("Authorization"), "login never carries the token")
	assert.Equal(t, "application/json", got[1].header.Get("Content-Type"))
	assert.NotEqual(t, got[0].header.Get("X-Request-ID"), got[1].header.Get("X-Request-ID"))
}

func TestClient_NoTokenWhenAnonymous(t *testing.T) {
	srv, requests := recordingServer(t, http.StatusOK, `[]`)
	client := NewClient(staticToken(""), WithBaseURL(srv.URL))

	_, err := client.AllTags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, requests()[0].header.Get("Authorization"))
}

func TestClient_UnauthorizedHookFiresOncePerResponse(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusUnauthorized, `{"errorMessage":"Invalid or expired authentication token"}`)

	var ops []string
	client := NewClient(staticToken("expired"), WithBaseURL(srv.URL), WithUnauthorizedHandler(func(op string) {
		ops = append(ops, op)
	}))

	_, err := client.CurrentProfile(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid or expired authentication token", err.Error())
	assert.Equal(t, []string{"get_profile"}, ops)

	err = client.DeleteBlog(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, []string{"get_profile", "delete_blog"}, ops)

	client.SetUnauthorizedHandler(nil)
	_, _ = client.CurrentProfile(context.Background())
	assert.Len(t, ops, 2)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{name: "message field", status: 400, body: `{"message":"Title is required"}`, expected: "Title is required"},
		{name: "errorMessage field", status: 400, body: `{"errorMessage":"Email is already in use"}`, expected: "Email is already in use"},
		{name: "nested error", status: 403, body: `{"error":{"message":"Forbidden"}}`, expected: "Forbidden"},
		{name: "plain text", status: 409, body: `Tag already exists`, expected: "Tag already exists"},
		{name: "empty body", status: 500, body: ``, expected: "Failed to create blog"},
		{name: "html error page", status: 502, body: `<html><body>Bad Gateway</body></html>`, expected: "Failed to create blog"},
		{name: "json without message", status: 500, body: `{"status":500}`, expected: "Failed to create blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := recordingServer(t, tt.status, tt.body)
			client := NewClient(nil, WithBaseURL(srv.URL))

			_, err := client.CreateBlog(context.Background(), models.BlogInput{Title: "Hello", Content: "Hello world"})
			require.Error(t, err)

			reqErr, ok := AsRequestError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, "create_blog", reqErr.Op)
			assert.Equal(t, tt.expected, err.Error())
			assert.NotEmpty(t, reqErr.RequestID)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	var fired atomic.Bool
	client := NewClient(nil, WithBaseURL(srv.URL), WithTimeout(time.Second), WithUnauthorizedHandler(func(string) { fired.Store(true) }))

	_, err := client.ListComments(context.Background(), 1, filter.NewPageRequest(0, 10))
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Failed to fetch comments", err.Error())
	assert.Equal(t, "list_comments", netErr.Op)
	assert.NotNil(t, errors.Unwrap(netErr))
	assert.False(t, fired.Load())
	_, isReqErr := AsRequestError(err)
	assert.False(t, isReqErr)
}

func TestClient_Metrics(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, `[]`)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := NewClient(nil, WithBaseURL(srv.URL), WithMetrics(metrics))

	for i := 0; i < 3; i++ {
		_, err := client.PopularTags(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.Requests("popular_tags", "200")))
	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClient_AgainstFakeAPI(t *testing.T) {
	server, baseURL := fakeapitest.Start(t)
	ctx := context.Background()

	anon := NewClient(nil, WithBaseURL(baseURL))
	auth, err := anon.Register(ctx, models.RegisterRequest{
		Email: "jane@example.com", Password: "secret1", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	client := NewClient(staticToken(auth.Token), WithBaseURL(baseURL))

	post, err := client.CreateBlog(ctx, models.BlogInput{Title: "Go generics", Content: "Type parameters in practice", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, auth.ID, post.Author.ID)

	server.AddBlog(auth.ID, "Rust ownership", "Borrowing explained", "rust")

	t.Run("list filters", func(t *testing.T) {
		q := filter.NewQuery(10)
		q.Search = "generics"
		page, err := client.ListBlogs(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, post.ID, page.Content[0].ID)
		assert.Empty(t, page.Content[0].Content)
		assert.NotEmpty(t, page.Content[0].ContentPreview)

		q = filter.NewQuery(10)
		q.Tags = []string{"rust"}
		page, err = client.ListBlogs(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Rust ownership", page.Content[0].Title)
	})

	t.Run("ownership", func(t *testing.T) {
		isAuthor, err := client.IsAuthor(ctx, post.ID)
		require.NoError(t, err)
		assert.True(t, isAuthor)

		mine, err := client.MyBlogs(ctx, filter.NewPageRequest(0, 10))
		require.NoError(t, err)
		assert.EqualValues(t, 2, mine.TotalElements)
	})

	t.Run("comments", func(t *testing.T) {
		comment, err := client.CreateComment(ctx, post.ID, "First!")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", comment.AuthorName)

		updated, err := client.UpdateComment(ctx, comment.ID, "First, edited")
		require.NoError(t, err)
		assert.True(t, updated.IsEdited)

		require.NoError(t, client.DeleteComment(ctx, comment.ID))
		page, err := client.ListComments(ctx, post.ID, filter.NewPageRequest(0, 10))
		require.NoError(t, err)
		assert.Empty(t, page.Content)
	})

	t.Run("image upload", func(t *testing.T) {
		png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
		ref, err := client.UploadImage(ctx, post.ID, "diagram.png", bytes.NewReader(png))
		require.NoError(t, err)
		assert.Equal(t, "image/png", ref.ContentType)
		assert.Equal(t, "diagram.png", ref.OriginalName)
		assert.Equal(t, baseURL+"/images/"+ref.FileName, client.ImageURL(ref.FileName))

		resp, err := http.Get(client.ImageURL(ref.FileName))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, client.DeleteImage(ctx, ref.ID))
	})

	t.Run("forbidden", func(t *testing.T) {
		other, err := server.AddUser("bob@example.com", "secret1", "Bob", "Smith")
		require.NoError(t, err)
		bob := NewClient(staticToken(other.Token), WithBaseURL(baseURL))

		err = bob.DeleteBlog(ctx, post.ID)
		require.Error(t, err)
		reqErr, ok := AsRequestError(err)
		require.True(t, ok)
		assert.True(t, reqErr.IsForbidden())
		assert.Equal(t, "You can only delete your own blogs", err.Error())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetBlog(ctx, 9999)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "Blog not found", err.Error())
	})
}

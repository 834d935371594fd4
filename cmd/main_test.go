package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/blogclient/internal/fakeapi/fakeapitest"
	"github.com/siahsang/blogclient/models"
)

type cli struct {
	t       *testing.T
	baseURL string
	session string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, baseURL := fakeapitest.Start(t)
	return &cli{t: t, baseURL: baseURL, session: filepath.Join(dir, "session.json")}
}

// run executes one blogctl invocation with a fresh application, like a separate process would.
func (c *cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	app := &application{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
		logger: slog.New(slog.DiscardHandler),
	}
	defer app.close()

	root := newRootCmd(app)
	root.SetArgs(append([]string{
		"--api-url", c.baseURL,
		"--session-backend", "file",
		"--session-file", c.session,
	}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("", "register", "--email", "jane@example.com", "--password", "secret1",
		"--first-name", "Jane", "--last-name", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "Registered as Jane Doe (jane@example.com)\n", out)

	out, _, err = c.run("", "whoami", "-o", "json")
	require.NoError(t, err)
	var whoami struct {
		User      models.User `json:"user"`
		ExpiresAt string      `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &whoami))
	assert.Equal(t, "jane@example.com", whoami.User.Email)
	assert.NotEmpty(t, whoami.ExpiresAt)

	out, _, err = c.run("", "blogs", "create", "--title", "Hello world",
		"--content", "Long enough content", "--tag", "go", "-o", "json")
	require.NoError(t, err)
	var blog models.BlogPost
	require.NoError(t, json.Unmarshal([]byte(out), &blog))
	assert.Equal(t, "Hello world", blog.Title)
	assert.Equal(t, []string{"go"}, blog.Tags)

	out, _, err = c.run("", "blogs", "list", "-o", "json", "--tag", "go")
	require.NoError(t, err)
	var page models.Page[models.BlogPost]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.EqualValues(t, 1, page.TotalElements)

	out, _, err = c.run("", "comments", "add", strconv.FormatInt(blog.ID, 10), "Nice post")
	require.NoError(t, err)
	assert.Contains(t, out, "added")

	_, _, err = c.run("", "logout")
	require.NoError(t, err)

	_, _, err = c.run("", "blogs", "create", "--title", "Again", "--content", "Long enough content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCLI_LocalValidation(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("", "register", "--email", "not-an-email", "--password", "secret1",
		"--first-name", "Jane", "--last-name", "Doe")
	require.Error(t, err)
	assert.Equal(t, "Email must be valid", err.Error())

	_, _, err = c.run("", "blogs", "list", "--sort", "random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestCLI_PasswordFromStdin(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("secret1\n", "register", "--email", "jane@example.com", "--first-name", "Jane", "--last-name", "Doe")
	require.NoError(t, err)

	_, _, err = c.run("", "logout")
	require.NoError(t, err)

	out, _, err := c.run("secret1\n", "login", "--email", "jane@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
}

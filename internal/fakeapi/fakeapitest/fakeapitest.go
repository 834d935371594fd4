// Package fakeapitest starts a fakeapi server for tests.
package fakeapitest

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/siahsang/blogclient/internal/fakeapi"
)

// Start runs a server on a loopback httptest listener that is closed with the test.
// The returned URL includes the /api prefix.
func Start(t testing.TB) (*fakeapi.Server, string) {
	t.Helper()

	s := fakeapi.New(slog.New(slog.DiscardHandler), fakeapi.Config{BcryptCost: bcrypt.MinCost})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return s, ts.URL + "/api"
}

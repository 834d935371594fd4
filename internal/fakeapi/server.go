// Package fakeapi is an in-memory implementation of the blogging platform REST API.
// It backs the client tests and the dev-server command; nothing is persisted.
package fakeapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/blogclient/internal/utils/collectionutils"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultSecret   = "fakeapi-signing-key"
)

// Interceptor may answer a request before routing. It returns true when it wrote a response.
type Interceptor func(w http.ResponseWriter, r *http.Request) bool

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Server struct {
	log    *slog.Logger
	config Config

	users    *collectionutils.SafeMap[int64, userRecord]
	blogs    *collectionutils.SafeMap[int64, blogRecord]
	comments *collectionutils.SafeMap[int64, commentRecord]
	tags     *collectionutils.SafeMap[string, tagRecord]
	images   *collectionutils.SafeMap[int64, imageRecord]

	nextID atomic.Int64
	// writeMu serialises uniqueness checks with the insert that follows them.
	writeMu sync.Mutex

	interceptor atomic.Pointer[Interceptor]
	requests    atomic.Int64
	now         func() time.Time
}

func New(log *slog.Logger, config Config) *Server {
	if log == nil {
		log = slog.Default()
	}
	if config.Secret == "" {
		config.Secret = defaultSecret
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultTokenTTL
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}

	return &Server{
		log:      log,
		config:   config,
		users:    collectionutils.New[int64, userRecord](),
		blogs:    collectionutils.New[int64, blogRecord](),
		comments: collectionutils.New[int64, commentRecord](),
		tags:     collectionutils.New[string, tagRecord](),
		images:   collectionutils.New[int64, imageRecord](),
		now:      time.Now,
	}
}

// SetInterceptor installs fn in front of the router. A nil fn removes it.
func (s *Server) SetInterceptor(fn Interceptor) {
	if fn == nil {
		s.interceptor.Store(nil)
		return
	}
	s.interceptor.Store(&fn)
}

// Requests is the number of requests received so far, intercepted ones included.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) Handler() http.Handler {
	return s.recoverPanic(s.countRequests(s.intercept(s.authenticate(s.routes()))))
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	s.log.Info("starting fake api", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return xerrors.New(err)
	}
	if err := <-shutdownErr; err != nil {
		return xerrors.New(err)
	}
	s.log.Info("stopped fake api", slog.String("addr", addr))
	return nil
}

func (s *Server) newID() int64 {
	return s.nextID.Add(1)
}

package main

import (
	"context"
	"log/slog"

	"github.com/mdobak/go-xerrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/siahsang/blogclient/internal/api"
	"github.com/siahsang/blogclient/internal/auth"
	"github.com/siahsang/blogclient/internal/config"
	"github.com/siahsang/blogclient/internal/core"
	"github.com/siahsang/blogclient/internal/database"
	"github.com/siahsang/blogclient/internal/web"
)

// openProvider returns the session provider selected by session.backend.
func (app *application) openProvider(ctx context.Context) (auth.Provider, error) {
	cfg := app.cfg.Session

	switch cfg.Backend {
	case config.BackendMemory:
		return auth.NewMemoryProvider(), nil

	case config.BackendPostgres:
		db, err := database.Open(ctx, database.Options{DSN: cfg.DSN, MaxOpenConns: 4})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)

		provider := auth.NewSQLProvider(db, cfg.Namespace, app.cfg.API.Timeout)
		if err := provider.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return provider, nil

	case config.BackendRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		app.closers = append(app.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, xerrors.Newf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return auth.NewRedisProvider(client, cfg.RedisPrefix), nil

	default:
		return auth.NewFileProvider(cfg.File, app.logger), nil
	}
}

// wire builds the client stack: provider, API client, session store and controllers.
func (app *application) wire(ctx context.Context) error {
	provider, err := app.openProvider(ctx)
	if err != nil {
		return err
	}
	app.provider = provider

	app.registry = prometheus.NewRegistry()
	app.client = api.NewClient(auth.TokenSource(provider),
		api.WithBaseURL(app.cfg.API.BaseURL),
		api.WithTimeout(app.cfg.API.Timeout),
		api.WithUserAgent(app.cfg.API.UserAgent),
		api.WithLogger(app.logger),
		api.WithMetrics(api.NewMetrics(app.registry)),
	)

	app.router = web.NewRouter(web.ViewHome, app.logger)
	app.router.OnNavigate = func(_, to web.View) {
		if to == web.ViewLogin {
			app.prompt.Error("Your session has expired. Run `blogctl login` to sign in again.")
		}
	}

	app.session = auth.NewStore(provider, app.client, app.router, app.logger)
	app.client.SetUnauthorizedHandler(app.session.HandleUnauthorized)

	if err := app.session.Initialize(ctx); err != nil {
		app.logger.Warn("could not restore session", slog.String("error", err.Error()))
	}

	app.core = core.NewCore(app.client, app.session, app.prompt, app.prompt, app.logger, core.Options{
		PageSize:        app.cfg.List.PageSize,
		CommentPageSize: app.cfg.Comments.PageSize,
		SearchDebounce:  app.cfg.List.SearchDebounce,
		TagDebounce:     app.cfg.List.TagDebounce,
	})
	return nil
}

// enter records the view a command represents, so a 401 knows whether to redirect.
func (app *application) enter(view web.View) {
	app.router.Show(view)
}

func (app *application) requireSession() error {
	if !app.session.IsAuthenticated() {
		return xerrors.New("not logged in, run `blogctl login` first")
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdobak/go-xerrors"
	_ "github.com/lib/pq"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	if opts.DSN == "" {
		return nil, xerrors.New("database DSN is empty")
	}

	db, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	db.SetMaxIdleConns(maxIdle)

	idle := opts.ConnMaxIdleTime
	if idle <= 0 {
		idle = 10 * time.Second
	}
	db.SetConnMaxIdleTime(idle)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, xerrors.Newf("ping database: %w", err)
	}

	return db, nil
}

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/blogclient/internal/utils/databaseutils"
	"github.com/siahsang/blogclient/internal/utils/stringutils"
)

// SQLProvider stores the entries in a PostgreSQL table, one row per key, scoped by namespace
// so several client profiles can share a database.
type SQLProvider struct {
	namespace   string
	sqlTemplate *databaseutils.SQLTemplate
	session     databaseutils.Session
}

func NewSQLProvider(db *sql.DB, namespace string, timeout time.Duration) *SQLProvider {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &SQLProvider{
		namespace:   namespace,
		sqlTemplate: databaseutils.NewSQLTemplate(db, timeout),
		session:     databaseutils.NewSession(db),
	}
}

// EnsureSchema creates the client_state table and its index when missing.
func (p *SQLProvider) EnsureSchema(ctx context.Context) error {
	const createTable = `
		CREATE TABLE IF NOT EXISTS client_state (
			namespace  TEXT        NOT NULL,
			key        TEXT        NOT NULL,
			value      TEXT        NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (namespace, key)
		)
	`
	const createIndex = `
		CREATE INDEX IF NOT EXISTS client_state_updated_at_idx ON client_state (updated_at)
	`

	err := p.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		for _, stmt := range []string{createTable, createIndex} {
			if _, err := databaseutils.Execute(p.sqlTemplate, txCtx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return xerrors.Newf("ensure client_state schema: %w", err)
	}
	return nil
}

func (p *SQLProvider) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
		SELECT value FROM client_state
		WHERE namespace = $1 AND key = $2
	`

	value, err := databaseutils.ExecuteSingleQuery(p.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var value string
		if err := rows.Scan(&value); err != nil {
			return "", xerrors.New(err)
		}
		return value, nil
	}, p.namespace, key)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", false, nil
		default:
			return "", false, xerrors.New(err)
		}
	}
	return value, true, nil
}

func (p *SQLProvider) Set(ctx context.Context, key, value string) error {
	const upsert = `
		INSERT INTO client_state (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := databaseutils.Execute(p.sqlTemplate, ctx, upsert, p.namespace, key, value); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (p *SQLProvider) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders, args := stringutils.INCluse(keys)
	query := fmt.Sprintf(`
		DELETE FROM client_state
		WHERE key IN (%s) AND namespace = $%d
	`, strings.Join(placeholders, ", "), len(keys)+1)
	args = append(args, p.namespace)

	if _, err := databaseutils.Execute(p.sqlTemplate, ctx, query, args...); err != nil {
		return xerrors.New(err)
	}
	return nil
}

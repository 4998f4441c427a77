package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open connects to the archive named by dsn and makes sure the schema
// exists. postgres:// and postgresql:// URLs use PostgreSQL; anything else
// is handed to SQLite (for example "file::memory:?cache=shared" or a path).
func Open(ctx context.Context, dsn string) (*DB, error) {
	var (
		bunDB *bun.DB
		err   error
	)

	if isPostgres(dsn) {
		sqldb, openErr := sql.Open("postgres", dsn)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL: %w", openErr)
		}
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, openErr := sql.Open(sqliteshim.ShimName, dsn)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", openErr)
		}
		// one connection keeps a shared in-memory database alive and
		// serialises writers
		sqldb.SetMaxOpenConns(1)
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if err = bunDB.PingContext(ctx); err != nil {
		bunDB.Close()
		return nil, fmt.Errorf("failed to connect to receipt archive: %w", err)
	}
	if err = Migrate(ctx, bunDB); err != nil {
		bunDB.Close()
		return nil, err
	}
	return &DB{Bun: bunDB}, nil
}

func (d *DB) Close() error {
	return d.Bun.Close()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

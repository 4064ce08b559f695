package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the two tables on first start. Explicit row-id columns
// keep deletion handles stable; no secondary indexes beyond the keys.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS activitytable (
            rowidnum BIGSERIAL PRIMARY KEY,
            activity TEXT NOT NULL,
            date BIGINT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            userid TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS profiletable (
            rowidnum BIGSERIAL PRIMARY KEY,
            userid TEXT NOT NULL UNIQUE,
            firstname TEXT NOT NULL
        )`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

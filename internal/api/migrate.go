package api

import (
	"context"
	"database/sql"
)

// withMigrationLock serializes startup migration across replicas. Advisory
// locks are session-scoped, so lock and unlock must run on the same pinned
// connection; unlocking through the pool would release nothing and leave the
// lock held by an idle session for the process lifetime.
func withMigrationLock(ctx context.Context, sqlDB *sql.DB, lockID int64, fn func() error) error {
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", lockID)
	}()

	return fn()
}

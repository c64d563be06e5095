package database

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
)

// LockKey folds the given parts into a stable key for pg_advisory_xact_lock.
func LockKey(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}

	return int64(h.Sum64())
}

// XactLock takes a transaction-scoped advisory lock; it is released on commit or rollback.
func XactLock(ctx context.Context, tx *sql.Tx, key int64) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return fmt.Errorf("acquiring advisory lock: %w", err)
	}

	return nil
}

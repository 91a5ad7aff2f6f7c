package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	maxRetries = 5
	baseDelay  = 50 * time.Millisecond
	maxDelay   = 2 * time.Second
)

// ErrBusy reports a write abandoned because the store stayed locked
// through every retry attempt. Callers translate it to a 503.
var ErrBusy = errors.New("database busy")

// RetryWrite runs fn inside a transaction, retrying on contention with
// exponential backoff. SQLite serializes writers, so a concurrent
// submission can find the store locked; those failures are transient and
// get up to maxRetries attempts. Any other failure aborts immediately.
//
// Both the submission path and the deletion path go through here.
func RetryWrite(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := writeOnce(ctx, db, fn)
		if err == nil {
			return nil
		}
		if !IsContention(err) {
			return err
		}

		lastErr = err
		if attempt < maxRetries-1 {
			select {
			case <-time.After(retryDelay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return errors.Wrapf(ErrBusy, "write retries exhausted: %v", lastErr)
}

// writeOnce checks out a dedicated connection for the duration of one
// attempt and releases it on every exit path. The rollback is a no-op
// after a successful commit.
func writeOnce(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// IsContention distinguishes "another writer holds the lock" from fatal
// failures. Only the former is worth retrying.
func IsContention(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "database is locked")
}

func retryDelay(attempt int) time.Duration {
	delay := baseDelay << attempt
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

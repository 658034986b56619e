package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers that indicate a conflicting concurrent
// transaction. The transaction body is safe to re-run because every
// read and write goes through the transaction itself.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// txRetry bounds the retry loop around a transaction body. The delay
// doubles after each failed attempt.
type txRetry struct {
	attempts  int
	baseDelay time.Duration
}

var defaultTxRetry = txRetry{attempts: 3, baseDelay: 50 * time.Millisecond}

// runInTx executes fn inside a transaction and retries it with
// exponential back-off when the store reports a write conflict. The
// body is invoked at most pol.attempts times; any non-retryable error
// aborts immediately. On every attempt the body observes the most
// recently committed state, never a snapshot from a previous attempt.
func runInTx(ctx context.Context, db *sql.DB, pol txRetry, fn func(*sql.Tx) error) error {
	var lastErr error
	delay := pol.baseDelay
	for attempt := 1; attempt <= pol.attempts; attempt++ {
		lastErr = attemptTx(ctx, db, fn)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
		if attempt < pol.attempts {
			log.Printf("repository: transaction conflict (attempt %d/%d): %v; retrying in %s",
				attempt, pol.attempts, lastErr, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", pol.attempts, lastErr)
}

func attemptTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// isRetryable reports whether err is a conflict the store resolves by
// rerunning the transaction (deadlock victim or lock wait timeout).
func isRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockWaitTimeout
	}
	return false
}

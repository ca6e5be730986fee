package database

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	maxTxRetries = 3
	txRetryBase  = 20 * time.Millisecond
)

// isRetryableTxError reports whether err is an InnoDB deadlock (1213) or
// lock-wait-timeout (1205) error — the store's own classification of
// "this transaction did nothing wrong, retrying it from the start is
// safe," as opposed to a constraint violation or a business-rule
// rejection returned by the transaction body itself.
func isRetryableTxError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// Transaction wraps db.Transaction with a bounded retry for deadlock and
// lock-wait-timeout errors. fn is re-run from the start on each retry, so
// it must be safe to re-execute (every caller in this codebase only reads
// and conditionally updates inside the closure, nothing with a side effect
// outside the transaction). Any other error — including every *apperr.Error
// the transaction body returns for a business-rule rejection — is returned
// immediately on the first attempt; only the store's own transient-error
// classification triggers a retry.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryableTxError(err) || attempt == maxTxRetries {
			return err
		}

		backoff := txRetryBase * time.Duration(1<<attempt)
		backoff += time.Duration(rand.Int63n(int64(txRetryBase)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

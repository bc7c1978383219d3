package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

type TxOptions struct {
	// MaxAttempts bounds the total number of transaction attempts,
	// the first try included.
	MaxAttempts int
}

func DefaultTxOptions() TxOptions {
	return TxOptions{MaxAttempts: 3}
}

// TxManager runs a unit of work inside one storage transaction. It exists
// as an interface so services can be tested without a live database.
type TxManager interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// WithRetry runs fn in a transaction, retrying on transient conflicts with
// exponential backoff and jitter until opts.MaxAttempts transactions have
// been tried. Each attempt gets a fresh transaction. Permanent errors abort
// immediately; an exhausted budget returns the last transient error wrapped.
func WithRetry(ctx context.Context, opts TxOptions, txm TxManager, fn func(tx *gorm.DB) error) error {
	backoff := 50 * time.Millisecond

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := txm.Transaction(ctx, fn)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("gave up after %d attempts: %w", opts.MaxAttempts, err)
		}

		jitter := time.Duration(rand.Int63n(int64(backoff / 4)))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

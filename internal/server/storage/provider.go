// Package storage provides per-operation access to the auction database.
// A Provider hands out short-lived connection handles, distinguishes a
// missing driver from a live connectivity failure, and triggers schema
// bootstrap before the first use.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/common"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/config"
)

// DriverName is the database/sql driver the store runs on.
const DriverName = "pgx"

// Bootstrapper is the schema-bootstrap dependency of the provider.
type Bootstrapper interface {
	Ensure(ctx context.Context) error
}

// Provider yields a live handle to the store per operation. The db field is
// nil when the driver was not available at construction; that state is
// reported as ErrDriverUnavailable, distinct from a connectivity failure.
type Provider struct {
	db           *sql.DB
	bootstrapper Bootstrapper
	timeout      time.Duration
	logger       logging.Logger
}

// NewProvider opens the pool for the configured DSN. A missing driver does
// not fail construction: the provider starts in driver-unavailable state so
// callers can switch into degraded mode instead of aborting.
func NewProvider(cfg *config.Config, b Bootstrapper, logger logging.Logger) *Provider {
	p := &Provider{bootstrapper: b, timeout: cfg.StoreTimeout, logger: logger}

	if !slices.Contains(sql.Drivers(), DriverName) {
		logger.Error(context.Background(), "store driver not registered", "driver", DriverName)
		return p
	}

	db, err := sql.Open(DriverName, cfg.DatabaseDSN)
	if err != nil {
		logger.Error(context.Background(), "store driver unavailable", "driver", DriverName, "error", err)
		return p
	}

	p.db = db
	return p
}

// NewProviderFromDB wraps an existing pool; used by tests.
func NewProviderFromDB(db *sql.DB, b Bootstrapper, timeout time.Duration, logger logging.Logger) *Provider {
	return &Provider{db: db, bootstrapper: b, timeout: timeout, logger: logger}
}

// OpContext bounds a store operation with the configured timeout. Deadline
// expiry on any store call surfaces as ErrStoreUnreachable.
func (p *Provider) OpContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

// Acquire yields an independent connection handle. The caller must close it
// on every exit path. Schema bootstrap runs on the first successful use; a
// partial-apply error is surfaced to that first caller only.
func (p *Provider) Acquire(ctx context.Context) (*sql.Conn, error) {
	if p.db == nil {
		return nil, common.ErrDriverUnavailable
	}

	if p.bootstrapper != nil {
		if err := p.bootstrapper.Ensure(ctx); err != nil {
			if errors.Is(err, common.ErrSchemaPartialApply) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnreachable, err)
		}
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnreachable, err)
	}
	return conn, nil
}

// Close releases the underlying pool.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

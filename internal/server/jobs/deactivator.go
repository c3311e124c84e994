// Package jobs contains maintenance tasks run outside the request path.
package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
)

type AccountDeactivator interface {
	DeactivateInactive(ctx context.Context, before time.Time) (int64, error)
}

// Deactivator marks accounts that have not signed in for a while as
// inactive.
type Deactivator struct {
	accounts AccountDeactivator
	after    time.Duration
	metrics  *metrics.Metrics
	logger   logging.Logger
	now      func() time.Time
}

func NewDeactivator(accounts AccountDeactivator, after time.Duration, m *metrics.Metrics, l logging.Logger) *Deactivator {
	return &Deactivator{
		accounts: accounts,
		after:    after,
		metrics:  m,
		logger:   l.With("module", "deactivator"),
		now:      time.Now,
	}
}

// Run performs one pass and returns the number of deactivated accounts.
func (d *Deactivator) Run(ctx context.Context) (int64, error) {
	before := d.now().Add(-d.after)

	n, err := d.accounts.DeactivateInactive(ctx, before)
	if err != nil {
		d.logger.Error(ctx, "Deactivation failed", "error", err)
		return 0, err
	}

	if d.metrics != nil {
		d.metrics.AccountsDeactivated.Add(float64(n))
	}
	d.logger.Info(ctx, "Inactive accounts deactivated", "count", n, "before", before)
	return n, nil
}

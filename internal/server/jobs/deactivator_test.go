package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
)

type fakeAccounts struct {
	before time.Time
	n      int64
	err    error
}

func (f *fakeAccounts) DeactivateInactive(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.n, f.err
}

func TestDeactivator_Run(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeAccounts{n: 3}
	m := metrics.New()

	d := NewDeactivator(f, 90*24*time.Hour, m, logging.Discard())
	d.now = func() time.Time { return now }

	n, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, now.Add(-90*24*time.Hour), f.before)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AccountsDeactivated))
}

func TestDeactivator_Run_Error(t *testing.T) {
	boom := errors.New("db down")
	d := NewDeactivator(&fakeAccounts{err: boom}, time.Hour, nil, logging.Discard())

	_, err := d.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

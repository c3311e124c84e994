package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = config.MemoryDSN
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	return c
}

type failingMigrations struct {
	*repomanager.MemoryRepositoryManager
	closed bool
}

func (f *failingMigrations) RunMigrations(context.Context) error { return errors.New("migrate failed") }
func (f *failingMigrations) Close() error {
	f.closed = true
	return nil
}

func TestNewApp_MemoryStore(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	_, ok := app.repos.(*repomanager.MemoryRepositoryManager)
	assert.True(t, ok)
	assert.NotNil(t, app.commands)
	assert.NotNil(t, app.queries)
}

func TestNewApp_MigrationFailureClosesStore(t *testing.T) {
	orig := openRepositories
	t.Cleanup(func() { openRepositories = orig })

	f := &failingMigrations{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager(nil)}
	openRepositories = func(*config.Config) (repomanager.RepositoryManager, error) { return f, nil }

	_, err := newApp(context.Background(), memoryConfig(), logging.Discard())
	assert.ErrorContains(t, err, "migrate failed")
	assert.True(t, f.closed)
}

func TestNewApp_OpenError(t *testing.T) {
	orig := openRepositories
	t.Cleanup(func() { openRepositories = orig })
	openRepositories = func(*config.Config) (repomanager.RepositoryManager, error) { return nil, errors.New("no db") }

	_, err := newApp(context.Background(), memoryConfig(), logging.Discard())
	assert.ErrorContains(t, err, "db init error")
}

func TestApp_RunDeactivation(t *testing.T) {
	store := memory.NewStoreWithClock(func() time.Time { return time.Now().Add(-200 * 24 * time.Hour) })
	_, _, err := store.Accounts().CreateOrGet(context.Background(), models.NewAccount{
		Email: "old@example.com", FirstName: "Old", LastName: "Timer", Provider: "google", ProviderAccountID: "1",
	})
	require.NoError(t, err)

	orig := openRepositories
	t.Cleanup(func() { openRepositories = orig })
	openRepositories = func(*config.Config) (repomanager.RepositoryManager, error) {
		return repomanager.NewMemoryRepositoryManager(store), nil
	}

	app, err := newApp(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer app.Close()

	n, err := app.RunDeactivation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}

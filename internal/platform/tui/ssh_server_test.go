package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *SSHServer {
	t.Helper()
	srv, err := NewSSHServer(SSHServerConfig{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(t.TempDir(), "keys", "host_key"),
		IdleTimeout: time.Minute,
		Session:     SessionConfig{Catalog: levels.DefaultCatalog(), Store: store},
	}, nil)
	require.NoError(t, err)
	return srv
}

func TestSSHServerLedgerLoadsAndSaves(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "realm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	saved := progress.Default("ada")
	saved.Gold = 420
	saved.Unlocked = []int{1, 2}
	require.NoError(t, store.SaveProgress(ctx, saved))

	srv := newTestServer(t, store)
	ledger := srv.ledgerFor(ctx, "ada")
	assert.Equal(t, 420, ledger.Snapshot().Gold)
	assert.True(t, ledger.IsUnlocked(2))
	assert.Same(t, ledger, srv.ledgerFor(ctx, "ada"), "sessions of one player share a ledger")

	other := srv.ledgerFor(ctx, "bob")
	assert.NotSame(t, ledger, other)
	assert.Equal(t, progress.Default("bob").Gold, other.Snapshot().Gold)

	require.True(t, ledger.SpendEnergy(2))
	srv.saveProgress("ada")

	loaded, found, err := store.LoadProgress(ctx, "ada")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.Energy-2, loaded.Energy)

	// Unknown players are ignored
	srv.saveProgress("nobody")
	_, found, err = store.LoadProgress(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSSHServerWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)
	ledger := srv.ledgerFor(context.Background(), "cy")
	assert.Equal(t, "cy", ledger.Player())
	srv.saveProgress("cy")
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestSSHServerServeStopsOnCancel(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHostKeyPath(t *testing.T) {
	p, err := hostKeyPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".realm", "host_key"), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))

	p, err = hostKeyPath("/tmp/realm_key")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/realm_key", p)
}

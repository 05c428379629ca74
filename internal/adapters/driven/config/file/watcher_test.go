package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, store *ConfigStore, reloads *atomic.Int32) {
	t.Helper()

	w, err := NewWatcher(store, func() { reloads.Add(1) })
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("site.timezone", "UTC"))

	var reloads atomic.Int32
	startWatcher(t, store, &reloads)

	require.NoError(t, os.WriteFile(store.Path(), []byte("[site]\ntimezone = \"Europe/Warsaw\"\n"), 0600))

	require.Eventually(t, func() bool {
		return store.GetString("site.timezone") == "Europe/Warsaw"
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestWatcher_ReloadsOnRename(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	var reloads atomic.Int32
	startWatcher(t, store, &reloads)

	tmp := filepath.Join(dir, "config.toml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("[server]\naddr = \"127.0.0.1:8080\"\n"), 0600))
	require.NoError(t, os.Rename(tmp, store.Path()))

	require.Eventually(t, func() bool {
		return store.GetString("server.addr") == "127.0.0.1:8080"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	var reloads atomic.Int32
	startWatcher(t, store, &reloads)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0600))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}

func TestWatcher_KeepsValuesOnInvalidFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("site.timezone", "UTC"))

	var reloads atomic.Int32
	startWatcher(t, store, &reloads)

	require.NoError(t, os.WriteFile(store.Path(), []byte("broken ]["), 0600))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, reloads.Load())
	assert.Equal(t, "UTC", store.GetString("site.timezone"))
}

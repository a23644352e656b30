package wilt

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceFile writes the file whole, through a rename, so the watcher never sees it half-written.
func replaceFile(t *testing.T, path, contents string) {
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(contents), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestConfigWatcherReloads(t *testing.T) {

	path := filepath.Join(t.TempDir(), "wilt.toml")
	replaceFile(t, path, "[probe]\nmax_distance = 3.0\n")

	var changes atomic.Int32

	cw, err := WatchConfig(path, func(cfg Config) { changes.Add(1) })
	require.NoError(t, err)
	defer cw.Close()

	assert.Equal(t, float32(3), cw.Config().Probe.MaxDistance)

	replaceFile(t, path, "[probe]\nmax_distance = 4.0\n")

	require.Eventually(t, func() bool {
		return cw.Config().Probe.MaxDistance == 4
	}, 5*time.Second, 10*time.Millisecond)
	assert.Positive(t, changes.Load())

	// A broken file is ignored, and the last good config stays.
	replaceFile(t, path, "[probe]\nmax_distance = -4.0\n")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, float32(4), cw.Config().Probe.MaxDistance)

	replaceFile(t, path, "[probe]\nmax_distance = 5.0\n")
	require.Eventually(t, func() bool {
		return cw.Config().Probe.MaxDistance == 5
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, cw.Close())
	assert.NoError(t, cw.Close())

}

func TestWatchConfigNeedsGoodFirstLoad(t *testing.T) {

	dir := t.TempDir()

	_, err := WatchConfig(filepath.Join(dir, "missing.toml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.toml")
	replaceFile(t, path, "[runtime]\nworkers = -1\n")
	_, err = WatchConfig(path, nil)
	assert.Error(t, err)

}

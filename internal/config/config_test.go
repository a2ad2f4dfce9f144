package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables Load reads; empty values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{KeyURL, KeySnapshots, KeyTimeoutMS, KeyRPS, KeyBurst, KeyLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cfg")
	content := []byte("# backups\nSNAPEX_URL=http://backup.local:5000\nSNAPEX_SNAPSHOTS=2024-01-01, 2024-01-02,,2024-01-01\nSNAPEX_TIMEOUT_MS=2500\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backup.local:5000", cfg.URL)
	assert.True(t, cfg.FromFile)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, cfg.Snapshots)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SNAPEX_URL", "http://env.local")
	t.Setenv("SNAPEX_RPS", "2.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.local", cfg.URL)
	assert.Equal(t, 2.5, cfg.RPS)
	assert.False(t, cfg.FromFile, "missing file reported as loaded")
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cfg")
	require.NoError(t, os.WriteFile(path, []byte("SNAPEX_URL=http://file.local\n"), 0o600))
	t.Setenv("SNAPEX_URL", "http://env.local")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.local", cfg.URL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	for _, line := range []string{"no separator", "SNAPEX_TIMEOUT_MS=soon", "SNAPEX_RPS=-1", "SNAPEX_BURST=0"} {
		path := filepath.Join(t.TempDir(), "cfg")
		require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o600))
		_, err := Load(path)
		assert.Error(t, err, "expected error for %q", line)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyBurst, "many")
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyBurst)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cfg")
	in := Config{URL: "http://backup.local", Snapshots: []string{"a", "b"}, Timeout: 3 * time.Second, Burst: 4, LogLevel: "debug"}
	require.NoError(t, Save(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "SNAPEX_URL=http://backup.local\nSNAPEX_SNAPSHOTS=a,b\nSNAPEX_TIMEOUT_MS=3000\nSNAPEX_BURST=4\nSNAPEX_LOG_LEVEL=debug\n"
	assert.Equal(t, expected, string(data))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.URL, out.URL)
	assert.Equal(t, in.Snapshots, out.Snapshots)
	assert.Equal(t, in.Timeout, out.Timeout)
	assert.Equal(t, in.Burst, out.Burst)
	assert.Equal(t, in.LogLevel, out.LogLevel)
}

func TestSaveRequiresURL(t *testing.T) {
	assert.Error(t, Save(filepath.Join(t.TempDir(), "ignored"), Config{}))
}

func TestDefaultPathUsesHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	assert.Equal(t, filepath.Join(dir, ".snapexrc"), DefaultPath())
}

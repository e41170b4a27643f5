package ahandel_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albatross-engine/albatross/ahandel"
)

func TestDefaultConfigFallsBackToDefaults(t *testing.T) {
	for _, k := range []string{
		"HANDEL_UPDATE_COUNT", "HANDEL_UPDATE_INTERVAL", "HANDEL_TIMEOUT", "HANDEL_PEER_COUNT",
	} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg := ahandel.DefaultConfig()
	require.Equal(t, 1, cfg.UpdateCount)
	require.Equal(t, 100*time.Millisecond, cfg.UpdateInterval)
	require.Equal(t, 500*time.Millisecond, cfg.Timeout)
	require.Equal(t, 10, cfg.PeerCount)
}

func TestDefaultConfigReadsEnv(t *testing.T) {
	t.Setenv("HANDEL_UPDATE_COUNT", "3")
	t.Setenv("HANDEL_PEER_COUNT", "20")

	cfg := ahandel.DefaultConfig()
	require.Equal(t, 3, cfg.UpdateCount)
	require.Equal(t, 20, cfg.PeerCount)
}

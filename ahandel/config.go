// Package ahandel holds the environment-driven configuration surface for
// the Handel-style signature aggregation gossip protocol.
//
// The aggregation protocol itself -- how peers are selected at each level
// and how partial aggregates are exchanged -- is out of scope for this
// module; only the configuration knobs it reads from the environment are
// reproduced here, so that a caller wiring an external Handel
// implementation has a single place to source them from.
package ahandel

import (
	"os"
	"strconv"
	"time"
)

// Config holds the tunables for the aggregation gossip layer.
type Config struct {
	// UpdateCount is the number of peers contacted per level on each update.
	UpdateCount int

	// UpdateInterval is the frequency at which updates are sent to peers.
	UpdateInterval time.Duration

	// Timeout is the per-level timeout before a level is considered stalled.
	Timeout time.Duration

	// PeerCount is how many peers are contacted at each level.
	PeerCount int
}

// DefaultConfig returns the configuration read from the environment,
// falling back to the documented defaults for any variable that is unset
// or fails to parse.
func DefaultConfig() *Config {
	return &Config{
		UpdateCount:    parseEnvInt("HANDEL_UPDATE_COUNT", 1),
		UpdateInterval: time.Duration(parseEnvInt("HANDEL_UPDATE_INTERVAL", 100)) * time.Millisecond,
		Timeout:        time.Duration(parseEnvInt("HANDEL_TIMEOUT", 500)) * time.Millisecond,
		PeerCount:      parseEnvInt("HANDEL_PEER_COUNT", 10),
	}
}

func parseEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

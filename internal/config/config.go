// Package config loads SafeTypes2's process-global GC tuning knobs (spec
// §6.4): the small-buffer threshold, the single-threaded default, and the
// process-wide SipHash key. It mirrors the teacher's config.go precedence
// chain, simplified to a single optional file — SPEC_FULL has no notion
// of project-vs-global config, so the teacher's global/project merge is
// collapsed into one source (see DESIGN.md).
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds every process-global knob SafeTypes2 exposes.
type Config struct {
	// SmallBufferThreshold is pkg/blob's inline-storage cutoff in bytes.
	SmallBufferThreshold int `json:"small_buffer_threshold,omitempty"` //nolint:tagliatelle
	// SingleThreaded disables the reader/writer GC lock's condition-
	// variable machinery in favor of the direct free<->gc-operating
	// transition (spec §4.3 "Single-threaded mode"). Valid only before
	// any goroutine other than the loader has touched the object system.
	SingleThreaded bool `json:"single_threaded,omitempty"` //nolint:tagliatelle
	// HashKey is the SipHash key pkg/omap uses to digest map keys, given
	// here as a hex string of at most 32 characters (Load rejects longer
	// ones). HashKeyBytes decodes it and zero-pads it to 16 bytes.
	HashKey string `json:"hash_key,omitempty"` //nolint:tagliatelle
}

// ErrInvalid wraps any parse or validation failure.
var ErrInvalid = errors.New("config: invalid")

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() Config {
	return Config{
		SmallBufferThreshold: 23,
		SingleThreaded:       false,
		HashKey:              "",
	}
}

// Load reads and parses the HuJSON config file at path. An empty path
// returns DefaultConfig() unchanged; a non-empty path that does not exist
// is an error (the caller asked for a specific file).
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled by design
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading %s: %w", ErrInvalid, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: invalid JSONC: %w", ErrInvalid, path, err)
	}

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: invalid JSON: %w", ErrInvalid, path, err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.SmallBufferThreshold <= 0 {
		return errors.New("small_buffer_threshold must be > 0")
	}

	if len(cfg.HashKey) > 32 {
		return errors.New("hash_key must be at most 32 hex characters (16 bytes)")
	}

	return nil
}

// HashKeyBytes decodes HashKey as hex, zero-padded/truncated to 16 bytes,
// the same width pkg/omap.SetHashKey expects. Invalid hex is treated as
// empty (resulting in the zero key), since this is a best-effort tuning
// knob, not a security boundary.
func (c Config) HashKeyBytes() []byte {
	out := make([]byte, 16)

	if c.HashKey == "" {
		return out
	}

	decoded, err := hex.DecodeString(c.HashKey)
	if err != nil {
		return out
	}

	copy(out, decoded)

	return out
}

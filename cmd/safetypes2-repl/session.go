// Package main implements safetypes2-repl, an interactive driver over the
// object system (pkg/object, pkg/blob, pkg/omap, pkg/seq, pkg/extref) for
// manual exercise and demonstration. It is not part of the core contract;
// SPEC_FULL.md §4.8 describes it as a supplement, the way cmd/sloty is a
// supplement to pkg/slotcache in the teacher repo.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/safetypes2/safetypes2/internal/config"
	"github.com/safetypes2/safetypes2/pkg/blob"
	"github.com/safetypes2/safetypes2/pkg/extref"
	"github.com/safetypes2/safetypes2/pkg/object"
	"github.com/safetypes2/safetypes2/pkg/omap"
	"github.com/safetypes2/safetypes2/pkg/seq"
)

// Session holds the REPL's handle table: user-chosen names mapped onto
// live SafeTypes2 values, plus the reader-lock handle the session's
// "lock"/"unlock"/"collect" commands operate on.
type Session struct {
	handles map[string]any
	reader  *object.Reader
}

// NewSession creates an empty session with its own reader-lock handle.
func NewSession() *Session {
	return &Session{
		handles: make(map[string]any),
		reader:  object.NewReader(),
	}
}

// ApplyConfig wires the loaded tuning knobs into the process-global state
// they govern. Must be called before any handle is created, matching the
// constraint object.SetThreadingEnabled and blob.SetSmallBufferThreshold
// already document.
func (s *Session) ApplyConfig(cfg config.Config) {
	blob.SetSmallBufferThreshold(cfg.SmallBufferThreshold)
	object.SetThreadingEnabled(!cfg.SingleThreaded)
	omap.SetHashKey(cfg.HashKeyBytes())
}

func headerOf(v any) *object.Header {
	switch o := v.(type) {
	case *blob.Blob:
		return &o.Header
	case *omap.Map:
		return &o.Header
	case *seq.Sequence:
		return &o.Header
	case *extref.ExtRef:
		return &o.Header
	default:
		return nil
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *blob.Blob:
		return "blob"
	case *omap.Map:
		return "map"
	case *seq.Sequence:
		return "seq"
	case *extref.ExtRef:
		return "extref"
	default:
		return "?"
	}
}

// Dispatch executes one parsed command line and returns the text to
// print, or an error. Blank lines, help and exit are handled by the
// caller; an unrecognized leading token returns errUnknownCommand.
func (s *Session) Dispatch(fields []string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}

	switch fields[0] {
	case "blob":
		return s.dispatchBlob(fields[1:])
	case "map":
		return s.dispatchMap(fields[1:])
	case "seq":
		return s.dispatchSeq(fields[1:])
	case "extref":
		return s.dispatchExtref(fields[1:])
	case "retain", "release", "keep", "leave":
		return s.dispatchRefcount(fields[0], fields[1:])
	case "lock":
		s.reader.Lock()
		return fmt.Sprintf("locked, depth=%d", s.reader.Depth()), nil
	case "unlock":
		s.reader.Unlock()
		return fmt.Sprintf("unlocked, depth=%d", s.reader.Depth()), nil
	case "collect":
		s.reader.Collect()
		return "collection complete", nil
	case "roster":
		return fmt.Sprintf("%d live object(s)", object.RosterLen()), nil
	case "threading":
		return s.dispatchThreading(fields[1:])
	case "handles":
		return s.dumpHandles(), nil
	default:
		return "", fmt.Errorf("%w: %s", errUnknownCommand, fields[0])
	}
}

func (s *Session) dumpHandles() string {
	names := make([]string, 0, len(s.handles))
	for name := range s.handles {
		names = append(names, name)
	}

	sort.Strings(names)

	var b strings.Builder

	for _, name := range names {
		h := headerOf(s.handles[name])
		fmt.Fprintf(&b, "%-12s %-6s ref=%d kept=%d\n", name, typeName(s.handles[name]), h.RefCount(), h.KeptCount())
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (s *Session) dispatchThreading(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: threading on|off", errBadArgs)
	}

	switch args[0] {
	case "on":
		object.SetThreadingEnabled(true)
	case "off":
		object.SetThreadingEnabled(false)
	default:
		return "", fmt.Errorf("%w: usage: threading on|off", errBadArgs)
	}

	return "ok", nil
}

func (s *Session) dispatchRefcount(op string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: %s <handle>", errBadArgs, op)
	}

	h, err := s.lookup(args[0])
	if err != nil {
		return "", err
	}

	switch op {
	case "retain":
		object.Retain(h)
	case "release":
		object.Release(h)
	case "keep":
		object.Keep(h)
	case "leave":
		object.Leave(h)
	}

	return fmt.Sprintf("%s: ref=%d kept=%d", args[0], h.RefCount(), h.KeptCount()), nil
}

func (s *Session) lookup(name string) (*object.Header, error) {
	v, ok := s.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchHandle, name)
	}

	return headerOf(v), nil
}

func parseSetter(tok string) (object.Setter, error) {
	switch tok {
	case "gave":
		return object.Gave, nil
	case "kept", "":
		return object.Kept, nil
	default:
		return 0, fmt.Errorf("%w: setter must be kept or gave, got %q", errBadArgs, tok)
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}

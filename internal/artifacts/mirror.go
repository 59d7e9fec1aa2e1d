package artifacts

import (
	"context"
	"log/slog"
)

// Mirror pushes a named outbound artifact (LATEST-BRIEFING.md,
// LATEST-RESULTS.json, ...) into a Store after it has already landed on the
// local filesystem. The local write is the contractual surface; mirroring
// is best-effort and a failure here is logged and swallowed, never
// propagated as a run failure.
type Mirror struct {
	Store  Store
	Logger *slog.Logger
}

// NewMirror wraps store for best-effort artifact mirroring. A nil store
// makes every Push a no-op, so callers can construct a Mirror unconditionally
// and let NewStoreFromEnv's absence (or an opt-out) disable it quietly.
func NewMirror(store Store, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{Store: store, Logger: logger}
}

// Push mirrors data under name, logging and returning without error on any
// failure: a broken bucket must never fail a scan run.
func (m *Mirror) Push(ctx context.Context, name string, data []byte) {
	if m == nil || m.Store == nil {
		return
	}
	hash, err := m.Store.Put(ctx, data)
	if err != nil {
		m.Logger.Warn("artifact mirror push failed", "artifact", name, "error", err)
		return
	}
	m.Logger.Info("artifact mirrored", "artifact", name, "hash", hash)
}

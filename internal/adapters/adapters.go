// Package adapters implements one fetcher per federal data source:
// legislative bills, regulatory notices, grant opportunities, and spending
// awards. Each adapter's Fetch is a synchronous, idempotent-given-a-fixed-
// time operation; errors never propagate past the adapter boundary (spec.md
// §4.1, §7 AdapterError) — a failed fetch degrades to an empty sequence and
// a logged warning.
package adapters

import (
	"context"
	"log/slog"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/atniclimate/tcr-policy-scanner/internal/resiliency"
)

// Adapter is the contract every federal-source fetcher implements.
type Adapter interface {
	Source() model.Source
	// Fetch retrieves items published within windowDays of now, restricted
	// to the given program keyword/CFDA hints. It never returns an error:
	// failures are caught internally and logged, yielding an empty slice.
	Fetch(ctx context.Context, windowDays int, programs []ProgramHint) []model.RawItem
	IsHealthy() bool
}

// ProgramHint is the minimal program shape an adapter needs to narrow a
// federal-source query (full Program records live in internal/model, but
// adapters should not import the decision/relevance layers).
type ProgramHint struct {
	ID       string
	CFDA     string
	Keywords []string
	Agency   string
}

// BaseAdapter centralizes what every concrete adapter shares: its source
// tag, the resilient client it fetches through, and a health flag that a
// failed fetch sets to false and the next successful fetch sets back to true.
type BaseAdapter struct {
	source  model.Source
	client  *resiliency.EnhancedClient
	logger  *slog.Logger
	healthy bool
}

func newBase(source model.Source, logger *slog.Logger) BaseAdapter {
	return BaseAdapter{
		source:  source,
		client:  resiliency.NewEnhancedClient(string(source), resiliency.DefaultConfig()),
		logger:  logger.With("adapter", string(source)),
		healthy: true,
	}
}

func (b *BaseAdapter) Source() model.Source { return b.source }
func (b *BaseAdapter) IsHealthy() bool      { return b.healthy }
func (b *BaseAdapter) setHealthy(ok bool)   { b.healthy = ok }

// Client exposes the adapter's resilient HTTP client to the transports that
// choose to make a live call instead of returning seed data.
func (b *BaseAdapter) Client() *resiliency.EnhancedClient { return b.client }

// recoverFetch is deferred at the top of every concrete Fetch to satisfy
// the "adapters fail soft" contract even against a panic deep in response
// parsing.
func (b *BaseAdapter) recoverFetch(items *[]model.RawItem) {
	if r := recover(); r != nil {
		b.logger.Warn("adapter fetch panicked, degrading to empty result", "panic", r)
		b.setHealthy(false)
		*items = nil
	}
}

// windowSince converts a scan_window_days config value into a cutoff time.
func windowSince(windowDays int) time.Time {
	return time.Now().AddDate(0, 0, -windowDays)
}

// CreateDefaultAdapters returns the four adapters, one per spec.md source,
// sharing logger lineage.
func CreateDefaultAdapters(logger *slog.Logger) []Adapter {
	return []Adapter{
		NewLegislativeAdapter(logger),
		NewRegulatoryAdapter(logger),
		NewGrantsAdapter(logger),
		NewSpendingAdapter(logger),
	}
}

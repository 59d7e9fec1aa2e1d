package adapters

import (
	"context"
	"log/slog"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// LegislativeAdapter fetches recent bill activity from a Congress.gov-style
// source. The federal API's HTTP transport is explicitly out of scope
// (spec.md §1); Transport is a seam a production deployment plugs a real
// client into, and defaults to SeedLegislativeTransport, which returns no
// items.
type LegislativeAdapter struct {
	BaseAdapter
	Transport LegislativeTransport
}

// LegislativeTransport retrieves raw bill records for the given window and
// program hints. The production HTTP implementation of this interface is
// out of scope; tests and the default wiring use SeedLegislativeTransport.
type LegislativeTransport interface {
	FetchBills(ctx context.Context, windowDays int, programs []ProgramHint) ([]model.RawItem, error)
}

func NewLegislativeAdapter(logger *slog.Logger) *LegislativeAdapter {
	return &LegislativeAdapter{
		BaseAdapter: newBase(model.SourceLegislative, logger),
		Transport:   SeedLegislativeTransport{},
	}
}

func (a *LegislativeAdapter) Fetch(ctx context.Context, windowDays int, programs []ProgramHint) (items []model.RawItem) {
	defer a.recoverFetch(&items)
	got, err := a.Transport.FetchBills(ctx, windowDays, programs)
	if err != nil {
		a.logger.Warn("legislative fetch failed, returning empty sequence", "error", err)
		a.setHealthy(false)
		return nil
	}
	a.setHealthy(true)
	return got
}

// SeedLegislativeTransport is the deterministic baseline transport: it
// returns an empty sequence and no error, so the adapter stays healthy and
// contributes no items until a production transport is plugged in.
type SeedLegislativeTransport struct{}

func (SeedLegislativeTransport) FetchBills(_ context.Context, _ int, _ []ProgramHint) ([]model.RawItem, error) {
	return nil, nil
}

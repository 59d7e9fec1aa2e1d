package adapters

import (
	"context"
	"log/slog"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// GrantsAdapter fetches open funding opportunities from a
// Grants.gov/SAM.gov-style source. Tier T3 per spec.md §4.1.
type GrantsAdapter struct {
	BaseAdapter
	Transport GrantsTransport
}

type GrantsTransport interface {
	FetchOpportunities(ctx context.Context, windowDays int, programs []ProgramHint) ([]model.RawItem, error)
}

func NewGrantsAdapter(logger *slog.Logger) *GrantsAdapter {
	return &GrantsAdapter{
		BaseAdapter: newBase(model.SourceGrants, logger),
		Transport:   SeedGrantsTransport{},
	}
}

func (a *GrantsAdapter) Fetch(ctx context.Context, windowDays int, programs []ProgramHint) (items []model.RawItem) {
	defer a.recoverFetch(&items)
	got, err := a.Transport.FetchOpportunities(ctx, windowDays, programs)
	if err != nil {
		a.logger.Warn("grants fetch failed, returning empty sequence", "error", err)
		a.setHealthy(false)
		return nil
	}
	a.setHealthy(true)
	return got
}

// SeedGrantsTransport is the deterministic baseline transport.
type SeedGrantsTransport struct{}

func (SeedGrantsTransport) FetchOpportunities(_ context.Context, _ int, _ []ProgramHint) ([]model.RawItem, error) {
	return nil, nil
}

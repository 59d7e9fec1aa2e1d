package adapters

import (
	"context"
	"log/slog"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// RegulatoryAdapter fetches Federal Register / regulations.gov-style
// notices. Tier T3 per spec.md §4.1.
type RegulatoryAdapter struct {
	BaseAdapter
	Transport RegulatoryTransport
}

type RegulatoryTransport interface {
	FetchNotices(ctx context.Context, windowDays int, programs []ProgramHint) ([]model.RawItem, error)
}

func NewRegulatoryAdapter(logger *slog.Logger) *RegulatoryAdapter {
	return &RegulatoryAdapter{
		BaseAdapter: newBase(model.SourceRegulatory, logger),
		Transport:   SeedRegulatoryTransport{},
	}
}

func (a *RegulatoryAdapter) Fetch(ctx context.Context, windowDays int, programs []ProgramHint) (items []model.RawItem) {
	defer a.recoverFetch(&items)
	got, err := a.Transport.FetchNotices(ctx, windowDays, programs)
	if err != nil {
		a.logger.Warn("regulatory fetch failed, returning empty sequence", "error", err)
		a.setHealthy(false)
		return nil
	}
	a.setHealthy(true)
	return got
}

// SeedRegulatoryTransport is the deterministic baseline transport.
type SeedRegulatoryTransport struct{}

func (SeedRegulatoryTransport) FetchNotices(_ context.Context, _ int, _ []ProgramHint) ([]model.RawItem, error) {
	return nil, nil
}

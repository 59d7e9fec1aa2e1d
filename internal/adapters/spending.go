package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/atniclimate/tcr-policy-scanner/internal/resiliency"
)

// spendingAPIBaseURLEnv names the USAspending-style award-search endpoint.
// Unset (the default), the adapter runs entirely off SeedSpendingTransport,
// per spec.md §1's "adapter HTTP transport is out of scope" non-goal; set
// it to opt a deployment into a live call routed through the adapter's
// resiliency.EnhancedClient.
const spendingAPIBaseURLEnv = "SPENDING_API_BASE_URL"

// SpendingAdapter fetches award records from a USAspending.gov-style
// source. Tier T1 per spec.md §4.1. Spending items feed both the
// RelevanceScorer and GraphBuilder's Obligation-node construction.
type SpendingAdapter struct {
	BaseAdapter
	Transport SpendingTransport
}

type SpendingTransport interface {
	FetchAwards(ctx context.Context, windowDays int, programs []ProgramHint) ([]model.RawItem, error)
}

func NewSpendingAdapter(logger *slog.Logger) *SpendingAdapter {
	base := newBase(model.SourceSpending, logger)
	a := &SpendingAdapter{BaseAdapter: base, Transport: SeedSpendingTransport{}}
	if baseURL := os.Getenv(spendingAPIBaseURLEnv); baseURL != "" {
		a.Transport = HTTPSpendingTransport{client: base.Client(), baseURL: baseURL}
	}
	return a
}

func (a *SpendingAdapter) Fetch(ctx context.Context, windowDays int, programs []ProgramHint) (items []model.RawItem) {
	defer a.recoverFetch(&items)
	got, err := a.Transport.FetchAwards(ctx, windowDays, programs)
	if err != nil {
		a.logger.Warn("spending fetch failed, returning empty sequence", "error", err)
		a.setHealthy(false)
		return nil
	}
	a.setHealthy(true)
	return got
}

// SeedSpendingTransport is the deterministic baseline transport.
type SeedSpendingTransport struct{}

func (SeedSpendingTransport) FetchAwards(_ context.Context, _ int, _ []ProgramHint) ([]model.RawItem, error) {
	return nil, nil
}

// HTTPSpendingTransport calls a USAspending-style "spending by award"
// search endpoint through the adapter's resiliency.EnhancedClient, so
// retries, circuit breaking, and trace-context injection apply to the live
// path the same way the teacher's regwatch adapters route every outbound
// call through EnhancedClient.
type HTTPSpendingTransport struct {
	client  *resiliency.EnhancedClient
	baseURL string
}

type spendingSearchRequest struct {
	Filters struct {
		TimePeriod     []spendingTimePeriod `json:"time_period"`
		AwardTypeCodes []string             `json:"award_type_codes"`
		CFDANumbers    []string             `json:"program_numbers,omitempty"`
	} `json:"filters"`
	Fields []string `json:"fields"`
	Limit  int      `json:"limit"`
}

type spendingTimePeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type spendingSearchResponse struct {
	Results []spendingAwardRecord `json:"results"`
}

type spendingAwardRecord struct {
	AwardID        string  `json:"Award ID"`
	RecipientName  string  `json:"Recipient Name"`
	AwardAmount    float64 `json:"Award Amount"`
	CFDANumber     string  `json:"CFDA Number"`
	StartDate      string  `json:"Start Date"`
	AwardingAgency string  `json:"Awarding Agency"`
}

func (t HTTPSpendingTransport) FetchAwards(ctx context.Context, windowDays int, programs []ProgramHint) ([]model.RawItem, error) {
	cfdas := make([]string, 0, len(programs))
	for _, p := range programs {
		if p.CFDA != "" {
			cfdas = append(cfdas, p.CFDA)
		}
	}

	now := time.Now().UTC()
	body := spendingSearchRequest{
		Fields: []string{"Award ID", "Recipient Name", "Award Amount", "CFDA Number", "Start Date", "Awarding Agency"},
		Limit:  100,
	}
	body.Filters.TimePeriod = []spendingTimePeriod{{
		StartDate: now.AddDate(0, 0, -windowDays).Format("2006-01-02"),
		EndDate:   now.Format("2006-01-02"),
	}}
	body.Filters.AwardTypeCodes = []string{"02", "03", "04", "05"}
	body.Filters.CFDANumbers = cfdas

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("spending: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("spending: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spending: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("spending: unexpected status %d", resp.StatusCode)
	}

	var decoded spendingSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("spending: decode response: %w", err)
	}

	items := make([]model.RawItem, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		var publishedAt *time.Time
		if r.StartDate != "" {
			if ts, err := time.Parse("2006-01-02", r.StartDate); err == nil {
				publishedAt = &ts
			}
		}
		var cfda *string
		if r.CFDANumber != "" {
			c := r.CFDANumber
			cfda = &c
		}
		items = append(items, model.RawItem{
			Source:      model.SourceSpending,
			SourceID:    r.AwardID,
			Title:       fmt.Sprintf("Award %s to %s", r.AwardID, r.RecipientName),
			PublishedAt: publishedAt,
			Agency:      r.AwardingAgency,
			CFDA:        cfda,
			Extras: map[string]any{
				"amount":    r.AwardAmount,
				"recipient": r.RecipientName,
				"date":      r.StartDate,
			},
		})
	}
	return items, nil
}

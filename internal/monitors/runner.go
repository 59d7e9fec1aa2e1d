package monitors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/config"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// BuildFixedOrderList constructs the five monitors in the declared order
// spec.md §4.5 requires (HotSheetsValidator first, so its CI overrides are
// visible to every later monitor and to the decision engine) from validated
// configuration. A malformed date in cfg is a ConfigError-class fatal
// failure, surfaced to the caller rather than silently defaulted.
func BuildFixedOrderList(cfg config.MonitorsConfig) ([]Monitor, error) {
	fy26End, err := time.Parse("2006-01-02", cfg.IIJASunset.FY26End)
	if err != nil {
		return nil, fmt.Errorf("monitors: iija_sunset.fy26_end: %w", err)
	}
	crExpiration, err := time.Parse("2006-01-02", cfg.DHSFunding.CRExpiration)
	if err != nil {
		return nil, fmt.Errorf("monitors: dhs_funding.cr_expiration: %w", err)
	}

	return []Monitor{
		&HotSheetsValidator{StalenessDays: cfg.HotSheets.StalenessDays},
		&IIJASunsetMonitor{
			WarningDays:  cfg.IIJASunset.WarningDays,
			CriticalDays: cfg.IIJASunset.CriticalDays,
			FY26End:      fy26End,
		},
		&ReconciliationMonitor{
			Keywords:           cfg.Reconciliation.Keywords,
			ActiveBillStatuses: cfg.Reconciliation.ActiveBillStatuses,
			EnactedLawsExclude: cfg.Reconciliation.EnactedLawsExclude,
		},
		&DHSFundingCliffMonitor{
			CRExpiration:   crExpiration,
			FEMAProgramIDs: cfg.DHSFunding.FEMAProgramIDs,
			WarningDays:    cfg.DHSFunding.WarningDays,
		},
		&TribalConsultationMonitor{
			Keywords:    cfg.TribalConsultation.Keywords,
			AgencySlugs: cfg.TribalConsultation.AgencySlugs,
		},
	}, nil
}

// Execute runs every monitor in monitorList via RunAll, then walks the
// resulting alerts for creates_threatens_edge=true and replaces the graph's
// THREATENS edges with a fresh set: one transient threat node plus one edge
// per (monitor, program_id) pair. Spec.md §3: THREATENS edges are always
// regenerated from the current run, never persisted or accumulated.
func Execute(monitorList []Monitor, input Input) ([]model.Alert, map[string]error, error) {
	alerts, errs := RunAll(monitorList, input)

	var threatensEdges []model.Edge
	for _, alert := range alerts {
		if !alert.CreatesThreatensEdge() {
			continue
		}
		for _, programID := range alert.ProgramIDs {
			threatID := threatNodeID(alert.Monitor, programID)
			input.Graph.AddNode(model.Node{
				ID:   threatID,
				Type: model.NodeThreat,
				Attrs: map[string]any{
					"threat_type": alert.Monitor,
					"program_id":  programID,
				},
			})
			threatensEdges = append(threatensEdges, model.Edge{
				SourceID: threatID,
				TargetID: programID,
				Type:     model.EdgeThreatens,
				Metadata: threatensMetadata(alert.Metadata),
			})
		}
	}

	if err := input.Graph.ReplaceThreatensEdges(threatensEdges); err != nil {
		return alerts, errs, err
	}
	return alerts, errs, nil
}

func threatensMetadata(meta map[string]any) map[string]any {
	out := map[string]any{}
	for _, key := range []string{"days_remaining", "deadline", "description", "severity"} {
		if v, ok := meta[key]; ok {
			out[key] = v
		}
	}
	return out
}

func threatNodeID(threatType, programID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", threatType, programID)))
	return "threat_" + hex.EncodeToString(sum[:])[:16]
}

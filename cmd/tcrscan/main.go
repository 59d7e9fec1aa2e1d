// Command tcrscan runs one batch scan: fetch, normalize, diff, score, build
// the knowledge graph, run the fixed-order monitors, classify every program,
// render the briefing and its JSON mirror, and assemble each Tribe's packet
// context. Every stage is single-threaded except adapter fetch I/O; the
// whole run is idempotent given the same cached inputs and a fixed clock.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/adapters"
	"github.com/atniclimate/tcr-policy-scanner/internal/artifacts"
	"github.com/atniclimate/tcr-policy-scanner/internal/atomicio"
	"github.com/atniclimate/tcr-policy-scanner/internal/changedetect"
	"github.com/atniclimate/tcr-policy-scanner/internal/config"
	"github.com/atniclimate/tcr-policy-scanner/internal/decision"
	"github.com/atniclimate/tcr-policy-scanner/internal/econimpact"
	"github.com/atniclimate/tcr-policy-scanner/internal/inventory"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/atniclimate/tcr-policy-scanner/internal/monitors"
	"github.com/atniclimate/tcr-policy-scanner/internal/normalize"
	"github.com/atniclimate/tcr-policy-scanner/internal/observability"
	"github.com/atniclimate/tcr-policy-scanner/internal/packet"
	"github.com/atniclimate/tcr-policy-scanner/internal/pathreg"
	"github.com/atniclimate/tcr-policy-scanner/internal/relevance"
	"github.com/atniclimate/tcr-policy-scanner/internal/relfilter"
	"github.com/atniclimate/tcr-policy-scanner/internal/report"
)

func main() {
	var (
		root = flag.String("root", ".", "scanner data root (config/, data/, state/, output/)")
		verb = flag.String("verb", "scan", "scan | packets | validate-config")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	paths := pathreg.New(*root)

	if err := run(context.Background(), *verb, paths, logger); err != nil {
		logger.Error("scan run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, verb string, paths *pathreg.Registry, logger *slog.Logger) error {
	obs, err := observability.New(ctx, observability.DefaultConfig())
	if err != nil {
		return fmt.Errorf("observability init: %w", err)
	}
	defer obs.Shutdown(ctx)

	schema, err := config.CompileSchema([]byte(config.ScannerConfigSchema))
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	cfg, err := config.Load(paths.ScannerConfig(), schema)
	if err != nil {
		return err
	}

	if verb == "validate-config" {
		logger.Info("scanner_config.json is valid")
		return nil
	}

	programs, err := inventory.LoadProgramInventory(paths.ProgramInventory())
	if err != nil {
		return err
	}
	graphSchema, err := inventory.LoadGraphSchema(paths.GraphSchema())
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	ctxStage, endFetch := obs.TrackStage(ctx, "adapters.fetch")
	hints := programHints(programs)
	adapterList := adapters.CreateDefaultAdapters(logger)
	raw := adapters.FetchAll(ctxStage, adapterList, cfg.ScanWindowDays, hints)
	endFetch(nil)

	normalized := make([]model.ScoredItem, 0, len(raw))
	for _, r := range raw {
		normalized = append(normalized, normalize.Normalize(r, now))
	}

	changes := changedetect.New(paths.ChangeSnapshot(), logger).Diff(normalized)
	allItems := append(append(append([]model.ScoredItem{}, changes.New...), changes.Changed...), changes.Existing...)

	scorer := relevance.New(relevanceProgramList(programs), cfg.Relevance)
	scoredItems := scorer.ScoreAll(allItems)
	applyScores(&changes, scoredItems)

	builder := kg.NewBuilder()
	graph, err := builder.Build(programList(programs), scoredItems, graphSchema)
	if err != nil {
		return err
	}

	monitorState := loadMonitorState(paths.MonitorState())
	monitorList, err := monitors.BuildFixedOrderList(cfg.Monitors)
	if err != nil {
		return err
	}
	alerts, monitorErrs, err := monitors.Execute(monitorList, monitors.Input{
		Graph: graph, Items: scoredItems, Programs: programs, State: monitorState, Now: now,
	})
	if err != nil {
		return err
	}
	for name, merr := range monitorErrs {
		logger.Warn("monitor failed", "monitor", name, "error", merr)
	}
	monitorState.LastSeenAt = now.Format(time.RFC3339)
	if err := atomicio.WriteJSON(paths.MonitorState(), monitorState); err != nil {
		logger.Warn("failed to persist monitor state", "error", err)
	}

	engine, err := decision.NewEngine(cfg.Monitors.DecisionEngine.UrgencyThresholdDays)
	if err != nil {
		return err
	}
	classifications, err := engine.EvaluateAll(programs, graph, alerts)
	if err != nil {
		return err
	}
	classByProgram := make(map[string]model.Classification, len(classifications))
	for _, c := range classifications {
		classByProgram[c.ProgramID] = c
	}

	history, err := report.AppendCIHistory(paths.CIHistory(), programs, now.Format(time.RFC3339), cfg.Reporter.CIHistoryCap)
	if err != nil {
		logger.Warn("failed to append CI history", "error", err)
	}

	reportInput := report.Input{
		ScanDate: now, Programs: programs, Items: scoredItems, Changes: changes,
		Graph: graph, Alerts: alerts, Classifications: classifications, History: history,
		TrendWindow: cfg.Reporter.TrendWindow, DeltaThreshold: cfg.Reporter.DeltaThreshold,
	}
	briefing := report.RenderMarkdown(reportInput)
	results := report.BuildResultsJSON(reportInput, now.Format(time.RFC3339))
	graphJSON := graph.ToSerializable()
	monitorData := report.MonitorData{Alerts: alerts, Classifications: classifications, Summary: report.Summary{
		ProgramCount: len(programs), NewCount: len(changes.New), ChangedCount: len(changes.Changed), AlertCount: len(alerts),
	}}

	if err := atomicio.WriteFile(paths.LatestBriefing(), []byte(briefing), 0o644); err != nil {
		return err
	}
	if err := atomicio.WriteJSON(paths.LatestResults(), results); err != nil {
		return err
	}
	if err := atomicio.WriteJSON(paths.LatestGraph(), graphJSON); err != nil {
		return err
	}
	if err := atomicio.WriteJSON(paths.LatestMonitorData(), monitorData); err != nil {
		return err
	}

	mirror := artifacts.NewMirror(mirrorStoreOrNil(ctx, logger), logger)
	mirror.Push(ctx, "LATEST-BRIEFING.md", []byte(briefing))
	if resultsBytes, err := json.Marshal(results); err == nil {
		mirror.Push(ctx, "LATEST-RESULTS.json", resultsBytes)
	}

	if verb == "packets" {
		return buildAllPackets(paths, cfg, programs, classByProgram, now, logger)
	}

	logger.Info("scan complete", "programs", len(programs), "new_items", len(changes.New), "alerts", len(alerts))
	return nil
}

func buildAllPackets(paths *pathreg.Registry, cfg *config.Config, programs map[string]*model.Program, classByProgram map[string]model.Classification, now time.Time, logger *slog.Logger) error {
	tribes, err := inventory.LoadTribalRegistry(paths.TribalRegistry(), 60)
	if err != nil {
		return err
	}
	congress, err := inventory.LoadCongressionalMapper(paths.CongressionalCache())
	if err != nil {
		return err
	}
	ecoregions, err := inventory.LoadEcoregionMapper(paths.EcoregionConfig())
	if err != nil {
		return err
	}
	filter := relfilter.NewFilter(cfg.Packets.AlwaysInclude, cfg.Packets.HazardToProgram, cfg.Packets.MaxRelevantPrograms)
	tracker := packet.NewTracker(paths.PacketStateDir)

	for _, tribe := range tribes.GetAll() {
		awards := inventory.LoadAwardCache(paths.AwardCache(tribe.TribeID))
		hazards := inventory.LoadHazardProfile(paths.HazardProfile(tribe.TribeID))

		o := &packet.Orchestrator{
			Registry: tribes, Congress: congress, Ecoregions: ecoregions, Filter: filter, Tracker: tracker,
			AwardsByTribe:  map[string][]econimpact.Award{tribe.TribeID: awards},
			HazardsByTribe: map[string]packet.HazardProfile{tribe.TribeID: hazards},
		}
		ctxPacket, err := o.BuildContext(tribe.TribeID, programs, classByProgram, now)
		if err != nil {
			logger.Warn("packet context build failed", "tribe", tribe.TribeID, "error", err)
			continue
		}
		if err := atomicio.WriteJSON(filepath.Join(paths.PacketOutputDir, tribe.TribeID+".json"), ctxPacket); err != nil {
			logger.Warn("failed to persist packet context", "tribe", tribe.TribeID, "error", err)
		}
	}
	return nil
}

// applyScores writes each scored item's Score/MatchedPrograms/Confidence
// back into the bucket changedetect already sorted it into, since the
// RelevanceScorer runs after the ChangeDetector in the fixed pipeline order.
func applyScores(changes *changedetect.Result, scored []model.ScoredItem) {
	byIdentity := make(map[[2]string]model.ScoredItem, len(scored))
	for _, s := range scored {
		byIdentity[s.IdentityKey()] = s
	}
	rewrite := func(items []model.ScoredItem) {
		for i := range items {
			if s, ok := byIdentity[items[i].IdentityKey()]; ok {
				items[i] = s
			}
		}
	}
	rewrite(changes.New)
	rewrite(changes.Changed)
	rewrite(changes.Existing)
}

func programList(programs map[string]*model.Program) []model.Program {
	out := make([]model.Program, 0, len(programs))
	for _, p := range programs {
		out = append(out, *p)
	}
	return out
}

func relevanceProgramList(programs map[string]*model.Program) []relevance.Program {
	out := make([]relevance.Program, 0, len(programs))
	for _, p := range programs {
		out = append(out, relevance.Program{ID: p.ID, Name: p.Name, Agency: p.Agency, CFDA: p.CFDA, Keywords: p.Keywords})
	}
	return out
}

func programHints(programs map[string]*model.Program) []adapters.ProgramHint {
	out := make([]adapters.ProgramHint, 0, len(programs))
	for _, p := range programs {
		out = append(out, adapters.ProgramHint{ID: p.ID, CFDA: p.CFDA, Keywords: p.Keywords, Agency: p.Agency})
	}
	return out
}

func loadMonitorState(path string) *monitors.State {
	state := monitors.NewState()
	_, _ = atomicio.ReadJSONOrDefault(path, state)
	return state
}

func mirrorStoreOrNil(ctx context.Context, logger *slog.Logger) artifacts.Store {
	store, err := artifacts.NewStoreFromEnv(ctx)
	if err != nil {
		logger.Warn("artifact mirror disabled", "error", err)
		return nil
	}
	return store
}

// Package pathreg replaces module-level path globals with an explicit,
// process-wide table of well-known file locations, constructed once at
// startup and threaded by reference (spec.md §9).
package pathreg

import "path/filepath"

// Registry is the immutable table of config, cache, and output locations
// for one scanner run.
type Registry struct {
	// ConfigDir holds scanner_config.json, program_inventory.json,
	// graph_schema.json, ecoregion_config.json.
	ConfigDir string
	// DataDir holds tribal_registry.json, congressional_cache.json,
	// award_cache/, hazard_profiles/.
	DataDir string
	// StateDir holds .monitor_state.json, .ci_history.json,
	// .cfda_tracker.json, and the change-detector snapshot.
	StateDir string
	// OutputDir holds LATEST-BRIEFING.md, LATEST-RESULTS.json,
	// LATEST-GRAPH.json, LATEST-MONITOR-DATA.json.
	OutputDir string
	// PacketStateDir holds packet_state/<tribe_id>.json.
	PacketStateDir string
	// PacketOutputDir holds rendered per-Tribe packets.
	PacketOutputDir string
}

// New builds a Registry rooted at root, with the conventional subdirectory
// layout. Any field may be overridden individually after construction.
func New(root string) *Registry {
	return &Registry{
		ConfigDir:       filepath.Join(root, "config"),
		DataDir:         filepath.Join(root, "data"),
		StateDir:        filepath.Join(root, "state"),
		OutputDir:       filepath.Join(root, "output"),
		PacketStateDir:  filepath.Join(root, "state", "packet_state"),
		PacketOutputDir: filepath.Join(root, "output", "packets"),
	}
}

func (r *Registry) ScannerConfig() string     { return filepath.Join(r.ConfigDir, "scanner_config.json") }
func (r *Registry) ProgramInventory() string  { return filepath.Join(r.ConfigDir, "program_inventory.json") }
func (r *Registry) GraphSchema() string       { return filepath.Join(r.ConfigDir, "graph_schema.json") }
func (r *Registry) EcoregionConfig() string   { return filepath.Join(r.ConfigDir, "ecoregion_config.json") }
func (r *Registry) TribalRegistry() string    { return filepath.Join(r.DataDir, "tribal_registry.json") }
func (r *Registry) CongressionalCache() string { return filepath.Join(r.DataDir, "congressional_cache.json") }
func (r *Registry) AwardCache(tribeID string) string {
	return filepath.Join(r.DataDir, "award_cache", tribeID+".json")
}
func (r *Registry) HazardProfile(tribeID string) string {
	return filepath.Join(r.DataDir, "hazard_profiles", tribeID+".json")
}

func (r *Registry) MonitorState() string  { return filepath.Join(r.StateDir, ".monitor_state.json") }
func (r *Registry) CIHistory() string     { return filepath.Join(r.StateDir, ".ci_history.json") }
func (r *Registry) CFDATracker() string   { return filepath.Join(r.StateDir, ".cfda_tracker.json") }
func (r *Registry) ChangeSnapshot() string { return filepath.Join(r.StateDir, ".item_snapshot.json") }
func (r *Registry) PacketState(tribeID string) string {
	return filepath.Join(r.PacketStateDir, tribeID+".json")
}

func (r *Registry) LatestBriefing() string    { return filepath.Join(r.OutputDir, "LATEST-BRIEFING.md") }
func (r *Registry) LatestResults() string     { return filepath.Join(r.OutputDir, "LATEST-RESULTS.json") }
func (r *Registry) LatestGraph() string       { return filepath.Join(r.OutputDir, "LATEST-GRAPH.json") }
func (r *Registry) LatestMonitorData() string { return filepath.Join(r.OutputDir, "LATEST-MONITOR-DATA.json") }

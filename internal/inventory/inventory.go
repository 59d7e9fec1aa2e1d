// Package inventory loads the reference data files a scan run needs once at
// startup: the 16-program inventory, the static graph schema, the ecoregion
// table, the Tribal registry, and the congressional crosswalk/roster, plus
// the per-Tribe award and hazard caches. The reference-data loaders return a
// config.ConfigError on a missing or corrupt file; the per-Tribe cache
// loaders degrade to an empty default instead.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/atniclimate/tcr-policy-scanner/internal/config"
	"github.com/atniclimate/tcr-policy-scanner/internal/econimpact"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/atniclimate/tcr-policy-scanner/internal/packet"
	"github.com/atniclimate/tcr-policy-scanner/internal/registry"
)

// SupportedSchemaVersions is the semver range program_inventory.json's
// schema_version field must satisfy; a version outside this range is a
// fatal config.ConfigError, since the Program struct this package decodes
// into has no migration path for older shapes.
const SupportedSchemaVersions = ">= 1.0.0, < 2.0.0"

// ProgramInventoryDocument is program_inventory.json's top-level shape.
type ProgramInventoryDocument struct {
	SchemaVersion string          `json:"schema_version"`
	Programs      []model.Program `json:"programs"`
}

// LoadProgramInventory reads and validates program_inventory.json, checking
// schema_version against SupportedSchemaVersions before decoding programs.
func LoadProgramInventory(path string) (map[string]*model.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ConfigError{Path: path, Err: err}
	}

	var doc ProgramInventoryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}

	constraint, err := semver.NewConstraint(SupportedSchemaVersions)
	if err != nil {
		return nil, fmt.Errorf("inventory: bad constraint expression: %w", err)
	}
	version, err := semver.NewVersion(doc.SchemaVersion)
	if err != nil {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid schema_version %q: %w", doc.SchemaVersion, err)}
	}
	if !constraint.Check(version) {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("schema_version %s is outside supported range %s", doc.SchemaVersion, SupportedSchemaVersions)}
	}

	programs := make(map[string]*model.Program, len(doc.Programs))
	for i := range doc.Programs {
		p := doc.Programs[i]
		programs[p.ID] = &p
	}
	return programs, nil
}

// LoadGraphSchema reads graph_schema.json.
func LoadGraphSchema(path string) (kg.Schema, error) {
	var schema kg.Schema
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema, &config.ConfigError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return schema, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return schema, nil
}

// EcoregionDocument is ecoregion_config.json's shape.
type EcoregionDocument struct {
	StateToRegion  map[string]string   `json:"state_to_region"`
	RegionPrograms map[string][]string `json:"region_programs"`
}

// LoadEcoregionMapper reads ecoregion_config.json.
func LoadEcoregionMapper(path string) (*registry.EcoregionMapper, error) {
	var doc EcoregionDocument
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ConfigError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return registry.NewEcoregionMapper(doc.StateToRegion, doc.RegionPrograms), nil
}

// LoadTribalRegistry reads tribal_registry.json.
func LoadTribalRegistry(path string, fuzzyThreshold int) (*registry.TribalRegistry, error) {
	var tribes []model.Tribe
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ConfigError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, &tribes); err != nil {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return registry.NewTribalRegistry(tribes, fuzzyThreshold), nil
}

// CongressionalCacheDocument is congressional_cache.json's shape.
type CongressionalCacheDocument struct {
	Crosswalk  []registry.AIANNHCrosswalkEntry `json:"crosswalk"`
	Roster     []model.CongressMember          `json:"roster"`
	Committees []model.CommitteeMembership     `json:"committees"`
}

// LoadCongressionalMapper reads congressional_cache.json.
func LoadCongressionalMapper(path string) (*registry.CongressionalMapper, error) {
	var doc CongressionalCacheDocument
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.ConfigError{Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &config.ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return registry.NewCongressionalMapper(doc.Crosswalk, doc.Roster, doc.Committees), nil
}

// LoadAwardCache reads one Tribe's cached award list, degrading to an empty
// slice when the cache is absent or corrupt rather than failing the run.
func LoadAwardCache(path string) []econimpact.Award {
	var awards []econimpact.Award
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(raw, &awards); err != nil {
		return nil
	}
	return awards
}

// LoadHazardProfile reads one Tribe's cached hazard exposure join, degrading
// to a zero-value (T6) profile when the cache is absent or corrupt.
func LoadHazardProfile(path string) packet.HazardProfile {
	var profile packet.HazardProfile
	raw, err := os.ReadFile(path)
	if err != nil {
		return packet.HazardProfile{Confidence: model.ConfidenceScore{Tier: model.T6}}
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return packet.HazardProfile{Confidence: model.ConfidenceScore{Tier: model.T6}}
	}
	return profile
}

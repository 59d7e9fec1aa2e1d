package config

import (
	"bytes"
	"io"
)

// mustJSONReader wraps raw schema bytes as an io.Reader for the jsonschema
// compiler's AddResource, which wants a resource stream rather than bytes.
func mustJSONReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// ScannerConfigSchema is the embedded JSON Schema for scanner_config.json.
// It validates shape and types; cross-field constraints (weights summing to
// 1.0) are checked separately by Config.Validate.
const ScannerConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "scan_window_days": {"type": "integer", "minimum": 1},
    "relevance": {
      "type": "object",
      "properties": {
        "threshold": {"type": "number", "minimum": 0, "maximum": 1},
        "match_threshold": {"type": "number", "minimum": 0, "maximum": 1},
        "weights": {"type": "object", "additionalProperties": {"type": "number"}}
      }
    },
    "monitors": {"type": "object"},
    "reporter": {"type": "object"},
    "packets": {"type": "object"}
  }
}`

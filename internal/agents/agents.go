// Package agents holds the static agent code table: a read-only mapping
// from an agent guid to its display name and role, loaded once per process.
package agents

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed agent_codes.json
var agentCodesJSON []byte

// Agent is one entry of the code table.
type Agent struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Table maps an uppercase agent guid to its Agent entry.
type Table map[string]Agent

// Load parses the embedded code table.
func Load() (Table, error) {
	var table Table
	if err := json.Unmarshal(agentCodesJSON, &table); err != nil {
		return nil, fmt.Errorf("parse agent code table: %w", err)
	}
	return table, nil
}

// Lookup resolves a guid case-insensitively. Misses return ok=false; the
// caller leaves agent/role unset rather than failing.
func (t Table) Lookup(guid string) (Agent, bool) {
	a, ok := t[strings.ToUpper(guid)]
	return a, ok
}

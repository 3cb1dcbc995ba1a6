// Package events defines the wire shapes of one match's ordered event log
// and decodes a raw log into an event sequence the aggregator can replay.
package events

import "encoding/json"

// Envelope is one entry of a match event log. Exactly one of the pointer
// fields is set for a recognized event; all-nil envelopes are unknown
// event types and are ignored by the aggregator.
type Envelope struct {
	Configuration *Configuration `json:"configuration,omitempty"`
	RoundStarted  *RoundStarted  `json:"roundStarted,omitempty"`
	PlayerDied    *PlayerDied    `json:"playerDied,omitempty"`
	PlayerRevived *PlayerRevived `json:"playerRevived,omitempty"`
	RoundDecided  *RoundDecided  `json:"roundDecided,omitempty"`
	Snapshot      *Snapshot      `json:"snapshot,omitempty"`
}

// IntRef is the platform's wrapper around a numeric identifier.
type IntRef struct {
	Value int `json:"value"`
}

// Fallback carries the display fields the platform nests under "fallback".
type Fallback struct {
	DisplayName string `json:"displayName"`
	GUID        string `json:"guid"`
}

// NamedRef is a reference resolved through its fallback payload.
type NamedRef struct {
	Fallback Fallback `json:"fallback"`
}

// Configuration announces the map and per-slot agent selections. Only the
// first occurrence per log is processed.
type Configuration struct {
	SelectedMap NamedRef       `json:"selectedMap"`
	Players     []ConfigPlayer `json:"players"`
}

// ConfigPlayer binds a local slot to its selected agent.
type ConfigPlayer struct {
	PlayerID      IntRef   `json:"playerId"`
	SelectedAgent NamedRef `json:"selectedAgent"`
}

// RoundStarted declares which team attacks for the round that follows.
type RoundStarted struct {
	SpikeMode SpikeMode `json:"spikeMode"`
}

type SpikeMode struct {
	AttackingTeam IntRef `json:"attackingTeam"`
}

// PlayerDied reports a kill: the deceased slot and the killer slot.
type PlayerDied struct {
	DeceasedID IntRef `json:"deceasedId"`
	KillerID   IntRef `json:"killerId"`
}

// PlayerRevived has no scoreboard effect; revive rate is deliberately
// not a tracked metric.
type PlayerRevived struct {
	RevivedByID IntRef `json:"revivedById"`
	RevivedID   IntRef `json:"revivedId"`
}

// RoundDecided reports the round winner.
type RoundDecided struct {
	Result RoundResult `json:"result"`
}

type RoundResult struct {
	WinningTeam IntRef `json:"winningTeam"`
}

// Snapshot is a periodic per-player score report. The last snapshot in
// the log wins: combat scores overwrite, never accumulate.
type Snapshot struct {
	Players []SnapshotPlayer `json:"players"`
}

type SnapshotPlayer struct {
	PlayerID IntRef `json:"playerId"`
	Scores   Scores `json:"scores"`
}

type Scores struct {
	CombatScore CombatScore `json:"combatScore"`
}

type CombatScore struct {
	TotalScore int `json:"totalScore"`
}

// Decode parses a raw match log into its event sequence, preserving log
// order. Individual events that fail to decode are dropped rather than
// failing the whole log; an error is returned only when the outer array
// itself is malformed.
func Decode(raw []byte) ([]Envelope, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	out := make([]Envelope, 0, len(entries))
	for _, entry := range entries {
		var ev Envelope
		if err := json.Unmarshal(entry, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Package aggregator replays one match's ordered event log against a
// private 10-slot scoreboard and produces the completed per-slot stats.
package aggregator

import (
	"strconv"

	"github.com/vct-tools/vctstats/internal/agents"
	"github.com/vct-tools/vctstats/internal/events"
	"github.com/vct-tools/vctstats/internal/model"
)

// Replay consumes the event log in order and returns the finished
// scoreboard. The scoreboard always has exactly ten entries, however few
// players the events reference. State is match-scoped: nothing here is
// shared across matches.
func Replay(match *model.Match, log []events.Envelope, table agents.Table) model.Scoreboard {
	board := model.NewScoreboard()
	bound := bindTeams(match.TeamMapping)

	// Slots 6..10 start on the attacking side.
	attacking := attackerAtStart(bound)
	configHandled := false

	for _, ev := range log {
		switch {
		case ev.Configuration != nil:
			// Only the first configuration event counts.
			if configHandled {
				continue
			}
			configHandled = true
			applyConfiguration(board, ev.Configuration, table)

		case ev.RoundStarted != nil:
			// Sides can swap between rounds; all attribution from here to
			// the next roundStarted uses the updated attacker.
			attacking = resolveTeam(match, ev.RoundStarted.SpikeMode.AttackingTeam.Value)

		case ev.PlayerDied != nil:
			deceased := ev.PlayerDied.DeceasedID.Value
			killer := ev.PlayerDied.KillerID.Value
			// Both counters attribute by the deceased's current side.
			side := sideOf(bound, attacking, deceased)
			if slot, ok := board[deceased]; ok {
				slot.Deaths.Add(side)
			}
			if slot, ok := board[killer]; ok {
				slot.Kills.Add(side)
			}

		case ev.PlayerRevived != nil:
			// No scoreboard effect.

		case ev.RoundDecided != nil:
			winner := resolveTeam(match, ev.RoundDecided.Result.WinningTeam.Value)
			for _, slotNo := range bound[winner] {
				board[slotNo].RoundsWon.Add(sideOf(bound, attacking, slotNo))
			}

		case ev.Snapshot != nil:
			// Overwrite, never accumulate: the last snapshot wins.
			for _, p := range ev.Snapshot.Players {
				if slot, ok := board[p.PlayerID.Value]; ok {
					slot.CombatScore = p.Scores.CombatScore.TotalScore
				}
			}
		}
	}
	return board
}

// bindTeams fixes each global team to one half of the slot range: the
// numerically smaller team id gets slots 6..10, the larger gets 1..5.
// The binding is computed once per match and never varies with which
// side a team is attacking.
//
// This is an assumption carried over from the data layout, not a fact
// derived from the events. If it ever has to be derived (say, from the
// first roundStarted event), this function is the only place to touch.
func bindTeams(teamMapping map[int]string) map[string][]int {
	var low, high string
	for _, global := range teamMapping {
		if low == "" || numericLess(global, low) {
			low = global
		}
		if high == "" || numericLess(high, global) {
			high = global
		}
	}

	bound := make(map[string][]int, 2)
	if low != "" {
		bound[low] = []int{6, 7, 8, 9, 10}
	}
	if high != "" && high != low {
		bound[high] = []int{1, 2, 3, 4, 5}
	}
	return bound
}

// attackerAtStart returns the team bound to slots 6..10.
func attackerAtStart(bound map[string][]int) string {
	for team, slots := range bound {
		if len(slots) > 0 && slots[0] == 6 {
			return team
		}
	}
	return ""
}

// resolveTeam translates a team reference from the event payload to a
// global team id. Events carry match-local team numbers; anything not in
// the mapping is taken to already be a global id.
func resolveTeam(match *model.Match, value int) string {
	if global, ok := match.TeamMapping[value]; ok {
		return global
	}
	return strconv.Itoa(value)
}

// sideOf reports the side of the given slot under the current attacker.
func sideOf(bound map[string][]int, attacking string, slotNo int) model.Side {
	for _, s := range bound[attacking] {
		if s == slotNo {
			return model.SideAttack
		}
	}
	return model.SideDefense
}

func applyConfiguration(board model.Scoreboard, cfg *events.Configuration, table agents.Table) {
	mapName := cfg.SelectedMap.Fallback.DisplayName
	for _, slot := range board {
		name := mapName
		slot.Map = &name
	}

	for _, p := range cfg.Players {
		slot, ok := board[p.PlayerID.Value]
		if !ok {
			continue
		}
		agent, hit := table.Lookup(p.SelectedAgent.Fallback.GUID)
		if !hit {
			// Unknown guid: agent and role stay unset.
			continue
		}
		name, role := agent.Name, agent.Role
		slot.Agent = &name
		slot.Role = &role
	}
}

// numericLess orders decimal id strings by numeric value. Ids that fit in
// uint64 compare numerically; anything else falls back to length-then-
// lexical order, which matches numeric order for canonical decimals.
func numericLess(a, b string) bool {
	an, aerr := strconv.ParseUint(a, 10, 64)
	bn, berr := strconv.ParseUint(b, 10, 64)
	if aerr == nil && berr == nil {
		return an < bn
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

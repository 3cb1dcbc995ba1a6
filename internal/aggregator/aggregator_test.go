package aggregator

import (
	"testing"

	"github.com/vct-tools/vctstats/internal/agents"
	"github.com/vct-tools/vctstats/internal/events"
	"github.com/vct-tools/vctstats/internal/model"
)

// Global team ids for the two test teams. TeamA's id is numerically
// smaller, so it binds to slots 6..10 and starts attacking.
const (
	teamA = "100"
	teamB = "200"
)

// makeMatch builds a match where local team 1 → teamA and 2 → teamB.
func makeMatch() *model.Match {
	return &model.Match{
		PlatformGameID: "val:test-game",
		Tournament:     "Test Cup",
		Region:         "TEST",
		TeamMapping:    map[int]string{1: teamA, 2: teamB},
		ParticipantMapping: map[int]string{
			1: "p1", 2: "p2", 3: "p3", 4: "p4", 5: "p5",
			6: "p6", 7: "p7", 8: "p8", 9: "p9", 10: "p10",
		},
	}
}

var testAgents = agents.Table{
	"AGENT-JETT": {Name: "Jett", Role: "Duelist"},
	"AGENT-SOVA": {Name: "Sova", Role: "Initiator"},
}

// ---- event builders ----

func configEvent(mapName string, agentBySlot map[int]string) events.Envelope {
	cfg := &events.Configuration{}
	cfg.SelectedMap.Fallback.DisplayName = mapName
	for slot, guid := range agentBySlot {
		p := events.ConfigPlayer{}
		p.PlayerID.Value = slot
		p.SelectedAgent.Fallback.GUID = guid
		cfg.Players = append(cfg.Players, p)
	}
	return events.Envelope{Configuration: cfg}
}

func roundStarted(attackingTeam int) events.Envelope {
	ev := &events.RoundStarted{}
	ev.SpikeMode.AttackingTeam.Value = attackingTeam
	return events.Envelope{RoundStarted: ev}
}

func playerDied(deceased, killer int) events.Envelope {
	ev := &events.PlayerDied{}
	ev.DeceasedID.Value = deceased
	ev.KillerID.Value = killer
	return events.Envelope{PlayerDied: ev}
}

func roundDecided(winningTeam int) events.Envelope {
	ev := &events.RoundDecided{}
	ev.Result.WinningTeam.Value = winningTeam
	return events.Envelope{RoundDecided: ev}
}

func snapshot(scoreBySlot map[int]int) events.Envelope {
	ev := &events.Snapshot{}
	for slot, score := range scoreBySlot {
		p := events.SnapshotPlayer{}
		p.PlayerID.Value = slot
		p.Scores.CombatScore.TotalScore = score
		ev.Players = append(ev.Players, p)
	}
	return events.Envelope{Snapshot: ev}
}

// ---- tests ----

func TestReplay_EmptyLogStillTenSlots(t *testing.T) {
	board := Replay(makeMatch(), nil, testAgents)
	if len(board) != 10 {
		t.Fatalf("expected 10 scoreboard entries, got %d", len(board))
	}
	for slot := 1; slot <= 10; slot++ {
		s, ok := board[slot]
		if !ok {
			t.Fatalf("missing slot %d", slot)
		}
		if s.Kills != (model.SideCount{}) || s.Deaths != (model.SideCount{}) || s.CombatScore != 0 {
			t.Errorf("slot %d not zeroed: %+v", slot, s)
		}
		if s.Map != nil || s.Agent != nil || s.Role != nil {
			t.Errorf("slot %d should have nil map/agent/role", slot)
		}
	}
}

func TestBindTeams_SmallerIDGetsBackHalf(t *testing.T) {
	bound := bindTeams(map[int]string{1: teamA, 2: teamB})
	if got := bound[teamA]; len(got) != 5 || got[0] != 6 {
		t.Errorf("teamA (smaller id) should bind slots 6..10, got %v", got)
	}
	if got := bound[teamB]; len(got) != 5 || got[0] != 1 {
		t.Errorf("teamB (larger id) should bind slots 1..5, got %v", got)
	}
}

func TestBindTeams_LongIDsCompareNumerically(t *testing.T) {
	// An 11-digit id is numerically larger than any 10-digit id even
	// when it sorts first lexically.
	low := "9104213921"
	bound := bindTeams(map[int]string{1: "10994213921", 2: low})
	if got := bound[low]; len(got) == 0 || got[0] != 6 {
		t.Errorf("numerically smaller id should bind slots 6..10, got %v", got)
	}
}

func TestReplay_InitialAttackerIsBackHalfTeam(t *testing.T) {
	// No roundStarted yet: teamA (slots 6..10) is attacking. A death in
	// slot 7 is attack-side for both the deceased and the killer.
	log := []events.Envelope{playerDied(7, 1)}
	board := Replay(makeMatch(), log, testAgents)

	if board[7].Deaths.Attack != 1 || board[7].Deaths.Defense != 0 {
		t.Errorf("deceased in attacking half: want attack death, got %+v", board[7].Deaths)
	}
	if board[1].Kills.Attack != 1 || board[1].Kills.Defense != 0 {
		t.Errorf("killer attributed by deceased side: want attack kill, got %+v", board[1].Kills)
	}
}

func TestReplay_SideSwapChangesAttribution(t *testing.T) {
	log := []events.Envelope{
		roundStarted(2),   // teamB attacks: slots 1..5 are the attack half
		playerDied(3, 8),  // slot 3 is attacking → attack-side death
		roundStarted(1),   // swap: teamA attacks
		playerDied(3, 8),  // slot 3 now defends → defense-side death
	}
	board := Replay(makeMatch(), log, testAgents)

	if board[3].Deaths.Attack != 1 || board[3].Deaths.Defense != 1 {
		t.Errorf("expected one attack and one defense death, got %+v", board[3].Deaths)
	}
	if board[8].Kills.Attack != 1 || board[8].Kills.Defense != 1 {
		t.Errorf("killer side must follow the swap, got %+v", board[8].Kills)
	}
}

func TestReplay_SecondConfigurationIgnored(t *testing.T) {
	log := []events.Envelope{
		configEvent("Ascent", map[int]string{6: "AGENT-JETT"}),
		configEvent("Bind", map[int]string{6: "AGENT-SOVA", 7: "AGENT-SOVA"}),
	}
	board := Replay(makeMatch(), log, testAgents)

	if board[1].Map == nil || *board[1].Map != "Ascent" {
		t.Errorf("map must come from the first configuration, got %v", board[1].Map)
	}
	if board[6].Agent == nil || *board[6].Agent != "Jett" {
		t.Errorf("agent must come from the first configuration, got %v", board[6].Agent)
	}
	if board[7].Agent != nil {
		t.Errorf("second configuration must not set agents, got %v", *board[7].Agent)
	}
}

func TestReplay_ConfigurationSetsMapOnAllSlots(t *testing.T) {
	log := []events.Envelope{configEvent("Haven", nil)}
	board := Replay(makeMatch(), log, testAgents)
	for slot := 1; slot <= 10; slot++ {
		if board[slot].Map == nil || *board[slot].Map != "Haven" {
			t.Fatalf("slot %d: expected map Haven, got %v", slot, board[slot].Map)
		}
	}
}

func TestReplay_UnknownAgentLeavesSlotUnset(t *testing.T) {
	log := []events.Envelope{configEvent("Ascent", map[int]string{6: "NO-SUCH-GUID"})}
	board := Replay(makeMatch(), log, testAgents)
	if board[6].Agent != nil || board[6].Role != nil {
		t.Errorf("unknown guid must leave agent/role unset, got %v/%v", board[6].Agent, board[6].Role)
	}
}

func TestReplay_RoundDecidedCreditsWinningSlots(t *testing.T) {
	log := []events.Envelope{
		roundStarted(1),  // teamA (slots 6..10) attacking
		roundDecided(1),  // teamA wins → its slots get attack-side round wins
		roundStarted(2),  // teamB attacking
		roundDecided(1),  // teamA wins on defense
	}
	board := Replay(makeMatch(), log, testAgents)

	if board[6].RoundsWon.Attack != 1 || board[6].RoundsWon.Defense != 1 {
		t.Errorf("teamA slot: want {attack:1 defense:1}, got %+v", board[6].RoundsWon)
	}
	if board[1].RoundsWon != (model.SideCount{}) {
		t.Errorf("losing team slots must not be credited, got %+v", board[1].RoundsWon)
	}
}

func TestReplay_LastSnapshotWins(t *testing.T) {
	log := []events.Envelope{
		snapshot(map[int]int{6: 120, 1: 80}),
		snapshot(map[int]int{6: 250}),
	}
	board := Replay(makeMatch(), log, testAgents)

	if board[6].CombatScore != 250 {
		t.Errorf("combat score must be overwritten by last snapshot, got %d", board[6].CombatScore)
	}
	if board[1].CombatScore != 80 {
		t.Errorf("slot absent from later snapshot keeps prior value, got %d", board[1].CombatScore)
	}
}

func TestReplay_SelfKillCountsBothWays(t *testing.T) {
	log := []events.Envelope{playerDied(6, 6)}
	board := Replay(makeMatch(), log, testAgents)
	if board[6].Deaths.Attack != 1 || board[6].Kills.Attack != 1 {
		t.Errorf("self-kill: both counters apply, got kills %+v deaths %+v", board[6].Kills, board[6].Deaths)
	}
}

func TestReplay_RevivedAndUnknownEventsAreNoOps(t *testing.T) {
	revived := &events.PlayerRevived{}
	revived.RevivedID.Value = 6
	log := []events.Envelope{
		{PlayerRevived: revived},
		{}, // unknown event type: decoded as an empty envelope
	}
	board := Replay(makeMatch(), log, testAgents)
	for slot := 1; slot <= 10; slot++ {
		if *board[slot] != (model.SlotStats{}) {
			t.Fatalf("slot %d mutated by no-op events: %+v", slot, board[slot])
		}
	}
}

func TestReplay_OutOfRangeSlotsIgnored(t *testing.T) {
	log := []events.Envelope{
		playerDied(11, 0),
		snapshot(map[int]int{0: 999, 11: 999}),
	}
	board := Replay(makeMatch(), log, testAgents)
	if len(board) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(board))
	}
	for slot := 1; slot <= 10; slot++ {
		if board[slot].CombatScore != 0 {
			t.Errorf("slot %d should be untouched", slot)
		}
	}
}

package model

import "time"

// Side is one half of a Valorant round: attack or defense.
type Side int

const (
	SideAttack Side = iota
	SideDefense
)

func (s Side) String() string {
	if s == SideAttack {
		return "attack"
	}
	return "defense"
}

// SideCount holds a per-side counter pair.
type SideCount struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// Add increments the counter for the given side.
func (c *SideCount) Add(s Side) {
	if s == SideAttack {
		c.Attack++
	} else {
		c.Defense++
	}
}

// ---- Reference directory entities ----

// League is one competitive league within a tour. Immutable once loaded.
type League struct {
	ID     string
	Name   string
	Region string
}

// Tournament denormalizes its league's name and region for downstream use.
type Tournament struct {
	ID         string
	Name       string
	LeagueID   string
	LeagueName string
	Region     string
}

// Team carries its home league's name and region when the league resolves.
// Unresolved home leagues leave the pointer fields nil.
type Team struct {
	ID             string
	Name           string
	Acronym        string
	HomeLeagueName *string
	Region         *string
}

// Player is the single live record per global player id. The home-team
// fields are nil when the team id was absent from the Team directory.
type Player struct {
	Handle          string      `json:"handle"`
	UpdatedAt       time.Time   `json:"date"`
	Status          string      `json:"status"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	HomeTeamName    *string     `json:"home_team_name"`
	HomeTeamAcronym *string     `json:"home_team_acronym"`
	HomeLeagueName  *string     `json:"home_league_name"`
	Region          *string     `json:"region"`
	GameStatistics  []MatchStat `json:"game_statistics"`
}

// ---- Match-scoped values ----

// Match maps one game's local team/participant numbers to global ids.
// Local slot numbers (1..10) are meaningless outside this match.
type Match struct {
	PlatformGameID     string
	Tournament         string
	Region             string
	TeamMapping        map[int]string
	ParticipantMapping map[int]string
}

// SlotStats is the mutable per-slot scoreboard entry maintained during
// event replay. Kill/death/assist counters are transient: they feed the
// KDA computation and are not retained on the final MatchStat.
type SlotStats struct {
	Kills       SideCount
	Deaths      SideCount
	Assists     SideCount
	RoundsWon   SideCount
	CombatScore int
	Map         *string
	Agent       *string
	Role        *string
}

// Scoreboard holds exactly one SlotStats per local slot 1..10.
type Scoreboard map[int]*SlotStats

// NewScoreboard returns a scoreboard with all ten slots zeroed.
func NewScoreboard() Scoreboard {
	board := make(Scoreboard, 10)
	for slot := 1; slot <= 10; slot++ {
		board[slot] = &SlotStats{}
	}
	return board
}

// MatchStat is one player's completed record for one match, appended to
// Player.GameStatistics by the statistics joiner.
type MatchStat struct {
	RoundsWon   SideCount `json:"rounds_won"`
	CombatScore int       `json:"combat_score"`
	Map         *string   `json:"map"`
	Agent       *string   `json:"agent"`
	Role        *string   `json:"role"`
	Tournament  string    `json:"tournament"`
	Region      string    `json:"region"`
	AttackKDA   float64   `json:"attack_kda"`
	DefenseKDA  float64   `json:"defense_kda"`
}

// PlayerGameStat is one joined (player, match) row, kept for the local
// stats store and the inspection commands.
type PlayerGameStat struct {
	Tour           string
	PlatformGameID string
	PlayerID       string
	Handle         string
	Stat           MatchStat
}

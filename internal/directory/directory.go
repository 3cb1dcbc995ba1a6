// Package directory builds the per-tour reference directories (leagues,
// tournaments, teams, players) and resolves each match's local team and
// participant numbers to global ids.
//
// Tables load in a fixed order (leagues, tournaments, teams, players,
// match mappings) because each later table denormalizes fields from the
// earlier ones. Unresolvable foreign keys degrade to absent fields and a
// recorded diagnostic, never an error; only a failure to fetch or parse
// a reference table itself is fatal, and then only for this tour.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vct-tools/vctstats/internal/blob"
	"github.com/vct-tools/vctstats/internal/diag"
	"github.com/vct-tools/vctstats/internal/model"
)

// referenceFiles is the load order under {tour}/esports-data/.
var referenceFiles = []string{"leagues", "tournaments", "teams", "players", "mapping_data"}

// Directory holds one tour's resolved reference tables. Read-only once
// Build returns, except for Player.GameStatistics which the statistics
// joiner appends to.
type Directory struct {
	Tour        string
	Leagues     map[string]model.League
	Tournaments map[string]model.Tournament
	Teams       map[string]model.Team
	Players     map[string]*model.Player
	// PlayerOrder preserves first-insertion order; the player_statistics
	// artifact is an array in this order.
	PlayerOrder []string
	Matches     map[string]*model.Match
	// MatchOrder preserves mapping-table order for deterministic runs.
	MatchOrder []string
}

// New returns an empty directory for one tour.
func New(tour string) *Directory {
	return &Directory{
		Tour:        tour,
		Leagues:     make(map[string]model.League),
		Tournaments: make(map[string]model.Tournament),
		Teams:       make(map[string]model.Team),
		Players:     make(map[string]*model.Player),
		Matches:     make(map[string]*model.Match),
	}
}

// Build fetches and loads every reference table for the tour. Any error
// here is a hard failure for the tour: all later stages depend on a fully
// built directory.
func Build(ctx context.Context, store blob.Store, bucket, tour string, rec *diag.Recorder) (*Directory, error) {
	d := New(tour)
	for _, file := range referenceFiles {
		key := fmt.Sprintf("%s/esports-data/%s.json.gz", tour, file)
		raw, err := store.FetchGzipped(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("fetch reference table %s: %w", key, err)
		}

		switch file {
		case "leagues":
			err = d.loadLeagues(raw)
		case "tournaments":
			err = d.loadTournaments(raw, rec)
		case "teams":
			err = d.loadTeams(raw, rec)
		case "players":
			err = d.loadPlayers(raw)
		case "mapping_data":
			err = d.loadMappings(raw, rec)
		}
		if err != nil {
			return nil, fmt.Errorf("load reference table %s: %w", key, err)
		}
	}
	return d, nil
}

type leagueRow struct {
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
}

func (d *Directory) loadLeagues(raw []byte) error {
	var rows []leagueRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		d.Leagues[row.LeagueID] = model.League{
			ID:     row.LeagueID,
			Name:   row.Name,
			Region: row.Region,
		}
	}
	return nil
}

type tournamentRow struct {
	ID       string `json:"id"`
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
}

func (d *Directory) loadTournaments(raw []byte, rec *diag.Recorder) error {
	var rows []tournamentRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		tournament := model.Tournament{
			ID:       row.ID,
			Name:     row.Name,
			LeagueID: row.LeagueID,
		}
		if league, ok := d.Leagues[row.LeagueID]; ok {
			tournament.LeagueName = league.Name
			tournament.Region = league.Region
		} else {
			rec.Record(diag.Event{
				Kind:   diag.KindReferenceGap,
				Tour:   d.Tour,
				Detail: fmt.Sprintf("league %s missing for tournament %s", row.LeagueID, row.ID),
			})
		}
		d.Tournaments[row.ID] = tournament
	}
	return nil
}

type teamRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Acronym      string `json:"acronym"`
	HomeLeagueID string `json:"home_league_id"`
}

func (d *Directory) loadTeams(raw []byte, rec *diag.Recorder) error {
	var rows []teamRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		team := model.Team{
			ID:      row.ID,
			Name:    row.Name,
			Acronym: row.Acronym,
		}
		if league, ok := d.Leagues[row.HomeLeagueID]; ok {
			name, region := league.Name, league.Region
			team.HomeLeagueName = &name
			team.Region = &region
		} else {
			rec.Record(diag.Event{
				Kind:   diag.KindReferenceGap,
				Tour:   d.Tour,
				Detail: fmt.Sprintf("league %s missing for team %s", row.HomeLeagueID, row.ID),
			})
		}
		d.Teams[row.ID] = team
	}
	return nil
}

type playerRow struct {
	ID         string `json:"id"`
	Handle     string `json:"handle"`
	Status     string `json:"status"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	HomeTeamID string `json:"home_team_id"`
	UpdatedAt  string `json:"updated_at"`
}

// loadPlayers keeps exactly one live record per player id. A row replaces
// the existing record only when its updated_at is strictly newer: ties
// keep the first-seen row. Player team history beyond the latest known
// affiliation is deliberately not tracked.
func (d *Directory) loadPlayers(raw []byte) error {
	var rows []playerRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		// Unparseable timestamps sort before everything, so the row can
		// still insert a new player but never displaces a dated record.
		updatedAt, _ := time.Parse(time.RFC3339, row.UpdatedAt)

		if existing, ok := d.Players[row.ID]; ok {
			if !updatedAt.After(existing.UpdatedAt) {
				continue
			}
		} else {
			d.PlayerOrder = append(d.PlayerOrder, row.ID)
		}

		player := &model.Player{
			Handle:         row.Handle,
			UpdatedAt:      updatedAt,
			Status:         row.Status,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			GameStatistics: []model.MatchStat{},
		}
		if team, ok := d.Teams[row.HomeTeamID]; ok {
			name, acronym := team.Name, team.Acronym
			player.HomeTeamName = &name
			player.HomeTeamAcronym = &acronym
			player.HomeLeagueName = team.HomeLeagueName
			player.Region = team.Region
		}

		// A newer row fully replaces prior attributes, but statistics
		// already joined for this tour belong to the player, not the row.
		if existing, ok := d.Players[row.ID]; ok {
			player.GameStatistics = existing.GameStatistics
		}
		d.Players[row.ID] = player
	}
	return nil
}

type mappingRow struct {
	PlatformGameID     string            `json:"platformGameId"`
	TournamentID       string            `json:"tournamentId"`
	TeamMapping        map[string]string `json:"teamMapping"`
	ParticipantMapping map[string]string `json:"participantMapping"`
}

// loadMappings constructs one Match per distinct platform game id. Local
// ids are normalized to integers; absent slots are simply never addressed
// by the scoreboard.
func (d *Directory) loadMappings(raw []byte, rec *diag.Recorder) error {
	var rows []mappingRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		match := &model.Match{
			PlatformGameID:     row.PlatformGameID,
			TeamMapping:        normalizeLocalIDs(row.TeamMapping),
			ParticipantMapping: normalizeLocalIDs(row.ParticipantMapping),
		}
		if tournament, ok := d.Tournaments[row.TournamentID]; ok {
			match.Tournament = tournament.Name
			match.Region = tournament.Region
		} else {
			rec.Record(diag.Event{
				Kind:   diag.KindReferenceGap,
				Tour:   d.Tour,
				GameID: row.PlatformGameID,
				Detail: fmt.Sprintf("tournament %s missing for game %s", row.TournamentID, row.PlatformGameID),
			})
		}
		if _, seen := d.Matches[row.PlatformGameID]; !seen {
			d.MatchOrder = append(d.MatchOrder, row.PlatformGameID)
		}
		d.Matches[row.PlatformGameID] = match
	}
	return nil
}

func normalizeLocalIDs(mapping map[string]string) map[int]string {
	out := make(map[int]string, len(mapping))
	for local, global := range mapping {
		n, err := strconv.Atoi(local)
		if err != nil {
			continue
		}
		out[n] = global
	}
	return out
}

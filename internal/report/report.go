package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/vct-tools/vctstats/internal/model"
	"github.com/vct-tools/vctstats/internal/storage"
)

// PrintTourList prints the stored tour summaries.
func PrintTourList(w io.Writer, tours []storage.TourSummary) {
	table := newTable(w)
	table.Header("TOUR", "MATCHES", "SKIPPED", "PLAYERS", "UPDATED")
	for _, t := range tours {
		table.Append(
			t.Tour,
			strconv.Itoa(t.ProcessedMatches),
			strconv.Itoa(t.SkippedMatches),
			strconv.Itoa(t.Players),
			t.UpdatedAt,
		)
	}
	table.Render()
}

// PrintStatsTable prints joined per-player per-match rows. If focusHandle
// is non-empty, that player's rows are marked with ">".
func PrintStatsTable(w io.Writer, rows []model.PlayerGameStat, focusHandle string) {
	table := newTable(w)
	table.Header(
		" ", "HANDLE", "GAME", "MAP", "AGENT", "ROLE",
		"RW_ATK", "RW_DEF", "ACS", "A_KDA", "D_KDA", "TOURNAMENT",
	)
	for _, r := range rows {
		marker := " "
		if focusHandle != "" && strings.EqualFold(r.Handle, focusHandle) {
			marker = ">"
		}
		table.Append(
			marker,
			r.Handle,
			shortGameID(r.PlatformGameID),
			orDash(r.Stat.Map),
			orDash(r.Stat.Agent),
			orDash(r.Stat.Role),
			strconv.Itoa(r.Stat.RoundsWon.Attack),
			strconv.Itoa(r.Stat.RoundsWon.Defense),
			strconv.Itoa(r.Stat.CombatScore),
			fmt.Sprintf("%.2f", r.Stat.AttackKDA),
			fmt.Sprintf("%.2f", r.Stat.DefenseKDA),
			r.Stat.Tournament,
		)
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// shortGameID trims the platform prefix off a game id for display.
func shortGameID(id string) string {
	if len(id) > 20 {
		return id[:20]
	}
	return id
}

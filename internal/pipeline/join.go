package pipeline

import (
	"math"

	"github.com/vct-tools/vctstats/internal/directory"
	"github.com/vct-tools/vctstats/internal/model"
)

// joinScoreboard merges one finished scoreboard into the player
// directory. Slots whose global player id is absent from the directory
// contribute nothing. The raw kill/death/assist counters are consumed
// by the KDA computation and not retained.
//
// Callers serialize: appends to a player's statistics must have one
// writer at a time, since multiple matches can reference the same player.
func joinScoreboard(tour string, dir *directory.Directory, match *model.Match, board model.Scoreboard) []model.PlayerGameStat {
	var rows []model.PlayerGameStat
	for slotNo := 1; slotNo <= 10; slotNo++ {
		playerID, bound := match.ParticipantMapping[slotNo]
		if !bound {
			continue
		}
		player, known := dir.Players[playerID]
		if !known {
			continue
		}

		slot := board[slotNo]
		stat := model.MatchStat{
			RoundsWon:   slot.RoundsWon,
			CombatScore: slot.CombatScore,
			Map:         slot.Map,
			Agent:       slot.Agent,
			Role:        slot.Role,
			Tournament:  match.Tournament,
			Region:      match.Region,
			AttackKDA:   kda(slot.Kills.Attack, slot.Assists.Attack, slot.Deaths.Attack),
			DefenseKDA:  kda(slot.Kills.Defense, slot.Assists.Defense, slot.Deaths.Defense),
		}

		player.GameStatistics = append(player.GameStatistics, stat)
		rows = append(rows, model.PlayerGameStat{
			Tour:           tour,
			PlatformGameID: match.PlatformGameID,
			PlayerID:       playerID,
			Handle:         player.Handle,
			Stat:           stat,
		})
	}
	return rows
}

// kda computes (kills + assists) / max(1, deaths), rounded to two
// decimal places. Zero deaths never divides by zero.
func kda(kills, assists, deaths int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	v := float64(kills+assists) / float64(deaths)
	return math.Round(v*100) / 100
}

// Package reconcile derives authoritative per-map outcomes from a match's
// nested game data. A map's winner is decided by comparing that specific
// game's two side scores; the series winner plays no part in it, because a
// team can win the series while losing individual maps.
package reconcile

import (
	"fmt"
	"math"
	"strings"

	"cdl-tracker/internal/bp"
	"cdl-tracker/internal/domain"
)

const unknownName = "Unknown"

// FlattenMatch converts one completed match and its games into per-player
// per-map stat rows joined with the match metadata. The match series scores
// are left zero; the cache store recomputes them from the won flags on write.
func FlattenMatch(m bp.MatchSummary, games []bp.Game) []domain.StatRow {
	match := matchMetadata(m)

	var rows []domain.StatRow
	for _, game := range games {
		mode := unknownName
		if game.Modes != nil {
			mode = game.Modes.Name
		}
		mapName := unknownName
		if game.Maps != nil {
			mapName = game.Maps.Name
		}

		// Winner of this specific game. Nil when either score is
		// missing or the scores tie; fabricating an outcome would be
		// worse than reporting none.
		var winnerID *int64
		if game.Team1Score != nil && game.Team2Score != nil {
			switch {
			case *game.Team1Score > *game.Team2Score:
				winnerID = &game.Team1ID
			case *game.Team2Score > *game.Team1Score:
				winnerID = &game.Team2ID
			}
		}

		for _, ps := range game.PlayerStats {
			stat := domain.PlayerMapStat{
				MatchID:    match.MatchID,
				PlayerName: playerName(ps),
				MapNumber:  game.GameNum,
				MapName:    mapName,
				Mode:       mode,
				Kills:      ps.Kills,
				Deaths:     ps.Deaths,
				Assists:    ps.Assists,
				Damage:     ps.Damage,
				HillTime:   ps.HillTime,
				Rating:     rating(ps),
			}
			if ps.PlantCount != nil {
				stat.Plants = *ps.PlantCount
			}
			if ps.DefuseCount != nil {
				stat.Defuses = *ps.DefuseCount
			}

			switch ps.TeamID {
			case game.Team1ID:
				stat.TeamName = match.Team1Name
				stat.OpponentTeamName = match.Team2Name
				stat.TeamScore = game.Team1Score
				stat.OpponentScore = game.Team2Score
			case game.Team2ID:
				stat.TeamName = match.Team2Name
				stat.OpponentTeamName = match.Team1Name
				stat.TeamScore = game.Team2Score
				stat.OpponentScore = game.Team1Score
			default:
				stat.TeamName = unknownName
				stat.OpponentTeamName = unknownName
			}

			if winnerID != nil && (ps.TeamID == game.Team1ID || ps.TeamID == game.Team2ID) {
				won := ps.TeamID == *winnerID
				stat.WonMap = &won
			}

			rows = append(rows, domain.StatRow{Match: match, Stat: stat})
		}
	}

	return rows
}

func matchMetadata(m bp.MatchSummary) domain.Match {
	match := domain.Match{
		MatchID:    fmt.Sprintf("MATCH_%d", m.ID),
		SeriesType: fmt.Sprintf("BO%d", m.BestOf),
		Team1Name:  unknownName,
		Team2Name:  unknownName,
	}

	if date, ok := bp.ParseDatetime(m.Datetime); ok {
		match.Date = date
	}
	if m.Team1 != nil {
		match.Team1Name = m.Team1.Name
	}
	if m.Team2 != nil {
		match.Team2Name = m.Team2.Name
	}
	if m.Event != nil {
		match.EventName = m.Event.Name
		match.Season = m.Event.SeasonID
		match.IsLAN = strings.ToLower(m.Event.Type) != "online"
	}

	return match
}

func playerName(ps bp.PlayerStat) string {
	if ps.PlayerTag != "" {
		return ps.PlayerTag
	}
	return fmt.Sprintf("Player_%d", ps.PlayerID)
}

// rating prefers the source's composite metric and falls back to a simple
// KDA-based formula when it is absent or zero.
func rating(ps bp.PlayerStat) *float64 {
	var r float64
	if ps.BPRating != nil && *ps.BPRating != 0 {
		r = *ps.BPRating
	} else {
		deaths := ps.Deaths
		if deaths < 1 {
			deaths = 1
		}
		r = (float64(ps.Kills) + float64(ps.Assists)*0.25) / float64(deaths)
	}
	r = math.Round(r*100) / 100
	return &r
}

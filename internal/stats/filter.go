package stats

import (
	"time"

	"cdl-tracker/internal/domain"
)

// Filter narrows the dataset before aggregation. Zero values mean "no
// constraint".
type Filter struct {
	Team     string
	Opponent string
	Mode     string
	Map      string
	Position string
	Season   int
	From     *time.Time
	To       *time.Time
}

func (f Filter) matches(row domain.StatRow) bool {
	if f.Team != "" && row.Stat.TeamName != f.Team {
		return false
	}
	if f.Opponent != "" && row.Stat.OpponentTeamName != f.Opponent {
		return false
	}
	if f.Mode != "" && row.Stat.Mode != f.Mode {
		return false
	}
	if f.Map != "" && row.Stat.MapName != f.Map {
		return false
	}
	if f.Position != "" && Position(row.Stat.PlayerName) != f.Position {
		return false
	}
	if f.Season != 0 && row.Match.Season != f.Season {
		return false
	}
	if f.From != nil && row.Match.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && row.Match.Date.After(*f.To) {
		return false
	}
	return true
}

func applyFilter(rows []domain.StatRow, player string, f Filter) []domain.StatRow {
	var out []domain.StatRow
	for _, row := range rows {
		if player != "" && row.Stat.PlayerName != player {
			continue
		}
		if !f.matches(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

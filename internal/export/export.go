// Package export renders the cached dataset as an xlsx workbook, one row per
// player per map, matching the column layout consumers already build
// spreadsheets around.
package export

import (
	"fmt"

	"cdl-tracker/internal/domain"

	"github.com/xuri/excelize/v2"
)

var headers = []string{
	"match_id", "date", "event_name", "series_type", "is_lan", "season",
	"team_name", "opponent_team_name", "player_name",
	"mode", "map_name", "map_number",
	"kills", "deaths", "assists", "damage", "rating", "won_map",
	"hill_time", "plants", "defuses", "team_score", "opponent_score",
}

// Workbook serializes the rows into a single-sheet xlsx file.
func Workbook(rows []domain.StatRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Player Stats"
	f.NewSheet(sheet)
	f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.Match.MatchID,
			row.Match.Date.Format("2006-01-02 15:04:05"),
			row.Match.EventName,
			row.Match.SeriesType,
			row.Match.IsLAN,
			row.Match.Season,
			row.Stat.TeamName,
			row.Stat.OpponentTeamName,
			row.Stat.PlayerName,
			row.Stat.Mode,
			row.Stat.MapName,
			row.Stat.MapNumber,
			row.Stat.Kills,
			row.Stat.Deaths,
			row.Stat.Assists,
			row.Stat.Damage,
			optFloat(row.Stat.Rating),
			optBool(row.Stat.WonMap),
			row.Stat.HillTime,
			row.Stat.Plants,
			row.Stat.Defuses,
			optInt(row.Stat.TeamScore),
			optInt(row.Stat.OpponentScore),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "B", 18)
	f.SetColWidth(sheet, "C", "C", 28)
	f.SetColWidth(sheet, "D", "W", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func optFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optBool(v *bool) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

package export

import (
	"bytes"
	"testing"
	"time"

	"cdl-tracker/internal/domain"

	"github.com/xuri/excelize/v2"
)

func testRow(t *testing.T) domain.StatRow {
	t.Helper()
	rating := 1.31
	won := true
	score, oppScore := 250, 233
	return domain.StatRow{
		Match: domain.Match{
			MatchID:    "MATCH_100",
			Date:       time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC),
			EventName:  "CDL Major 2",
			SeriesType: "BO5",
			Season:     2026,
			Team1Name:  "OpTic Texas",
			Team2Name:  "FaZe Vegas",
		},
		Stat: domain.PlayerMapStat{
			MatchID:          "MATCH_100",
			PlayerName:       "Dashy",
			TeamName:         "OpTic Texas",
			OpponentTeamName: "FaZe Vegas",
			MapNumber:        1,
			MapName:          "Den",
			Mode:             "Hardpoint",
			Kills:            28,
			Deaths:           22,
			Assists:          6,
			Damage:           3400,
			HillTime:         95,
			Rating:           &rating,
			WonMap:           &won,
			TeamScore:        &score,
			OpponentScore:    &oppScore,
		},
	}
}

func TestWorkbook(t *testing.T) {
	data, err := Workbook([]domain.StatRow{testRow(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Player Stats")
	if err != nil {
		t.Fatalf("sheet missing: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("sheet rows = %d, want header + 1", len(rows))
	}

	if rows[0][0] != "match_id" || rows[0][8] != "player_name" {
		t.Errorf("unexpected header row %v", rows[0])
	}
	if rows[1][0] != "MATCH_100" || rows[1][8] != "Dashy" {
		t.Errorf("unexpected data row %v", rows[1])
	}
}

// A row with no rating and no outcome leaves those cells empty rather than
// writing fabricated zeros.
func TestWorkbook_MissingOptionalCellsStayEmpty(t *testing.T) {
	row := testRow(t)
	row.Stat.Rating = nil
	row.Stat.WonMap = nil
	row.Stat.TeamScore = nil
	row.Stat.OpponentScore = nil

	data, err := Workbook([]domain.StatRow{row})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	// rating is column Q (17), won_map is R (18).
	for _, cell := range []string{"Q2", "R2", "V2", "W2"} {
		v, err := f.GetCellValue("Player Stats", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if v != "" {
			t.Errorf("cell %s = %q, want empty", cell, v)
		}
	}
}

func TestWorkbook_EmptyDataset(t *testing.T) {
	data, err := Workbook(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Player Stats")
	if err != nil {
		t.Fatalf("sheet missing: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should still carry the header row, got %d rows", len(rows))
	}
}

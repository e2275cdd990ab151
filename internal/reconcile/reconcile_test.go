package reconcile

import (
	"testing"

	"cdl-tracker/internal/bp"
	"cdl-tracker/internal/domain"
)

const (
	teamAID int64 = 10
	teamBID int64 = 20
)

func intPtr(v int) *int { return &v }

func baseMatch() bp.MatchSummary {
	return bp.MatchSummary{
		ID:         4521,
		Datetime:   "2026-02-14T18:00:00Z",
		Status:     "complete",
		BestOf:     5,
		Team1ID:    teamAID,
		Team2ID:    teamBID,
		Team1Score: intPtr(3),
		Team2Score: intPtr(1),
		Team1:      &bp.TeamRef{ID: teamAID, Name: "OpTic Texas"},
		Team2:      &bp.TeamRef{ID: teamBID, Name: "FaZe Vegas"},
		Event:      &bp.EventRef{Name: "CDL Major 2", Type: "online", SeasonID: 2026},
	}
}

// makeGame builds one game with a single player per team.
func makeGame(num int, mode, mapName string, scoreA, scoreB *int) bp.Game {
	return bp.Game{
		GameNum:    num,
		Team1ID:    teamAID,
		Team2ID:    teamBID,
		Team1Score: scoreA,
		Team2Score: scoreB,
		Modes:      &bp.NameRef{Name: mode},
		Maps:       &bp.NameRef{Name: mapName},
		PlayerStats: []bp.PlayerStat{
			{PlayerID: 1, PlayerTag: "Dashy", TeamID: teamAID, Kills: 25, Deaths: 20, Assists: 5, Damage: 3100},
			{PlayerID: 2, PlayerTag: "Simp", TeamID: teamBID, Kills: 22, Deaths: 23, Assists: 8, Damage: 2900},
		},
	}
}

func rowsFor(t *testing.T, rows []domain.StatRow, player string, mapNumber int) domain.PlayerMapStat {
	t.Helper()
	for _, r := range rows {
		if r.Stat.PlayerName == player && r.Stat.MapNumber == mapNumber {
			return r.Stat
		}
	}
	t.Fatalf("no row for player %s map %d", player, mapNumber)
	return domain.PlayerMapStat{}
}

// A team can win a close map and get stomped on the next one; each map's
// outcome comes from that map's own scores, never from the series result.
func TestFlattenMatch_PerMapWinnerFromGameScores(t *testing.T) {
	games := []bp.Game{
		makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233)),
		makeGame(2, "Search & Destroy", "Raid", intPtr(1), intPtr(6)),
	}

	rows := FlattenMatch(baseMatch(), games)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	map1 := rowsFor(t, rows, "Dashy", 1)
	if map1.WonMap == nil || !*map1.WonMap {
		t.Errorf("map 1: expected Dashy's team to win 250-233")
	}
	if map1.TeamScore == nil || *map1.TeamScore != 250 {
		t.Errorf("map 1: expected team score 250, got %v", map1.TeamScore)
	}
	if map1.OpponentScore == nil || *map1.OpponentScore != 233 {
		t.Errorf("map 1: expected opponent score 233, got %v", map1.OpponentScore)
	}

	map2 := rowsFor(t, rows, "Dashy", 2)
	if map2.WonMap == nil || *map2.WonMap {
		t.Errorf("map 2: expected Dashy's team to lose 1-6")
	}
	if map2.TeamScore == nil || *map2.TeamScore != 1 {
		t.Errorf("map 2: expected team score 1, got %v", map2.TeamScore)
	}

	// Opposite perspective on the same games.
	opp1 := rowsFor(t, rows, "Simp", 1)
	if opp1.WonMap == nil || *opp1.WonMap {
		t.Errorf("map 1: expected Simp's team to lose")
	}
	if opp1.TeamScore == nil || *opp1.TeamScore != 233 {
		t.Errorf("map 1: expected Simp's team score 233, got %v", opp1.TeamScore)
	}
	opp2 := rowsFor(t, rows, "Simp", 2)
	if opp2.WonMap == nil || !*opp2.WonMap {
		t.Errorf("map 2: expected Simp's team to win")
	}
}

func TestFlattenMatch_MissingScoresLeaveOutcomeUnknown(t *testing.T) {
	games := []bp.Game{makeGame(1, "Hardpoint", "Den", nil, nil)}

	rows := FlattenMatch(baseMatch(), games)
	stat := rowsFor(t, rows, "Dashy", 1)

	if stat.WonMap != nil {
		t.Errorf("expected nil WonMap when scores are missing, got %v", *stat.WonMap)
	}
	if stat.TeamScore != nil || stat.OpponentScore != nil {
		t.Errorf("expected nil map scores when source carried none")
	}
}

func TestFlattenMatch_TiedScoresLeaveOutcomeUnknown(t *testing.T) {
	games := []bp.Game{makeGame(1, "Overload", "Scar", intPtr(3), intPtr(3))}

	rows := FlattenMatch(baseMatch(), games)
	stat := rowsFor(t, rows, "Dashy", 1)

	if stat.WonMap != nil {
		t.Errorf("expected nil WonMap on a tie, got %v", *stat.WonMap)
	}
	if stat.TeamScore == nil || *stat.TeamScore != 3 {
		t.Errorf("tie still carries the raw scores, got %v", stat.TeamScore)
	}
}

func TestFlattenMatch_UnknownTeamGetsNoOutcome(t *testing.T) {
	game := makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(200))
	game.PlayerStats = append(game.PlayerStats, bp.PlayerStat{
		PlayerID: 99, PlayerTag: "Sub", TeamID: 777, Kills: 10, Deaths: 10,
	})

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	stat := rowsFor(t, rows, "Sub", 1)

	if stat.TeamName != "Unknown" || stat.OpponentTeamName != "Unknown" {
		t.Errorf("expected Unknown team names, got %q vs %q", stat.TeamName, stat.OpponentTeamName)
	}
	if stat.WonMap != nil {
		t.Errorf("expected nil WonMap for a player on neither roster")
	}
	if stat.TeamScore != nil {
		t.Errorf("expected nil scores for a player on neither roster")
	}
}

func TestFlattenMatch_MatchMetadata(t *testing.T) {
	rows := FlattenMatch(baseMatch(), []bp.Game{makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))})

	m := rows[0].Match
	if m.MatchID != "MATCH_4521" {
		t.Errorf("expected MATCH_4521, got %s", m.MatchID)
	}
	if m.SeriesType != "BO5" {
		t.Errorf("expected BO5, got %s", m.SeriesType)
	}
	if m.IsLAN {
		t.Errorf("online event should not be LAN")
	}
	if m.Season != 2026 {
		t.Errorf("expected season 2026, got %d", m.Season)
	}
	if m.Team1Name != "OpTic Texas" || m.Team2Name != "FaZe Vegas" {
		t.Errorf("unexpected team names %q / %q", m.Team1Name, m.Team2Name)
	}
}

func TestFlattenMatch_LANDetection(t *testing.T) {
	m := baseMatch()
	m.Event.Type = "LAN"

	rows := FlattenMatch(m, []bp.Game{makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))})
	if !rows[0].Match.IsLAN {
		t.Errorf("non-online event type should be LAN")
	}
}

func TestRating_SourceValuePreferred(t *testing.T) {
	r := 1.37
	game := makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))
	game.PlayerStats[0].BPRating = &r

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	stat := rowsFor(t, rows, "Dashy", 1)

	if stat.Rating == nil || *stat.Rating != 1.37 {
		t.Errorf("expected source rating 1.37, got %v", stat.Rating)
	}
}

func TestRating_FallbackFormula(t *testing.T) {
	game := makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))
	game.PlayerStats[0].Kills = 20
	game.PlayerStats[0].Assists = 8
	game.PlayerStats[0].Deaths = 16

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	stat := rowsFor(t, rows, "Dashy", 1)

	// (20 + 8*0.25) / 16 = 1.375, rounded to 1.38
	if stat.Rating == nil || *stat.Rating != 1.38 {
		t.Errorf("expected fallback rating 1.38, got %v", stat.Rating)
	}
}

func TestRating_FallbackGuardsZeroDeaths(t *testing.T) {
	game := makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))
	game.PlayerStats[0].Kills = 12
	game.PlayerStats[0].Assists = 0
	game.PlayerStats[0].Deaths = 0

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	stat := rowsFor(t, rows, "Dashy", 1)

	if stat.Rating == nil || *stat.Rating != 12.0 {
		t.Errorf("expected deathless rating 12.0, got %v", stat.Rating)
	}
}

func TestPlayerName_FallsBackToID(t *testing.T) {
	game := makeGame(1, "Hardpoint", "Den", intPtr(250), intPtr(233))
	game.PlayerStats[0].PlayerTag = ""
	game.PlayerStats[0].PlayerID = 314

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	found := false
	for _, r := range rows {
		if r.Stat.PlayerName == "Player_314" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected synthetic name Player_314 when tag is empty")
	}
}

func TestFlattenMatch_MissingModeAndMap(t *testing.T) {
	game := makeGame(1, "", "", intPtr(250), intPtr(233))
	game.Modes = nil
	game.Maps = nil

	rows := FlattenMatch(baseMatch(), []bp.Game{game})
	stat := rowsFor(t, rows, "Dashy", 1)

	if stat.Mode != "Unknown" || stat.MapName != "Unknown" {
		t.Errorf("expected Unknown mode/map, got %q / %q", stat.Mode, stat.MapName)
	}
}

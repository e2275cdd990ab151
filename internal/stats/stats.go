// Package stats computes player, team and map statistics from the cached
// dataset. Every function is pure and tolerates missing optional fields
// (rating, won flag) by omitting the derived output instead of failing.
package stats

import (
	"math"
	"sort"
	"time"

	"cdl-tracker/internal/domain"
)

// Overall is a player's aggregate line across all filtered maps.
type Overall struct {
	Player      string   `json:"player"`
	MapsPlayed  int      `json:"maps_played"`
	AvgKills    float64  `json:"avg_kills"`
	AvgDeaths   float64  `json:"avg_deaths"`
	AvgAssists  float64  `json:"avg_assists"`
	AvgDamage   float64  `json:"avg_damage"`
	KDRatio     float64  `json:"kd_ratio"`
	TotalKills  int      `json:"total_kills"`
	TotalDeaths int      `json:"total_deaths"`
	TotalDamage float64  `json:"total_damage"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	WinRate     *float64 `json:"win_rate,omitempty"`
}

// SplitStats are the per-group aggregates shared by the mode, map and
// opponent breakdowns.
type SplitStats struct {
	MapsPlayed  int      `json:"maps_played"`
	AvgKills    float64  `json:"avg_kills"`
	AvgDeaths   float64  `json:"avg_deaths"`
	AvgAssists  float64  `json:"avg_assists"`
	AvgDamage   float64  `json:"avg_damage"`
	TotalKills  int      `json:"total_kills"`
	TotalDeaths int      `json:"total_deaths"`
	KDRatio     float64  `json:"kd_ratio"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	Wins        *int     `json:"wins,omitempty"`
	WinRate     *float64 `json:"win_rate,omitempty"`
}

type ModeSplit struct {
	Mode string `json:"mode"`
	SplitStats
}

type MapSplit struct {
	Map string `json:"map"`
	SplitStats
}

type OpponentSplit struct {
	Opponent string `json:"opponent"`
	SplitStats
}

// TimelineEntry is one map in a player's chronological history.
type TimelineEntry struct {
	Date     time.Time `json:"date"`
	MapIndex int       `json:"map_index"`
	Mode     string    `json:"mode"`
	MapName  string    `json:"map_name"`
	Opponent string    `json:"opponent"`
	Kills    int       `json:"kills"`
	Deaths   int       `json:"deaths"`
	Assists  int       `json:"assists"`
	Damage   float64   `json:"damage"`
	Rating   *float64  `json:"rating,omitempty"`
}

// Summary is the high-level shape of the whole dataset.
type Summary struct {
	TotalMatches int        `json:"total_matches"`
	TotalMaps    int        `json:"total_maps"`
	TotalPlayers int        `json:"total_players"`
	TotalTeams   int        `json:"total_teams"`
	OldestDate   *time.Time `json:"oldest_date,omitempty"`
	LatestDate   *time.Time `json:"latest_date,omitempty"`
	Modes        []string   `json:"modes"`
	UniqueMaps   int        `json:"unique_maps"`
}

// Count is one entry of a distribution.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type bucket struct {
	maps      int
	kills     int
	deaths    int
	assists   int
	damage    float64
	ratingSum float64
	ratingN   int
	wins      int
	wonN      int
}

func (b *bucket) add(stat domain.PlayerMapStat) {
	b.maps++
	b.kills += stat.Kills
	b.deaths += stat.Deaths
	b.assists += stat.Assists
	b.damage += stat.Damage
	if stat.Rating != nil {
		b.ratingSum += *stat.Rating
		b.ratingN++
	}
	if stat.WonMap != nil {
		b.wonN++
		if *stat.WonMap {
			b.wins++
		}
	}
}

func (b *bucket) split() SplitStats {
	n := float64(b.maps)
	s := SplitStats{
		MapsPlayed:  b.maps,
		AvgKills:    round2(float64(b.kills) / n),
		AvgDeaths:   round2(float64(b.deaths) / n),
		AvgAssists:  round2(float64(b.assists) / n),
		AvgDamage:   round2(b.damage / n),
		TotalKills:  b.kills,
		TotalDeaths: b.deaths,
		KDRatio:     kdRatio(b.kills, b.deaths),
	}
	if b.ratingN > 0 {
		avg := round2(b.ratingSum / float64(b.ratingN))
		s.AvgRating = &avg
	}
	if b.wonN > 0 {
		wins := b.wins
		// Rate over maps with a known outcome only.
		rate := round2(float64(b.wins) / float64(b.wonN))
		s.Wins = &wins
		s.WinRate = &rate
	}
	return s
}

// PlayerOverall returns a player's overall line, or nil when no rows match.
func PlayerOverall(rows []domain.StatRow, player string, f Filter) *Overall {
	filtered := applyFilter(rows, player, f)
	if len(filtered) == 0 {
		return nil
	}

	var b bucket
	for _, row := range filtered {
		b.add(row.Stat)
	}

	n := float64(b.maps)
	o := &Overall{
		Player:      player,
		MapsPlayed:  b.maps,
		AvgKills:    round2(float64(b.kills) / n),
		AvgDeaths:   round2(float64(b.deaths) / n),
		AvgAssists:  round2(float64(b.assists) / n),
		AvgDamage:   round2(b.damage / n),
		KDRatio:     kdRatio(b.kills, b.deaths),
		TotalKills:  b.kills,
		TotalDeaths: b.deaths,
		TotalDamage: round2(b.damage),
	}
	if b.ratingN > 0 {
		avg := round2(b.ratingSum / float64(b.ratingN))
		o.AvgRating = &avg
	}
	if b.wonN > 0 {
		rate := round2(float64(b.wins) / float64(b.wonN))
		o.WinRate = &rate
	}
	return o
}

// PlayerByMode breaks a player's stats down by game mode, in first-seen
// order.
func PlayerByMode(rows []domain.StatRow, player string, f Filter) []ModeSplit {
	filtered := applyFilter(rows, player, f)

	order, buckets := groupBy(filtered, func(r domain.StatRow) string { return r.Stat.Mode })

	splits := make([]ModeSplit, 0, len(order))
	for _, mode := range order {
		splits = append(splits, ModeSplit{Mode: mode, SplitStats: buckets[mode].split()})
	}
	return splits
}

// PlayerByMap breaks a player's stats within one mode down by map, sorted by
// maps played descending.
func PlayerByMap(rows []domain.StatRow, player, mode string, f Filter) []MapSplit {
	f.Mode = mode
	filtered := applyFilter(rows, player, f)

	order, buckets := groupBy(filtered, func(r domain.StatRow) string { return r.Stat.MapName })

	splits := make([]MapSplit, 0, len(order))
	for _, name := range order {
		splits = append(splits, MapSplit{Map: name, SplitStats: buckets[name].split()})
	}
	sort.SliceStable(splits, func(i, j int) bool {
		if splits[i].MapsPlayed != splits[j].MapsPlayed {
			return splits[i].MapsPlayed > splits[j].MapsPlayed
		}
		return splits[i].Map < splits[j].Map
	})
	return splits
}

// PlayerVsOpponents breaks a player's stats down by opposing team, sorted by
// maps played descending.
func PlayerVsOpponents(rows []domain.StatRow, player string, f Filter) []OpponentSplit {
	filtered := applyFilter(rows, player, f)

	order, buckets := groupBy(filtered, func(r domain.StatRow) string { return r.Stat.OpponentTeamName })

	splits := make([]OpponentSplit, 0, len(order))
	for _, name := range order {
		splits = append(splits, OpponentSplit{Opponent: name, SplitStats: buckets[name].split()})
	}
	sort.SliceStable(splits, func(i, j int) bool {
		if splits[i].MapsPlayed != splits[j].MapsPlayed {
			return splits[i].MapsPlayed > splits[j].MapsPlayed
		}
		return splits[i].Opponent < splits[j].Opponent
	})
	return splits
}

// PlayerTimeline returns a player's maps in date order with a running index.
func PlayerTimeline(rows []domain.StatRow, player string, f Filter) []TimelineEntry {
	filtered := applyFilter(rows, player, f)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Match.Date.Before(filtered[j].Match.Date)
	})

	entries := make([]TimelineEntry, 0, len(filtered))
	for i, row := range filtered {
		entries = append(entries, TimelineEntry{
			Date:     row.Match.Date,
			MapIndex: i + 1,
			Mode:     row.Stat.Mode,
			MapName:  row.Stat.MapName,
			Opponent: row.Stat.OpponentTeamName,
			Kills:    row.Stat.Kills,
			Deaths:   row.Stat.Deaths,
			Assists:  row.Stat.Assists,
			Damage:   row.Stat.Damage,
			Rating:   row.Stat.Rating,
		})
	}
	return entries
}

// DatasetSummary summarizes the whole dataset.
func DatasetSummary(rows []domain.StatRow) Summary {
	s := Summary{TotalMaps: len(rows), Modes: []string{}}

	matches := make(map[string]bool)
	players := make(map[string]bool)
	teams := make(map[string]bool)
	maps := make(map[string]bool)
	modesSeen := make(map[string]bool)

	for _, row := range rows {
		matches[row.Match.MatchID] = true
		players[row.Stat.PlayerName] = true
		teams[row.Stat.TeamName] = true
		maps[row.Stat.MapName] = true
		if !modesSeen[row.Stat.Mode] {
			modesSeen[row.Stat.Mode] = true
			s.Modes = append(s.Modes, row.Stat.Mode)
		}
		d := row.Match.Date
		if s.OldestDate == nil || d.Before(*s.OldestDate) {
			oldest := d
			s.OldestDate = &oldest
		}
		if s.LatestDate == nil || d.After(*s.LatestDate) {
			latest := d
			s.LatestDate = &latest
		}
	}

	s.TotalMatches = len(matches)
	s.TotalPlayers = len(players)
	s.TotalTeams = len(teams)
	s.UniqueMaps = len(maps)
	return s
}

// ModeDistribution counts maps per mode, most played first.
func ModeDistribution(rows []domain.StatRow) []Count {
	return distribution(rows, func(r domain.StatRow) string { return r.Stat.Mode })
}

// MapDistribution counts maps played, optionally within one mode.
func MapDistribution(rows []domain.StatRow, mode string) []Count {
	if mode != "" {
		rows = applyFilter(rows, "", Filter{Mode: mode})
	}
	return distribution(rows, func(r domain.StatRow) string { return r.Stat.MapName })
}

// PlayersByTeam lists the players seen on a team, sorted by name.
func PlayersByTeam(rows []domain.StatRow, team string) []string {
	seen := make(map[string]bool)
	var players []string
	for _, row := range rows {
		if row.Stat.TeamName != team || seen[row.Stat.PlayerName] {
			continue
		}
		seen[row.Stat.PlayerName] = true
		players = append(players, row.Stat.PlayerName)
	}
	sort.Strings(players)
	return players
}

func distribution(rows []domain.StatRow, key func(domain.StatRow) string) []Count {
	order, counts := []string{}, make(map[string]int)
	for _, row := range rows {
		k := key(row)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]Count, 0, len(order))
	for _, k := range order {
		out = append(out, Count{Name: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func groupBy(rows []domain.StatRow, key func(domain.StatRow) string) ([]string, map[string]*bucket) {
	var order []string
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		k := key(row)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.add(row.Stat)
	}
	return order, buckets
}

// kdRatio floors the denominator at 1 so a deathless run stays finite.
func kdRatio(kills, deaths int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return round2(float64(kills) / float64(deaths))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package domain

import (
	"time"
)

// Match is one completed best-of-N series between two teams. The series
// scores are the number of maps each team won, recomputed from the per-map
// won flags on write.
type Match struct {
	MatchID    string
	Date       time.Time
	EventName  string
	SeriesType string // "BO5"
	IsLAN      bool
	Season     int
	Team1Name  string
	Team2Name  string
	Team1Score int
	Team2Score int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlayerMapStat is one player's performance on one map within one match.
// WonMap, TeamScore and OpponentScore are nil when the source did not carry
// scores for that game; they are never defaulted.
type PlayerMapStat struct {
	ID               string // nanoid, assigned on first insert
	MatchID          string
	PlayerName       string
	TeamName         string
	OpponentTeamName string
	MapNumber        int
	MapName          string
	Mode             string
	Kills            int
	Deaths           int
	Assists          int
	Damage           float64
	HillTime         int
	Plants           int
	Defuses          int
	Rating           *float64
	WonMap           *bool
	TeamScore        *int
	OpponentScore    *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatRow is a player-map stat joined with its parent match metadata. It is
// both what the reconciler emits and what the bulk read returns.
type StatRow struct {
	Match Match
	Stat  PlayerMapStat
}

// Watermark records how far ingestion has progressed. LastScrapeDate bounds
// the next fetch window; ScrapedAt is when the ingestion ran.
type Watermark struct {
	LastScrapeDate time.Time
	ScrapedAt      time.Time
}

// CacheStats summarizes what is currently cached.
type CacheStats struct {
	Matches       int        `json:"matches"`
	PlayerRecords int        `json:"player_records"`
	OldestDate    *time.Time `json:"oldest_date,omitempty"`
	LatestDate    *time.Time `json:"latest_date,omitempty"`
}

// UpcomingMatch is a scheduled league match. Not persisted.
type UpcomingMatch struct {
	MatchID   int64     `json:"match_id"`
	Scheduled time.Time `json:"scheduled"`
	Team1     string    `json:"team1"`
	Team2     string    `json:"team2"`
	EventName string    `json:"event_name"`
	RoundName string    `json:"round_name,omitempty"`
	BestOf    int       `json:"best_of"`
	Status    string    `json:"status"`
}

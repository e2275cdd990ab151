package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cdl-tracker/internal/database"
	"cdl-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// MatchRepository persists matches and per-player-per-map stat rows and
// exposes the joined bulk read the aggregation layer consumes.
type MatchRepository struct {
	store  *database.Store
	logger zerolog.Logger
}

func NewMatchRepository(store *database.Store, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{store: store, logger: logger}
}

// Available reports whether the backing store accepted its connection.
func (r *MatchRepository) Available() bool {
	return r.store.Available()
}

const upsertMatchSQL = `
INSERT INTO matches (match_id, date, event_name, series_type, is_lan, season,
                     team1_name, team2_name, team1_score, team2_score,
                     created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET
    date        = excluded.date,
    event_name  = excluded.event_name,
    series_type = excluded.series_type,
    is_lan      = excluded.is_lan,
    season      = excluded.season,
    team1_name  = excluded.team1_name,
    team2_name  = excluded.team2_name,
    team1_score = excluded.team1_score,
    team2_score = excluded.team2_score,
    updated_at  = excluded.updated_at`

const upsertPlayerStatSQL = `
INSERT INTO player_stats (id, match_id, player_name, team_name, opponent_team_name,
                          map_number, map_name, mode, kills, deaths, assists, damage,
                          hill_time, plants, defuses, rating, won_map,
                          team_score, opponent_score, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id, player_name, map_number) DO UPDATE SET
    team_name          = excluded.team_name,
    opponent_team_name = excluded.opponent_team_name,
    map_name           = excluded.map_name,
    mode               = excluded.mode,
    kills              = excluded.kills,
    deaths             = excluded.deaths,
    assists            = excluded.assists,
    damage             = excluded.damage,
    hill_time          = excluded.hill_time,
    plants             = excluded.plants,
    defuses            = excluded.defuses,
    rating             = excluded.rating,
    won_map            = excluded.won_map,
    team_score         = excluded.team_score,
    opponent_score     = excluded.opponent_score,
    updated_at         = excluded.updated_at`

// CacheBatch groups the incoming rows by match, recomputes each match's
// series score from the per-map won flags, and upserts the match together
// with its player rows in one transaction per match. Returns the number of
// matches committed; a failure mid-batch leaves earlier matches committed.
func (r *MatchRepository) CacheBatch(ctx context.Context, rows []domain.StatRow) (int, error) {
	if !r.store.Available() {
		r.logger.Warn().Msg("database unavailable, batch not cached")
		return 0, nil
	}
	if len(rows) == 0 {
		return 0, nil
	}

	// Group preserving first-seen match order.
	var order []string
	grouped := make(map[string][]domain.StatRow)
	for _, row := range rows {
		id := row.Match.MatchID
		if _, ok := grouped[id]; !ok {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], row)
	}

	written := 0
	for _, matchID := range order {
		if err := r.cacheMatch(ctx, grouped[matchID]); err != nil {
			return written, fmt.Errorf("failed to cache match %s: %w", matchID, err)
		}
		written++
	}

	r.logger.Info().Int("matches", written).Int("player_records", len(rows)).Msg("batch cached")
	return written, nil
}

func (r *MatchRepository) cacheMatch(ctx context.Context, rows []domain.StatRow) error {
	match := rows[0].Match
	match.Team1Score, match.Team2Score = seriesScore(match, rows)

	tx, err := r.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, upsertMatchSQL,
		match.MatchID, match.Date, match.EventName, match.SeriesType,
		match.IsLAN, int64(match.Season), match.Team1Name, match.Team2Name,
		int64(match.Team1Score), int64(match.Team2Score), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	for _, row := range rows {
		stat := row.Stat
		id := stat.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, upsertPlayerStatSQL,
			id, stat.MatchID, stat.PlayerName, stat.TeamName, stat.OpponentTeamName,
			int64(stat.MapNumber), stat.MapName, stat.Mode,
			int64(stat.Kills), int64(stat.Deaths), int64(stat.Assists), stat.Damage,
			int64(stat.HillTime), int64(stat.Plants), int64(stat.Defuses),
			nullFloat(stat.Rating), nullBool(stat.WonMap),
			nullInt(stat.TeamScore), nullInt(stat.OpponentScore),
			now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert player stat %s/%s/%d: %w",
				stat.MatchID, stat.PlayerName, stat.MapNumber, err)
		}
	}

	return tx.Commit()
}

// seriesScore counts, for each team, the distinct map numbers that team won.
// Rows with an unknown outcome contribute to neither side.
func seriesScore(match domain.Match, rows []domain.StatRow) (team1, team2 int) {
	team1Maps := make(map[int]bool)
	team2Maps := make(map[int]bool)
	for _, row := range rows {
		stat := row.Stat
		if stat.WonMap == nil || !*stat.WonMap {
			continue
		}
		switch stat.TeamName {
		case match.Team1Name:
			team1Maps[stat.MapNumber] = true
		case match.Team2Name:
			team2Maps[stat.MapNumber] = true
		}
	}
	return len(team1Maps), len(team2Maps)
}

const allRowsSQL = `
SELECT m.match_id, m.date, m.event_name, m.series_type, m.is_lan, m.season,
       m.team1_name, m.team2_name, m.team1_score, m.team2_score,
       m.created_at, m.updated_at,
       ps.id, ps.player_name, ps.team_name, ps.opponent_team_name,
       ps.map_number, ps.map_name, ps.mode,
       ps.kills, ps.deaths, ps.assists, ps.damage,
       ps.hill_time, ps.plants, ps.defuses,
       ps.rating, ps.won_map, ps.team_score, ps.opponent_score,
       ps.created_at, ps.updated_at
FROM player_stats ps
JOIN matches m ON m.match_id = ps.match_id
ORDER BY m.date ASC, m.match_id, ps.map_number ASC, ps.player_name`

// AllRows returns every cached player stat joined with its match metadata,
// ordered by match date ascending. The dataset is small (low thousands of
// rows), full materialization is fine.
func (r *MatchRepository) AllRows(ctx context.Context) ([]domain.StatRow, error) {
	if !r.store.Available() {
		r.logger.Debug().Msg("database unavailable, returning empty dataset")
		return []domain.StatRow{}, nil
	}

	rows, err := r.store.DB().QueryContext(ctx, allRowsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat rows: %w", err)
	}
	defer rows.Close()

	var result []domain.StatRow
	for rows.Next() {
		var row domain.StatRow
		var season, kills, deaths, assists, hillTime, plants, defuses, mapNumber, t1Score, t2Score int64
		var rating sql.NullFloat64
		var wonMap sql.NullBool
		var teamScore, opponentScore sql.NullInt64

		err := rows.Scan(
			&row.Match.MatchID, &row.Match.Date, &row.Match.EventName, &row.Match.SeriesType,
			&row.Match.IsLAN, &season,
			&row.Match.Team1Name, &row.Match.Team2Name, &t1Score, &t2Score,
			&row.Match.CreatedAt, &row.Match.UpdatedAt,
			&row.Stat.ID, &row.Stat.PlayerName, &row.Stat.TeamName, &row.Stat.OpponentTeamName,
			&mapNumber, &row.Stat.MapName, &row.Stat.Mode,
			&kills, &deaths, &assists, &row.Stat.Damage,
			&hillTime, &plants, &defuses,
			&rating, &wonMap, &teamScore, &opponentScore,
			&row.Stat.CreatedAt, &row.Stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}

		row.Match.Season = int(season)
		row.Match.Team1Score = int(t1Score)
		row.Match.Team2Score = int(t2Score)
		row.Stat.MatchID = row.Match.MatchID
		row.Stat.MapNumber = int(mapNumber)
		row.Stat.Kills = int(kills)
		row.Stat.Deaths = int(deaths)
		row.Stat.Assists = int(assists)
		row.Stat.HillTime = int(hillTime)
		row.Stat.Plants = int(plants)
		row.Stat.Defuses = int(defuses)
		if rating.Valid {
			row.Stat.Rating = &rating.Float64
		}
		if wonMap.Valid {
			row.Stat.WonMap = &wonMap.Bool
		}
		if teamScore.Valid {
			v := int(teamScore.Int64)
			row.Stat.TeamScore = &v
		}
		if opponentScore.Valid {
			v := int(opponentScore.Int64)
			row.Stat.OpponentScore = &v
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stat rows: %w", err)
	}

	if result == nil {
		result = []domain.StatRow{}
	}
	return result, nil
}

// CacheStats reports what is currently cached.
func (r *MatchRepository) CacheStats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	if !r.store.Available() {
		return stats, nil
	}

	row := r.store.DB().QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM matches), (SELECT COUNT(*) FROM player_stats)`)
	if err := row.Scan(&stats.Matches, &stats.PlayerRecords); err != nil {
		return stats, fmt.Errorf("failed to count cached rows: %w", err)
	}

	// Aggregate expressions lose the column decltype in the sqlite driver,
	// so MIN/MAX would come back as strings. Ordered single-row reads keep
	// the timestamp type intact.
	if stats.Matches > 0 {
		var oldest, latest time.Time
		row := r.store.DB().QueryRowContext(ctx, `SELECT date FROM matches ORDER BY date ASC LIMIT 1`)
		if err := row.Scan(&oldest); err != nil {
			return stats, fmt.Errorf("failed to read oldest cached date: %w", err)
		}
		row = r.store.DB().QueryRowContext(ctx, `SELECT date FROM matches ORDER BY date DESC LIMIT 1`)
		if err := row.Scan(&latest); err != nil {
			return stats, fmt.Errorf("failed to read latest cached date: %w", err)
		}
		stats.OldestDate = &oldest
		stats.LatestDate = &latest
	}

	return stats, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

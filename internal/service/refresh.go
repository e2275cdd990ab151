// Package service coordinates ingestion and query flows between the fetcher,
// the reconciler and the repositories.
package service

import (
	"context"
	"strings"
	"time"

	"cdl-tracker/internal/bp"
	"cdl-tracker/internal/config"
	"cdl-tracker/internal/constants"
	"cdl-tracker/internal/domain"
	"cdl-tracker/internal/reconcile"
	"cdl-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// RefreshResult reports what an ingestion run accomplished.
type RefreshResult struct {
	MatchesFound    int        `json:"matches_found"`
	MatchesIngested int        `json:"matches_ingested"`
	MatchesFailed   int        `json:"matches_failed"`
	PlayerRecords   int        `json:"player_records"`
	Watermark       *time.Time `json:"watermark,omitempty"`
}

// Status is the dashboard's view of the pipeline's health.
type Status struct {
	DatabaseAvailable bool              `json:"database_available"`
	Cache             domain.CacheStats `json:"cache"`
	Watermark         *domain.Watermark `json:"watermark,omitempty"`
}

// RefreshService runs the incremental scrape pipeline. Concurrent refresh
// requests are collapsed into one run; every caller gets that run's result.
type RefreshService struct {
	cfg        *config.Config
	client     *bp.Client
	matches    *repository.MatchRepository
	watermarks *repository.WatermarkRepository
	logger     zerolog.Logger
	group      singleflight.Group
}

func NewRefreshService(
	cfg *config.Config,
	client *bp.Client,
	matches *repository.MatchRepository,
	watermarks *repository.WatermarkRepository,
	logger zerolog.Logger,
) *RefreshService {
	return &RefreshService{
		cfg:        cfg,
		client:     client,
		matches:    matches,
		watermarks: watermarks,
		logger:     logger,
	}
}

// Refresh fetches matches completed since the watermark (or since season
// start when full is true), reconciles and caches them, and advances the
// watermark when at least one match was ingested. At most one scrape cycle is
// in flight at a time: a request arriving while one runs joins it and shares
// its result, regardless of either request's full flag.
func (s *RefreshService) Refresh(ctx context.Context, full bool) (RefreshResult, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx, full)
	})
	if err != nil {
		return RefreshResult{}, err
	}
	return v.(RefreshResult), nil
}

func (s *RefreshService) refresh(ctx context.Context, full bool) (RefreshResult, error) {
	started := time.Now()

	since := s.watermarks.LastScrapeDate(ctx)
	if full {
		since = s.cfg.SeasonStartDate()
	}

	summaries, err := s.client.FetchMatches(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	candidates := s.filterCompleted(summaries, since)
	result := RefreshResult{MatchesFound: len(candidates)}

	s.logger.Info().
		Bool("full", full).
		Time("since", since).
		Int("total_matches", len(summaries)).
		Int("candidates", len(candidates)).
		Msg("refresh started")

	for i, m := range candidates {
		// Pace detail requests so the source is not hammered.
		if i > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(constants.MatchDetailDelay):
			}
		}

		games, err := s.client.FetchMatchDetail(ctx, m.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("match_id", m.ID).Msg("failed to fetch match detail")
			result.MatchesFailed++
			continue
		}
		if len(games) == 0 {
			s.logger.Warn().Int64("match_id", m.ID).Msg("match detail carried no games, skipping")
			result.MatchesFailed++
			continue
		}

		rows := reconcile.FlattenMatch(m, games)
		if len(rows) == 0 {
			s.logger.Warn().Int64("match_id", m.ID).Msg("no player rows reconciled, skipping")
			result.MatchesFailed++
			continue
		}

		written, err := s.matches.CacheBatch(ctx, rows)
		if err != nil {
			s.logger.Error().Err(err).Int64("match_id", m.ID).Msg("failed to cache match")
			result.MatchesFailed++
			continue
		}
		if written > 0 {
			result.MatchesIngested++
			result.PlayerRecords += len(rows)
		}
	}

	if result.MatchesIngested > 0 {
		wm := time.Now().UTC()
		if s.watermarks.SetLastScrapeDate(ctx, wm) {
			result.Watermark = &wm
		}
	}

	s.logger.Info().
		Int("ingested", result.MatchesIngested).
		Int("failed", result.MatchesFailed).
		Int("player_records", result.PlayerRecords).
		Dur("elapsed", time.Since(started)).
		Msg("refresh finished")

	return result, nil
}

// filterCompleted keeps league matches that finished at or after the window
// start. A match must be complete, carry both teams and both series scores,
// belong to the configured season, and have the league tag in its event name.
func (s *RefreshService) filterCompleted(summaries []bp.MatchSummary, since time.Time) []bp.MatchSummary {
	var out []bp.MatchSummary
	for _, m := range summaries {
		if m.Status != "complete" {
			continue
		}
		if m.Team1 == nil || m.Team2 == nil || m.Team1Score == nil || m.Team2Score == nil {
			continue
		}
		if m.Event == nil || m.Event.SeasonID != s.cfg.Season {
			continue
		}
		if !strings.Contains(m.Event.Name, s.cfg.LeagueTag) {
			continue
		}
		date, ok := bp.ParseDatetime(m.Datetime)
		if !ok || date.Before(since) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Upcoming returns scheduled league matches for the configured season.
func (s *RefreshService) Upcoming(ctx context.Context) ([]domain.UpcomingMatch, error) {
	summaries, err := s.client.FetchUpcomingMatches(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.UpcomingMatch{}
	for _, m := range summaries {
		if m.Team1 == nil || m.Team2 == nil || m.Event == nil {
			continue
		}
		if m.Event.SeasonID != s.cfg.Season || !strings.Contains(m.Event.Name, s.cfg.LeagueTag) {
			continue
		}
		date, ok := bp.ParseDatetime(m.Datetime)
		if !ok {
			continue
		}

		um := domain.UpcomingMatch{
			MatchID:   m.ID,
			Scheduled: date,
			Team1:     m.Team1.Name,
			Team2:     m.Team2.Name,
			EventName: m.Event.Name,
			BestOf:    m.BestOf,
			Status:    m.Status,
		}
		if m.Round != nil {
			um.RoundName = m.Round.Name
		}
		out = append(out, um)
	}

	return out, nil
}

// PipelineStatus reports store availability, cache contents and the current
// watermark.
func (s *RefreshService) PipelineStatus(ctx context.Context) (Status, error) {
	cache, err := s.matches.CacheStats(ctx)
	if err != nil {
		return Status{}, err
	}

	return Status{
		DatabaseAvailable: s.matches.Available(),
		Cache:             cache,
		Watermark:         s.watermarks.Latest(ctx),
	}, nil
}

package service

import (
	"context"

	"cdl-tracker/internal/domain"
	"cdl-tracker/internal/repository"
	"cdl-tracker/internal/stats"

	"github.com/rs/zerolog"
)

// StatsService serves the aggregation layer from the cache. Every query reads
// the full dataset; it is small enough that per-request materialization beats
// keeping an in-memory copy in sync.
type StatsService struct {
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewStatsService(matches *repository.MatchRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{matches: matches, logger: logger}
}

// Dataset returns the cached rows restricted to the official map pools.
func (s *StatsService) Dataset(ctx context.Context) ([]domain.StatRow, error) {
	rows, err := s.matches.AllRows(ctx)
	if err != nil {
		return nil, err
	}
	return stats.FilterCompetitiveMaps(rows), nil
}

// RawDataset returns every cached row, off-pool maps included. Used by the
// export so nothing scraped is silently dropped from the spreadsheet.
func (s *StatsService) RawDataset(ctx context.Context) ([]domain.StatRow, error) {
	return s.matches.AllRows(ctx)
}

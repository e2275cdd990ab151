package repository

import (
	"context"
	"database/sql"
	"time"

	"cdl-tracker/internal/constants"
	"cdl-tracker/internal/database"
	"cdl-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// WatermarkRepository tracks the timestamp boundary of the last successful
// ingestion. The table is append-only; the logical watermark is the latest
// row.
type WatermarkRepository struct {
	store  *database.Store
	logger zerolog.Logger
}

func NewWatermarkRepository(store *database.Store, logger zerolog.Logger) *WatermarkRepository {
	return &WatermarkRepository{store: store, logger: logger}
}

// LastScrapeDate returns the stored watermark, or now minus the default
// lookback window when no row exists or the store is unavailable.
func (r *WatermarkRepository) LastScrapeDate(ctx context.Context) time.Time {
	fallback := time.Now().Add(-constants.DefaultLookback)

	if !r.store.Available() {
		r.logger.Debug().Msg("database unavailable, using default lookback watermark")
		return fallback
	}

	var last time.Time
	row := r.store.DB().QueryRowContext(ctx,
		`SELECT last_scrape_date FROM scrape_watermark ORDER BY scrape_timestamp DESC, id DESC LIMIT 1`)
	err := row.Scan(&last)
	if err == sql.ErrNoRows {
		r.logger.Debug().Time("watermark", fallback).Msg("no watermark stored, using default lookback")
		return fallback
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read watermark, using default lookback")
		return fallback
	}

	return last
}

// Latest returns the full watermark record, or nil when none exists.
func (r *WatermarkRepository) Latest(ctx context.Context) *domain.Watermark {
	if !r.store.Available() {
		return nil
	}

	var wm domain.Watermark
	row := r.store.DB().QueryRowContext(ctx,
		`SELECT last_scrape_date, scrape_timestamp FROM scrape_watermark ORDER BY scrape_timestamp DESC, id DESC LIMIT 1`)
	if err := row.Scan(&wm.LastScrapeDate, &wm.ScrapedAt); err != nil {
		if err != sql.ErrNoRows {
			r.logger.Error().Err(err).Msg("failed to read watermark")
		}
		return nil
	}
	return &wm
}

// SetLastScrapeDate appends a new watermark row. The value written becomes
// the lower bound of the next fetch window; it is wall-clock "now" at
// ingestion completion, not the max match date seen, so a source-side late
// arrival predating it can be skipped. Accepted tolerance.
func (r *WatermarkRepository) SetLastScrapeDate(ctx context.Context, t time.Time) bool {
	if !r.store.Available() {
		r.logger.Warn().Msg("database unavailable, watermark not updated")
		return false
	}

	_, err := r.store.DB().ExecContext(ctx,
		`INSERT INTO scrape_watermark (last_scrape_date, scrape_timestamp) VALUES (?, ?)`,
		t, time.Now().UTC())
	if err != nil {
		r.logger.Error().Err(err).Time("watermark", t).Msg("failed to update watermark")
		return false
	}

	r.logger.Info().Time("watermark", t).Msg("watermark updated")
	return true
}

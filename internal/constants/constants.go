package constants

import "time"

const (
	// DefaultLookback bounds the first fetch when no watermark row exists yet.
	DefaultLookback = 7 * 24 * time.Hour

	// MatchDetailDelay spaces out per-match detail requests so we don't
	// hammer the source site.
	MatchDetailDelay = 500 * time.Millisecond
)

const (
	ExternalAPITimeout = 15 * time.Second
	RequestTimeout     = 30 * time.Second
	RefreshTimeout     = 10 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

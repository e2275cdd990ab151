// Package server exposes the dashboard's JSON API.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cdl-tracker/internal/constants"
	"cdl-tracker/internal/domain"
	"cdl-tracker/internal/export"
	"cdl-tracker/internal/middleware"
	"cdl-tracker/internal/service"
	"cdl-tracker/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TrackerServer wires the services into HTTP handlers.
type TrackerServer struct {
	refresh *service.RefreshService
	stats   *service.StatsService
	logger  zerolog.Logger
}

func NewTrackerServer(refresh *service.RefreshService, statsSvc *service.StatsService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{refresh: refresh, stats: statsSvc, logger: logger}
}

// RegisterRoutes mounts every API route on the engine.
func (s *TrackerServer) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/refresh", s.handleRefresh)
	api.GET("/status", s.handleStatus)
	api.GET("/summary", s.handleSummary)
	api.GET("/export", s.handleExport)

	api.GET("/players/:player/overall", s.handlePlayerOverall)
	api.GET("/players/:player/modes", s.handlePlayerModes)
	api.GET("/players/:player/maps", s.handlePlayerMaps)
	api.GET("/players/:player/opponents", s.handlePlayerOpponents)
	api.GET("/players/:player/timeline", s.handlePlayerTimeline)

	api.GET("/distributions/modes", s.handleModeDistribution)
	api.GET("/distributions/maps", s.handleMapDistribution)

	api.GET("/teams/:team/players", s.handleTeamPlayers)
	api.GET("/matches/upcoming", s.handleUpcoming)
}

func (s *TrackerServer) handleRefresh(c *gin.Context) {
	full := c.Query("full") == "true"

	ctx, cancel := contextWithTimeout(c, constants.RefreshTimeout)
	defer cancel()

	result, err := s.refresh.Refresh(ctx, full)
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("refresh failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh from source"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *TrackerServer) handleStatus(c *gin.Context) {
	status, err := s.refresh.PipelineStatus(c.Request.Context())
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("status query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *TrackerServer) handleSummary(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.DatasetSummary(rows))
}

func (s *TrackerServer) handleExport(c *gin.Context) {
	rows, err := s.stats.RawDataset(c.Request.Context())
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("export dataset read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read dataset"})
		return
	}

	data, err := export.Workbook(rows)
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("workbook render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	filename := "cdl_stats_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *TrackerServer) handlePlayerOverall(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}

	player := c.Param("player")
	overall := stats.PlayerOverall(rows, player, parseFilter(c))
	if overall == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stats found for player", "player": player})
		return
	}
	c.JSON(http.StatusOK, overall)
}

func (s *TrackerServer) handlePlayerModes(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.PlayerByMode(rows, c.Param("player"), parseFilter(c)))
}

func (s *TrackerServer) handlePlayerMaps(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}

	mode := c.Query("mode")
	if mode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, stats.PlayerByMap(rows, c.Param("player"), mode, parseFilter(c)))
}

func (s *TrackerServer) handlePlayerOpponents(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.PlayerVsOpponents(rows, c.Param("player"), parseFilter(c)))
}

func (s *TrackerServer) handlePlayerTimeline(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.PlayerTimeline(rows, c.Param("player"), parseFilter(c)))
}

func (s *TrackerServer) handleModeDistribution(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.ModeDistribution(rows))
}

func (s *TrackerServer) handleMapDistribution(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.MapDistribution(rows, c.Query("mode")))
}

func (s *TrackerServer) handleTeamPlayers(c *gin.Context) {
	rows, ok := s.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"team":    c.Param("team"),
		"players": stats.PlayersByTeam(rows, c.Param("team")),
	})
}

func (s *TrackerServer) handleUpcoming(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, constants.ExternalAPITimeout)
	defer cancel()

	matches, err := s.refresh.Upcoming(ctx)
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("upcoming fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch upcoming matches"})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (s *TrackerServer) dataset(c *gin.Context) ([]domain.StatRow, bool) {
	rows, err := s.stats.Dataset(c.Request.Context())
	if err != nil {
		log := middleware.Logger(c)
		log.Error().Err(err).Msg("dataset read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read dataset"})
		return nil, false
	}
	return rows, true
}

func contextWithTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// parseFilter reads the shared filter query parameters. Unparseable values
// are treated as absent.
func parseFilter(c *gin.Context) stats.Filter {
	f := stats.Filter{
		Team:     c.Query("team"),
		Opponent: c.Query("opponent"),
		Mode:     c.Query("mode"),
		Map:      c.Query("map"),
		Position: c.Query("position"),
	}
	if v := c.Query("season"); v != "" {
		if season, err := strconv.Atoi(v); err == nil {
			f.Season = season
		}
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.To = &t
		}
	}
	return f
}

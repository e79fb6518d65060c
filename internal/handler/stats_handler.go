package handler

import (
	"net/http"

	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler struct {
	stats  service.StatsService
	clicks service.ClickService
	logger *zap.Logger
}

func NewStatsHandler(stats service.StatsService, clicks service.ClickService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		clicks: clicks,
		logger: logger,
	}
}

// Dashboard godoc
// @Summary Dashboard metrics (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RecentClicks godoc
// @Summary Recent click log (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of rows" default(100)
// @Success 200 {array} models.ClickLogEntry
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/stats/clicks [get]
func (h *StatsHandler) RecentClicks(c *gin.Context) {
	limit, err := query(c, "limit")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entries, err := h.clicks.RecentClicks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

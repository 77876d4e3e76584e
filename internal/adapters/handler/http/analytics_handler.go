package http

import (
	"net/http"
	"strconv"

	"github.com/comitanigiacomo/habittrack/internal/core/services"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/dashboard", h.Dashboard)
		analytics.GET("/streaks/:habitId", h.Streak)
		analytics.GET("/heatmap", h.Heatmap)
		analytics.GET("/days/:date", h.Day)
		analytics.GET("/insights", h.Insights)
	}
}

// RegisterPublicRoutes exposes the read-only view behind a friend code.
func (h *AnalyticsHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/share/:code", h.Shared)
}

// Dashboard godoc
// @Summary  Streaks, totals and insights of the current user
// @Tags     analytics
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} domain.DashboardSummary
// @Router   /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) Streak(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	streak, err := h.svc.HabitStreak(c.Request.Context(), userID, c.Param("habitId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// Heatmap godoc
// @Summary  One entry per day of the year with a 0..4 intensity
// @Tags     analytics
// @Security BearerAuth
// @Param    year query int false "Calendar year, defaults to the current one"
// @Success  200 {array} domain.HeatmapEntry
// @Failure  400 {object} map[string]string
// @Router   /analytics/heatmap [get]
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}

	entries, err := h.svc.Heatmap(c.Request.Context(), userID, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AnalyticsHandler) Day(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day := c.Param("date")
	habits, err := h.svc.HabitsOn(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "habits": habits})
}

func (h *AnalyticsHandler) Insights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	insights, err := h.svc.Insights(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (h *AnalyticsHandler) Shared(c *gin.Context) {
	view, err := h.svc.Shared(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

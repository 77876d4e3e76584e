package http

import (
	"net/http"

	"github.com/comitanigiacomo/habittrack/internal/core/services"
	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	svc *services.LogService
}

func NewLogHandler(svc *services.LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

type toggleRequest struct {
	Date string `json:"date" binding:"required"`
}

type noteRequest struct {
	Date  string `json:"date" binding:"required"`
	Notes string `json:"notes"`
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs", h.List)
	router.POST("/habits/:id/toggle", h.Toggle)
	router.PUT("/habits/:id/notes", h.SaveNote)
}

// Toggle godoc
// @Summary  Complete or un-complete a habit on a day
// @Tags     logs
// @Security BearerAuth
// @Param    id   path string        true "Habit id"
// @Param    body body toggleRequest true "Day key (YYYY-MM-DD)"
// @Success  200 {object} map[string]bool
// @Failure  400,403,404 {object} map[string]string
// @Router   /habits/{id}/toggle [post]
func (h *LogHandler) Toggle(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	completed, err := h.svc.Toggle(c.Request.Context(), services.ToggleInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Date:    req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": completed, "date": req.Date})
}

func (h *LogHandler) SaveNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.SaveNote(c.Request.Context(), services.NoteInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Date:    req.Date,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *LogHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logs, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

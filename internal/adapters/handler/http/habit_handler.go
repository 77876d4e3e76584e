package http

import (
	"net/http"

	"github.com/comitanigiacomo/habittrack/internal/core/services"
	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

// habitRequest is shared by create and update. On update empty fields keep
// the stored value.
type habitRequest struct {
	Title       string `json:"title" example:"Morning Run"`
	Description string `json:"description" example:"5km before work"`
	Color       string `json:"color" example:"#22c55e"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	habits.POST("", h.Create)
	habits.GET("", h.List)
	habits.GET("/:id", h.Get)
	habits.PUT("/:id", h.Update)
	habits.DELETE("/:id", h.Delete)
}

// bindHabit decodes the body and writes the 400 itself on failure.
func bindHabit(c *gin.Context) (habitRequest, bool) {
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Security BearerAuth
// @Param    body body     habitRequest true "Habit"
// @Success  201  {object} domain.Habit
// @Failure  400  {object} map[string]string
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	req, ok := bindHabit(c)
	if !ok {
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List the caller's habits in creation order
// @Tags     habits
// @Security BearerAuth
// @Success  200 {array} domain.Habit
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habits, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// Get godoc
// @Summary  Get one habit
// @Tags     habits
// @Security BearerAuth
// @Param    id  path     string true "Habit id"
// @Success  200 {object} domain.Habit
// @Failure  404 {object} map[string]string
// @Router   /habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habit, err := h.svc.GetOwned(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary  Update title, description or color
// @Tags     habits
// @Security BearerAuth
// @Param    id   path     string       true "Habit id"
// @Param    body body     habitRequest true "Fields to change"
// @Success  200  {object} domain.Habit
// @Failure  400,404 {object} map[string]string
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	req, ok := bindHabit(c)
	if !ok {
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary  Delete a habit and its completion history
// @Tags     habits
// @Security BearerAuth
// @Param    id path string true "Habit id"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package http

import (
	"net/http"
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAliveInterval = 25 * time.Second

// EventsHandler streams change notifications as server-sent events. An event
// carries its name and a timestamp only; clients refetch what changed.
type EventsHandler struct {
	feed      domain.ChangeFeed
	logger    *zap.Logger
	keepAlive time.Duration
}

func NewEventsHandler(feed domain.ChangeFeed, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{feed: feed, logger: logger, keepAlive: keepAliveInterval}
}

func (h *EventsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.Stream)
}

func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if h.feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}

	ctx := c.Request.Context()
	events, stop, err := h.feed.Subscribe(ctx, userID)
	if err != nil {
		h.logger.Warn("[CACHE] subscribe failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.SSEvent("ready", userID)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(ev, time.Now().UTC().Format(time.RFC3339))
		case <-ticker.C:
			c.SSEvent("ping", "")
		}
		c.Writer.Flush()
	}
}

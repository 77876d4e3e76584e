package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/habittrack/internal/adapters/handler/http/middleware"
)

type fakeFeed struct {
	events     chan string
	subscribed string
	stopped    chan struct{}
	err        error
}

func (f *fakeFeed) Publish(ctx context.Context, userID, event string) error {
	f.events <- event
	return nil
}

func (f *fakeFeed) Subscribe(ctx context.Context, userID string) (<-chan string, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.subscribed = userID
	return f.events, func() { close(f.stopped) }, nil
}

func eventsRouter(h *EventsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, "user-1")
	})
	h.RegisterRoutes(r.Group(""))
	return r
}

func TestEventsHandler_Stream(t *testing.T) {
	feed := &fakeFeed{events: make(chan string, 1), stopped: make(chan struct{})}
	router := eventsRouter(NewEventsHandler(feed, nil))

	require.NoError(t, feed.Publish(context.Background(), "user-1", "summary.updated"))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the client left")
	}

	<-feed.stopped
	assert.Equal(t, "user-1", feed.subscribed)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:ready")
	assert.Contains(t, w.Body.String(), "event:summary.updated")
}

func TestEventsHandler_Unavailable(t *testing.T) {
	router := eventsRouter(NewEventsHandler(&fakeFeed{err: assert.AnError}, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	router = eventsRouter(NewEventsHandler(nil, nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

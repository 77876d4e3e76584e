package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

const (
	DefaultQueueSize = 100

	EventSummaryUpdated = "summary.updated"
)

type SummaryComputer interface {
	ComputeSummary(ctx context.Context, userID string) (*domain.DashboardSummary, error)
}

type Publisher interface {
	Publish(ctx context.Context, userID, event string) error
}

type RefreshJob struct {
	UserID string
}

// AnalyticsWorker recomputes a user's dashboard after each write, stores it
// in the summary cache and notifies live clients.
type AnalyticsWorker struct {
	computer  SummaryComputer
	cache     domain.SummaryCache
	publisher Publisher
	logger    *zap.Logger
	jobs      chan RefreshJob
	timeout   time.Duration
}

// NewAnalyticsWorker accepts nil cache and publisher; the matching step is
// then skipped.
func NewAnalyticsWorker(computer SummaryComputer, cache domain.SummaryCache, publisher Publisher, logger *zap.Logger) *AnalyticsWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsWorker{
		computer:  computer,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		jobs:      make(chan RefreshJob, DefaultQueueSize),
		timeout:   5 * time.Second,
	}
}

func (w *AnalyticsWorker) Start(ctx context.Context) {
	go w.Run(ctx)
}

// Run consumes jobs until ctx is cancelled. Jobs still queued at that point
// are dropped.
func (w *AnalyticsWorker) Run(ctx context.Context) {
	w.logger.Info("[WORKER] analytics worker started")
	for {
		select {
		case job := <-w.jobs:
			w.processJob(ctx, job)
		case <-ctx.Done():
			w.logger.Info("[WORKER] analytics worker shutting down")
			return
		}
	}
}

// Enqueue never blocks. When the queue is full the job is dropped; the
// dashboard read notices the cached summary no longer matches storage and
// recomputes.
func (w *AnalyticsWorker) Enqueue(userID string) {
	select {
	case w.jobs <- RefreshJob{UserID: userID}:
	default:
		w.logger.Warn("[WORKER] queue full, dropping refresh", zap.String("user_id", userID))
	}
}

func (w *AnalyticsWorker) processJob(parent context.Context, job RefreshJob) {
	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	summary, err := w.computer.ComputeSummary(ctx, job.UserID)
	if err != nil {
		w.logger.Error("[WORKER] failed to compute summary", zap.String("user_id", job.UserID), zap.Error(err))
		if w.cache != nil {
			_ = w.cache.Delete(ctx, job.UserID)
		}
		return
	}

	if w.cache != nil {
		if err := w.cache.Set(ctx, summary); err != nil {
			w.logger.Warn("[WORKER] failed to cache summary", zap.String("user_id", job.UserID), zap.Error(err))
		}
	}

	if w.publisher != nil {
		if err := w.publisher.Publish(ctx, job.UserID, EventSummaryUpdated); err != nil {
			w.logger.Warn("[WORKER] failed to publish change", zap.String("user_id", job.UserID), zap.Error(err))
		}
	}

	w.logger.Debug("[WORKER] summary refreshed",
		zap.String("user_id", job.UserID),
		zap.Int("global_streak", summary.GlobalStreak),
		zap.Int("insights", len(summary.Insights)),
	)
}

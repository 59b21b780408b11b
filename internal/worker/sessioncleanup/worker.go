package sessioncleanup

import (
	"context"
	"time"
)

// Worker периодически удаляет истекшие сессии
type Worker struct {
	repo         Repository
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewWorker создает воркер очистки
func NewWorker(repo Repository, interval time.Duration, logger Logger) *Worker {
	return &Worker{
		repo:         repo,
		interval:     interval,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// Run выполняет очистку раз в interval до отмены ctx.
// Неположительный interval отключает воркер.
func (w *Worker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("SessionCleanup: disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("SessionCleanup: started, interval=%s", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("SessionCleanup: stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce удаляет сессии, истекшие к текущему моменту
func (w *Worker) RunOnce(ctx context.Context) int64 {
	deleted, err := w.repo.DeleteExpired(ctx, w.timeProvider.Now().UTC())
	if err != nil {
		w.logger.Error("SessionCleanup: failed to delete expired sessions: %v", err)
		return 0
	}
	if deleted > 0 {
		w.logger.Info("SessionCleanup: deleted %d expired sessions", deleted)
	}
	return deleted
}

package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CatalogWarmer is implemented by CatalogService.
type CatalogWarmer interface {
	Warm(ctx context.Context) error
}

// CronService periodically reloads the cached catalog so listing requests
// are served from Redis even after the cache TTL lapses.
type CronService struct {
	catalog  CatalogWarmer
	interval time.Duration
	logger   *zap.Logger

	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewCronService(catalog CatalogWarmer, interval time.Duration, logger *zap.Logger) *CronService {
	return &CronService{
		catalog:  catalog,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start warms the catalog once and then on every tick until Stop is called
// or ctx is cancelled. A non-positive interval disables the job.
func (s *CronService) Start(ctx context.Context) {
	if s.interval <= 0 {
		close(s.done)
		s.logger.Info("Catalog warm-up disabled")
		return
	}
	s.ticker = time.NewTicker(s.interval)

	go func() {
		defer close(s.done)
		defer s.ticker.Stop()

		s.warm(ctx)
		for {
			select {
			case <-s.ticker.C:
				s.warm(ctx)
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	s.logger.Info("Cron service started", zap.Duration("interval", s.interval))
}

// Stop ends the job and waits for an in-flight warm-up to finish.
func (s *CronService) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
	s.logger.Info("Cron service stopped")
}

func (s *CronService) warm(ctx context.Context) {
	started := time.Now()
	if err := s.catalog.Warm(ctx); err != nil {
		s.logger.Warn("Catalog warm-up failed", zap.Error(err))
		return
	}
	s.logger.Debug("Catalog warmed", zap.Duration("took", time.Since(started)))
}

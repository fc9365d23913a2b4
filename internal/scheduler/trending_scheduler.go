package scheduler

import (
	"context"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TrendingScheduler keeps the cached trending item list warm so the
// homepage never computes it per request.
type TrendingScheduler struct {
	cron            *cron.Cron
	homepageService service.HomepageService
}

func NewTrendingScheduler(homepageService service.HomepageService) *TrendingScheduler {
	return &TrendingScheduler{
		cron:            cron.New(),
		homepageService: homepageService,
	}
}

func (s *TrendingScheduler) Start() error {
	_, err := s.cron.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.homepageService.RefreshTrendingCache(ctx); err != nil {
			logger.Error("Scheduled trending refresh failed", err, nil)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to register trending refresh job", err, nil)
		return err
	}

	// warm the cache right away instead of waiting for the first tick
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.homepageService.RefreshTrendingCache(ctx); err != nil {
		logger.Warn("Initial trending cache warmup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.cron.Start()
	logger.Info("Trending scheduler started (every 10 minutes)", nil)
	return nil
}

func (s *TrendingScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Trending scheduler stopped", nil)
}

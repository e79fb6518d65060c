package service

import (
	"context"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
)

// StatsService считает метрики дашборда по запросу, без фоновых задач
type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type statsService struct {
	stats repository.StatsRepository
	loc   *time.Location
	opts  options
}

// NewStatsService создаёт сервис статистики. loc задаёт, где начинаются сутки
// для todayClicks; nil означает UTC.
func NewStatsService(stats repository.StatsRepository, loc *time.Location, opts ...Option) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{
		stats: stats,
		loc:   loc,
		opts:  buildOptions(opts),
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	stats, err := s.stats.Dashboard(ctx, StartOfDay(s.opts.now(), s.loc))
	if err != nil {
		return nil, mapRepoErr("dashboard", "stats", 0, err)
	}

	return stats, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

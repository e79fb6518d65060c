package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
)

type StatsRepository interface {
	// Dashboard computes all dashboard figures from one snapshot. Listing
	// figures count active listings only; todayClicks counts ledger rows with
	// clicked_at >= todayStart.
	Dashboard(ctx context.Context, todayStart time.Time) (*models.DashboardStats, error)
}

type statsRepository struct {
	db *PostgresDB
}

func NewStatsRepository(db *PostgresDB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context, todayStart time.Time) (*models.DashboardStats, error) {
	// One statement, one snapshot: a click transaction is either fully visible
	// or not at all.
	query := `
		SELECT
			(SELECT COUNT(*) FROM listings WHERE is_active),
			(SELECT COUNT(*) FROM listings WHERE is_active AND is_premium),
			(SELECT COALESCE(SUM(click_count), 0)::BIGINT FROM listings WHERE is_active),
			(SELECT COUNT(*) FROM click_events WHERE clicked_at >= $1),
			(SELECT COUNT(*) FROM regions),
			(SELECT COUNT(*) FROM sub_regions)
	`

	stats := &models.DashboardStats{}
	err := r.db.Pool.QueryRow(ctx, query, todayStart).Scan(
		&stats.TotalListings,
		&stats.PremiumListings,
		&stats.TotalClicks,
		&stats.TodayClicks,
		&stats.TotalRegions,
		&stats.TotalSubRegions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return stats, nil
}

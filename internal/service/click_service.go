package service

import (
	"context"
	"errors"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Константы журнала кликов
const (
	DefaultClickLogLimit = 100
	MaxClickLogLimit     = 1000

	clickRetryInterval = 20 * time.Millisecond
	clickMaxRetries    = 3 // повторы только при конфликте транзакций
)

// ClickService учитывает переходы по листингам
type ClickService interface {
	// RecordClick атомарно увеличивает счётчик и добавляет запись в журнал
	RecordClick(ctx context.Context, listingID int64) error
	// ResetClicks обнуляет счётчик; журнал кликов не меняется
	ResetClicks(ctx context.Context, listingID int64) error
	// RecentClicks возвращает последние клики, новые первыми
	RecentClicks(ctx context.Context, rawLimit string) ([]models.ClickLogEntry, error)
}

type clickService struct {
	clicks   repository.ClickRepository
	listings repository.ListingRepository
	opts     options
}

// NewClickService создаёт новый экземпляр сервиса кликов
func NewClickService(
	clicks repository.ClickRepository,
	listings repository.ListingRepository,
	opts ...Option,
) ClickService {
	return &clickService{
		clicks:   clicks,
		listings: listings,
		opts:     buildOptions(opts),
	}
}

func (s *clickService) RecordClick(ctx context.Context, listingID int64) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	attempt := 0
	err := backoff.Retry(
		func() error {
			attempt++
			err := s.clicks.WithinTx(ctx, func(tx repository.ClickTx) error {
				if err := tx.IncrementClickCount(ctx, listingID); err != nil {
					return err
				}
				return tx.AppendClick(ctx, &models.Click{
					ListingID: listingID,
					ClickedAt: s.opts.now(),
				})
			})
			if errors.Is(err, repository.ErrTxConflict) {
				s.opts.logger.Debug("Повторная попытка записи клика",
					zap.Int64("listing_id", listingID),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return err
			}
			if err != nil {
				return backoff.Permanent(err)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(clickRetryInterval), clickMaxRetries),
			ctx,
		),
	)
	if err != nil {
		return mapRepoErr("record click", "listing", listingID, err)
	}

	return nil
}

func (s *clickService) ResetClicks(ctx context.Context, listingID int64) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if err := s.listings.ResetClicks(ctx, listingID); err != nil {
		return mapRepoErr("reset clicks", "listing", listingID, err)
	}

	// Журнал после сброса не меняется; его размер пишем в лог для аудита
	logged, err := s.clicks.CountByListing(ctx, listingID)
	if err != nil {
		s.opts.logger.Warn("Click ledger count failed", zap.Int64("listing_id", listingID), zap.Error(err))
	}

	s.opts.logger.Info("Click counter reset",
		zap.Int64("listing_id", listingID),
		zap.Int64("ledger_clicks", logged),
	)

	return nil
}

func (s *clickService) RecentClicks(ctx context.Context, rawLimit string) ([]models.ClickLogEntry, error) {
	limit, err := parseLimit(rawLimit, DefaultClickLogLimit, MaxClickLogLimit)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	entries, err := s.clicks.ListRecent(ctx, limit)
	if err != nil {
		return nil, mapRepoErr("list clicks", "click", 0, err)
	}

	return entries, nil
}

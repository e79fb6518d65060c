package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/jackc/pgx/v5"
)

// ClickTx is the write side of one click, valid only inside ClickRepository.WithinTx.
type ClickTx interface {
	// IncrementClickCount bumps click_count by one with a storage-level
	// expression. Returns ErrListingNotFound for unknown or inactive listings.
	IncrementClickCount(ctx context.Context, listingID int64) error
	// AppendClick inserts one row into the click ledger and fills click.ID.
	AppendClick(ctx context.Context, click *models.Click) error
}

type ClickRepository interface {
	// WithinTx runs fn in a single transaction: everything fn wrote is
	// committed when it returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(tx ClickTx) error) error
	ListRecent(ctx context.Context, limit int) ([]models.ClickLogEntry, error)
	CountByListing(ctx context.Context, listingID int64) (int64, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) WithinTx(ctx context.Context, fn func(tx ClickTx) error) error {
	err := pgx.BeginTxFunc(ctx, r.db.Pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&clickTx{tx: tx})
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrListingNotFound) {
		return err
	}

	switch pgErrorCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %v", ErrTxConflict, err)
	case pgForeignKeyViolation:
		// The listing was hard-deleted between the increment and the insert.
		return ErrListingNotFound
	}

	return fmt.Errorf("click transaction failed: %w", err)
}

type clickTx struct {
	tx pgx.Tx
}

func (t *clickTx) IncrementClickCount(ctx context.Context, listingID int64) error {
	query := `
		UPDATE listings
		SET click_count = click_count + 1
		WHERE id = $1 AND is_active
	`

	result, err := t.tx.Exec(ctx, query, listingID)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (t *clickTx) AppendClick(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO click_events (listing_id, clicked_at)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := t.tx.QueryRow(ctx, query, click.ListingID, click.ClickedAt).Scan(&click.ID); err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *clickRepository) ListRecent(ctx context.Context, limit int) ([]models.ClickLogEntry, error) {
	query := `
		SELECT c.id, c.listing_id, COALESCE(l.name, ''), c.clicked_at
		FROM click_events c
		LEFT JOIN listings l ON l.id = c.listing_id
		ORDER BY c.clicked_at DESC, c.id DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ClickLogEntry, 0)
	for rows.Next() {
		var entry models.ClickLogEntry
		if err := rows.Scan(&entry.ID, &entry.ListingID, &entry.ListingName, &entry.ClickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return entries, nil
}

func (r *clickRepository) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM click_events WHERE listing_id = $1`, listingID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}

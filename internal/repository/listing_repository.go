package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/jackc/pgx/v5"
)

type ListingRepository interface {
	// List returns active listings matching every non-nil filter field, in
	// public ranking order, capped at filter.Limit.
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id int64, input *models.UpdateListingInput) (*models.Listing, error)
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ResetClicks(ctx context.Context, id int64) error
}

var listingColumns = []string{
	"l.id", "l.name", "l.region_id", "r.name", "l.sub_region_id", "s.name",
	"l.address", "l.phone", "l.url", "l.description", "l.image_url",
	"l.is_premium", "l.service_type", "l.click_count", "l.is_active",
	"l.created_at", "l.updated_at",
}

// likeEscaper makes a user keyword match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type listingRepository struct {
	db *PostgresDB
}

func NewListingRepository(db *PostgresDB) ListingRepository {
	return &listingRepository{db: db}
}

func scanListing(row pgx.Row, listing *models.Listing) error {
	var serviceType string
	err := row.Scan(
		&listing.ID,
		&listing.Name,
		&listing.RegionID,
		&listing.RegionName,
		&listing.SubRegionID,
		&listing.SubRegionName,
		&listing.Address,
		&listing.Phone,
		&listing.URL,
		&listing.Description,
		&listing.ImageURL,
		&listing.IsPremium,
		&serviceType,
		&listing.ClickCount,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	listing.ServiceType = models.ServiceType(serviceType)
	return err
}

func selectListings() sq.SelectBuilder {
	return builder().Select(listingColumns...).
		From("listings l").
		Join("regions r ON r.id = l.region_id").
		LeftJoin("sub_regions s ON s.id = l.sub_region_id")
}

func (r *listingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	q := selectListings().Where(sq.Eq{"l.is_active": true})

	if filter.RegionID != nil {
		q = q.Where(sq.Eq{"l.region_id": *filter.RegionID})
	}

	if filter.SubRegionID != nil {
		q = q.Where(sq.Eq{"l.sub_region_id": *filter.SubRegionID})
	}

	if filter.Keyword != nil {
		pattern := "%" + likeEscaper.Replace(*filter.Keyword) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"l.name": pattern},
			sq.ILike{"r.name": pattern},
			sq.ILike{"s.name": pattern},
		})
	}

	// Same keys as the ranking comparator, so LIMIT keeps the top of the ranking.
	q = q.OrderBy("l.is_premium DESC", "l.click_count DESC", "l.id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		var listing models.Listing
		if err := scanListing(rows, &listing); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	query, args, err := selectListings().Where(sq.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	listing := &models.Listing{}
	if err := scanListing(r.db.Pool.QueryRow(ctx, query, args...), listing); err != nil {
		if isNoRows(err) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (
			name, region_id, sub_region_id, address, phone, url, description,
			image_url, is_premium, service_type, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		listing.Name,
		listing.RegionID,
		listing.SubRegionID,
		listing.Address,
		listing.Phone,
		listing.URL,
		listing.Description,
		listing.ImageURL,
		listing.IsPremium,
		string(listing.ServiceType),
		listing.IsActive,
	).Scan(&id)
	if err != nil {
		return mapWriteErr("create listing", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*listing = *created

	return nil
}

func (r *listingRepository) Update(ctx context.Context, id int64, input *models.UpdateListingInput) (*models.Listing, error) {
	set := sq.Eq{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.RegionID != nil {
		set["region_id"] = *input.RegionID
	}
	if input.SubRegionID != nil {
		if *input.SubRegionID == 0 {
			set["sub_region_id"] = nil
		} else {
			set["sub_region_id"] = *input.SubRegionID
		}
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.URL != nil {
		set["url"] = *input.URL
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.ImageURL != nil {
		set["image_url"] = *input.ImageURL
	}
	if input.IsPremium != nil {
		set["is_premium"] = *input.IsPremium
	}
	if input.ServiceType != nil {
		set["service_type"] = string(*input.ServiceType)
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := builder().Update("listings").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing update: %w", err)
	}

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, mapWriteErr("update listing", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrListingNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *listingRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE listings SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	return r.execByID(ctx, "deactivate listing", query, id)
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	return r.execByID(ctx, "delete listing", `DELETE FROM listings WHERE id = $1`, id)
}

// ResetClicks zeroes the display counter. The click_events ledger is untouched.
func (r *listingRepository) ResetClicks(ctx context.Context, id int64) error {
	query := `UPDATE listings SET click_count = 0, updated_at = NOW() WHERE id = $1`
	return r.execByID(ctx, "reset clicks", query, id)
}

func (r *listingRepository) execByID(ctx context.Context, op, query string, id int64) error {
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/jackc/pgx/v5"
)

type RegionRepository interface {
	List(ctx context.Context) ([]models.Region, error)
	GetByID(ctx context.Context, id int64) (*models.Region, error)
	Create(ctx context.Context, region *models.Region) error
	Update(ctx context.Context, id int64, input *models.UpdateRegionInput) (*models.Region, error)
	// Delete removes the region together with its sub-regions, listings and
	// their click events.
	Delete(ctx context.Context, id int64) error
}

type regionRepository struct {
	db *PostgresDB
}

func NewRegionRepository(db *PostgresDB) RegionRepository {
	return &regionRepository{db: db}
}

func scanRegion(row pgx.Row, region *models.Region) error {
	return row.Scan(
		&region.ID,
		&region.Name,
		&region.Slug,
		&region.RegionGroup,
		&region.DisplayOrder,
		&region.CreatedAt,
	)
}

func (r *regionRepository) List(ctx context.Context) ([]models.Region, error) {
	query := `
		SELECT id, name, slug, region_group, display_order, created_at
		FROM regions
		ORDER BY display_order ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	regions := make([]models.Region, 0)
	for rows.Next() {
		var region models.Region
		if err := scanRegion(rows, &region); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, region)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regions: %w", err)
	}

	return regions, nil
}

func (r *regionRepository) GetByID(ctx context.Context, id int64) (*models.Region, error) {
	query := `
		SELECT id, name, slug, region_group, display_order, created_at
		FROM regions
		WHERE id = $1
	`

	region := &models.Region{}
	if err := scanRegion(r.db.Pool.QueryRow(ctx, query, id), region); err != nil {
		if isNoRows(err) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("failed to get region: %w", err)
	}

	return region, nil
}

func (r *regionRepository) Create(ctx context.Context, region *models.Region) error {
	query := `
		INSERT INTO regions (name, slug, region_group, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		region.Name,
		region.Slug,
		region.RegionGroup,
		region.DisplayOrder,
	).Scan(&region.ID, &region.CreatedAt)
	if err != nil {
		return mapWriteErr("create region", err)
	}

	return nil
}

func (r *regionRepository) Update(ctx context.Context, id int64, input *models.UpdateRegionInput) (*models.Region, error) {
	set := sq.Eq{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.RegionGroup != nil {
		set["region_group"] = *input.RegionGroup
	}
	if input.DisplayOrder != nil {
		set["display_order"] = *input.DisplayOrder
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := builder().Update("regions").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, slug, region_group, display_order, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build region update: %w", err)
	}

	region := &models.Region{}
	if err := scanRegion(r.db.Pool.QueryRow(ctx, query, args...), region); err != nil {
		if isNoRows(err) {
			return nil, ErrRegionNotFound
		}
		return nil, mapWriteErr("update region", err)
	}

	return region, nil
}

func (r *regionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRegionNotFound
	}

	return nil
}

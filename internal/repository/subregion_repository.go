package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/jackc/pgx/v5"
)

type SubRegionRepository interface {
	// List returns sub-regions ordered for navigation, optionally restricted to one region.
	List(ctx context.Context, regionID *int64) ([]models.SubRegion, error)
	GetByID(ctx context.Context, id int64) (*models.SubRegion, error)
	Create(ctx context.Context, sub *models.SubRegion) error
	Update(ctx context.Context, id int64, input *models.UpdateSubRegionInput) (*models.SubRegion, error)
	Delete(ctx context.Context, id int64) error
}

var subRegionColumns = []string{
	"s.id", "s.region_id", "r.name", "s.name", "s.slug", "s.display_order", "s.created_at",
}

type subRegionRepository struct {
	db *PostgresDB
}

func NewSubRegionRepository(db *PostgresDB) SubRegionRepository {
	return &subRegionRepository{db: db}
}

func scanSubRegion(row pgx.Row, sub *models.SubRegion) error {
	return row.Scan(
		&sub.ID,
		&sub.RegionID,
		&sub.RegionName,
		&sub.Name,
		&sub.Slug,
		&sub.DisplayOrder,
		&sub.CreatedAt,
	)
}

func selectSubRegions() sq.SelectBuilder {
	return builder().Select(subRegionColumns...).
		From("sub_regions s").
		Join("regions r ON r.id = s.region_id")
}

func (r *subRegionRepository) List(ctx context.Context, regionID *int64) ([]models.SubRegion, error) {
	q := selectSubRegions()
	if regionID != nil {
		q = q.Where(sq.Eq{"s.region_id": *regionID})
	}

	query, args, err := q.OrderBy("s.display_order ASC", "s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sub-region query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-regions: %w", err)
	}
	defer rows.Close()

	subs := make([]models.SubRegion, 0)
	for rows.Next() {
		var sub models.SubRegion
		if err := scanSubRegion(rows, &sub); err != nil {
			return nil, fmt.Errorf("failed to scan sub-region: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub-regions: %w", err)
	}

	return subs, nil
}

func (r *subRegionRepository) GetByID(ctx context.Context, id int64) (*models.SubRegion, error) {
	query, args, err := selectSubRegions().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sub-region query: %w", err)
	}

	sub := &models.SubRegion{}
	if err := scanSubRegion(r.db.Pool.QueryRow(ctx, query, args...), sub); err != nil {
		if isNoRows(err) {
			return nil, ErrSubRegionNotFound
		}
		return nil, fmt.Errorf("failed to get sub-region: %w", err)
	}

	return sub, nil
}

func (r *subRegionRepository) Create(ctx context.Context, sub *models.SubRegion) error {
	query := `
		INSERT INTO sub_regions (region_id, name, slug, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, (SELECT name FROM regions WHERE id = $1)
	`

	err := r.db.Pool.QueryRow(ctx, query,
		sub.RegionID,
		sub.Name,
		sub.Slug,
		sub.DisplayOrder,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.RegionName)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return ErrRegionNotFound
		}
		return mapWriteErr("create sub-region", err)
	}

	return nil
}

func (r *subRegionRepository) Update(ctx context.Context, id int64, input *models.UpdateSubRegionInput) (*models.SubRegion, error) {
	set := sq.Eq{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.DisplayOrder != nil {
		set["display_order"] = *input.DisplayOrder
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := builder().Update("sub_regions").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sub-region update: %w", err)
	}

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, mapWriteErr("update sub-region", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrSubRegionNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *subRegionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM sub_regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sub-region: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubRegionNotFound
	}

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT id, category_id, name, price, stock_on_hand, is_fractioned, container_volume, serving_volume
	          FROM products WHERE id = $1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) GetComposite(ctx context.Context, id string) (*model.Composite, error) {
	var c model.Composite
	err := r.DB.GetContext(ctx, &c, `SELECT id, kind, name FROM composites WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	query := `SELECT composite_id, position, is_choosable, product_id, quantity, category_id, quota, discount_mode, name_filter
	          FROM composite_items WHERE composite_id = $1 ORDER BY position`
	if err := r.DB.SelectContext(ctx, &c.Items, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListCategoryProductIDs(ctx context.Context, categoryID, nameFilter string) ([]string, error) {
	var ids []string
	query := `SELECT id FROM products WHERE category_id = $1`
	args := []interface{}{categoryID}

	if nameFilter != "" {
		query += ` AND name ILIKE '%' || $2 || '%'`
		args = append(args, nameFilter)
	}

	err := r.DB.SelectContext(ctx, &ids, query, args...)
	return ids, err
}

func (r *PGRepository) PaymentMethodExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM payment_methods WHERE id = $1)`, id)
	return exists, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGLedger struct {
	DB *sqlx.DB
}

func NewPGLedger(db *sqlx.DB) *PGLedger {
	return &PGLedger{DB: db}
}

func (r *PGLedger) Check(ctx context.Context, plan *model.DemandPlan) ([]*apperrors.InsufficientStockError, error) {
	if len(plan.Lines) == 0 {
		return nil, nil
	}

	ids := make([]string, len(plan.Lines))
	for i, line := range plan.Lines {
		ids[i] = line.ProductID
	}

	query, args, err := sqlx.In(`SELECT id, stock_on_hand FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var rows []struct {
		ID          string `db:"id"`
		StockOnHand int    `db:"stock_on_hand"`
	}
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	available := make(map[string]int, len(rows))
	for _, row := range rows {
		available[row.ID] = row.StockOnHand
	}

	var shortfalls []*apperrors.InsufficientStockError
	for _, line := range plan.Lines {
		if available[line.ProductID] < line.Containers {
			shortfalls = append(shortfalls, &apperrors.InsufficientStockError{
				ProductID: line.ProductID,
				Available: available[line.ProductID],
				Required:  line.Containers,
			})
		}
	}
	return shortfalls, nil
}

// CommitDemandTx decrements every product in the plan inside the
// caller's transaction. Each decrement is conditional on the balance
// staying non-negative; a zero-row update means a concurrent sale won
// the stock, and the returned InsufficientStockError makes the caller
// roll the whole transaction back. Lines are applied in product-id
// order so two overlapping commits cannot deadlock each other.
func (r *PGLedger) CommitDemandTx(ctx context.Context, tx *sqlx.Tx, plan *model.DemandPlan, referenceID string, userID string) error {
	lines := make([]model.DemandLine, len(plan.Lines))
	copy(lines, plan.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	now := time.Now()

	for _, line := range lines {
		if line.Containers <= 0 {
			continue
		}

		var after int
		err := tx.QueryRowxContext(ctx, `
			UPDATE products
			SET stock_on_hand = stock_on_hand - $1
			WHERE id = $2 AND stock_on_hand >= $1
			RETURNING stock_on_hand
		`, line.Containers, line.ProductID).Scan(&after)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				var available int
				if err := tx.GetContext(ctx, &available,
					`SELECT stock_on_hand FROM products WHERE id = $1`, line.ProductID); err != nil && !errors.Is(err, sql.ErrNoRows) {
					return err
				}
				return &apperrors.InsufficientStockError{
					ProductID: line.ProductID,
					Available: available,
					Required:  line.Containers,
				}
			}
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}

		var createdBy *string
		if userID != "" {
			createdBy = &userID
		}
		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      line.ProductID,
			QuantityChange: -line.Containers,
			QuantityBefore: after + line.Containers,
			QuantityAfter:  after,
			ReferenceType:  "sale",
			ReferenceID:    referenceID,
			CreatedBy:      createdBy,
			CreatedAt:      now,
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO stock_movements (
				id, product_id, quantity_change, quantity_before, quantity_after,
				reference_type, reference_id, created_by, created_at
			)
			VALUES (
				:id, :product_id, :quantity_change, :quantity_before, :quantity_after,
				:reference_type, :reference_id, :created_by, :created_at
			)
		`, movement)
		if err != nil {
			return fmt.Errorf("log stock movement for %s: %w", line.ProductID, err)
		}
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

// StockCommitter is satisfied by the stock domain's postgres ledger.
type StockCommitter interface {
	CommitDemandTx(ctx context.Context, tx *sqlx.Tx, plan *model.DemandPlan, referenceID string, userID string) error
}

type PGRepository struct {
	DB        *sqlx.DB
	ledger    StockCommitter
	txTimeout time.Duration
}

func NewPGRepository(db *sqlx.DB, ledger StockCommitter, txTimeout time.Duration) *PGRepository {
	return &PGRepository{DB: db, ledger: ledger, txTimeout: txTimeout}
}

// CreateWithDemand runs the whole commit in one bounded transaction:
// sale row, sale items, conditional stock decrements, movement audit.
// Any failure rolls everything back; a deadlock or timeout surfaces as
// a retryable TransientError.
func (r *PGRepository) CreateWithDemand(ctx context.Context, s *model.Sale, plan *model.DemandPlan) error {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sales (id, payment_method_id, user_id, total, created_at)
		VALUES (:id, :payment_method_id, :user_id, :total, :created_at)
	`, s)
	if err != nil {
		return translate(fmt.Errorf("insert sale: %w", err))
	}

	for i := range s.Items {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, composite_id, quantity, price, discount, subtotal)
			VALUES (:id, :sale_id, :product_id, :composite_id, :quantity, :price, :discount, :subtotal)
		`, &s.Items[i])
		if err != nil {
			return translate(fmt.Errorf("insert sale item: %w", err))
		}
	}

	if err := r.ledger.CommitDemandTx(ctx, tx, plan, s.ID, s.UserID); err != nil {
		return translate(err)
	}

	if err := tx.Commit(); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	switch err.(type) {
	case *apperrors.InsufficientStockError, *apperrors.TransientError:
		return err
	}
	if postgres.IsRetryable(err) {
		return &apperrors.TransientError{Err: err}
	}
	return err
}

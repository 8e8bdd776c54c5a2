package stock

import (
	"context"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
)

// Ledger is the advisory read side of stock accounting. Check never
// mutates and its answer is stale the moment it returns; the
// authoritative guard is the conditional decrement the commit
// transaction performs.
type Ledger interface {
	Check(ctx context.Context, plan *model.DemandPlan) ([]*apperrors.InsufficientStockError, error)
}

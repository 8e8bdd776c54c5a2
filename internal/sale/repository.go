package sale

import (
	"context"

	"github.com/fekuna/omnipos-sale-service/internal/model"
)

type Repository interface {
	// CreateWithDemand persists the sale with its items and applies the
	// demand plan's stock decrements in one transaction. Either both
	// happen or neither does; an InsufficientStockError means a
	// concurrent sale consumed the stock after validation.
	CreateWithDemand(ctx context.Context, s *model.Sale, plan *model.DemandPlan) error
}

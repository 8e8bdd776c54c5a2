package sale

import (
	"context"

	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/internal/sale/dto"
)

type UseCase interface {
	// ValidateBasket is the read-only preview path: it resolves and
	// aggregates the whole basket, then checks it against the ledger
	// without mutating anything. Errors come back as a complete
	// apperrors.ErrorList, not just the first problem.
	ValidateBasket(ctx context.Context, input *dto.ValidateBasketInput) (*model.DemandPlan, error)

	// CommitSale atomically persists the sale and decrements stock, or
	// fails with zero side effects.
	CommitSale(ctx context.Context, input *dto.CommitSaleInput) (*model.Sale, error)
}

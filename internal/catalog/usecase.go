package catalog

import (
	"context"

	"github.com/fekuna/omnipos-sale-service/internal/model"
)

type UseCase interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetComposite(ctx context.Context, id string) (*model.Composite, error)
	ListCategoryProductIDs(ctx context.Context, categoryID, nameFilter string) ([]string, error)
	PaymentMethodExists(ctx context.Context, id string) (bool, error)
}

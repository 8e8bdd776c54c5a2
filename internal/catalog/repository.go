package catalog

import (
	"context"

	"github.com/fekuna/omnipos-sale-service/internal/model"
)

// Repository is the read-side catalog lookup consumed by the sale
// engine. Lookups return nil (not an error) when the row is absent;
// callers decide whether that is a NotFoundError.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetComposite(ctx context.Context, id string) (*model.Composite, error)
	// ListCategoryProductIDs returns the ids of products in a category,
	// optionally narrowed by a case-insensitive name substring.
	ListCategoryProductIDs(ctx context.Context, categoryID, nameFilter string) ([]string, error)
	PaymentMethodExists(ctx context.Context, id string) (bool, error)
}

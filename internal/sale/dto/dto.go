package dto

import (
	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
)

type ValidateBasketResponse struct {
	DemandPlan *model.DemandPlan `json:"demand_plan"`
}

type SaleResponse struct {
	ID    string           `json:"id"`
	Items []model.SaleItem `json:"items"`
	Total float64          `json:"total"`
}

type ErrorResponse struct {
	Errors []ErrorEntry `json:"errors"`
}

// ErrorEntry is one user-correctable problem: one entry per offending
// product or category.
type ErrorEntry struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ProductID  string `json:"product_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Available  *int   `json:"available,omitempty"`
	Required   *int   `json:"required,omitempty"`
}

func ErrorEntries(err error) []ErrorEntry {
	flat := apperrors.Flatten(err)
	entries := make([]ErrorEntry, 0, len(flat))
	for _, e := range flat {
		entry := ErrorEntry{
			Code:    apperrors.Code(e),
			Message: e.Error(),
		}
		switch typed := e.(type) {
		case *apperrors.NotFoundError:
			if typed.Entity == "product" {
				entry.ProductID = typed.ID
			}
		case *apperrors.SelectionError:
			entry.CategoryID = typed.CategoryID
		case *apperrors.InsufficientStockError:
			entry.ProductID = typed.ProductID
			available, required := typed.Available, typed.Required
			entry.Available = &available
			entry.Required = &required
		case *apperrors.ConfigurationError:
			entry.ProductID = typed.ProductID
		}
		entries = append(entries, entry)
	}
	return entries
}

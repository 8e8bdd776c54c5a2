package resolver

import (
	"context"
	"fmt"
	"math"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/catalog"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/internal/sale/dto"
)

const allocationEpsilon = 1e-9

// Resolver expands one basket line into flat per-product demand.
// Choosable selections are re-validated against the catalog: only the
// allocated amounts are taken from the client, never the claimed
// category membership.
type Resolver struct {
	catalog catalog.UseCase
}

func New(c catalog.UseCase) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the deduplicated productID -> demand map for a single
// line, or every error it found. A line with any error resolves to
// nothing: partial resolution is never returned.
func (r *Resolver) Resolve(ctx context.Context, line *dto.BasketLine) (map[string]model.Demand, error) {
	if err := validateShape(line); err != nil {
		return nil, apperrors.ErrorList{err}
	}

	qty := int(line.Quantity)
	demand := map[string]model.Demand{}

	if line.ProductID != "" {
		d := demand[line.ProductID]
		d.Servings += qty
		demand[line.ProductID] = d
		return demand, nil
	}

	compositeID := line.DoseID
	wantKind := model.KindDose
	if line.ComboID != "" {
		compositeID = line.ComboID
		wantKind = model.KindCombo
	}

	composite, err := r.catalog.GetComposite(ctx, compositeID)
	if err != nil {
		return nil, err
	}
	if composite == nil || composite.Kind != wantKind {
		return nil, apperrors.ErrorList{&apperrors.NotFoundError{Entity: string(wantKind), ID: compositeID}}
	}

	var errs apperrors.ErrorList
	claimed := map[string]bool{}

	for _, item := range composite.Items {
		if !item.IsChoosable {
			if item.ProductID == nil || item.Quantity == nil {
				errs = append(errs, &apperrors.ConfigurationError{
					Reason: fmt.Sprintf("composite %s has a fixed entry without product or quantity", composite.ID),
				})
				continue
			}
			d := demand[*item.ProductID]
			d.Servings += *item.Quantity * qty
			demand[*item.ProductID] = d
			continue
		}

		if item.CategoryID == nil || item.Quota == nil || item.DiscountMode == nil {
			errs = append(errs, &apperrors.ConfigurationError{
				Reason: fmt.Sprintf("composite %s has an incomplete choosable entry", composite.ID),
			})
			continue
		}
		claimed[*item.CategoryID] = true

		if err := r.resolveChoosable(ctx, line, &item, qty, demand, &errs); err != nil {
			return nil, err
		}
	}

	// Selections for categories the composite has no slot for are a
	// client error, not silently ignored.
	for categoryID := range line.ChoosableSelections {
		if !claimed[categoryID] {
			errs = append(errs, &apperrors.SelectionError{
				CategoryID: categoryID,
				Reason:     "composite has no choosable slot for this category",
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return demand, nil
}

func (r *Resolver) resolveChoosable(ctx context.Context, line *dto.BasketLine, item *model.CompositeItem, qty int, demand map[string]model.Demand, errs *apperrors.ErrorList) error {
	categoryID := *item.CategoryID
	selection := line.ChoosableSelections[categoryID]

	var allocated float64
	for _, amount := range selection {
		allocated += amount
	}
	if math.Abs(allocated-*item.Quota) > allocationEpsilon {
		*errs = append(*errs, &apperrors.SelectionError{
			CategoryID: categoryID,
			Quota:      *item.Quota,
			Allocated:  allocated,
		})
	}

	filter := ""
	if item.NameFilter != nil {
		filter = *item.NameFilter
	}
	memberIDs, err := r.catalog.ListCategoryProductIDs(ctx, categoryID, filter)
	if err != nil {
		return err
	}
	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	for productID, amount := range selection {
		if amount < 0 {
			*errs = append(*errs, &apperrors.ValidationError{
				Field:  "choosable_selections",
				Reason: fmt.Sprintf("negative allocation for product %s", productID),
			})
			continue
		}
		if amount == 0 {
			continue
		}
		if !members[productID] {
			*errs = append(*errs, &apperrors.SelectionError{
				CategoryID: categoryID,
				Reason:     fmt.Sprintf("product %s is not eligible for this category", productID),
			})
			continue
		}

		d := demand[productID]
		switch *item.DiscountMode {
		case model.ModeVolume:
			d.VolumeML += amount * float64(qty)
		case model.ModeUnit:
			if amount != math.Trunc(amount) {
				*errs = append(*errs, &apperrors.ValidationError{
					Field:  "choosable_selections",
					Reason: fmt.Sprintf("unit allocation for product %s must be an integer", productID),
				})
				continue
			}
			d.Servings += int(amount) * qty
		default:
			*errs = append(*errs, &apperrors.ConfigurationError{
				Reason: fmt.Sprintf("unknown discount mode %q for category %s", *item.DiscountMode, categoryID),
			})
			continue
		}
		demand[productID] = d
	}

	return nil
}

func validateShape(line *dto.BasketLine) error {
	refs := 0
	if line.ProductID != "" {
		refs++
	}
	if line.DoseID != "" {
		refs++
	}
	if line.ComboID != "" {
		refs++
	}
	if refs != 1 {
		return &apperrors.ValidationError{
			Field:  "line",
			Reason: "exactly one of product_id, dose_id or combo_id must be set",
		}
	}
	if line.Quantity <= 0 || line.Quantity != math.Trunc(line.Quantity) {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if line.Price < 0 {
		return &apperrors.ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	if line.Discount < 0 {
		return &apperrors.ValidationError{Field: "discount", Reason: "must be non-negative"}
	}
	return nil
}

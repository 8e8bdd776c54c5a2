package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/internal/sale/dto"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products   map[string]*model.Product
	composites map[string]*model.Composite
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*model.Product, error) {
	return f.products[id], nil
}

func (f *fakeCatalog) GetComposite(_ context.Context, id string) (*model.Composite, error) {
	return f.composites[id], nil
}

func (f *fakeCatalog) ListCategoryProductIDs(_ context.Context, categoryID, nameFilter string) ([]string, error) {
	var ids []string
	for _, p := range f.products {
		if p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(nameFilter)) {
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (f *fakeCatalog) PaymentMethodExists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func str(s string) *string { return &s }

func num(i int) *int { return &i }

func fl(v float64) *float64 { return &v }

func mode(m model.DiscountMode) *model.DiscountMode { return &m }

func newTestCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[string]*model.Product{
			"beer":  {ID: "beer", Name: "Lager Bottle", CategoryID: str("beers")},
			"stout": {ID: "stout", Name: "Stout Bottle", CategoryID: str("beers")},
			"gin":   {ID: "gin", Name: "Dry Gin", CategoryID: str("spirits"), IsFractioned: true},
			"rum":   {ID: "rum", Name: "Dark Rum", CategoryID: str("spirits"), IsFractioned: true},
			"cola":  {ID: "cola", Name: "Cola Can", CategoryID: str("mixers")},
		},
		composites: map[string]*model.Composite{
			"gin-dose": {
				ID: "gin-dose", Kind: model.KindDose, Name: "Gin Double",
				Items: []model.CompositeItem{
					{CompositeID: "gin-dose", Position: 0, ProductID: str("gin"), Quantity: num(2)},
				},
			},
			"party-combo": {
				ID: "party-combo", Kind: model.KindCombo, Name: "Party Bucket",
				Items: []model.CompositeItem{
					{CompositeID: "party-combo", Position: 0, ProductID: str("cola"), Quantity: num(2)},
					{CompositeID: "party-combo", Position: 1, IsChoosable: true,
						CategoryID: str("beers"), Quota: fl(2), DiscountMode: mode(model.ModeUnit)},
				},
			},
			"spirit-combo": {
				ID: "spirit-combo", Kind: model.KindCombo, Name: "Spirit Mix",
				Items: []model.CompositeItem{
					{CompositeID: "spirit-combo", Position: 0, IsChoosable: true,
						CategoryID: str("spirits"), Quota: fl(500), DiscountMode: mode(model.ModeVolume)},
				},
			},
			"filtered-combo": {
				ID: "filtered-combo", Kind: model.KindCombo, Name: "Stout Picks",
				Items: []model.CompositeItem{
					{CompositeID: "filtered-combo", Position: 0, IsChoosable: true,
						CategoryID: str("beers"), Quota: fl(1), DiscountMode: mode(model.ModeUnit),
						NameFilter: str("stout")},
				},
			},
		},
	}
}

func TestResolve_PlainProductLine(t *testing.T) {
	r := New(newTestCatalog())

	demand, err := r.Resolve(context.Background(), &dto.BasketLine{ProductID: "beer", Quantity: 3, Price: 4})
	require.NoError(t, err)
	require.Equal(t, map[string]model.Demand{"beer": {Servings: 3}}, demand)
}

func TestResolve_RejectsAmbiguousLine(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{ProductID: "beer", DoseID: "gin-dose", Quantity: 1})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestResolve_RejectsFractionalQuantity(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{ProductID: "beer", Quantity: 1.5})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "quantity", ve.Field)
}

func TestResolve_DoseMultipliesFixedEntries(t *testing.T) {
	r := New(newTestCatalog())

	demand, err := r.Resolve(context.Background(), &dto.BasketLine{DoseID: "gin-dose", Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, map[string]model.Demand{"gin": {Servings: 6}}, demand)
}

func TestResolve_UnknownComposite(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{DoseID: "nope", Quantity: 1})
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "nope", nf.ID)
}

func TestResolve_DoseIDPointingAtCombo(t *testing.T) {
	r := New(newTestCatalog())

	// party-combo exists but is a combo; a dose reference must not find it.
	_, err := r.Resolve(context.Background(), &dto.BasketLine{DoseID: "party-combo", Quantity: 1})
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestResolve_ChoosableUnitMode(t *testing.T) {
	r := New(newTestCatalog())

	demand, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "party-combo",
		Quantity: 2,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"beer": 1, "stout": 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]model.Demand{
		"cola":  {Servings: 4},
		"beer":  {Servings: 2},
		"stout": {Servings: 2},
	}, demand)
}

func TestResolve_ChoosableUnderAllocation(t *testing.T) {
	r := New(newTestCatalog())

	// Quota is 2, client allocated 1 in total: rejected, nothing resolved.
	_, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "party-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"beer": 1, "stout": 0},
		},
	})
	var se *apperrors.SelectionError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "beers", se.CategoryID)
	require.Equal(t, 2.0, se.Quota)
	require.Equal(t, 1.0, se.Allocated)
}

func TestResolve_ChoosableMissingSelection(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{ComboID: "party-combo", Quantity: 1})
	var se *apperrors.SelectionError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 0.0, se.Allocated)
}

func TestResolve_ChoosableIneligibleProduct(t *testing.T) {
	r := New(newTestCatalog())

	// cola is a real product but not in the beers category; the claimed
	// membership comes from the client and must be re-derived server-side.
	_, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "party-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"cola": 2},
		},
	})
	var se *apperrors.SelectionError
	require.ErrorAs(t, err, &se)
	require.Contains(t, se.Error(), "cola")
}

func TestResolve_ChoosableNameFilter(t *testing.T) {
	r := New(newTestCatalog())

	demand, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "filtered-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"stout": 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]model.Demand{"stout": {Servings: 1}}, demand)

	// beer matches the category but not the "stout" name filter.
	_, err = r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "filtered-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"beer": 1},
		},
	})
	var se *apperrors.SelectionError
	require.ErrorAs(t, err, &se)
}

func TestResolve_ChoosableVolumeMode(t *testing.T) {
	r := New(newTestCatalog())

	demand, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "spirit-combo",
		Quantity: 2,
		ChoosableSelections: map[string]map[string]float64{
			"spirits": {"gin": 300, "rum": 200},
		},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]model.Demand{
		"gin": {VolumeML: 600},
		"rum": {VolumeML: 400},
	}, demand)
}

func TestResolve_ChoosableNonIntegerUnitAllocation(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "party-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"beer": 1.5, "stout": 0.5},
		},
	})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestResolve_SelectionForUnknownSlot(t *testing.T) {
	r := New(newTestCatalog())

	_, err := r.Resolve(context.Background(), &dto.BasketLine{
		DoseID:   "gin-dose",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"beer": 1},
		},
	})
	var se *apperrors.SelectionError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "beers", se.CategoryID)
}

func TestResolve_CollectsEveryError(t *testing.T) {
	r := New(newTestCatalog())

	// Under-allocated quota AND an ineligible product: both reported.
	_, err := r.Resolve(context.Background(), &dto.BasketLine{
		ComboID:  "party-combo",
		Quantity: 1,
		ChoosableSelections: map[string]map[string]float64{
			"beers": {"cola": 1},
		},
	})
	require.Error(t, err)
	flat := apperrors.Flatten(err)
	require.Len(t, flat, 2)
}

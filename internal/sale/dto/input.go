package dto

// BasketLine is the wire shape of one basket entry. Exactly one of
// ProductID / DoseID / ComboID must be set. Quantity arrives as a JSON
// number and is validated as a positive integer by the resolver.
type BasketLine struct {
	ProductID string  `json:"product_id,omitempty"`
	DoseID    string  `json:"dose_id,omitempty"`
	ComboID   string  `json:"combo_id,omitempty"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount,omitempty"`
	// ChoosableSelections: categoryID -> productID -> allocated amount
	// (milliliters in volume mode, serving count in unit mode).
	ChoosableSelections map[string]map[string]float64 `json:"choosable_selections,omitempty"`
}

type ValidateBasketInput struct {
	Items []BasketLine `json:"items"`
}

type CommitSaleInput struct {
	Items           []BasketLine `json:"items"`
	PaymentMethodID string       `json:"payment_method_id"`
	UserID          string       `json:"-"`
}

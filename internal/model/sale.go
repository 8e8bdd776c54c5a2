package model

import "time"

type Sale struct {
	ID              string     `db:"id" json:"id"`
	PaymentMethodID string     `db:"payment_method_id" json:"payment_method_id"`
	UserID          string     `db:"user_id" json:"user_id"`
	Total           float64    `db:"total" json:"total"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	Items           []SaleItem `db:"-" json:"items"`
}

// SaleItem references exactly one of ProductID / CompositeID.
type SaleItem struct {
	ID          string  `db:"id" json:"id"`
	SaleID      string  `db:"sale_id" json:"sale_id"`
	ProductID   *string `db:"product_id" json:"product_id"`
	CompositeID *string `db:"composite_id" json:"composite_id"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Price       float64 `db:"price" json:"price"`
	Discount    float64 `db:"discount" json:"discount"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// StockMovement is the audit row written alongside every ledger decrement,
// inside the same transaction as the sale.
type StockMovement struct {
	ID             string    `db:"id"`
	ProductID      string    `db:"product_id"`
	QuantityChange int       `db:"quantity_change"`
	QuantityBefore int       `db:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after"`
	ReferenceType  string    `db:"reference_type"`
	ReferenceID    string    `db:"reference_id"`
	CreatedBy      *string   `db:"created_by"`
	CreatedAt      time.Time `db:"created_at"`
}

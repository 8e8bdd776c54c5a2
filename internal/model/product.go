package model

// Product is the catalog + stock row this engine reads and decrements.
// StockOnHand always counts whole containers; a fractioned product is
// consumed in sub-container volumes per serving.
type Product struct {
	ID              string   `db:"id" json:"id"`
	CategoryID      *string  `db:"category_id" json:"category_id"`
	Name            string   `db:"name" json:"name"`
	Price           float64  `db:"price" json:"price"`
	StockOnHand     int      `db:"stock_on_hand" json:"stock_on_hand"`
	IsFractioned    bool     `db:"is_fractioned" json:"is_fractioned"`
	ContainerVolume *float64 `db:"container_volume" json:"container_volume"`
	ServingVolume   *float64 `db:"serving_volume" json:"serving_volume"`
}

type PaymentMethod struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

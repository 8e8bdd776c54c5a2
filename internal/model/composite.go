package model

type CompositeKind string

const (
	KindDose  CompositeKind = "dose"
	KindCombo CompositeKind = "combo"
)

type DiscountMode string

const (
	ModeVolume DiscountMode = "volume"
	ModeUnit   DiscountMode = "unit"
)

// Composite is a dose or combo definition: an ordered list of entries,
// each either a fixed product+quantity or a choosable category slot.
type Composite struct {
	ID    string          `db:"id" json:"id"`
	Kind  CompositeKind   `db:"kind" json:"kind"`
	Name  string          `db:"name" json:"name"`
	Items []CompositeItem `db:"-" json:"items"`
}

type CompositeItem struct {
	CompositeID  string        `db:"composite_id" json:"composite_id"`
	Position     int           `db:"position" json:"position"`
	IsChoosable  bool          `db:"is_choosable" json:"is_choosable"`
	ProductID    *string       `db:"product_id" json:"product_id"`
	Quantity     *int          `db:"quantity" json:"quantity"`
	CategoryID   *string       `db:"category_id" json:"category_id"`
	Quota        *float64      `db:"quota" json:"quota"`
	DiscountMode *DiscountMode `db:"discount_mode" json:"discount_mode"`
	NameFilter   *string       `db:"name_filter" json:"name_filter"`
}

package model

// Demand is raw per-product consumption before container conversion:
// whole-unit servings plus milliliters drawn directly by volume-mode
// choosable selections. The two are merged per product so a standalone
// pour and a combo hitting the same bottle share one container budget.
type Demand struct {
	Servings int
	VolumeML float64
}

// DemandLine is the converted, per-product entry checked against and
// committed to the stock ledger. Containers is what actually gets
// decremented; Servings/VolumeML are kept for audit.
type DemandLine struct {
	ProductID  string  `json:"product_id"`
	Servings   int     `json:"servings"`
	VolumeML   float64 `json:"volume_ml,omitempty"`
	Containers int     `json:"containers"`
}

// DemandPlan aggregates demand across the whole basket, one line per
// product, sorted by product id.
type DemandPlan struct {
	Lines []DemandLine `json:"lines"`
}

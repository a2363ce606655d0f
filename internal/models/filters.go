package models

// AllCategories is the category selector value meaning "no category filter".
// Kept as the literal the mobile screens have always sent.
const AllCategories = "Todas"

// Filters parameterizes the derived part views. Ephemeral, never persisted.
type Filters struct {
	Search       string  `json:"search" query:"search"`
	Category     string  `json:"category" query:"category"`
	MinPrice     float64 `json:"min_price" query:"min_price"`
	MaxPrice     float64 `json:"max_price" query:"max_price"` // <= 0 means unbounded
	MinQuantity  int     `json:"min_quantity" query:"min_quantity"`
	LowStockOnly bool    `json:"low_stock_only" query:"low_stock_only"`
}

// Statistics is recomputed from the part collection on every request.
type Statistics struct {
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
	TopCategory   string  `json:"top_category"`
	AveragePrice  float64 `json:"average_price"`
}

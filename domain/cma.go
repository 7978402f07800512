package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubjectProperty struct {
	SquareFootage decimal.Decimal `json:"square_footage"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     decimal.Decimal `json:"bathrooms"`
}

// Comparable is a recent sale. DistanceMiles and SaleDate are optional
// weighting factors; Adjustment is a manual price adjustment.
type Comparable struct {
	Address       string              `json:"address,omitempty"`
	SalePrice     decimal.Decimal     `json:"sale_price"`
	SquareFootage decimal.Decimal     `json:"square_footage"`
	Bedrooms      int                 `json:"bedrooms"`
	Bathrooms     decimal.Decimal     `json:"bathrooms"`
	SaleDate      time.Time           `json:"sale_date,omitempty"`
	DistanceMiles decimal.NullDecimal `json:"distance_miles"`
	Adjustment    decimal.Decimal     `json:"adjustment"`
}

type CMAInput struct {
	Subject     SubjectProperty `json:"subject"`
	Comparables []Comparable    `json:"comparables"`
	// AsOf anchors sale-date recency; zero means the latest comparable sale.
	AsOf time.Time `json:"as_of,omitempty"`
}

type ComparableResult struct {
	Address            string          `json:"address,omitempty"`
	AdjustedPrice      decimal.Decimal `json:"adjusted_price"`
	PricePerSquareFoot decimal.Decimal `json:"price_per_square_foot"`
	Weight             decimal.Decimal `json:"weight"`
}

type CMAResult struct {
	EstimatedValue         decimal.Decimal    `json:"estimated_value"`
	ValueRangeLow          decimal.Decimal    `json:"value_range_low"`
	ValueRangeHigh         decimal.Decimal    `json:"value_range_high"`
	PricePerSquareFootUsed decimal.Decimal    `json:"price_per_square_foot_used"`
	BandMode               string             `json:"band_mode"`
	Comparables            []ComparableResult `json:"comparables"`
}

// SavedComparable is a comparable sale kept by the surrounding
// application for reuse across CMA requests.
type SavedComparable struct {
	ID         string     `json:"id"`
	Location   string     `json:"location"`
	Comparable Comparable `json:"comparable"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CMARequest is a CMA input that may also draw on comparables saved
// under ComparablesLocation.
type CMARequest struct {
	CMAInput
	ComparablesLocation string `json:"comparables_location,omitempty"`
}

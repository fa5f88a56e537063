// Package types - route, distance and historical records
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistanceRecord is a precomputed road distance for an unordered pair
type DistanceRecord struct {
	Route     RouteKey `json:"route"`
	Km        float64  `json:"km"`
	Validated bool     `json:"validated"`
}

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HistoricalManifest is an observed transaction. Read-only input to the market engine.
// City and department fields are stored normalized.
type HistoricalManifest struct {
	ID                    string          `json:"id"`
	OriginCity            string          `json:"origin_city"`
	OriginDepartment      string          `json:"origin_department"`
	DestinationCity       string          `json:"destination_city"`
	DestinationDepartment string          `json:"destination_department"`
	WeightKg              float64         `json:"weight_kg"`
	AgreedFreight         decimal.Decimal `json:"agreed_freight"`
	NetFreight            decimal.Decimal `json:"net_freight"`
	IssuedAt              time.Time       `json:"issued_at"`
	Plate                 string          `json:"plate,omitempty"`
}

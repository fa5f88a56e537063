// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and keys.
package types

import (
	"fmt"
	"time"
)

// VehicleClass identifies a regulated truck configuration
type VehicleClass string

const (
	// ClassC2 is a two-axle rigid truck
	ClassC2 VehicleClass = "C2"
	// ClassC3 is a three-axle rigid truck
	ClassC3 VehicleClass = "C3"
	// ClassC2S2 is a two-axle tractor with a two-axle semitrailer
	ClassC2S2 VehicleClass = "C2S2"
	// ClassC3S2 is a three-axle tractor with a two-axle semitrailer
	ClassC3S2 VehicleClass = "C3S2"
	// ClassC3S3 is a three-axle tractor with a three-axle semitrailer
	ClassC3S3 VehicleClass = "C3S3"
)

// VehicleClasses lists every known class, smallest first
var VehicleClasses = []VehicleClass{ClassC2, ClassC3, ClassC2S2, ClassC3S2, ClassC3S3}

// String returns the string representation
func (c VehicleClass) String() string {
	return string(c)
}

// IsValid checks if the class is known
func (c VehicleClass) IsValid() bool {
	for _, k := range VehicleClasses {
		if k == c {
			return true
		}
	}
	return false
}

// LightToll reports whether the class pays the light-truck toll category
func (c VehicleClass) LightToll() bool {
	return c == ClassC2 || c == ClassC3
}

// CargoType tags the kind of load
type CargoType string

const (
	CargoGeneral      CargoType = "CARGA_GENERAL"
	CargoContainer    CargoType = "CONTENEDOR"
	CargoLiquidBulk   CargoType = "GRANEL_LIQUIDO"
	CargoDryBulk      CargoType = "GRANEL_SOLIDO"
	CargoRefrigerated CargoType = "REFRIGERADA"
)

// IsValid checks if the cargo type is known
func (c CargoType) IsValid() bool {
	switch c {
	case CargoGeneral, CargoContainer, CargoLiquidBulk, CargoDryBulk, CargoRefrigerated:
		return true
	}
	return false
}

// Specialized reports whether the cargo requires specialized bodywork
func (c CargoType) Specialized() bool {
	return c == CargoContainer || c == CargoLiquidBulk
}

// Period is a calendar month used to version economic parameters
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM"
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// String renders the period as "YYYY-MM"
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is strictly earlier than o
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// RouteKey is an unordered pair of location codes in canonical (sorted) order
type RouteKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewRouteKey canonicalizes a pair so (x,y) and (y,x) produce the same key
func NewRouteKey(x, y string) RouteKey {
	if y < x {
		x, y = y, x
	}
	return RouteKey{A: x, B: y}
}

// String returns "A|B"
func (k RouteKey) String() string {
	return k.A + "|" + k.B
}

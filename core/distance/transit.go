package distance

import (
	"fmt"
	"math"
)

// Band is a logistics distance class
type Band string

const (
	BandShort    Band = "SHORT"
	BandMedium   Band = "MEDIUM"
	BandLong     Band = "LONG"
	BandVeryLong Band = "VERY_LONG"
)

const (
	// DrivingHoursPerDay is the effective driving time in one business day
	DrivingHoursPerDay = 10.0

	// MarginDays is added to the lower bound to form the upper bound
	MarginDays = 1
)

// Classify maps km to a band
func Classify(km float64) Band {
	switch {
	case km < 100:
		return BandShort
	case km < 400:
		return BandMedium
	case km < 800:
		return BandLong
	default:
		return BandVeryLong
	}
}

// EffectiveSpeed returns the door-to-door speed assumed for a band, km/h
func (b Band) EffectiveSpeed() float64 {
	switch b {
	case BandShort:
		return 40
	case BandMedium:
		return 50
	case BandLong:
		return 55
	default:
		return 50
	}
}

// TransitEstimate is a business-day range plus the pure driving time
type TransitEstimate struct {
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"`
	Label   string `json:"label"`

	DrivingHours   int `json:"driving_hours"`
	DrivingMinutes int `json:"driving_minutes"`
	DrivingSeconds int `json:"driving_seconds"`
}

// EstimateTransit converts km into a transit estimate
func EstimateTransit(km float64) TransitEstimate {
	hours := km / Classify(km).EffectiveSpeed()
	days := int(math.Ceil(hours / DrivingHoursPerDay))

	total := int(math.Round(hours * 3600))
	return TransitEstimate{
		MinDays:        days,
		MaxDays:        days + MarginDays,
		Label:          fmt.Sprintf("%d–%d business days", days, days+MarginDays),
		DrivingHours:   total / 3600,
		DrivingMinutes: total % 3600 / 60,
		DrivingSeconds: total % 60,
	}
}

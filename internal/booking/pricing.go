package booking

import (
	"math"
	"time"

	"github.com/hotelsuite/pms-backend/internal/models"
)

// AdvanceRate is the share of one night's rate collected up front
const AdvanceRate = 0.30

// Price is the computed charge for a stay
type Price struct {
	Nights  int
	Total   float64
	Advance float64
}

// Nights counts billable nights: whole days rounded up, never less than one
func Nights(checkIn, checkOut time.Time) int {
	hours := Day(checkOut).Sub(Day(checkIn)).Hours()
	n := int(math.Ceil(hours / 24))
	if n < 1 {
		return 1
	}
	return n
}

// ComputePrice prices a stay at a nightly rate.
// The advance is 30% of a single night, rounded to the nearest whole unit.
func ComputePrice(rate float64, checkIn, checkOut time.Time) Price {
	nights := Nights(checkIn, checkOut)
	return Price{
		Nights:  nights,
		Total:   models.RoundMoney(rate * float64(nights)),
		Advance: math.Round(rate * AdvanceRate),
	}
}

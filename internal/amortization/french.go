package amortization

import (
	"math"

	"credit-engine/internal/model"
)

// FrenchSchedule pays a constant installment after an optional interest-only
// grace window. The maturity quarter settles whatever principal is left, so
// grace never moves the final repayment date.
type FrenchSchedule struct{}

func (s *FrenchSchedule) Principal(v *model.Vintage, q int, quarterlyRate float64) float64 {
	if q >= v.Maturity {
		return v.Outstanding
	}
	if q-v.Start <= v.GracePeriod {
		return 0
	}

	principal := v.Installment - v.Outstanding*quarterlyRate
	return math.Min(math.Max(principal, 0), v.Outstanding)
}

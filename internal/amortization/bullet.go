package amortization

import "credit-engine/internal/model"

// BulletSchedule repays the whole outstanding principal in the maturity quarter.
type BulletSchedule struct{}

func (s *BulletSchedule) Principal(v *model.Vintage, q int, _ float64) float64 {
	if q == v.Maturity {
		return v.Outstanding
	}
	return 0
}

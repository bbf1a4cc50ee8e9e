package amortization

import "credit-engine/internal/model"

var registry = map[string]Schedule{
	model.LoanTypeBullet: &BulletSchedule{},
	model.LoanTypeFrench: &FrenchSchedule{},
}

func Get(loanType string) (Schedule, bool) {
	s, ok := registry[loanType]
	return s, ok
}

// Resolve returns the schedule for loanType, treating unknown types as bullet.
func Resolve(loanType string) Schedule {
	if s, ok := registry[loanType]; ok {
		return s
	}
	return registry[model.LoanTypeBullet]
}

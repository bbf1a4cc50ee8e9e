// Package vintage splits annual origination volumes into quarterly cohorts.
package vintage

import (
	"math"

	"credit-engine/internal/interest"
	"credit-engine/internal/model"
	"credit-engine/internal/volume"
)

// Build creates every vintage a product originates over the simulation horizon,
// ordered by start quarter.
func Build(p *model.Product, a *model.Assumptions) []*model.Vintage {
	volumes := volume.Resolve(p)
	alloc := a.Allocation()
	rates := interest.ProductRates(p, a)
	duration, grace := Terms(p)

	var vintages []*model.Vintage
	for year, vol := range volumes {
		if vol <= 0 {
			continue
		}
		for quarter, weight := range alloc {
			amount := vol * weight / 100
			if amount <= 0 {
				continue
			}

			matYear, matQuarter := Maturity(year, quarter, duration)
			v := &model.Vintage{
				StartYear:       year,
				StartQuarter:    quarter,
				Start:           year*model.QuartersPerYear + quarter,
				MaturityYear:    matYear,
				MaturityQuarter: matQuarter,
				Maturity:        matYear*model.QuartersPerYear + matQuarter,
				InitialAmount:   amount,
				Outstanding:     amount,
				Type:            p.Type,
				Duration:        duration,
				GracePeriod:     grace,
			}
			if p.Type == model.LoanTypeFrench {
				v.Installment = Installment(amount, rates.Quarterly, duration-grace)
			}
			vintages = append(vintages, v)
		}
	}
	return vintages
}

// Terms returns the product's duration and grace period in quarters, with
// duration at least one quarter and grace within [0, duration].
func Terms(p *model.Product) (duration, grace int) {
	duration = p.Duration
	if duration < 1 {
		duration = 1
	}
	grace = p.GracePeriod
	if grace < 0 {
		grace = 0
	}
	if grace > duration {
		grace = duration
	}
	return duration, grace
}

// Maturity counts duration quarters strictly after the disbursement quarter.
func Maturity(startYear, startQuarter, duration int) (year, quarter int) {
	total := startQuarter + duration
	return startYear + total/model.QuartersPerYear, total % model.QuartersPerYear
}

// Installment is the constant annuity payment amortizing principal over the
// given number of quarterly periods.
func Installment(principal, quarterlyRate float64, periods int) float64 {
	if periods <= 0 || principal <= 0 {
		return 0
	}
	if quarterlyRate == 0 {
		return principal / float64(periods)
	}
	return principal * quarterlyRate / (1 - math.Pow(1+quarterlyRate, -float64(periods)))
}

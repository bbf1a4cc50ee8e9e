// Package recovery applies quarterly defaults to vintages and values the
// resulting non-performing exposure through the recovery waterfall.
package recovery

import "credit-engine/internal/model"

// utpMultiplier scales the default rate of exposures classified as unlikely to pay.
const utpMultiplier = 2.5

// QuarterlyDefaultRate converts the annual danger rate into a quarterly decimal rate.
func QuarterlyDefaultRate(p *model.Product) float64 {
	rate := p.DangerRate / 100 / model.QuartersPerYear
	if p.CreditClassification == model.ClassificationUTP {
		rate *= utpMultiplier
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// Snapshot records each vintage's outstanding principal at the start of a quarter.
func Snapshot(vintages []*model.Vintage) []float64 {
	boq := make([]float64, len(vintages))
	for i, v := range vintages {
		boq[i] = v.Outstanding
	}
	return boq
}

// DefaultResult reports one quarter's defaults. Amounts is indexed like the
// vintages passed to ApplyDefaults and is nil when nothing defaulted.
type DefaultResult struct {
	Base      float64
	Defaulted float64
	Amounts   []float64
}

// ApplyDefaults charges rate against the beginning-of-quarter stock of vintages
// eligible at quarter q and spreads the amount across them pro rata. Each
// vintage's installment shrinks with its surviving principal so its amortization
// still ends at maturity.
func ApplyDefaults(vintages []*model.Vintage, boq []float64, q int, rate float64) DefaultResult {
	var res DefaultResult
	if rate <= 0 {
		return res
	}

	for i, v := range vintages {
		if v.DefaultEligible(q) && boq[i] > 0 {
			res.Base += boq[i]
		}
	}
	if res.Base <= 0 {
		return res
	}

	total := res.Base * rate
	res.Amounts = make([]float64, len(vintages))
	for i, v := range vintages {
		if !v.DefaultEligible(q) || boq[i] <= 0 || v.Outstanding <= 0 {
			continue
		}

		amount := total * boq[i] / res.Base
		if amount > v.Outstanding {
			amount = v.Outstanding
		}

		before := v.Outstanding
		v.Outstanding -= amount
		if v.Outstanding < 0 {
			v.Outstanding = 0
		}
		v.Installment *= v.Outstanding / before
		res.Amounts[i] = amount
		res.Defaulted += amount
	}
	return res
}

// Package amortization advances vintage principal according to the loan type's
// repayment schedule.
package amortization

import "credit-engine/internal/model"

// Schedule defines the contract for loan-type repayment rules. Principal returns
// the principal a vintage repays at absolute quarter q; it is only called for
// quarters after disbursement up to and including maturity.
type Schedule interface {
	Principal(v *model.Vintage, q int, quarterlyRate float64) float64
}

// Step applies the quarter's principal repayments to every vintage and returns
// the total repaid.
func Step(vintages []*model.Vintage, q int, quarterlyRate float64) float64 {
	var repaid float64
	for _, v := range vintages {
		if !v.Accruing(q) || v.Outstanding <= 0 {
			continue
		}

		principal := Resolve(v.Type).Principal(v, q, quarterlyRate)
		if principal > v.Outstanding {
			principal = v.Outstanding
		}
		if principal <= 0 {
			continue
		}
		v.Outstanding -= principal
		repaid += principal
	}
	return repaid
}

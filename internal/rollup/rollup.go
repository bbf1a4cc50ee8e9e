// Package rollup builds balance-sheet reporting lines on top of per-product
// simulation results.
package rollup

import (
	"credit-engine/internal/amortization"
	"credit-engine/internal/interest"
	"credit-engine/internal/model"
	"credit-engine/internal/vintage"
)

// Projection is the no-default outstanding principal of one product.
type Projection struct {
	ProductID string    `json:"product_id"`
	Quarterly []float64 `json:"quarterly"`
	Annual    []float64 `json:"annual"`
}

// Project amortizes a fresh set of vintages with no defaults and records the
// closing outstanding principal of every quarter.
func Project(p *model.Product, a *model.Assumptions) Projection {
	rates := interest.ProductRates(p, a)
	vintages := vintage.Build(p, a)

	proj := Projection{
		ProductID: p.ID,
		Quarterly: make([]float64, model.Quarters),
		Annual:    make([]float64, model.Years),
	}

	for q := 0; q < model.Quarters; q++ {
		amortization.Step(vintages, q, rates.Quarterly)
		for _, v := range vintages {
			if v.Disbursed(q) {
				proj.Quarterly[q] += v.Outstanding
			}
		}
		if q%model.QuartersPerYear == model.QuartersPerYear-1 {
			proj.Annual[q/model.QuartersPerYear] = proj.Quarterly[q]
		}
	}
	return proj
}

// Sum adds per-product annual series into portfolio totals.
func Sum(results []model.ProductResult, projections []Projection) *model.PortfolioTotals {
	t := &model.PortfolioTotals{
		PerformingAssets:       make([]float64, model.Years),
		NPLStock:               make([]float64, model.Years),
		NewNPLs:                make([]float64, model.Years),
		InterestIncome:         make([]float64, model.Years),
		InterestExpense:        make([]float64, model.Years),
		LLP:                    make([]float64, model.Years),
		PrincipalRepayments:    make([]float64, model.Years),
		CommissionIncome:       make([]float64, model.Years),
		RWA:                    make([]float64, model.Years),
		BalanceSheetPerforming: make([]float64, model.Years),
	}

	for _, r := range results {
		a := r.Annual
		addInto(t.PerformingAssets, a.PerformingAssets)
		addInto(t.NPLStock, a.NPLStock)
		addInto(t.NewNPLs, a.NewNPLs)
		addInto(t.InterestIncome, a.InterestIncome)
		addInto(t.InterestExpense, a.InterestExpense)
		addInto(t.LLP, a.LLP)
		addInto(t.PrincipalRepayments, a.PrincipalRepayments)
		addInto(t.CommissionIncome, a.CommissionIncome)
		addInto(t.RWA, a.RWA)
	}
	for _, p := range projections {
		addInto(t.BalanceSheetPerforming, p.Annual)
	}
	return t
}

func addInto(dst, src []float64) {
	for i := range dst {
		if i < len(src) {
			dst[i] += src[i]
		}
	}
}

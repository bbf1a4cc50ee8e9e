package engine

import (
	"math"

	"credit-engine/internal/amortization"
	"credit-engine/internal/interest"
	"credit-engine/internal/model"
	"credit-engine/internal/recovery"
	"credit-engine/internal/vintage"
	"credit-engine/internal/volume"
)

// nplRiskWeight is the RWA multiplier applied to non-performing stock.
const nplRiskWeight = 1.5

// equityUpsideShare is the fraction of performing stock three years back that
// generates equity upside income.
const equityUpsideShare = 0.2

// Simulate runs the 40-quarter vintage simulation for one product. All state
// lives in the call; the result always carries quarterly detail and the NPL
// cohort ledger.
func Simulate(p *model.Product, a *model.Assumptions) *model.ProductResult {
	rates := interest.ProductRates(p, a)
	defaultRate := recovery.QuarterlyDefaultRate(p)
	vintages := vintage.Build(p, a)

	qs := model.NewQuarterlySeries()
	var ledger []model.NPLCohort
	var nplStock float64

	for q := 0; q < model.Quarters; q++ {
		boq := recovery.Snapshot(vintages)

		for i := range ledger {
			c := &ledger[i]
			if c.Released || c.RecoveryQuarter > q {
				continue
			}
			c.Released = true
			nplStock -= c.NBV
			qs.Recoveries[q] += c.NBV
		}
		if nplStock < 0 {
			nplStock = 0
		}

		defaults := recovery.ApplyDefaults(vintages, boq, q, defaultRate)
		if defaults.Defaulted > 0 {
			var llp float64
			for i, amount := range defaults.Amounts {
				if amount <= 0 {
					continue
				}
				v := vintages[i]
				scheduled := v.ScheduledFraction(q, rates.Quarterly)
				val := recovery.Value(amount, p.Recovery, rates.Quarterly)
				for _, b := range val.Branches {
					ledger = append(ledger, model.NPLCohort{
						OriginQuarter:      q,
						Vintage:            i,
						Maturity:           v.Maturity,
						Branch:             b.Kind,
						Gross:              b.Gross,
						NBV:                b.NBV,
						ScheduledAtDefault: scheduled,
						RecoveryQuarter:    q + b.RecoveryTime,
					})
					nplStock += b.NBV
				}
				llp += val.LLP
			}
			qs.NewNPLs[q] = defaults.Defaulted
			qs.LLP[q] = -llp
		}

		for _, v := range vintages {
			if v.Start == q {
				qs.NewBusiness[q] += v.InitialAmount
			}
			if v.Disbursed(q) && q <= v.Maturity {
				qs.PerformingStock[q] += v.Outstanding
			}
		}

		acc := interest.Accrue(vintages, ledger, q, rates.Quarterly)
		qs.PerformingInterest[q] = acc.Performing
		qs.NPLInterest[q] = acc.NPL
		qs.InterestIncome[q] = acc.Total()
		qs.InterestExpense[q] = interest.QuarterlyFTPExpense(qs.PerformingStock[q], rates.FTP)

		qs.PrincipalRepayments[q] = amortization.Step(vintages, q, rates.Quarterly)

		for _, v := range vintages {
			if v.Disbursed(q) {
				qs.ClosingPerformingStock[q] += v.Outstanding
			}
		}
		qs.NPLStock[q] = nplStock
	}

	return &model.ProductResult{
		ProductID: p.ID,
		LoanType:  p.Type,
		Annual:    annualize(p, qs, rates),
		Quarterly: qs,
		NPLLedger: ledger,
		Rates: model.RateSummary{
			Annual:    rates.Annual,
			Quarterly: rates.Quarterly,
			FTP:       rates.FTP,
		},
	}
}

func annualize(p *model.Product, qs *model.QuarterlySeries, rates interest.Rates) model.AnnualSeries {
	annual := model.NewAnnualSeries()
	volumes := volume.Resolve(p)

	for y := 0; y < model.Years; y++ {
		first := y * model.QuartersPerYear
		last := first + model.QuartersPerYear - 1

		var stockSum float64
		for q := first; q <= last; q++ {
			stockSum += qs.PerformingStock[q]
			annual.NewNPLs[y] += qs.NewNPLs[q]
			annual.InterestIncome[y] += qs.InterestIncome[q]
			annual.LLP[y] += qs.LLP[q]
			annual.PrincipalRepayments[y] += qs.PrincipalRepayments[q]
		}

		annual.Volumes[y] = volumes[y]
		annual.PerformingAssets[y] = qs.ClosingPerformingStock[last]
		annual.NPLStock[y] = qs.NPLStock[last]
		annual.AveragePerforming[y] = stockSum / model.QuartersPerYear
		annual.InterestExpense[y] = interest.AnnualFTPExpense(annual.AveragePerforming[y], rates.FTP)
	}

	deriveMetrics(p, &annual)
	return annual
}

func deriveMetrics(p *model.Product, annual *model.AnnualSeries) {
	for y := 0; y < model.Years; y++ {
		vol := annual.Volumes[y]
		annual.CommissionIncome[y] = vol * p.CommissionRate / 100
		annual.RWA[y] = annual.PerformingAssets[y]*p.RWADensity/100 + annual.NPLStock[y]*nplRiskWeight

		if p.AvgLoanSize > 0 {
			annual.NumberOfLoans[y] = math.Round(vol / p.AvgLoanSize)
		}
		if y >= 3 {
			annual.EquityUpsideIncome[y] = annual.PerformingAssets[y-3] * equityUpsideShare * p.EquityUpside / 100
		}
	}
}

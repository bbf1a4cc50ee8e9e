// Package interest prices products and accrues interest income and FTP expense.
package interest

import (
	"math"

	"credit-engine/internal/model"
)

// fixedRateBase is the benchmark added to the spread of fixed-rate products in
// place of the floating reference rate.
const fixedRateBase = 2.0

type Rates struct {
	Annual    float64
	Quarterly float64
	FTP       float64
}

// ProductRates returns the customer rate and funding rate for a product as
// decimals.
func ProductRates(p *model.Product, a *model.Assumptions) Rates {
	base := a.Euribor
	if p.IsFixedRate {
		base = fixedRateBase
	}
	annual := (base + p.Spread) / 100

	return Rates{
		Annual:    annual,
		Quarterly: annual / model.QuartersPerYear,
		FTP:       FTPRate(a),
	}
}

func FTPRate(a *model.Assumptions) float64 {
	return (a.Euribor + a.FTPSpread) / 100
}

type Accrual struct {
	Performing float64
	NPL        float64
}

func (a Accrual) Total() float64 {
	return a.Performing + a.NPL
}

// Accrue computes one quarter of interest. Performing interest is earned on the
// outstanding balance of vintages past their disbursement quarter up to and
// including maturity. NPL interest is earned on NPLBase.
func Accrue(vintages []*model.Vintage, ledger []model.NPLCohort, q int, quarterlyRate float64) Accrual {
	var stock float64
	for _, v := range vintages {
		if v.Accruing(q) && v.Outstanding > 0 {
			stock += v.Outstanding
		}
	}

	acc := Accrual{Performing: stock * quarterlyRate}
	if base := NPLBase(vintages, ledger, q, quarterlyRate); base > 0 {
		acc.NPL = base * quarterlyRate
	}
	return acc
}

// NPLBase is the interest-bearing NPL balance at quarter q. Each unreleased
// cohort contributes its NBV scaled by how far its vintage's contractual
// schedule has amortized since the default, and nothing once the vintage has
// matured.
func NPLBase(vintages []*model.Vintage, ledger []model.NPLCohort, q int, quarterlyRate float64) float64 {
	var base float64
	for _, c := range ledger {
		if c.Released || c.NBV <= 0 || c.ScheduledAtDefault <= 0 {
			continue
		}
		if c.Vintage < 0 || c.Vintage >= len(vintages) {
			continue
		}
		scheduled := vintages[c.Vintage].ScheduledFraction(q, quarterlyRate)
		base += c.NBV * math.Min(scheduled/c.ScheduledAtDefault, 1)
	}
	return base
}

// QuarterlyFTPExpense is reported as a negative cost.
func QuarterlyFTPExpense(performingStock, ftpRate float64) float64 {
	return -performingStock * ftpRate / model.QuartersPerYear
}

// AnnualFTPExpense is reported as a negative cost.
func AnnualFTPExpense(averagePerforming, ftpRate float64) float64 {
	return -averagePerforming * ftpRate
}

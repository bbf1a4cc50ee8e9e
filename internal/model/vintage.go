package model

import "math"

const (
	Years           = 10
	QuartersPerYear = 4
	Quarters        = Years * QuartersPerYear
)

// Vintage is one quarterly origination cohort. Start and Maturity are absolute
// quarter indexes on the simulation grid.
type Vintage struct {
	StartYear       int     `json:"start_year"`
	StartQuarter    int     `json:"start_quarter"`
	Start           int     `json:"start"`
	MaturityYear    int     `json:"maturity_year"`
	MaturityQuarter int     `json:"maturity_quarter"`
	Maturity        int     `json:"maturity"`
	InitialAmount   float64 `json:"initial_amount"`
	Outstanding     float64 `json:"outstanding"`
	Type            string  `json:"type"`
	Duration        int     `json:"duration"`
	GracePeriod     int     `json:"grace_period"`
	Installment     float64 `json:"installment"`
}

// Disbursed reports whether the vintage exists on the balance sheet at quarter q.
func (v *Vintage) Disbursed(q int) bool {
	return q >= v.Start
}

// Accruing reports whether the vintage bears interest and amortizes at quarter q.
func (v *Vintage) Accruing(q int) bool {
	return q > v.Start && q <= v.Maturity
}

// DefaultEligible reports whether beginning-of-quarter stock at q may default.
func (v *Vintage) DefaultEligible(q int) bool {
	return q > v.Start && q < v.Maturity
}

// ScheduledFraction returns the share of the initial amount that the contractual
// schedule leaves outstanding during quarter q, before that quarter's repayment
// and ignoring defaults. It is zero outside [Start, Maturity].
func (v *Vintage) ScheduledFraction(q int, quarterlyRate float64) float64 {
	if q < v.Start || q > v.Maturity {
		return 0
	}
	if v.Type != LoanTypeFrench {
		return 1
	}

	periods := v.Maturity - v.Start - v.GracePeriod
	paid := q - v.Start - v.GracePeriod - 1
	if periods <= 0 || paid <= 0 {
		return 1
	}
	if paid > periods {
		paid = periods
	}

	growth := 1 + quarterlyRate
	if math.Abs(quarterlyRate) < 1e-12 || growth <= 0 {
		return 1 - float64(paid)/float64(periods)
	}
	full := math.Pow(growth, float64(periods))
	return (full - math.Pow(growth, float64(paid))) / (full - 1)
}

const (
	BranchGuarantee  = "guarantee"
	BranchCollateral = "collateral"
	BranchUnsecured  = "unsecured"
)

// NPLCohort is one waterfall branch of the amount a single vintage defaulted in
// one quarter. Vintage indexes the simulation's vintage slice.
type NPLCohort struct {
	OriginQuarter      int     `json:"origin_quarter"`
	Vintage            int     `json:"vintage"`
	Maturity           int     `json:"maturity"`
	Branch             string  `json:"branch"`
	Gross              float64 `json:"gross"`
	NBV                float64 `json:"nbv"`
	ScheduledAtDefault float64 `json:"scheduled_at_default"`
	RecoveryQuarter    int     `json:"recovery_quarter"`
	Released           bool    `json:"released"`
}

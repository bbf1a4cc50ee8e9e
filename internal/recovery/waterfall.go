package recovery

import (
	"math"

	"credit-engine/internal/model"
)

type Branch struct {
	Kind         string  `json:"kind"`
	Gross        float64 `json:"gross"`
	Nominal      float64 `json:"nominal"`
	NBV          float64 `json:"nbv"`
	RecoveryTime int     `json:"recovery_time"`
}

type Valuation struct {
	Gross    float64  `json:"gross"`
	NBV      float64  `json:"nbv"`
	LLP      float64  `json:"llp"`
	Branches []Branch `json:"branches"`
}

// Value runs the recovery waterfall for a defaulted amount. The state-guaranteed
// share is recovered at face value over the guarantee's own horizon; the rest is
// valued on collateral or as unsecured exposure over time_to_recover. Every
// branch's present value is bounded by its exposure, so NBV never exceeds gross.
func Value(amount float64, terms model.RecoveryTerms, quarterlyRate float64) Valuation {
	val := Valuation{Gross: amount}
	if amount <= 0 {
		val.Gross = 0
		return val
	}

	remaining := amount
	if pct := clampPct(terms.StateGuaranteePercentage); pct > 0 {
		guaranteed := amount * pct / 100
		val.Branches = append(val.Branches, branch(model.BranchGuarantee, guaranteed, guaranteed,
			terms.StateGuaranteeRecoveryTime, quarterlyRate))
		remaining -= guaranteed
	}

	if remaining > 0 {
		kind, nominal := model.BranchCollateral, collateralRecovery(remaining, terms)
		if terms.IsUnsecured {
			kind, nominal = model.BranchUnsecured, remaining*(1-clampPct(terms.LGD())/100)
		}
		val.Branches = append(val.Branches, branch(kind, remaining, nominal,
			terms.TimeToRecover, quarterlyRate))
	}

	for _, b := range val.Branches {
		val.NBV += b.NBV
	}
	if val.NBV > amount {
		val.NBV = amount
	}
	val.LLP = amount - val.NBV
	return val
}

func collateralRecovery(exposure float64, terms model.RecoveryTerms) float64 {
	if terms.LTV <= 0 {
		return 0
	}
	collateral := exposure / (terms.LTV / 100)
	afterHaircut := collateral * (1 - clampPct(terms.CollateralHaircut)/100)
	costs := exposure * clampPct(terms.RecoveryCosts) / 100
	return math.Max(0, afterHaircut-costs)
}

func branch(kind string, gross, nominal float64, quarters int, quarterlyRate float64) Branch {
	if quarters < 0 {
		quarters = 0
	}
	nominal = math.Min(math.Max(nominal, 0), gross)
	nbv := math.Min(Discount(nominal, quarterlyRate, quarters), gross)

	return Branch{
		Kind:         kind,
		Gross:        gross,
		Nominal:      nominal,
		NBV:          nbv,
		RecoveryTime: quarters,
	}
}

// Discount returns the present value of a cash flow received after the given
// number of quarters.
func Discount(nominal, quarterlyRate float64, quarters int) float64 {
	if quarters <= 0 || quarterlyRate <= -1 {
		return nominal
	}
	return nominal / math.Pow(1+quarterlyRate, float64(quarters))
}

func clampPct(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

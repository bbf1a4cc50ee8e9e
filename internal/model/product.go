package model

const (
	LoanTypeBullet = "bullet"
	LoanTypeFrench = "french"

	ClassificationUTP = "UTP"
)

type Product struct {
	ID                   string        `json:"id" yaml:"id"`
	Name                 string        `json:"name" yaml:"name"`
	Type                 string        `json:"type" yaml:"type"`
	Duration             int           `json:"duration" yaml:"duration"`
	GracePeriod          int           `json:"grace_period" yaml:"grace_period"`
	IsFixedRate          bool          `json:"is_fixed_rate" yaml:"is_fixed_rate"`
	Spread               float64       `json:"spread" yaml:"spread"`
	DangerRate           float64       `json:"danger_rate" yaml:"danger_rate"`
	CreditClassification string        `json:"credit_classification,omitempty" yaml:"credit_classification"`
	Volumes              VolumeRange   `json:"volumes" yaml:"volumes"`
	VolumeArray          []float64     `json:"volume_array,omitempty" yaml:"volume_array"`
	Recovery             RecoveryTerms `json:"recovery" yaml:"recovery"`
	CommissionRate       float64       `json:"commission_rate" yaml:"commission_rate"`
	RWADensity           float64       `json:"rwa_density" yaml:"rwa_density"`
	AvgLoanSize          float64       `json:"avg_loan_size" yaml:"avg_loan_size"`
	EquityUpside         float64       `json:"equity_upside" yaml:"equity_upside"`
}

type VolumeRange struct {
	Y1  float64 `json:"y1" yaml:"y1"`
	Y10 float64 `json:"y10" yaml:"y10"`
}

// RecoveryTerms holds the waterfall inputs. Percentages are expressed 0-100,
// recovery times in quarters.
type RecoveryTerms struct {
	LTV                        float64  `json:"ltv" yaml:"ltv"`
	CollateralHaircut          float64  `json:"collateral_haircut" yaml:"collateral_haircut"`
	RecoveryCosts              float64  `json:"recovery_costs" yaml:"recovery_costs"`
	IsUnsecured                bool     `json:"is_unsecured" yaml:"is_unsecured"`
	UnsecuredLGD               *float64 `json:"unsecured_lgd,omitempty" yaml:"unsecured_lgd"`
	StateGuaranteePercentage   float64  `json:"state_guarantee_percentage" yaml:"state_guarantee_percentage"`
	StateGuaranteeRecoveryTime int      `json:"state_guarantee_recovery_time" yaml:"state_guarantee_recovery_time"`
	TimeToRecover              int      `json:"time_to_recover" yaml:"time_to_recover"`
}

const DefaultUnsecuredLGD = 45.0

func (r RecoveryTerms) LGD() float64 {
	if r.UnsecuredLGD == nil {
		return DefaultUnsecuredLGD
	}
	return *r.UnsecuredLGD
}

type Assumptions struct {
	Euribor             float64   `json:"euribor" yaml:"euribor"`
	FTPSpread           float64   `json:"ftp_spread" yaml:"ftp_spread"`
	QuarterlyAllocation []float64 `json:"quarterly_allocation,omitempty" yaml:"quarterly_allocation"`
	TaxRate             float64   `json:"tax_rate" yaml:"tax_rate"`
	ReferenceRateID     string    `json:"reference_rate_id,omitempty" yaml:"reference_rate_id"`
}

var defaultAllocation = [QuartersPerYear]float64{25, 25, 25, 25}

// Allocation returns the four quarterly weights, falling back to an even split
// when none are configured.
func (a Assumptions) Allocation() [QuartersPerYear]float64 {
	if len(a.QuarterlyAllocation) == 0 {
		return defaultAllocation
	}
	var out [QuartersPerYear]float64
	copy(out[:], a.QuarterlyAllocation)
	return out
}

package model

type ProductResult struct {
	ProductID string           `json:"product_id"`
	LoanType  string           `json:"loan_type"`
	Annual    AnnualSeries     `json:"annual"`
	Quarterly *QuarterlySeries `json:"quarterly,omitempty"`
	NPLLedger []NPLCohort      `json:"npl_ledger,omitempty"`
	Rates     RateSummary      `json:"rates"`
}

type RateSummary struct {
	Annual    float64 `json:"annual"`
	Quarterly float64 `json:"quarterly"`
	FTP       float64 `json:"ftp"`
}

type AnnualSeries struct {
	Volumes             []float64 `json:"volumes"`
	PerformingAssets    []float64 `json:"performing_assets"`
	NPLStock            []float64 `json:"npl_stock"`
	AveragePerforming   []float64 `json:"average_performing_assets"`
	NewNPLs             []float64 `json:"new_npls"`
	InterestIncome      []float64 `json:"interest_income"`
	InterestExpense     []float64 `json:"interest_expense"`
	LLP                 []float64 `json:"llp"`
	PrincipalRepayments []float64 `json:"principal_repayments"`
	CommissionIncome    []float64 `json:"commission_income"`
	RWA                 []float64 `json:"rwa"`
	NumberOfLoans       []float64 `json:"number_of_loans"`
	EquityUpsideIncome  []float64 `json:"equity_upside_income"`
}

func NewAnnualSeries() AnnualSeries {
	return AnnualSeries{
		Volumes:             make([]float64, Years),
		PerformingAssets:    make([]float64, Years),
		NPLStock:            make([]float64, Years),
		AveragePerforming:   make([]float64, Years),
		NewNPLs:             make([]float64, Years),
		InterestIncome:      make([]float64, Years),
		InterestExpense:     make([]float64, Years),
		LLP:                 make([]float64, Years),
		PrincipalRepayments: make([]float64, Years),
		CommissionIncome:    make([]float64, Years),
		RWA:                 make([]float64, Years),
		NumberOfLoans:       make([]float64, Years),
		EquityUpsideIncome:  make([]float64, Years),
	}
}

type QuarterlySeries struct {
	PerformingStock        []float64 `json:"performing_stock"`
	ClosingPerformingStock []float64 `json:"closing_performing_stock"`
	NPLStock               []float64 `json:"npl_stock"`
	NewNPLs                []float64 `json:"new_npls"`
	InterestIncome         []float64 `json:"interest_income"`
	PerformingInterest     []float64 `json:"performing_interest"`
	NPLInterest            []float64 `json:"npl_interest"`
	InterestExpense        []float64 `json:"interest_expense"`
	LLP                    []float64 `json:"llp"`
	PrincipalRepayments    []float64 `json:"principal_repayments"`
	NewBusiness            []float64 `json:"new_business"`
	Recoveries             []float64 `json:"recoveries"`
}

func NewQuarterlySeries() *QuarterlySeries {
	return &QuarterlySeries{
		PerformingStock:        make([]float64, Quarters),
		ClosingPerformingStock: make([]float64, Quarters),
		NPLStock:               make([]float64, Quarters),
		NewNPLs:                make([]float64, Quarters),
		InterestIncome:         make([]float64, Quarters),
		PerformingInterest:     make([]float64, Quarters),
		NPLInterest:            make([]float64, Quarters),
		InterestExpense:        make([]float64, Quarters),
		LLP:                    make([]float64, Quarters),
		PrincipalRepayments:    make([]float64, Quarters),
		NewBusiness:            make([]float64, Quarters),
		Recoveries:             make([]float64, Quarters),
	}
}

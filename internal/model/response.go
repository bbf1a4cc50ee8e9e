package model

type SimulationResponse struct {
	SimulationMetadata SimulationMetadata `json:"simulation_metadata"`
	SimulationResult   SimulationResult   `json:"simulation_result"`
}

type SimulationMetadata struct {
	SimulationID          string `json:"simulation_id"`
	TenantID              string `json:"tenant_id"`
	SimulationStartedAt   string `json:"simulation_started_at"`
	SimulationCompletedAt string `json:"simulation_completed_at"`
	SimulationDurationMs  int64  `json:"simulation_duration_ms"`
	SimulationOutcome     string `json:"simulation_outcome"`
}

type SimulationResult struct {
	Messages  []CalculationMessage `json:"messages"`
	Products  []ProductResult      `json:"products"`
	Portfolio *PortfolioTotals     `json:"portfolio,omitempty"`
}

// PortfolioTotals sums per-product annual series. BalanceSheetPerforming is the
// no-default projection used for balance-sheet reporting lines.
type PortfolioTotals struct {
	PerformingAssets       []float64 `json:"performing_assets"`
	NPLStock               []float64 `json:"npl_stock"`
	NewNPLs                []float64 `json:"new_npls"`
	InterestIncome         []float64 `json:"interest_income"`
	InterestExpense        []float64 `json:"interest_expense"`
	LLP                    []float64 `json:"llp"`
	PrincipalRepayments    []float64 `json:"principal_repayments"`
	CommissionIncome       []float64 `json:"commission_income"`
	RWA                    []float64 `json:"rwa"`
	BalanceSheetPerforming []float64 `json:"balance_sheet_performing"`
}

type CompareResponse struct {
	Baseline SimulationMetadata `json:"baseline"`
	Scenario SimulationMetadata `json:"scenario"`
	Patch    []PatchOp          `json:"patch"`
}

type PatchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

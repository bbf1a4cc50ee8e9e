package model

type SimulationRequest struct {
	TenantID         string      `json:"tenant_id" yaml:"tenant_id"`
	Assumptions      Assumptions `json:"assumptions" yaml:"assumptions"`
	Products         []Product   `json:"products" yaml:"products"`
	IncludeQuarterly bool        `json:"include_quarterly" yaml:"include_quarterly"`
}

type CompareRequest struct {
	Baseline SimulationRequest `json:"baseline"`
	Scenario SimulationRequest `json:"scenario"`
}

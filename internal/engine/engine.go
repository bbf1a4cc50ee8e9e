package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"credit-engine/internal/amortization"
	"credit-engine/internal/model"
	"credit-engine/internal/rollup"
)

// Process validates a simulation request, runs every product and attaches the
// portfolio rollup. Products run independently; a CRITICAL validation message
// stops the run before any product is simulated.
func Process(req *model.SimulationRequest) *model.SimulationResponse {
	start := time.Now()

	msgs := validate(req)
	outcome := model.OutcomeSuccess
	for _, m := range msgs {
		if m.Level == model.LevelCritical {
			outcome = model.OutcomeFailure
			break
		}
	}

	results := []model.ProductResult{}
	var portfolio *model.PortfolioTotals

	if outcome == model.OutcomeSuccess {
		projections := make([]rollup.Projection, 0, len(req.Products))
		for i := range req.Products {
			p := &req.Products[i]

			if _, ok := amortization.Get(p.Type); !ok {
				msgs = append(msgs, model.CalculationMessage{
					Level:     model.LevelWarning,
					Code:      "UNKNOWN_LOAN_TYPE",
					Message:   fmt.Sprintf("Unknown loan type %q, simulated as bullet", p.Type),
					ProductID: p.ID,
				})
			}

			res := Simulate(p, &req.Assumptions)
			if !req.IncludeQuarterly {
				res.Quarterly = nil
				res.NPLLedger = nil
			}
			results = append(results, *res)
			projections = append(projections, rollup.Project(p, &req.Assumptions))
		}
		portfolio = rollup.Sum(results, projections)
	}

	for i := range msgs {
		msgs[i].ID = i
	}
	if msgs == nil {
		msgs = []model.CalculationMessage{}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	return &model.SimulationResponse{
		SimulationMetadata: model.SimulationMetadata{
			SimulationID:          uuid.New().String(),
			TenantID:              req.TenantID,
			SimulationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			SimulationCompletedAt: now.Format(time.RFC3339),
			SimulationDurationMs:  elapsed.Milliseconds(),
			SimulationOutcome:     outcome,
		},
		SimulationResult: model.SimulationResult{
			Messages:  msgs,
			Products:  results,
			Portfolio: portfolio,
		},
	}
}

func validate(req *model.SimulationRequest) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	if len(req.Products) == 0 {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    "NO_PRODUCTS",
			Message: "At least one product is required",
		})
	}

	alloc := req.Assumptions.QuarterlyAllocation
	if n := len(alloc); n != 0 && n != model.QuartersPerYear {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    "INVALID_ALLOCATION",
			Message: fmt.Sprintf("Quarterly allocation must have %d weights, got %d", model.QuartersPerYear, n),
		})
	} else if n == model.QuartersPerYear {
		var sum float64
		for _, w := range alloc {
			sum += w
		}
		if math.Abs(sum-100) > 1e-6 {
			msgs = append(msgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "ALLOCATION_NOT_100",
				Message: fmt.Sprintf("Quarterly allocation sums to %.2f%%", sum),
			})
		}
	}

	seen := make(map[string]bool, len(req.Products))
	for _, p := range req.Products {
		if p.ID == "" {
			continue
		}
		if seen[p.ID] {
			msgs = append(msgs, model.CalculationMessage{
				Level:     model.LevelCritical,
				Code:      "DUPLICATE_PRODUCT",
				Message:   fmt.Sprintf("Duplicate product id %s", p.ID),
				ProductID: p.ID,
			})
		}
		seen[p.ID] = true
	}

	return msgs
}

package handler

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"credit-engine/internal/chart"
	"credit-engine/internal/engine"
	"credit-engine/internal/jsonpatch"
	"credit-engine/internal/model"
	"credit-engine/internal/store"
)

func (s *Server) decodeSimulation(ctx *fasthttp.RequestCtx, body []byte) (*model.SimulationRequest, bool) {
	body, err := relaxNumbers(body, normalizeSimulation)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	var req model.SimulationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if len(req.Products) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one product is required")
		return nil, false
	}

	if s.rates.Apply(ctx, &req.Assumptions) {
		s.logger.Debug().
			Str("rate_id", req.Assumptions.ReferenceRateID).
			Float64("euribor", req.Assumptions.Euribor).
			Msg("reference rate applied")
	}
	return &req, true
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx) {
	req, ok := s.decodeSimulation(ctx, ctx.PostBody())
	if !ok {
		return
	}

	resp := engine.Process(req)
	out, err := json.Marshal(resp)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response: "+err.Error())
		return
	}

	meta := resp.SimulationMetadata
	run := &store.Run{
		ID:       meta.SimulationID,
		TenantID: meta.TenantID,
		Outcome:  meta.SimulationOutcome,
		Products: len(req.Products),
		Request:  bytes.Clone(ctx.PostBody()),
		Response: out,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		s.logger.Warn().Err(err).Str("simulation_id", meta.SimulationID).Msg("run not recorded")
	}

	s.logger.Info().
		Str("simulation_id", meta.SimulationID).
		Str("outcome", meta.SimulationOutcome).
		Int("products", len(req.Products)).
		Int64("duration_ms", meta.SimulationDurationMs).
		Msg("simulation completed")

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(out)
}

// handleChart renders the product named by the "product" query argument, or the
// first product when none is given. A request that fails validation gets the
// simulation response back instead of a chart.
func (s *Server) handleChart(ctx *fasthttp.RequestCtx) {
	req, ok := s.decodeSimulation(ctx, ctx.PostBody())
	if !ok {
		return
	}

	resp := engine.Process(req)
	if resp.SimulationMetadata.SimulationOutcome != model.OutcomeSuccess {
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, resp)
		return
	}

	products := resp.SimulationResult.Products
	target := &products[0]
	if id := string(ctx.QueryArgs().Peek("product")); id != "" {
		target = nil
		for i := range products {
			if products[i].ProductID == id {
				target = &products[i]
				break
			}
		}
		if target == nil {
			writeError(ctx, fasthttp.StatusNotFound, "Product not found: "+id)
			return
		}
	}

	png, err := chart.RenderAnnual(target)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", target.ProductID).Msg("chart render failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to render chart")
		return
	}

	ctx.SetContentType("image/png")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(png)
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	body, err := relaxNumbers(ctx.PostBody(), normalizeCompare)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var req model.CompareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Baseline.Products) == 0 || len(req.Scenario.Products) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "Baseline and scenario both need products")
		return
	}
	s.rates.Apply(ctx, &req.Baseline.Assumptions)
	s.rates.Apply(ctx, &req.Scenario.Assumptions)

	base := engine.Process(&req.Baseline)
	scen := engine.Process(&req.Scenario)

	patch, err := jsonpatch.DiffValues(base.SimulationResult, scen.SimulationResult)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to compare results: "+err.Error())
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, model.CompareResponse{
		Baseline: base.SimulationMetadata,
		Scenario: scen.SimulationMetadata,
		Patch:    patch,
	})
}

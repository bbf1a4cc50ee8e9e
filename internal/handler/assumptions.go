package handler

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"credit-engine/internal/jsonpatch"
	"credit-engine/internal/model"
	"credit-engine/internal/store"
)

type saveAssumptionsRequest struct {
	Label       string            `json:"label"`
	Assumptions model.Assumptions `json:"assumptions"`
}

type assumptionsDocument struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	CreatedAt   time.Time          `json:"created_at"`
	Assumptions *model.Assumptions `json:"assumptions,omitempty"`
}

func (s *Server) handleSaveAssumptions(ctx *fasthttp.RequestCtx) {
	body, err := relaxNumbers(ctx.PostBody(), normalizeSavedAssumptions)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var req saveAssumptionsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if n := len(req.Assumptions.QuarterlyAllocation); n != 0 && n != model.QuartersPerYear {
		writeError(ctx, fasthttp.StatusBadRequest, "quarterly_allocation must have 4 weights")
		return
	}

	data, err := json.Marshal(req.Assumptions)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode assumptions: "+err.Error())
		return
	}

	v := &store.AssumptionVersion{
		ID:    uuid.New().String(),
		Label: req.Label,
		Data:  data,
	}
	if err := s.store.SaveAssumptions(ctx, v); err != nil {
		s.logger.Error().Err(err).Msg("save assumptions failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to save assumptions")
		return
	}

	s.logger.Info().Str("version", v.ID).Str("label", v.Label).Msg("assumptions saved")
	writeJSON(ctx, fasthttp.StatusCreated, assumptionsDocument{ID: v.ID, Label: v.Label, CreatedAt: v.CreatedAt})
}

// handleLoadAssumptions returns the version named by "id", or the latest one.
func (s *Server) handleLoadAssumptions(ctx *fasthttp.RequestCtx) {
	var v *store.AssumptionVersion
	var err error
	if id := string(ctx.QueryArgs().Peek("id")); id != "" {
		v, err = s.store.GetAssumptions(ctx, id)
	} else {
		v, err = s.store.LatestAssumptions(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(ctx, fasthttp.StatusNotFound, "No saved assumptions found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load assumptions failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to load assumptions")
		return
	}

	var a model.Assumptions
	if err := json.Unmarshal(v.Data, &a); err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Stored assumptions are corrupt: "+err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, assumptionsDocument{ID: v.ID, Label: v.Label, CreatedAt: v.CreatedAt, Assumptions: &a})
}

func (s *Server) handleDiffAssumptions(ctx *fasthttp.RequestCtx) {
	fromID := string(ctx.QueryArgs().Peek("from"))
	toID := string(ctx.QueryArgs().Peek("to"))
	if fromID == "" || toID == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "from and to are required")
		return
	}

	from, err := s.store.GetAssumptions(ctx, fromID)
	if err != nil {
		s.writeLookupError(ctx, err, fromID)
		return
	}
	to, err := s.store.GetAssumptions(ctx, toID)
	if err != nil {
		s.writeLookupError(ctx, err, toID)
		return
	}

	patch, err := jsonpatch.DiffDocuments(from.Data, to.Data)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to diff assumptions: "+err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, patch)
}

func (s *Server) writeLookupError(ctx *fasthttp.RequestCtx, err error, id string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(ctx, fasthttp.StatusNotFound, "Assumptions not found: "+id)
		return
	}
	s.logger.Error().Err(err).Str("version", id).Msg("load assumptions failed")
	writeError(ctx, fasthttp.StatusInternalServerError, "Failed to load assumptions")
}

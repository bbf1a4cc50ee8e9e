// Package handler exposes the simulation engine over HTTP.
package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"credit-engine/internal/logging"
	"credit-engine/internal/model"
	"credit-engine/internal/ratesource"
	"credit-engine/internal/store"
)

type Server struct {
	store  store.Store
	rates  *ratesource.Client
	logger *logging.Logger
}

func New(st store.Store, rates *ratesource.Client, logger *logging.Logger) *Server {
	if st == nil {
		st = store.NewNoopStore()
	}
	if rates == nil {
		rates = ratesource.NewClient("")
	}
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Server{store: st, rates: rates, logger: logger}
}

// Handle routes a request and logs its outcome.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	s.route(ctx)
	s.logger.Info().
		Str("method", string(ctx.Method())).
		Str("path", string(ctx.Path())).
		Int("status", ctx.Response.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request")
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	switch {
	case path == "/health":
		s.allow(ctx, fasthttp.MethodGet, s.handleHealth)
	case path == "/simulate":
		s.allow(ctx, fasthttp.MethodPost, s.handleSimulate)
	case path == "/simulate/chart":
		s.allow(ctx, fasthttp.MethodPost, s.handleChart)
	case path == "/compare":
		s.allow(ctx, fasthttp.MethodPost, s.handleCompare)
	case path == "/runs":
		s.allow(ctx, fasthttp.MethodGet, s.handleListRuns)
	case strings.HasPrefix(path, "/runs/"):
		id := strings.TrimPrefix(path, "/runs/")
		s.allow(ctx, fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) { s.handleGetRun(ctx, id) })
	case path == "/assumptions":
		if ctx.IsPost() {
			s.handleSaveAssumptions(ctx)
			return
		}
		s.allow(ctx, fasthttp.MethodGet, s.handleLoadAssumptions)
	case path == "/assumptions/diff":
		s.allow(ctx, fasthttp.MethodGet, s.handleDiffAssumptions)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (s *Server) allow(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleListRuns(ctx *fasthttp.RequestCtx) {
	limit := 20
	if v := ctx.QueryArgs().Peek("limit"); len(v) > 0 {
		n, err := strconv.Atoi(string(v))
		if err != nil || n <= 0 {
			writeError(ctx, fasthttp.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list runs failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to list runs")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, runs)
}

func (s *Server) handleGetRun(ctx *fasthttp.RequestCtx, id string) {
	run, err := s.store.GetRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(ctx, fasthttp.StatusNotFound, "Run not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", id).Msg("get run failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to load run")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(run.Response)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

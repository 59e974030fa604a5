// Package api serves projections and scenario runs over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/valyala/fasthttp"
)

// Server routes requests to the projection engine and preset manager.
type Server struct {
	Engine     *calculation.Engine
	Presets    *presets.Manager
	MaxHorizon int
	Logger     calculation.Logger
}

// NewServer creates a server. A nil logger discards messages.
func NewServer(engine *calculation.Engine, manager *presets.Manager, maxHorizon int, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	if maxHorizon <= 0 {
		maxHorizon = config.DefaultMaxHorizon
	}
	return &Server{Engine: engine, Presets: manager, MaxHorizon: maxHorizon, Logger: logger}
}

// Handler returns the request router.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		switch string(ctx.Path()) {
		case "/healthz":
			s.only(ctx, fasthttp.MethodGet, s.handleHealth)
		case "/v1/presets":
			s.only(ctx, fasthttp.MethodGet, s.handlePresets)
		case "/v1/projection":
			s.only(ctx, fasthttp.MethodPost, s.handleProjection)
		case "/v1/scenarios":
			s.only(ctx, fasthttp.MethodPost, s.handleScenarios)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
		}
		s.Logger.Debugf("%s %s -> %d in %s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "hfp",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.Logger.Infof("shutting down")
		return srv.Shutdown()
	}
}

func (s *Server) only(ctx *fasthttp.RequestCtx, method string, h fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		ctx.Response.Header.Set("Allow", method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h(ctx)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(ctx *fasthttp.RequestCtx) {
	all, err := s.Presets.List(ctx)
	if err != nil {
		s.Logger.Errorf("list presets: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, PresetsResponse{Presets: all})
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	var req ProjectionRequest
	if err := decode(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	horizon, err := s.horizon(req.Horizon)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	params, err := parseParams(req.Params)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	records := s.Engine.ProjectYears(params, horizon)
	summary := calculation.Summarize("projection", records)
	summary.Projection = nil

	writeJSON(ctx, fasthttp.StatusOK, ProjectionResponse{
		Metadata: newMetadata(start),
		Summary:  summary,
		Records:  records,
	})
}

func (s *Server) handleScenarios(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	var req ScenariosRequest
	if err := decode(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	horizon, err := s.horizon(req.Horizon)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	scenarios := make(map[string]domain.Params, len(req.Scenarios)+len(req.Presets))
	for name, raw := range req.Scenarios {
		params, err := parseParams(raw)
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("scenario %s: %v", name, err))
			return
		}
		scenarios[name] = params
	}
	if len(req.Presets) > 0 {
		resolved, err := s.Presets.Resolve(ctx, req.Presets)
		if errors.Is(err, presets.ErrPresetNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		for name, params := range resolved {
			if _, dup := scenarios[name]; dup {
				writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("scenario %s conflicts with a preset of the same name", name))
				return
			}
			scenarios[name] = params
		}
	}
	if len(scenarios) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one scenario or preset is required")
		return
	}

	results, err := s.Engine.RunScenariosContext(ctx, scenarios, horizon)
	if err != nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, err.Error())
		return
	}

	summaries := calculation.SummarizeAll(results)
	for _, summary := range summaries {
		summary.Projection = nil
	}
	writeJSON(ctx, fasthttp.StatusOK, ScenariosResponse{
		Metadata:  newMetadata(start),
		Results:   results,
		Summaries: summaries,
	})
}

func (s *Server) horizon(requested int) (int, error) {
	if requested == 0 {
		if s.Engine.Horizon > 0 {
			return s.Engine.Horizon, nil
		}
		return calculation.DefaultHorizon, nil
	}
	if err := config.ValidateHorizon(requested, s.MaxHorizon); err != nil {
		return 0, err
	}
	return requested, nil
}

func parseParams(raw map[string]any) (domain.Params, error) {
	if raw == nil {
		return domain.Params{}, errors.New("params are required")
	}
	params, err := config.ParamsFromMap(raw)
	if err != nil {
		return domain.Params{}, err
	}
	if err := config.ValidateParams(params); err != nil {
		return domain.Params{}, err
	}
	return params, nil
}

func newMetadata(start time.Time) Metadata {
	return Metadata{
		CalculationID:         uuid.New().String(),
		CalculationDurationMs: time.Since(start).Milliseconds(),
	}
}

func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = fasthttp.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Status: status, Message: err.Error()})
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}

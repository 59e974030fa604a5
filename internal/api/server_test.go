package api

import (
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := presets.NewFileStore(t.TempDir() + "/presets.yaml")
	manager := presets.NewManager(store)
	t.Cleanup(func() { manager.Close() })
	return NewServer(calculation.NewEngine(), manager, 0, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	switch b := body.(type) {
	case nil:
	case string:
		req.SetBodyString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		req.SetBody(data)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handler()(ctx)
	return ctx
}

func moderateParams() map[string]any {
	return config.ParamsToMap(presets.DefaultParams())
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, ctx.Response.StatusCode(), resp.Status)
	return resp
}

func TestHealthz(t *testing.T) {
	ctx := do(t, newTestServer(t), fasthttp.MethodGet, "/healthz", nil)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}

func TestUnknownPathAndMethod(t *testing.T) {
	s := newTestServer(t)

	ctx := do(t, s, fasthttp.MethodGet, "/nope", nil)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = do(t, s, fasthttp.MethodGet, "/v1/projection", nil)
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
	assert.Equal(t, "POST", string(ctx.Response.Header.Peek("Allow")))
	assert.Equal(t, "Method not allowed", decodeError(t, ctx).Message)
}

func TestPresets(t *testing.T) {
	ctx := do(t, newTestServer(t), fasthttp.MethodGet, "/v1/presets", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		Presets []struct {
			Name    string `json:"name"`
			BuiltIn bool   `json:"builtIn"`
		} `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Presets, 3)
	assert.Equal(t, presets.Conservative, resp.Presets[0].Name)
	assert.True(t, resp.Presets[0].BuiltIn)
}

func TestProjection(t *testing.T) {
	ctx := do(t, newTestServer(t), fasthttp.MethodPost, "/v1/projection",
		map[string]any{"params": moderateParams(), "horizon": 30})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp struct {
		Metadata Metadata         `json:"calculation_metadata"`
		Summary  map[string]any   `json:"summary"`
		Records  []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))

	_, err := uuid.Parse(resp.Metadata.CalculationID)
	assert.NoError(t, err, "Should return a UUID calculation id")
	assert.Len(t, resp.Records, 31, "horizon 30 covers 31 years")
	assert.Equal(t, float64(2025), resp.Records[0]["year"])
	assert.Equal(t, float64(2036), resp.Summary["retirementYear"])
	assert.NotContains(t, resp.Summary, "projection", "Records are returned once")
}

func TestProjection_DefaultHorizon(t *testing.T) {
	ctx := do(t, newTestServer(t), fasthttp.MethodPost, "/v1/projection",
		map[string]any{"params": moderateParams()})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp ProjectionResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Len(t, resp.Records, calculation.DefaultHorizon+1)
}

func TestProjection_BadRequests(t *testing.T) {
	s := newTestServer(t)

	missing := moderateParams()
	delete(missing, "deposit_rate")
	negative := moderateParams()
	negative["initial_savings"] = -1

	tests := []struct {
		name string
		body any
		want string
	}{
		{"empty body", nil, "empty body"},
		{"malformed", "{", "Invalid request body"},
		{"no params", map[string]any{}, "params are required"},
		{"missing field", map[string]any{"params": missing}, "deposit_rate"},
		{"invalid value", map[string]any{"params": negative}, "initial_savings"},
		{"horizon too large", map[string]any{"params": moderateParams(), "horizon": 500}, "horizon"},
		{"negative horizon", map[string]any{"params": moderateParams(), "horizon": -1}, "horizon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(t, s, fasthttp.MethodPost, "/v1/projection", tt.body)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
			assert.Contains(t, decodeError(t, ctx).Message, tt.want)
		})
	}
}

func TestScenarios(t *testing.T) {
	custom := moderateParams()
	custom["retirement_age"] = 50

	ctx := do(t, newTestServer(t), fasthttp.MethodPost, "/v1/scenarios", map[string]any{
		"scenarios": map[string]any{"late": custom},
		"presets":   []string{presets.Optimistic, presets.Conservative},
		"horizon":   30,
	})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp struct {
		Results   map[string][]map[string]any `json:"results"`
		Summaries []map[string]any            `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))

	require.Len(t, resp.Results, 3)
	for _, name := range []string{"late", presets.Optimistic, presets.Conservative} {
		assert.Len(t, resp.Results[name], 31, name)
	}
	require.Len(t, resp.Summaries, 3)
	assert.Equal(t, presets.Conservative, resp.Summaries[0]["name"])
	assert.Equal(t, "late", resp.Summaries[1]["name"])
	assert.Equal(t, float64(2041), resp.Summaries[1]["retirementYear"])
}

func TestScenarios_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		want   string
	}{
		{"nothing to run", map[string]any{}, fasthttp.StatusBadRequest, "At least one scenario"},
		{"unknown preset", map[string]any{"presets": []string{"ghost"}}, fasthttp.StatusNotFound, "preset not found"},
		{
			"invalid scenario",
			map[string]any{"scenarios": map[string]any{"bad": map[string]any{"start_year": 2025}}},
			fasthttp.StatusBadRequest, "scenario bad",
		},
		{
			"name clash",
			map[string]any{
				"scenarios": map[string]any{presets.Moderate: moderateParams()},
				"presets":   []string{presets.Moderate},
			},
			fasthttp.StatusBadRequest, "conflicts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(t, s, fasthttp.MethodPost, "/v1/scenarios", tt.body)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			assert.Contains(t, decodeError(t, ctx).Message, tt.want)
		})
	}
}

func TestServer_LogsRequests(t *testing.T) {
	logger := &recordingLogger{}
	s := newTestServer(t)
	s.Logger = logger

	do(t, s, fasthttp.MethodGet, "/healthz", nil)

	require.Len(t, logger.debug, 1)
	assert.Contains(t, logger.debug[0], "GET /healthz -> 200")
}

type recordingLogger struct {
	calculation.NopLogger
	debug []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

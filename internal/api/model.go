package api

import "github.com/rgehrsitz/hfp/internal/domain"

// ProjectionRequest asks for a single projection. Params keys are the
// snake_case parameter names; a zero horizon uses the engine default.
type ProjectionRequest struct {
	Params  map[string]any `json:"params"`
	Horizon int            `json:"horizon,omitempty"`
}

// ScenariosRequest runs inline scenarios and named presets together.
type ScenariosRequest struct {
	Scenarios map[string]map[string]any `json:"scenarios,omitempty"`
	Presets   []string                  `json:"presets,omitempty"`
	Horizon   int                       `json:"horizon,omitempty"`
}

type Metadata struct {
	CalculationID         string `json:"calculation_id"`
	CalculationDurationMs int64  `json:"calculation_duration_ms"`
}

type ProjectionResponse struct {
	Metadata Metadata                `json:"calculation_metadata"`
	Summary  *domain.ScenarioSummary `json:"summary"`
	Records  []domain.YearlyRecord   `json:"records"`
}

type ScenariosResponse struct {
	Metadata  Metadata                         `json:"calculation_metadata"`
	Results   map[string][]domain.YearlyRecord `json:"results"`
	Summaries []*domain.ScenarioSummary        `json:"summaries"`
}

type PresetsResponse struct {
	Presets []domain.Preset `json:"presets"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

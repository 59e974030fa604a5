package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultMaxHorizon caps how far callers may project.
const DefaultMaxHorizon = 120

// InputParser handles parsing of scenario files
type InputParser struct {
	MaxHorizon int
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{MaxHorizon: DefaultMaxHorizon}
}

type scenarioFile struct {
	Horizon   int            `yaml:"horizon"`
	Scenarios []scenarioNode `yaml:"scenarios"`
}

type scenarioNode struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Params      map[string]any `yaml:"params"`
}

// LoadFromFile loads a scenario file from disk
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadFromReader loads a scenario file from r
func (ip *InputParser) LoadFromReader(r io.Reader) (*domain.Configuration, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return ip.Parse(buf.Bytes())
}

// Parse decodes YAML scenario data and validates it
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var raw scenarioFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := &domain.Configuration{Horizon: raw.Horizon}
	if config.Horizon == 0 {
		config.Horizon = calculation.DefaultHorizon
	}

	for i, node := range raw.Scenarios {
		params, err := ParamsFromMap(node.Params)
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i, node.Name, err)
		}
		config.Scenarios = append(config.Scenarios, domain.Scenario{
			Name:        node.Name,
			Description: node.Description,
			Params:      params,
		})
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// ValidateConfiguration validates a parsed configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	maxHorizon := ip.MaxHorizon
	if maxHorizon == 0 {
		maxHorizon = DefaultMaxHorizon
	}
	if err := ValidateHorizon(config.Horizon, maxHorizon); err != nil {
		return err
	}

	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true

		if err := ValidateParams(scenario.Params); err != nil {
			return fmt.Errorf("scenario %d (%s): %w", i, scenario.Name, err)
		}
	}
	return nil
}

// Marshal renders a configuration back to the YAML scenario format
func Marshal(config *domain.Configuration) ([]byte, error) {
	raw := scenarioFile{Horizon: config.Horizon}
	for _, s := range config.Scenarios {
		raw.Scenarios = append(raw.Scenarios, scenarioNode{
			Name:        s.Name,
			Description: s.Description,
			Params:      ParamsToMap(s.Params),
		})
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to render YAML: %w", err)
	}
	return data, nil
}

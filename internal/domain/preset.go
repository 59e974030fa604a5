package domain

import "time"

// Preset is a named parameter set. Built-in presets are read-only.
type Preset struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	BuiltIn     bool      `yaml:"-" json:"builtIn"`
	CreatedAt   time.Time `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
	Params      Params    `yaml:"params" json:"params"`
}

// Scenario is one named parameter set of a scenario file.
type Scenario struct {
	Name        string
	Description string
	Params      Params
}

// Configuration is a parsed scenario file.
type Configuration struct {
	Horizon   int
	Scenarios []Scenario
}

// ScenarioParams maps scenario names to their parameters for the scenario runner.
func (c *Configuration) ScenarioParams() map[string]Params {
	out := make(map[string]Params, len(c.Scenarios))
	for _, s := range c.Scenarios {
		out[s.Name] = s.Params
	}
	return out
}

// FindScenario looks a scenario up by name.
func (c *Configuration) FindScenario(name string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

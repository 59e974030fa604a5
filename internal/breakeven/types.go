package breakeven

import (
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeRetirementAge      OptimizationTarget = "retirement_age"       // earliest age meeting the goal
	OptimizeLivingExpenseRatio OptimizationTarget = "living_expense_ratio" // highest ratio meeting the goal
	OptimizeInitialSavings     OptimizationTarget = "initial_savings"      // lowest savings meeting the goal
	OptimizeAll                OptimizationTarget = "all"
)

// Targets lists the single-parameter targets in the order OptimizeAll runs them.
var Targets = []OptimizationTarget{OptimizeRetirementAge, OptimizeLivingExpenseRatio, OptimizeInitialSavings}

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalSustain      OptimizationGoal = "sustain"       // savings never negative within the horizon
	GoalTargetAssets OptimizationGoal = "target_assets" // final total assets at least Constraints.TargetAssets
)

// Constraints define bounds for optimization parameters
type Constraints struct {
	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	MinLivingExpenseRatio *decimal.Decimal `json:"min_living_expense_ratio,omitempty"`
	MaxLivingExpenseRatio *decimal.Decimal `json:"max_living_expense_ratio,omitempty"`

	MaxInitialSavings *decimal.Decimal `json:"max_initial_savings,omitempty"`

	// Required by GoalTargetAssets
	TargetAssets *decimal.Decimal `json:"target_assets,omitempty"`
}

// DefaultConstraints returns the search ranges used when a bound is unset.
func DefaultConstraints() Constraints {
	minAge, maxAge := 30, 70
	minRatio := decimal.RequireFromString("0.1")
	maxRatio := decimal.NewFromInt(1)
	maxSavings := decimal.NewFromInt(20000000)

	return Constraints{
		MinRetirementAge:      &minAge,
		MaxRetirementAge:      &maxAge,
		MinLivingExpenseRatio: &minRatio,
		MaxLivingExpenseRatio: &maxRatio,
		MaxInitialSavings:     &maxSavings,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Name          string // base scenario name, for display
	Base          domain.Params
	Horizon       int // engine horizon when zero
	Target        OptimizationTarget
	Goal          OptimizationGoal
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // binary search stops when the bracket is narrower than this
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Name            string             `json:"name"`
	Target          OptimizationTarget `json:"target"`
	Goal            OptimizationGoal   `json:"goal"`
	Horizon         int                `json:"horizon"`
	Success         bool               `json:"success"`
	Iterations      int                `json:"iterations"`
	ConvergenceInfo string             `json:"convergence_info"`

	// Optimized parameters; one is set per target
	OptimalRetirementAge      *int             `json:"optimal_retirement_age,omitempty"`
	OptimalLivingExpenseRatio *decimal.Decimal `json:"optimal_living_expense_ratio,omitempty"`
	OptimalInitialSavings     *decimal.Decimal `json:"optimal_initial_savings,omitempty"`

	Params  domain.Params           `json:"params"`
	Summary *domain.ScenarioSummary `json:"summary"`

	// Comparison to base
	BaseSummary             *domain.ScenarioSummary `json:"base_summary,omitempty"`
	FinalAssetsDiffFromBase decimal.Decimal         `json:"final_assets_diff_from_base"`
}

// MultiDimensionalResult contains results when optimizing every target
type MultiDimensionalResult struct {
	Name            string               `json:"name"`
	Goal            OptimizationGoal     `json:"goal"`
	Results         []OptimizationResult `json:"results"`
	BaseMeetsGoal   bool                 `json:"base_meets_goal"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	MaxIterations   int
	RatioTolerance  decimal.Decimal // living expense ratio
	AmountTolerance decimal.Decimal // currency amounts
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations:   50,
		RatioTolerance:  decimal.RequireFromString("0.001"),
		AmountTolerance: decimal.NewFromInt(1000),
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil {
		if *c.MinRetirementAge > *c.MaxRetirementAge {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_retirement_age cannot be greater than max_retirement_age",
			}
		}
	}
	for _, age := range []*int{c.MinRetirementAge, c.MaxRetirementAge} {
		if age != nil && (*age < 0 || *age > 120) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "retirement age bounds must be between 0 and 120",
			}
		}
	}

	if c.MinLivingExpenseRatio != nil && c.MaxLivingExpenseRatio != nil {
		if c.MinLivingExpenseRatio.GreaterThan(*c.MaxLivingExpenseRatio) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_living_expense_ratio cannot be greater than max_living_expense_ratio",
			}
		}
	}
	if c.MinLivingExpenseRatio != nil && c.MinLivingExpenseRatio.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_living_expense_ratio cannot be negative",
		}
	}

	if c.MaxInitialSavings != nil && c.MaxInitialSavings.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_initial_savings cannot be negative",
		}
	}

	return nil
}

// withDefaults fills unset bounds from DefaultConstraints.
func (c Constraints) withDefaults() Constraints {
	d := DefaultConstraints()
	if c.MinRetirementAge == nil {
		c.MinRetirementAge = d.MinRetirementAge
	}
	if c.MaxRetirementAge == nil {
		c.MaxRetirementAge = d.MaxRetirementAge
	}
	if c.MinLivingExpenseRatio == nil {
		c.MinLivingExpenseRatio = d.MinLivingExpenseRatio
	}
	if c.MaxLivingExpenseRatio == nil {
		c.MaxLivingExpenseRatio = d.MaxLivingExpenseRatio
	}
	if c.MaxInitialSavings == nil {
		c.MaxInitialSavings = d.MaxInitialSavings
	}
	return c
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}

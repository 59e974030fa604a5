package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/rgehrsitz/hfp/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches one parameter at a time for the value at which a plan just
// meets its goal.
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.Goal == "" {
		req.Goal = GoalSustain
	}
	switch req.Goal {
	case GoalSustain:
	case GoalTargetAssets:
		if req.Constraints.TargetAssets == nil {
			return nil, &BreakEvenError{Operation: "optimize", Message: "target_assets goal requires a target amount"}
		}
	default:
		return nil, &BreakEvenError{Operation: "optimize", Message: fmt.Sprintf("unsupported optimization goal: %s", req.Goal)}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Horizon == 0 {
		req.Horizon = s.Engine.Horizon
		if req.Horizon == 0 {
			req.Horizon = calculation.DefaultHorizon
		}
	}
	req.Constraints = req.Constraints.withDefaults()

	switch req.Target {
	case OptimizeRetirementAge:
		return s.optimizeRetirementAge(ctx, req)
	case OptimizeLivingExpenseRatio:
		if req.Tolerance.IsZero() {
			req.Tolerance = s.Options.RatioTolerance
		}
		return s.optimizeLivingExpenseRatio(ctx, req)
	case OptimizeInitialSavings:
		if req.Tolerance.IsZero() {
			req.Tolerance = s.Options.AmountTolerance
		}
		return s.optimizeInitialSavings(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// evaluate projects p and reports whether it meets the request goal.
func (s *Solver) evaluate(req OptimizationRequest, p domain.Params) (*domain.ScenarioSummary, bool) {
	summary := s.Engine.RunScenario(req.Name, p, req.Horizon)
	return summary, meetsGoal(req, summary)
}

func meetsGoal(req OptimizationRequest, summary *domain.ScenarioSummary) bool {
	switch req.Goal {
	case GoalTargetAssets:
		return summary.FinalTotalAssets.GreaterThanOrEqual(*req.Constraints.TargetAssets)
	default:
		return summary.SavingsDepletedAge == nil
	}
}

// optimizeRetirementAge scans ages upward and returns the earliest one that
// meets the goal.
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	minAge := max(*req.Constraints.MinRetirementAge, req.Base.CurrentAge)
	maxAge := *req.Constraints.MaxRetirementAge
	result := s.newResult(req)

	for age := minAge; age <= maxAge; age++ {
		if err := ctx.Err(); err != nil {
			return nil, &BreakEvenError{Operation: "optimize_retirement_age", Message: "cancelled", Cause: err}
		}
		if result.Iterations >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations at age %d", result.Iterations, age-1)
			return result, nil
		}
		result.Iterations++

		p, err := transform.ApplyTransforms(req.Base, []transform.ScenarioTransform{&transform.SetRetirementAge{Age: age}})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_retirement_age", Message: "apply retirement age", Cause: err}
		}
		summary, ok := s.evaluate(req, p)
		if !ok {
			continue
		}

		found := age
		result.OptimalRetirementAge = &found
		s.finish(result, p, summary)
		result.ConvergenceInfo = fmt.Sprintf("earliest retirement age meeting the goal: %d", age)
		return result, nil
	}

	result.ConvergenceInfo = fmt.Sprintf("no retirement age between %d and %d meets the goal", minAge, maxAge)
	return result, nil
}

// optimizeLivingExpenseRatio bisects for the highest ratio that still meets
// the goal.
func (s *Solver) optimizeLivingExpenseRatio(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	field, _ := domain.LookupParamField("living_expense_ratio")
	lo := *req.Constraints.MinLivingExpenseRatio
	hi := *req.Constraints.MaxLivingExpenseRatio

	value, p, summary, result, err := s.bisect(ctx, req, field, lo, hi, true)
	if err != nil || !result.Success {
		return result, err
	}
	result.OptimalLivingExpenseRatio = &value
	s.finish(result, p, summary)
	result.ConvergenceInfo = fmt.Sprintf("highest living expense ratio meeting the goal: %s", value.StringFixed(3))
	return result, nil
}

// optimizeInitialSavings bisects for the lowest starting savings that meets
// the goal.
func (s *Solver) optimizeInitialSavings(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	field, _ := domain.LookupParamField("initial_savings")

	value, p, summary, result, err := s.bisect(ctx, req, field, decimal.Zero, *req.Constraints.MaxInitialSavings, false)
	if err != nil || !result.Success {
		return result, err
	}
	result.OptimalInitialSavings = &value
	s.finish(result, p, summary)
	result.ConvergenceInfo = fmt.Sprintf("lowest initial savings meeting the goal: %s", output.FormatWan(value))
	return result, nil
}

// bisect finds the boundary of field within [lo, hi]. With highest set the goal
// must hold at lo and the largest passing value is returned; otherwise the goal
// must hold at hi and the smallest passing value is returned.
func (s *Solver) bisect(ctx context.Context, req OptimizationRequest, field domain.ParamField, lo, hi decimal.Decimal, highest bool) (decimal.Decimal, domain.Params, *domain.ScenarioSummary, *OptimizationResult, error) {
	result := s.newResult(req)
	op := "optimize_" + field.Key

	try := func(v decimal.Decimal) (domain.Params, *domain.ScenarioSummary, bool) {
		p := req.Base
		field.Set(&p, v)
		result.Iterations++
		summary, ok := s.evaluate(req, p)
		return p, summary, ok
	}

	// The passing end of the range must pass, otherwise nothing does.
	pass, fail := lo, hi
	if !highest {
		pass, fail = hi, lo
	}
	bestParams, bestSummary, ok := try(pass)
	if !ok {
		result.ConvergenceInfo = fmt.Sprintf("no %s between %s and %s meets the goal", field.Key, lo.String(), hi.String())
		return decimal.Zero, domain.Params{}, nil, result, nil
	}
	result.Success = true
	if p, summary, ok := try(fail); ok {
		return fail, p, summary, result, nil
	}

	for pass.Sub(fail).Abs().GreaterThan(req.Tolerance) {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, domain.Params{}, nil, nil, &BreakEvenError{Operation: op, Message: "cancelled", Cause: err}
		}
		if result.Iterations >= req.MaxIterations {
			break
		}
		mid := pass.Add(fail).Div(decimal.NewFromInt(2))
		p, summary, ok := try(mid)
		if ok {
			pass, bestParams, bestSummary = mid, p, summary
		} else {
			fail = mid
		}
	}
	return pass, bestParams, bestSummary, result, nil
}

func (s *Solver) newResult(req OptimizationRequest) *OptimizationResult {
	return &OptimizationResult{
		Name:        req.Name,
		Target:      req.Target,
		Goal:        req.Goal,
		Horizon:     req.Horizon,
		BaseSummary: s.Engine.RunScenario(req.Name, req.Base, req.Horizon),
	}
}

func (s *Solver) finish(result *OptimizationResult, p domain.Params, summary *domain.ScenarioSummary) {
	result.Success = true
	result.Params = p
	result.Summary = summary
	result.FinalAssetsDiffFromBase = summary.FinalTotalAssets.Sub(result.BaseSummary.FinalTotalAssets)
}

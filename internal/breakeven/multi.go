package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/shopspring/decimal"
)

// OptimizeMultiDimensional runs every single-parameter target against the same
// base, goal and constraints, and turns the break-even points into advice.
func (s *Solver) OptimizeMultiDimensional(ctx context.Context, req OptimizationRequest) (*MultiDimensionalResult, error) {
	md := &MultiDimensionalResult{Name: req.Name}

	for _, target := range Targets {
		r := req
		r.Target = target
		if target != req.Target {
			// A tolerance belongs to the unit of one target.
			r.Tolerance = decimal.Zero
		}

		result, err := s.Optimize(ctx, r)
		if err != nil {
			return nil, err
		}
		md.Goal = result.Goal
		md.BaseMeetsGoal = meetsGoal(OptimizationRequest{Goal: result.Goal, Constraints: r.Constraints}, result.BaseSummary)
		md.Results = append(md.Results, *result)
	}

	md.Recommendations = recommend(req, md)
	return md, nil
}

func recommend(req OptimizationRequest, md *MultiDimensionalResult) []string {
	var recs []string
	if md.BaseMeetsGoal {
		recs = append(recs, "The current plan already meets the goal")
	} else {
		recs = append(recs, "The current plan does not meet the goal")
	}

	for _, r := range md.Results {
		if !r.Success {
			continue
		}
		switch r.Target {
		case OptimizeRetirementAge:
			age := *r.OptimalRetirementAge
			switch {
			case age < req.Base.RetirementAge:
				recs = append(recs, fmt.Sprintf("Retirement Age: retiring as early as %d still meets the goal", age))
			case age > req.Base.RetirementAge:
				recs = append(recs, fmt.Sprintf("Retirement Age: work until %d (%d more years)", age, age-req.Base.RetirementAge))
			}
		case OptimizeLivingExpenseRatio:
			ratio := *r.OptimalLivingExpenseRatio
			if ratio.LessThan(req.Base.LivingExpenseRatio) {
				recs = append(recs, fmt.Sprintf("Living Expense: cut the expense ratio from %s to %s",
					req.Base.LivingExpenseRatio.StringFixed(3), ratio.StringFixed(3)))
			} else {
				recs = append(recs, fmt.Sprintf("Living Expense: the expense ratio can rise to %s", ratio.StringFixed(3)))
			}
		case OptimizeInitialSavings:
			amount := *r.OptimalInitialSavings
			if gap := amount.Sub(req.Base.InitialSavings); gap.IsPositive() {
				recs = append(recs, fmt.Sprintf("Initial Savings: %s more savings up front meets the goal", output.FormatWan(gap)))
			}
		}
	}
	return recs
}

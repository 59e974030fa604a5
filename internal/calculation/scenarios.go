package calculation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/hfp/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RunScenarios projects every named parameter set independently and returns
// the records keyed by the same names. Results match sequential engine calls.
func (e *Engine) RunScenarios(scenarios map[string]domain.Params, horizon int) map[string][]domain.YearlyRecord {
	// A background context is never cancelled, so the error is always nil.
	results, _ := e.RunScenariosContext(context.Background(), scenarios, horizon)
	return results
}

// RunScenariosContext is RunScenarios with cancellation. Scenarios not yet
// started when ctx is done are skipped and ctx.Err() is returned.
func (e *Engine) RunScenariosContext(ctx context.Context, scenarios map[string]domain.Params, horizon int) (map[string][]domain.YearlyRecord, error) {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	log := e.logger()
	start := time.Now()
	results := make([][]domain.YearlyRecord, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i, name := range names {
		params := scenarios[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.ProjectYears(params, horizon)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scenario run interrupted: %w", err)
	}

	out := make(map[string][]domain.YearlyRecord, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	log.Debugf("projected %d scenarios over %d years in %s", len(names), horizon, time.Since(start))
	return out, nil
}

// RunScenario projects one named parameter set over horizon and summarizes it.
func (e *Engine) RunScenario(name string, p domain.Params, horizon int) *domain.ScenarioSummary {
	return Summarize(name, e.ProjectYears(p, horizon))
}

// SummarizeAll summarizes runner output, ordered by scenario name.
func SummarizeAll(results map[string][]domain.YearlyRecord) []*domain.ScenarioSummary {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]*domain.ScenarioSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, Summarize(name, results[name]))
	}
	return summaries
}

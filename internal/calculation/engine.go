package calculation

import (
	"runtime"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// Engine projects household finances year by year.
type Engine struct {
	Logger  Logger
	Horizon int // years after the start year; DefaultHorizon when zero
	Workers int // scenario runner parallelism; GOMAXPROCS when zero
}

// NewEngine creates an engine with the default horizon and a no-op logger.
func NewEngine() *Engine {
	return &Engine{
		Logger:  NopLogger{},
		Horizon: DefaultHorizon,
	}
}

// SetLogger sets the engine logger. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Engine) horizon() int {
	if e.Horizon == 0 {
		return DefaultHorizon
	}
	return e.Horizon
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Project runs the projection over the engine horizon.
func (e *Engine) Project(p domain.Params) []domain.YearlyRecord {
	return e.ProjectYears(p, e.horizon())
}

// ProjectYears returns horizon+1 records, one per year from the start year.
// It never fails and never mutates p; a negative horizon yields no records.
func (e *Engine) ProjectYears(p domain.Params, horizon int) []domain.YearlyRecord {
	if horizon < 0 {
		return []domain.YearlyRecord{}
	}

	log := e.logger()
	rates := newGrowthRates(p)
	acc := newAccumulator(p)
	records := make([]domain.YearlyRecord, 0, horizon+1)

	for i := 0; i <= horizon; i++ {
		rec := acc.step(p, rates, i)
		if rec.IsRetirementYear {
			log.Debugf("retirement in %d at age %d: savings %s, total assets %s",
				rec.Year, rec.Age, rec.Savings.StringFixed(2), rec.TotalAssets.StringFixed(2))
		}
		if rec.IsRetired && rec.PayingContributions {
			log.Debugf("age %d: retired but still contributing (pension years %d, medical years %d)",
				rec.Age, rec.PensionYears, rec.MedicalYears)
		}
		if rec.IsPensionStartYear {
			log.Debugf("pension starts in %d: %s per year", rec.Year, rec.AnnualPensionReceived.StringFixed(2))
		}
		records = append(records, rec)
	}
	return records
}

// Project runs a projection over DefaultHorizon with a default engine.
func Project(p domain.Params) []domain.YearlyRecord {
	return NewEngine().Project(p)
}

type growthRates struct {
	salary    decimal.Decimal
	inflation decimal.Decimal
	deposit   decimal.Decimal
	housing   decimal.Decimal
}

func newGrowthRates(p domain.Params) growthRates {
	return growthRates{
		salary:    growthFactor(p.SalaryGrowthRate),
		inflation: growthFactor(p.InflationRate),
		deposit:   growthFactor(p.DepositRate),
		housing:   growthFactor(p.HousingFundRate),
	}
}

// accumulator carries the evolving household state across years of one run.
type accumulator struct {
	monthlySalary   decimal.Decimal // frozen at its last working value after retirement
	averageSalary   decimal.Decimal
	savings         decimal.Decimal
	housingFund     decimal.Decimal
	personalPension decimal.Decimal
	pensionYears    int
	medicalYears    int
	eligible        bool
}

func newAccumulator(p domain.Params) *accumulator {
	years := p.InitialContributionYears()
	return &accumulator{
		monthlySalary:   p.InitialMonthlySalary,
		averageSalary:   p.LocalAverageSalary,
		savings:         p.InitialSavings,
		housingFund:     p.InitialHousingFund,
		personalPension: p.InitialPersonalPension,
		pensionYears:    years,
		medicalYears:    years,
	}
}

// step advances the state by one year. The order of operations matters:
// growth first, then contributions, then cash flows, then balances.
func (a *accumulator) step(p domain.Params, rates growthRates, i int) domain.YearlyRecord {
	age := p.CurrentAge + i
	retired := age >= p.RetirementAge

	if i > 0 {
		if !retired {
			a.monthlySalary = a.monthlySalary.Mul(rates.salary)
		}
		a.averageSalary = a.averageSalary.Mul(rates.salary)
	}

	needPension := a.pensionYears < MinPensionYears
	needMedical := a.medicalYears < MinMedicalYears
	mustContinue := retired && (needPension || needMedical)
	paying := !retired || mustContinue

	base := decimal.Zero
	switch {
	case !retired:
		base = a.monthlySalary.Mul(p.ContributionRatio)
	case mustContinue:
		base = a.averageSalary.Mul(p.ContributionRatio)
	}

	contribution := decimal.Zero
	if paying {
		contribution = base.Mul(contributionRate).Mul(monthsPerYear)
		a.pensionYears = min(a.pensionYears+1, MinPensionYears)
		a.medicalYears = min(a.medicalYears+1, MinMedicalYears)

		credited := a.averageSalary
		if !retired {
			credited = a.monthlySalary
		}
		a.personalPension = a.personalPension.Add(credited.Mul(PersonalPensionRate).Mul(monthsPerYear))
	}

	livingExpense := a.averageSalary.
		Mul(p.LivingExpenseRatio).
		Mul(rates.inflation.Pow(decimal.NewFromInt(int64(i)))).
		Mul(monthsPerYear)

	income := decimal.Zero
	if !retired {
		income = a.monthlySalary.Mul(monthsPerYear)
	}

	if age >= PensionAge && a.pensionYears >= MinPensionYears {
		a.eligible = true
	}
	benefit := decimal.Zero
	if a.eligible {
		benefit = a.averageSalary.Mul(p.PensionReplacementRatio).Mul(monthsPerYear)
	}

	netFlow := income.Add(benefit).Sub(contribution).Sub(livingExpense)
	a.savings = a.savings.Mul(rates.deposit).Add(netFlow)

	if !retired && i > 0 {
		a.housingFund = a.housingFund.Mul(rates.housing)
	}

	monthly := decimal.Zero
	if !retired {
		monthly = round2(a.monthlySalary)
	}

	savings := round2(a.savings)
	housingFund := round2(a.housingFund)
	personalPension := round2(a.personalPension)

	return domain.YearlyRecord{
		Year:                   p.StartYear + i,
		Age:                    age,
		AverageSalary:          round2(a.averageSalary),
		MonthlySalary:          monthly,
		ContributionBase:       round2(base),
		PensionContribution:    round2(contribution),
		PersonalPensionAccount: personalPension,
		HousingFundAccount:     housingFund,
		PensionYears:           a.pensionYears,
		MedicalYears:           a.medicalYears,
		PayingContributions:    paying,
		CanReceivePension:      a.eligible,
		AnnualPensionReceived:  round2(benefit),
		LivingExpense:          round2(livingExpense),
		Savings:                savings,
		TotalAssets:            savings.Add(housingFund).Add(personalPension),
		IsRetired:              retired,
		IsRetirementYear:       age == p.RetirementAge,
		IsPensionStartYear:     age == PensionAge && a.eligible,
	}
}

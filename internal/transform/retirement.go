package transform

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
)

// PostponeRetirement works a number of extra years before retiring.
type PostponeRetirement struct {
	Years int
}

func (pt *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pt *PostponeRetirement) Description() string {
	return fmt.Sprintf("Postpone retirement by %d years", pt.Years)
}

func (pt *PostponeRetirement) Validate(base domain.Params) error {
	if pt.Years < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", pt.Years), nil)
	}
	return nil
}

func (pt *PostponeRetirement) Apply(base domain.Params) (domain.Params, error) {
	base.RetirementAge += pt.Years
	return base, nil
}

// RetireEarlier brings retirement forward, never before the current age.
type RetireEarlier struct {
	Years int
}

func (re *RetireEarlier) Name() string {
	return "retire_earlier"
}

func (re *RetireEarlier) Description() string {
	return fmt.Sprintf("Retire %d years earlier", re.Years)
}

func (re *RetireEarlier) Validate(base domain.Params) error {
	if re.Years < 0 {
		return NewTransformError(re.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", re.Years), nil)
	}
	if base.RetirementAge-re.Years < base.CurrentAge {
		return NewTransformError(re.Name(), "validate",
			fmt.Sprintf("retirement age %d would fall before current age %d", base.RetirementAge-re.Years, base.CurrentAge), nil)
	}
	return nil
}

func (re *RetireEarlier) Apply(base domain.Params) (domain.Params, error) {
	base.RetirementAge -= re.Years
	return base, nil
}

// SetRetirementAge sets an absolute retirement age.
type SetRetirementAge struct {
	Age int
}

func (sr *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (sr *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sr.Age)
}

func (sr *SetRetirementAge) Validate(base domain.Params) error {
	if sr.Age < 0 || sr.Age > 120 {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("age must be between 0 and 120, got %d", sr.Age), nil)
	}
	return nil
}

func (sr *SetRetirementAge) Apply(base domain.Params) (domain.Params, error) {
	base.RetirementAge = sr.Age
	return base, nil
}

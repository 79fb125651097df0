package wizard

import (
	"github.com/twelled/spv-lifecycle/internal/domain"
)

// Step is a 1-based position in the fixed intake sequence
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepTerms
	StepDealMemo
	StepCarry
	StepSummary
	StepSign
)

// FirstStep and LastStep bound the intake sequence
const (
	FirstStep = StepBasicInfo
	LastStep  = StepSign
)

// requiredField names one field a step needs before forward navigation
type requiredField struct {
	name string
	get  func(f *Form) string
}

// stepDescriptor carries a step's display name and its required-field set.
// The wizard is driven entirely off this table; there is no per-step
// validation code anywhere else.
type stepDescriptor struct {
	step     Step
	name     string
	required []requiredField
}

var steps = []stepDescriptor{
	{
		step: StepBasicInfo,
		name: "Basic Info",
		required: []requiredField{
			{"spv_name", func(f *Form) string { return f.BasicInfo.SPVName }},
			{"company_name", func(f *Form) string { return f.BasicInfo.CompanyName }},
			{"description", func(f *Form) string { return f.BasicInfo.Description }},
			{"country", func(f *Form) string { return f.BasicInfo.Country }},
			{"incorporation_type", func(f *Form) string { return f.BasicInfo.IncorporationType }},
		},
	},
	{
		step: StepTerms,
		name: "Terms",
		required: []requiredField{
			{"transaction_type", func(f *Form) string { return string(f.Terms.TransactionType) }},
			{"instrument_type", func(f *Form) string { return string(f.Terms.InstrumentType) }},
			{"round_size", func(f *Form) string { return f.Terms.RoundSize }},
			{"allocation", func(f *Form) string { return f.Terms.Allocation }},
		},
	},
	{
		step: StepDealMemo,
		name: "Deal Memo",
		required: []requiredField{
			{"memo", func(f *Form) string { return f.DealMemo.Memo }},
			{"risks", func(f *Form) string { return f.DealMemo.Risks }},
			{"disclosures", func(f *Form) string { return f.DealMemo.Disclosures }},
		},
	},
	{
		step: StepCarry,
		name: "Carry & GP Commitment",
		required: []requiredField{
			{"carry_amount", func(f *Form) string { return f.Carry.CarryAmount }},
			{"carry_recipient", func(f *Form) string { return string(f.Carry.CarryRecipient) }},
		},
	},
	{
		step:     StepSummary,
		name:     "Summary",
		required: nil,
	},
	{
		step: StepSign,
		name: "E-sign & Submit",
		required: []requiredField{
			{"signature_data", func(f *Form) string { return f.Signature.SignatureData }},
		},
	},
}

// descriptorFor returns the descriptor for a step, or nil for an index
// outside the sequence
func descriptorFor(step Step) *stepDescriptor {
	for i := range steps {
		if steps[i].step == step {
			return &steps[i]
		}
	}
	return nil
}

// Validate checks the required-field set of one step against the form,
// returning a ValidationError naming the step and every missing field
func Validate(f *Form, step Step) error {
	desc := descriptorFor(step)
	if desc == nil {
		return domain.NewValidationError("unknown step")
	}

	var missing []string
	for _, field := range desc.required {
		if field.get(f) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError(desc.name, missing...)
	}

	return nil
}

// Next advances past step only when its required fields are populated;
// on validation failure the current step is returned unchanged
func Next(f *Form, current Step) (Step, error) {
	if err := Validate(f, current); err != nil {
		return current, err
	}
	if current >= LastStep {
		return LastStep, nil
	}
	return current + 1, nil
}

// Previous steps back, clamped at the first step
func Previous(current Step) Step {
	if current <= FirstStep {
		return FirstStep
	}
	return current - 1
}

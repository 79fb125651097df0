package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// Form is the in-memory intake aggregate, one section per data-entry step.
// It is mutated only through named section updates; persistence happens
// exclusively through the controller's submit and draft operations.
type Form struct {
	// SPVID is set when editing an existing SPV; nil means submit will create
	SPVID *uuid.UUID

	BasicInfo BasicInfo
	Terms     Terms
	DealMemo  DealMemo
	Carry     Carry
	Signature Signature
}

// BasicInfo mirrors the root record's descriptive fields
type BasicInfo struct {
	SPVName           string
	CompanyName       string
	Description       string
	Country           string
	IncorporationType string
}

// Terms mirrors the deal terms section
type Terms struct {
	TransactionType schema.TransactionType
	InstrumentType  schema.InstrumentType
	ValuationType   schema.ValuationType
	ShareClass      string
	RoundType       string
	RoundSize       string
	Allocation      string
	DocumentRef     string
}

// DealMemo mirrors the deal memo section
type DealMemo struct {
	Memo           string
	PitchDeckRef   string
	OtherInvestors string
	PastFinancing  bool
	Risks          string
	Disclosures    string
}

// Carry mirrors the carry and GP commitment section
type Carry struct {
	CarryAmount    string
	CarryRecipient schema.CarryRecipient
	DealPartners   string
}

// Signature mirrors the e-sign section; SignedBy and SignedAt are stamped
// at submit time, not carried on the form
type Signature struct {
	SignatureData string
}

// IsComplete reports whether every required field of the four data-entry
// steps is populated. This is the value persisted as is_complete and the
// condition for a submit to reach approved.
func (f *Form) IsComplete() bool {
	for _, step := range []Step{StepBasicInfo, StepTerms, StepDealMemo, StepCarry} {
		if Validate(f, step) != nil {
			return false
		}
	}
	return true
}

// HasSignature reports whether the e-sign step has been completed
func (f *Form) HasSignature() bool {
	return f.Signature.SignatureData != ""
}

// termsInput converts the terms section for persistence
func (f *Form) termsInput() *store.TermsInput {
	return &store.TermsInput{
		TransactionType: f.Terms.TransactionType,
		InstrumentType:  f.Terms.InstrumentType,
		ValuationType:   f.Terms.ValuationType,
		ShareClass:      f.Terms.ShareClass,
		RoundType:       f.Terms.RoundType,
		RoundSize:       f.Terms.RoundSize,
		Allocation:      f.Terms.Allocation,
		DocumentRef:     f.Terms.DocumentRef,
	}
}

// dealMemoInput converts the deal memo section for persistence
func (f *Form) dealMemoInput() *store.DealMemoInput {
	return &store.DealMemoInput{
		Memo:           f.DealMemo.Memo,
		PitchDeckRef:   f.DealMemo.PitchDeckRef,
		OtherInvestors: f.DealMemo.OtherInvestors,
		PastFinancing:  f.DealMemo.PastFinancing,
		Risks:          f.DealMemo.Risks,
		Disclosures:    f.DealMemo.Disclosures,
	}
}

// carryInput converts the carry section for persistence
func (f *Form) carryInput() *store.CarryInput {
	return &store.CarryInput{
		CarryAmount:    f.Carry.CarryAmount,
		CarryRecipient: f.Carry.CarryRecipient,
		DealPartners:   f.Carry.DealPartners,
	}
}

// signatureInput converts the e-sign section for persistence, stamping the
// signing identity and time
func (f *Form) signatureInput(signedBy string, signedAt time.Time) *store.SignatureInput {
	return &store.SignatureInput{
		SignatureData: f.Signature.SignatureData,
		SignedBy:      signedBy,
		SignedAt:      signedAt,
	}
}

// FormFromAggregate rebuilds the intake form from a persisted aggregate so
// an existing SPV can be re-opened in the wizard
func FormFromAggregate(agg *store.SPVAggregate) *Form {
	f := &Form{
		SPVID: &agg.SPV.ID,
		BasicInfo: BasicInfo{
			SPVName:           agg.SPV.SPVName,
			CompanyName:       agg.SPV.CompanyName,
			Description:       agg.SPV.Description,
			Country:           agg.SPV.Country,
			IncorporationType: agg.SPV.IncorporationType,
		},
	}

	if agg.Terms != nil {
		f.Terms = Terms{
			TransactionType: agg.Terms.TransactionType,
			InstrumentType:  agg.Terms.InstrumentType,
			ValuationType:   agg.Terms.ValuationType,
			ShareClass:      agg.Terms.ShareClass,
			RoundType:       agg.Terms.RoundType,
			RoundSize:       agg.Terms.RoundSize,
			Allocation:      agg.Terms.Allocation,
			DocumentRef:     agg.Terms.DocumentRef,
		}
	}
	if agg.DealMemo != nil {
		f.DealMemo = DealMemo{
			Memo:           agg.DealMemo.Memo,
			PitchDeckRef:   agg.DealMemo.PitchDeckRef,
			OtherInvestors: agg.DealMemo.OtherInvestors,
			PastFinancing:  agg.DealMemo.PastFinancing,
			Risks:          agg.DealMemo.Risks,
			Disclosures:    agg.DealMemo.Disclosures,
		}
	}
	if agg.Carry != nil {
		f.Carry = Carry{
			CarryAmount:    agg.Carry.CarryAmount,
			CarryRecipient: agg.Carry.CarryRecipient,
			DealPartners:   agg.Carry.DealPartners,
		}
	}
	if agg.Signature != nil {
		f.Signature = Signature{SignatureData: agg.Signature.SignatureData}
	}

	return f
}

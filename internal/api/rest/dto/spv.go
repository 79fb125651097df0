package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
	"github.com/twelled/spv-lifecycle/internal/wizard"
)

// BasicInfoPayload carries the root record's descriptive fields
type BasicInfoPayload struct {
	SPVName           string `json:"spv_name"`
	CompanyName       string `json:"company_name"`
	Description       string `json:"description"`
	Country           string `json:"country"`
	IncorporationType string `json:"incorporation_type"`
}

// TermsPayload carries the deal terms section
type TermsPayload struct {
	TransactionType string `json:"transaction_type"`
	InstrumentType  string `json:"instrument_type"`
	ValuationType   string `json:"valuation_type"`
	ShareClass      string `json:"share_class"`
	RoundType       string `json:"round_type"`
	RoundSize       string `json:"round_size"`
	Allocation      string `json:"allocation"`
	DocumentRef     string `json:"document_ref"`
}

// DealMemoPayload carries the deal memo section
type DealMemoPayload struct {
	Memo           string `json:"memo"`
	PitchDeckRef   string `json:"pitch_deck_ref"`
	OtherInvestors string `json:"other_investors"`
	PastFinancing  bool   `json:"past_financing"`
	Risks          string `json:"risks"`
	Disclosures    string `json:"disclosures"`
}

// CarryPayload carries the carry and GP commitment section
type CarryPayload struct {
	CarryAmount    string `json:"carry_amount"`
	CarryRecipient string `json:"carry_recipient"`
	DealPartners   string `json:"deal_partners"`
}

// SignaturePayload carries the e-sign section
type SignaturePayload struct {
	SignatureData string `json:"signature_data"`
}

// SPVFormRequest is the wizard's full form as submitted or draft-saved
type SPVFormRequest struct {
	BasicInfo BasicInfoPayload `json:"basic_info"`
	Terms     TermsPayload     `json:"terms"`
	DealMemo  DealMemoPayload  `json:"deal_memo"`
	Carry     CarryPayload     `json:"carry"`
	Signature SignaturePayload `json:"signature"`
}

// ToForm converts the request payload into the wizard's form aggregate
func (r *SPVFormRequest) ToForm(spvID *uuid.UUID) *wizard.Form {
	return &wizard.Form{
		SPVID: spvID,
		BasicInfo: wizard.BasicInfo{
			SPVName:           r.BasicInfo.SPVName,
			CompanyName:       r.BasicInfo.CompanyName,
			Description:       r.BasicInfo.Description,
			Country:           r.BasicInfo.Country,
			IncorporationType: r.BasicInfo.IncorporationType,
		},
		Terms: wizard.Terms{
			TransactionType: schema.TransactionType(r.Terms.TransactionType),
			InstrumentType:  schema.InstrumentType(r.Terms.InstrumentType),
			ValuationType:   schema.ValuationType(r.Terms.ValuationType),
			ShareClass:      r.Terms.ShareClass,
			RoundType:       r.Terms.RoundType,
			RoundSize:       r.Terms.RoundSize,
			Allocation:      r.Terms.Allocation,
			DocumentRef:     r.Terms.DocumentRef,
		},
		DealMemo: wizard.DealMemo{
			Memo:           r.DealMemo.Memo,
			PitchDeckRef:   r.DealMemo.PitchDeckRef,
			OtherInvestors: r.DealMemo.OtherInvestors,
			PastFinancing:  r.DealMemo.PastFinancing,
			Risks:          r.DealMemo.Risks,
			Disclosures:    r.DealMemo.Disclosures,
		},
		Carry: wizard.Carry{
			CarryAmount:    r.Carry.CarryAmount,
			CarryRecipient: schema.CarryRecipient(r.Carry.CarryRecipient),
			DealPartners:   r.Carry.DealPartners,
		},
		Signature: wizard.Signature{SignatureData: r.Signature.SignatureData},
	}
}

// QuickCreateRequest is the minimal create dialog payload
type QuickCreateRequest struct {
	SPVName         string `json:"spv_name"`
	CompanyName     string `json:"company_name" binding:"required"`
	TransactionType string `json:"transaction_type"`
	InstrumentType  string `json:"instrument_type"`
	Allocation      string `json:"allocation"`
}

// StatusUpdateRequest names the status an admin is transitioning to
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// SPVResponse is the root record as returned by list and detail endpoints
type SPVResponse struct {
	ID                uuid.UUID `json:"id"`
	SPVName           string    `json:"spv_name"`
	CompanyName       string    `json:"company_name"`
	Description       string    `json:"description"`
	Country           string    `json:"country"`
	IncorporationType string    `json:"incorporation_type"`
	Status            string    `json:"status"`
	IsComplete        bool      `json:"is_complete"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SPVFromSchema converts a root record for the wire
func SPVFromSchema(s *schema.SPV) SPVResponse {
	return SPVResponse{
		ID:                s.ID,
		SPVName:           s.SPVName,
		CompanyName:       s.CompanyName,
		Description:       s.Description,
		Country:           s.Country,
		IncorporationType: s.IncorporationType,
		Status:            s.Status.String(),
		IsComplete:        s.IsComplete,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// SPVListResponse wraps the listing payload
type SPVListResponse struct {
	SPVs []SPVResponse `json:"spvs"`
}

// SPVDetailResponse is the joined aggregate plus its activity log
type SPVDetailResponse struct {
	SPV      SPVResponse      `json:"spv"`
	Terms    *TermsPayload    `json:"terms,omitempty"`
	DealMemo *DealMemoPayload `json:"deal_memo,omitempty"`
	Carry    *CarryPayload    `json:"carry,omitempty"`
	Signed   bool             `json:"signed"`
	Activity []ActivityEntry  `json:"activity"`
}

// DetailFromAggregate converts a stored aggregate for the wire. The raw
// signature image is withheld; only the signed flag is exposed.
func DetailFromAggregate(agg *store.SPVAggregate, entries []schema.ActivityLog) SPVDetailResponse {
	resp := SPVDetailResponse{
		SPV:      SPVFromSchema(&agg.SPV),
		Signed:   agg.HasSignature(),
		Activity: ActivityFromSchema(entries),
	}

	if agg.Terms != nil {
		resp.Terms = &TermsPayload{
			TransactionType: string(agg.Terms.TransactionType),
			InstrumentType:  string(agg.Terms.InstrumentType),
			ValuationType:   string(agg.Terms.ValuationType),
			ShareClass:      agg.Terms.ShareClass,
			RoundType:       agg.Terms.RoundType,
			RoundSize:       agg.Terms.RoundSize,
			Allocation:      agg.Terms.Allocation,
			DocumentRef:     agg.Terms.DocumentRef,
		}
	}
	if agg.DealMemo != nil {
		resp.DealMemo = &DealMemoPayload{
			Memo:           agg.DealMemo.Memo,
			PitchDeckRef:   agg.DealMemo.PitchDeckRef,
			OtherInvestors: agg.DealMemo.OtherInvestors,
			PastFinancing:  agg.DealMemo.PastFinancing,
			Risks:          agg.DealMemo.Risks,
			Disclosures:    agg.DealMemo.Disclosures,
		}
	}
	if agg.Carry != nil {
		resp.Carry = &CarryPayload{
			CarryAmount:    agg.Carry.CarryAmount,
			CarryRecipient: string(agg.Carry.CarryRecipient),
			DealPartners:   agg.Carry.DealPartners,
		}
	}

	return resp
}

// OutcomeResponse reports a committed submit, draft save or quick create
type OutcomeResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	IsComplete bool      `json:"is_complete"`
	Action     string    `json:"action"`
}

// OutcomeFromWizard converts a wizard outcome for the wire
func OutcomeFromWizard(out *wizard.Outcome) OutcomeResponse {
	return OutcomeResponse{
		ID:         out.SPVID,
		Status:     out.Status.String(),
		IsComplete: out.IsComplete,
		Action:     out.Action,
	}
}

// StatusUpdateResponse reports a committed workflow transition
type StatusUpdateResponse struct {
	ID             uuid.UUID `json:"id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
}

// UploadResponse reports a stored document reference
type UploadResponse struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/activity"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// Uploader stores a document and returns its public reference
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
}

// DocumentKind selects which section field an uploaded reference lands on
type DocumentKind string

const (
	// DocumentKindTerms is the deal terms document
	DocumentKindTerms DocumentKind = "document"
	// DocumentKindPitchDeck is the pitch deck on the deal memo
	DocumentKindPitchDeck DocumentKind = "pitch_deck"
)

// Controller drives the intake wizard's terminal actions: submit, draft
// save, quick create and document attachment. Step navigation itself is
// stateless (see Next and Previous); the controller only touches
// persistence.
type Controller struct {
	store    store.Store
	activity *activity.Service
	uploader Uploader
}

// NewController creates a wizard controller
func NewController(s store.Store, a *activity.Service, u Uploader) *Controller {
	return &Controller{store: s, activity: a, uploader: u}
}

// Outcome describes a committed submit, draft save or quick create
type Outcome struct {
	SPVID      uuid.UUID
	Status     domain.Status
	IsComplete bool
	Action     string
}

// Submit persists the whole form as one logical unit. The signature must be
// present; completeness decides whether the SPV lands on approved or stays a
// draft. An incomplete submit never regresses an SPV that already moved past
// draft. On any persistence failure the form is left untouched so the caller
// may retry the same call.
func (c *Controller) Submit(ctx context.Context, f *Form, actor domain.Principal) (*Outcome, error) {
	if !f.HasSignature() {
		return nil, domain.ErrEmptySignature
	}

	previous, err := c.previousStatus(ctx, f)
	if err != nil {
		return nil, err
	}

	complete := f.IsComplete()
	target := domain.StatusDraft
	if complete {
		target = domain.StatusApproved
	} else if previous != domain.StatusDraft {
		target = previous
	}

	input := store.UpsertSPVInput{
		ID:                f.SPVID,
		SPVName:           f.BasicInfo.SPVName,
		CompanyName:       f.BasicInfo.CompanyName,
		Description:       f.BasicInfo.Description,
		Country:           f.BasicInfo.Country,
		IncorporationType: f.BasicInfo.IncorporationType,
		Status:            target,
		IsComplete:        complete,
		Terms:             f.termsInput(),
		DealMemo:          f.dealMemoInput(),
		Carry:             f.carryInput(),
		Signature:         f.signatureInput(actor.ID, time.Now().UTC()),
	}

	id, err := c.store.UpsertSPV(ctx, input)
	if err != nil {
		return nil, domain.NewPersistenceError("submit upsert", err)
	}

	action := schema.ActionSPVDraftSaved
	if complete {
		action = schema.ActionSPVSubmitted
	}

	if _, err := c.activity.Record(ctx, activity.Entry{
		SPVID:          id,
		Actor:          actor,
		Action:         action,
		PreviousStatus: previous,
		NewStatus:      target,
	}); err != nil {
		return nil, err
	}

	return &Outcome{SPVID: id, Status: target, IsComplete: complete, Action: action}, nil
}

// SaveDraft persists whatever is currently filled, forcing status to draft
// and is_complete to false; completeness is only ever computed on submit.
// No signature is required; empty sections are skipped rather than written
// as blank rows.
func (c *Controller) SaveDraft(ctx context.Context, f *Form, actor domain.Principal) (*Outcome, error) {
	previous, err := c.previousStatus(ctx, f)
	if err != nil {
		return nil, err
	}

	input := store.UpsertSPVInput{
		ID:                f.SPVID,
		SPVName:           f.BasicInfo.SPVName,
		CompanyName:       f.BasicInfo.CompanyName,
		Description:       f.BasicInfo.Description,
		Country:           f.BasicInfo.Country,
		IncorporationType: f.BasicInfo.IncorporationType,
		Status:            domain.StatusDraft,
		IsComplete:        false,
	}
	if f.Terms != (Terms{}) {
		input.Terms = f.termsInput()
	}
	if f.DealMemo != (DealMemo{}) {
		input.DealMemo = f.dealMemoInput()
	}
	if f.Carry != (Carry{}) {
		input.Carry = f.carryInput()
	}
	if f.HasSignature() {
		input.Signature = f.signatureInput(actor.ID, time.Now().UTC())
	}

	id, err := c.store.UpsertSPV(ctx, input)
	if err != nil {
		return nil, domain.NewPersistenceError("draft upsert", err)
	}

	if _, err := c.activity.Record(ctx, activity.Entry{
		SPVID:          id,
		Actor:          actor,
		Action:         schema.ActionSPVDraftSaved,
		PreviousStatus: previous,
		NewStatus:      domain.StatusDraft,
	}); err != nil {
		return nil, err
	}

	return &Outcome{SPVID: id, Status: domain.StatusDraft, IsComplete: input.IsComplete, Action: schema.ActionSPVDraftSaved}, nil
}

// QuickCreateInput carries the minimal fields of the quick-create dialog
type QuickCreateInput struct {
	SPVName         string
	CompanyName     string
	TransactionType schema.TransactionType
	InstrumentType  schema.InstrumentType
	Allocation      string
}

// QuickCreate creates a draft SPV from the minimal dialog fields and records
// its creation entry. The SPV name falls back to the company name when not
// given.
func (c *Controller) QuickCreate(ctx context.Context, in QuickCreateInput, actor domain.Principal) (*Outcome, error) {
	name := in.SPVName
	if name == "" {
		name = in.CompanyName
	}

	input := store.UpsertSPVInput{
		SPVName:     name,
		CompanyName: in.CompanyName,
		Status:      domain.StatusDraft,
	}
	if in.TransactionType != "" || in.InstrumentType != "" || in.Allocation != "" {
		input.Terms = &store.TermsInput{
			TransactionType: in.TransactionType,
			InstrumentType:  in.InstrumentType,
			Allocation:      in.Allocation,
		}
	}

	id, err := c.store.UpsertSPV(ctx, input)
	if err != nil {
		return nil, domain.NewPersistenceError("quick create", err)
	}

	if _, err := c.activity.Record(ctx, activity.Entry{
		SPVID:          id,
		Actor:          actor,
		Action:         schema.ActionSPVCreated,
		PreviousStatus: domain.StatusDraft,
		NewStatus:      domain.StatusDraft,
	}); err != nil {
		return nil, err
	}

	return &Outcome{SPVID: id, Status: domain.StatusDraft, Action: schema.ActionSPVCreated}, nil
}

// AttachDocument uploads a file and stores the returned reference on the
// section the kind selects. On upload failure the field is left unset and
// nothing else changes.
func (c *Controller) AttachDocument(ctx context.Context, f *Form, kind DocumentKind, filename string, data []byte) (string, error) {
	path := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))

	ref, err := c.uploader.Upload(ctx, path, data)
	if err != nil {
		return "", err
	}

	switch kind {
	case DocumentKindTerms:
		f.Terms.DocumentRef = ref
	case DocumentKindPitchDeck:
		f.DealMemo.PitchDeckRef = ref
	default:
		return "", fmt.Errorf("unknown document kind: %q", kind)
	}

	return ref, nil
}

// previousStatus reads the current status of the SPV being edited, or draft
// for a form that has never been persisted
func (c *Controller) previousStatus(ctx context.Context, f *Form) (domain.Status, error) {
	if f.SPVID == nil {
		return domain.StatusDraft, nil
	}

	root, err := c.store.GetSPVRoot(ctx, *f.SPVID)
	if err != nil {
		if err == domain.ErrSPVNotFound {
			return "", err
		}
		return "", domain.NewPersistenceError("status read", err)
	}

	return root.Status, nil
}

// sanitizeFilename keeps letters, digits, dots, dashes and underscores,
// replacing everything else so the name is safe as an object path segment
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

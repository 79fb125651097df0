package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/twelled/spv-lifecycle/internal/activity"
	"github.com/twelled/spv-lifecycle/internal/api/middleware"
	"github.com/twelled/spv-lifecycle/internal/api/rest/dto"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/export"
	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
	"github.com/twelled/spv-lifecycle/internal/wizard"
	"github.com/twelled/spv-lifecycle/internal/workflow"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// QuickCreateSPV creates a draft SPV from the minimal create dialog
	// POST /api/v1/spvs
	QuickCreateSPV(c *gin.Context)

	// ListSPVs retrieves SPVs with optional filters
	// GET /api/v1/spvs?q=<search>&status=<s1>,<s2>&exclude_drafts=true&limit=<n>
	ListSPVs(c *gin.Context)

	// GetSPV retrieves the joined aggregate plus its activity log
	// GET /api/v1/spvs/:id
	GetSPV(c *gin.Context)

	// SubmitNewSPV submits the wizard form for a new SPV
	// POST /api/v1/spvs/submit
	SubmitNewSPV(c *gin.Context)

	// SubmitSPV submits the wizard form for an existing SPV
	// POST /api/v1/spvs/:id/submit
	SubmitSPV(c *gin.Context)

	// SaveDraft persists whatever is currently filled, forcing draft status
	// POST /api/v1/spvs/:id/draft
	SaveDraft(c *gin.Context)

	// UpdateStatus performs an admin workflow transition
	// PATCH /api/v1/spvs/:id/status
	UpdateStatus(c *gin.Context)

	// ListActivity retrieves the activity log, newest first
	// GET /api/v1/spvs/:id/activity
	ListActivity(c *gin.Context)

	// ExportSummary downloads the plain-text deal summary
	// GET /api/v1/spvs/:id/export
	ExportSummary(c *gin.Context)

	// UploadDocument stores a deal document or pitch deck
	// POST /api/v1/spvs/:id/documents?kind=document|pitch_deck  (multipart)
	UploadDocument(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store    store.Store
	wizard   *wizard.Controller
	workflow *workflow.Engine
	activity *activity.Service
}

// NewHandler creates a new REST API handler
func NewHandler(s store.Store, w *wizard.Controller, wf *workflow.Engine, a *activity.Service) Handler {
	return &handler{
		store:    s,
		wizard:   w,
		workflow: wf,
		activity: a,
	}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// QuickCreateSPV creates a draft SPV from the minimal create dialog
func (h *handler) QuickCreateSPV(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		respondDomainError(c, domain.ErrUnauthenticated)
		return
	}

	var req dto.QuickCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	out, err := h.wizard.QuickCreate(c.Request.Context(), wizard.QuickCreateInput{
		SPVName:         req.SPVName,
		CompanyName:     req.CompanyName,
		TransactionType: schema.TransactionType(req.TransactionType),
		InstrumentType:  schema.InstrumentType(req.InstrumentType),
		Allocation:      req.Allocation,
	}, principal)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OutcomeFromWizard(out))
}

// ListSPVs retrieves SPVs with optional filters
func (h *handler) ListSPVs(c *gin.Context) {
	filter := store.SPVFilter{
		Query:         c.Query("q"),
		ExcludeDrafts: c.Query("exclude_drafts") == "true",
	}

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s := domain.Status(strings.TrimSpace(part))
			if !s.Valid() {
				respondBadRequest(c, "Unknown status", string(s))
				return
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondBadRequest(c, "Invalid limit", raw)
			return
		}
		filter.Limit = limit
	}

	spvs, err := h.store.ListSPVs(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to list SPVs")
		return
	}

	resp := dto.SPVListResponse{SPVs: make([]dto.SPVResponse, 0, len(spvs))}
	for i := range spvs {
		resp.SPVs = append(resp.SPVs, dto.SPVFromSchema(&spvs[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// GetSPV retrieves the joined aggregate plus its activity log
func (h *handler) GetSPV(c *gin.Context) {
	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	agg, err := h.store.GetSPV(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	entries, err := h.activity.ListForSPV(c.Request.Context(), &agg.SPV)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DetailFromAggregate(agg, entries))
}

// SubmitNewSPV submits the wizard form for a new SPV
func (h *handler) SubmitNewSPV(c *gin.Context) {
	h.submit(c, nil)
}

// SubmitSPV submits the wizard form for an existing SPV
func (h *handler) SubmitSPV(c *gin.Context) {
	id, ok := parseSPVID(c)
	if !ok {
		return
	}
	h.submit(c, &id)
}

func (h *handler) submit(c *gin.Context, spvID *uuid.UUID) {
	principal, ok := middleware.Principal(c)
	if !ok {
		respondDomainError(c, domain.ErrUnauthenticated)
		return
	}

	var req dto.SPVFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	out, err := h.wizard.Submit(c.Request.Context(), req.ToForm(spvID), principal)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	status := http.StatusOK
	if spvID == nil {
		status = http.StatusCreated
	}
	c.JSON(status, dto.OutcomeFromWizard(out))
}

// SaveDraft persists whatever is currently filled, forcing draft status
func (h *handler) SaveDraft(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		respondDomainError(c, domain.ErrUnauthenticated)
		return
	}

	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	var req dto.SPVFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	out, err := h.wizard.SaveDraft(c.Request.Context(), req.ToForm(&id), principal)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OutcomeFromWizard(out))
}

// UpdateStatus performs an admin workflow transition
func (h *handler) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		respondDomainError(c, domain.ErrUnauthenticated)
		return
	}

	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	res, err := h.workflow.Transition(c.Request.Context(), id, domain.Status(req.Status), principal)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusUpdateResponse{
		ID:             id,
		PreviousStatus: res.Previous.String(),
		NewStatus:      res.New.String(),
	})
}

// ListActivity retrieves the activity log, newest first
func (h *handler) ListActivity(c *gin.Context) {
	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	root, err := h.store.GetSPVRoot(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	entries, err := h.activity.ListForSPV(c.Request.Context(), root)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": dto.ActivityFromSchema(entries)})
}

// ExportSummary downloads the plain-text deal summary
func (h *handler) ExportSummary(c *gin.Context) {
	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	root, err := h.store.GetSPVRoot(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	entries, err := h.activity.ListForSPV(c.Request.Context(), root)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	summary := export.Summary(root, entries)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(root.SPVName)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(summary))
}

// UploadDocument stores a deal document or pitch deck and records the
// returned reference on the relevant section
func (h *handler) UploadDocument(c *gin.Context) {
	id, ok := parseSPVID(c)
	if !ok {
		return
	}

	kind := wizard.DocumentKind(c.DefaultQuery("kind", string(wizard.DocumentKindTerms)))
	if kind != wizard.DocumentKindTerms && kind != wizard.DocumentKindPitchDeck {
		respondBadRequest(c, "Unknown document kind", string(kind))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "Missing file field", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "Unreadable file", err.Error())
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, "Unreadable file", err.Error())
		return
	}

	agg, err := h.store.GetSPV(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	form := wizard.FormFromAggregate(agg)
	ref, err := h.wizard.AttachDocument(c.Request.Context(), form, kind, fileHeader.Filename, data)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	// Persist only the section the reference landed on; status and the other
	// sections stay untouched
	input := store.UpsertSPVInput{
		ID:                &agg.SPV.ID,
		SPVName:           agg.SPV.SPVName,
		CompanyName:       agg.SPV.CompanyName,
		Description:       agg.SPV.Description,
		Country:           agg.SPV.Country,
		IncorporationType: agg.SPV.IncorporationType,
		Status:            agg.SPV.Status,
		IsComplete:        agg.SPV.IsComplete,
	}
	switch kind {
	case wizard.DocumentKindTerms:
		input.Terms = &store.TermsInput{
			TransactionType: form.Terms.TransactionType,
			InstrumentType:  form.Terms.InstrumentType,
			ValuationType:   form.Terms.ValuationType,
			ShareClass:      form.Terms.ShareClass,
			RoundType:       form.Terms.RoundType,
			RoundSize:       form.Terms.RoundSize,
			Allocation:      form.Terms.Allocation,
			DocumentRef:     form.Terms.DocumentRef,
		}
	case wizard.DocumentKindPitchDeck:
		input.DealMemo = &store.DealMemoInput{
			Memo:           form.DealMemo.Memo,
			PitchDeckRef:   form.DealMemo.PitchDeckRef,
			OtherInvestors: form.DealMemo.OtherInvestors,
			PastFinancing:  form.DealMemo.PastFinancing,
			Risks:          form.DealMemo.Risks,
			Disclosures:    form.DealMemo.Disclosures,
		}
	}

	if _, err := h.store.UpsertSPV(c.Request.Context(), input); err != nil {
		respondDomainError(c, domain.NewPersistenceError("document ref upsert", err))
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{Kind: string(kind), Ref: ref})
}

// parseSPVID reads and validates the :id path parameter, responding 400 on
// a malformed identifier
func parseSPVID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid SPV identifier", c.Param("id"))
		return uuid.Nil, false
	}
	return id, true
}

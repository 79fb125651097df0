package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/twelled/spv-lifecycle/internal/activity"
	"github.com/twelled/spv-lifecycle/internal/config"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/guard"
	"github.com/twelled/spv-lifecycle/internal/store"
	"github.com/twelled/spv-lifecycle/internal/store/schema"
	"github.com/twelled/spv-lifecycle/internal/wizard"
	"github.com/twelled/spv-lifecycle/internal/workflow"
)

const testSecret = "test-jwt-secret"

// newTestRouter builds the full route tree over a mock store; no uploader is
// wired since these tests never reach the blob store
func newTestRouter(s *store.MockStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	g := guard.New(s, config.AuthConfig{JWTSecret: testSecret, AdminEmail: "admin@twelled.com"})
	activitySvc := activity.New(s)
	wizardCtl := wizard.NewController(s, activitySvc, nil)
	workflowEng := workflow.New(s, activitySvc)

	router := gin.New()
	SetupRoutes(router, NewHandler(s, wizardCtl, workflowEng, activitySvc), g)
	return router
}

func signToken(t *testing.T, subject, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&store.MockStore{})

	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(&store.MockStore{})

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/spvs", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/spvs", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestQuickCreateEndpoint(t *testing.T) {
	s := &store.MockStore{}
	s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
	spvID := uuid.New()
	s.On("UpsertSPV", mock.Anything, mock.Anything).Return(spvID, nil)
	s.On("AppendActivity", mock.Anything, mock.MatchedBy(func(in store.AppendActivityInput) bool {
		return in.Action == schema.ActionSPVCreated
	})).Return(&schema.ActivityLog{ID: "entry"}, nil)

	router := newTestRouter(s)
	token := signToken(t, "user-1", "alice@example.com")

	w := doRequest(t, router, http.MethodPost, "/api/v1/spvs", token, gin.H{
		"company_name":     "Acme Robotics",
		"transaction_type": "Primary",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), spvID.String())
	assert.Contains(t, w.Body.String(), `"action":"SPV Created"`)
}

func TestSubmitEndpoint(t *testing.T) {
	t.Run("empty signature is a 422 with no persistence", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)

		router := newTestRouter(s)
		token := signToken(t, "user-1", "alice@example.com")

		w := doRequest(t, router, http.MethodPost, "/api/v1/spvs/submit", token, gin.H{
			"basic_info": gin.H{"spv_name": "Acme SPV I"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"validation_failed"`)
		s.AssertNotCalled(t, "UpsertSPV")
	})

	t.Run("complete submission is created as approved", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
		spvID := uuid.New()
		s.On("UpsertSPV", mock.Anything, mock.MatchedBy(func(in store.UpsertSPVInput) bool {
			return in.Status == domain.StatusApproved && in.IsComplete
		})).Return(spvID, nil)
		s.On("AppendActivity", mock.Anything, mock.MatchedBy(func(in store.AppendActivityInput) bool {
			return in.Action == schema.ActionSPVSubmitted
		})).Return(&schema.ActivityLog{ID: "entry"}, nil)

		router := newTestRouter(s)
		token := signToken(t, "user-1", "alice@example.com")

		w := doRequest(t, router, http.MethodPost, "/api/v1/spvs/submit", token, gin.H{
			"basic_info": gin.H{
				"spv_name": "Acme SPV I", "company_name": "Acme Robotics",
				"description": "Seed round vehicle", "country": "US", "incorporation_type": "LLC",
			},
			"terms": gin.H{
				"transaction_type": "Primary", "instrument_type": "SAFE",
				"round_size": "5000000", "allocation": "250000",
			},
			"deal_memo": gin.H{"memo": "Strong team", "risks": "Early stage", "disclosures": "None"},
			"carry":     gin.H{"carry_amount": "20", "carry_recipient": "GP Commitment"},
			"signature": gin.H{"signature_data": "data:image/png;base64,iVBORw0KGgo="},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"status":"approved"`)
		assert.Contains(t, w.Body.String(), `"is_complete":true`)
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	spvID := uuid.New()

	t.Run("member is forbidden", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)

		router := newTestRouter(s)
		token := signToken(t, "user-1", "alice@example.com")

		w := doRequest(t, router, http.MethodPatch, "/api/v1/spvs/"+spvID.String()+"/status", token, gin.H{"status": "rejected"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		s.AssertNotCalled(t, "UpdateSPVStatus")
	})

	t.Run("designated admin email transitions", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("UpdateSPVStatus", mock.Anything, spvID, domain.StatusInProgress).Return(domain.StatusApproved, nil)
		s.On("AppendActivity", mock.Anything, mock.MatchedBy(func(in store.AppendActivityInput) bool {
			return in.Action == "Status changed to in progress"
		})).Return(&schema.ActivityLog{ID: "entry"}, nil)

		router := newTestRouter(s)
		token := signToken(t, "admin-1", "admin@twelled.com")

		w := doRequest(t, router, http.MethodPatch, "/api/v1/spvs/"+spvID.String()+"/status", token, gin.H{"status": "in progress"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"previous_status":"approved"`)
		assert.Contains(t, w.Body.String(), `"new_status":"in progress"`)
	})

	t.Run("unknown status is a 422", func(t *testing.T) {
		s := &store.MockStore{}

		router := newTestRouter(s)
		token := signToken(t, "admin-1", "admin@twelled.com")

		w := doRequest(t, router, http.MethodPatch, "/api/v1/spvs/"+spvID.String()+"/status", token, gin.H{"status": "archived"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetSPVEndpoint(t *testing.T) {
	spvID := uuid.New()
	token := func(t *testing.T) string { return signToken(t, "user-1", "alice@example.com") }

	t.Run("detail includes sections and the backfilled log", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
		s.On("GetSPV", mock.Anything, spvID).Return(&store.SPVAggregate{
			SPV: schema.SPV{ID: spvID, SPVName: "Acme SPV I", Status: domain.StatusDraft},
			Terms: &schema.Terms{
				SPVID:           spvID,
				TransactionType: schema.TransactionTypePrimary,
			},
		}, nil)
		s.On("CountActivityForSPV", mock.Anything, spvID).Return(int64(0), nil)
		s.On("AppendActivity", mock.Anything, mock.MatchedBy(func(in store.AppendActivityInput) bool {
			return in.Action == schema.ActionSPVCreated
		})).Return(&schema.ActivityLog{ID: "seeded"}, nil)
		s.On("ListActivityForSPV", mock.Anything, spvID).Return([]schema.ActivityLog{
			{ID: "seeded", SPVID: spvID, UserID: domain.SystemUserID, Action: schema.ActionSPVCreated},
		}, nil)

		router := newTestRouter(s)
		w := doRequest(t, router, http.MethodGet, "/api/v1/spvs/"+spvID.String(), token(t), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"action":"SPV Created"`)
		assert.Contains(t, w.Body.String(), `"user_email":"System"`)
		assert.Contains(t, w.Body.String(), `"transaction_type":"Primary"`)
		s.AssertExpectations(t)
	})

	t.Run("unknown spv is a 404", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
		s.On("GetSPV", mock.Anything, spvID).Return(nil, domain.ErrSPVNotFound)

		router := newTestRouter(s)
		w := doRequest(t, router, http.MethodGet, "/api/v1/spvs/"+spvID.String(), token(t), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"not_found"`)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		s := &store.MockStore{}
		s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)

		router := newTestRouter(s)
		w := doRequest(t, router, http.MethodGet, "/api/v1/spvs/not-a-uuid", token(t), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListSPVsEndpoint(t *testing.T) {
	s := &store.MockStore{}
	s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
	s.On("ListSPVs", mock.Anything, store.SPVFilter{
		Query:    "acme",
		Statuses: []domain.Status{domain.StatusApproved},
	}).Return([]schema.SPV{{ID: uuid.New(), SPVName: "Acme SPV I", Status: domain.StatusApproved}}, nil)

	router := newTestRouter(s)
	token := signToken(t, "user-1", "alice@example.com")

	w := doRequest(t, router, http.MethodGet, "/api/v1/spvs?q=acme&status=approved", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Acme SPV I")

	w = doRequest(t, router, http.MethodGet, "/api/v1/spvs?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	spvID := uuid.New()
	s := &store.MockStore{}
	s.On("GetUserRole", mock.Anything, "user-1").Return(domain.Role(""), nil)
	s.On("GetSPVRoot", mock.Anything, spvID).Return(&schema.SPV{
		ID: spvID, SPVName: "Acme SPV I", Status: domain.StatusApproved,
	}, nil)
	s.On("CountActivityForSPV", mock.Anything, spvID).Return(int64(1), nil)
	s.On("ListActivityForSPV", mock.Anything, spvID).Return([]schema.ActivityLog{
		{ID: "a", Action: schema.ActionSPVSubmitted, PreviousStatus: domain.StatusDraft, NewStatus: domain.StatusApproved},
	}, nil)

	router := newTestRouter(s)
	token := signToken(t, "user-1", "alice@example.com")

	w := doRequest(t, router, http.MethodGet, "/api/v1/spvs/"+spvID.String()+"/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Acme-SPV-I-summary.txt"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "DEAL SUMMARY"))
	assert.Contains(t, w.Body.String(), "SPV Submitted (draft -> approved)")
}

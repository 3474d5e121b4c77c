package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/application"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/clientonboarding/pkg/middleware"
)

type memoryRepository struct {
	records map[string]*domain.OnboardingRecord
	nextID  uint
}

func repoKey(clientID uint64, formID, stepID string) string {
	return fmt.Sprintf("%d/%s/%s", clientID, formID, stepID)
}

func (m *memoryRepository) GetOrCreate(_ context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	key := repoKey(clientID, formID, stepID)
	if r, ok := m.records[key]; ok {
		clone := *r
		return &clone, nil
	}
	m.nextID++
	r := &domain.OnboardingRecord{ClientID: clientID, FormID: formID, StepID: stepID, Status: domain.StatusNotStarted}
	r.ID = m.nextID
	m.records[key] = r
	clone := *r
	return &clone, nil
}

func (m *memoryRepository) Get(_ context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	if r, ok := m.records[repoKey(clientID, formID, stepID)]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (m *memoryRepository) UpdateWithVersion(_ context.Context, record *domain.OnboardingRecord) error {
	key := repoKey(record.ClientID, record.FormID, record.StepID)
	stored, ok := m.records[key]
	if !ok || stored.Version != record.Version {
		return domain.ErrVersionConflict
	}
	record.Version++
	clone := *record
	m.records[key] = &clone
	return nil
}

func (m *memoryRepository) GetLegacyProfile(context.Context, uint64) (*domain.LegacyClientProfile, error) {
	return nil, nil
}

func newTestRouter(authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepository{records: map[string]*domain.OnboardingRecord{}}
	service := application.NewOnboardingService(repo, nil, nil)

	r := gin.New()
	group := r.Group("/api/v1")
	if authed {
		group.Use(func(c *gin.Context) {
			c.Set(middleware.BrokerIDKey, uint64(1))
		})
	}
	NewHandler(service).RegisterRoutes(group)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStepEndpoint(t *testing.T) {
	r := newTestRouter(true)

	t.Run("returns normalized step state", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/clients/100/onboarding/alternative-investment/steps/step1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var state application.StepState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, "NOT_STARTED", state.Status)
		assert.Equal(t, "step1.orderBasics", state.CurrentQuestionID)
		assert.Contains(t, state.Fields, "proposedPrincipalAmount")
	})

	t.Run("unknown form is 404", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/clients/100/onboarding/no-such-form/steps/step1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad client id is 400", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/v1/clients/abc/onboarding/alternative-investment/steps/step1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		anon := newTestRouter(false)
		w := doJSON(anon, http.MethodGet, "/api/v1/clients/100/onboarding/alternative-investment/steps/step1", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	r := newTestRouter(true)
	path := "/api/v1/clients/100/onboarding/alternative-investment/steps/step1/answers"

	t.Run("missing question id is 400", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, path, `{"answer":{}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejected answer returns field errors", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, path, `{
			"questionId": "step1.orderBasics",
			"answer": {"proposedPrincipalAmount": 1000, "qualifiedAccount": {"yes": true, "no": true}}
		}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var rejection application.AnswerRejection
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejection))
		assert.Equal(t, "Validation failed.", rejection.Message)
		assert.Contains(t, rejection.FieldErrors["step1.orderBasics.qualifiedAccount"], "exactly one")
	})

	t.Run("accepted answer returns the advanced state", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, path, `{
			"questionId": "step1.orderBasics",
			"answer": {"proposedPrincipalAmount": 1000, "qualifiedAccount": {"no": true}}
		}`)
		require.Equal(t, http.StatusOK, w.Code)

		var state application.StepState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, "IN_PROGRESS", state.Status)
	})
}

func TestReviewEndpoint(t *testing.T) {
	r := newTestRouter(true)

	w := doJSON(r, http.MethodPost, "/api/v1/clients/100/onboarding/statement-of-financial-condition/review", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result application.ReviewResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "NOT_STARTED", result.Status)
	assert.NotEmpty(t, result.FieldErrors)
}

package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/clientonboarding/internal/forms/altinvestment"
	"github.com/wyfcoding/clientonboarding/internal/forms/investorprofile"
	"github.com/wyfcoding/clientonboarding/internal/forms/sfc"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
)

// fakeRepository 内存仓储，版本比较交换语义与 MySQL 实现一致
type fakeRepository struct {
	records map[string]*domain.OnboardingRecord
	legacy  map[uint64]*domain.LegacyClientProfile
	nextID  uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		records: map[string]*domain.OnboardingRecord{},
		legacy:  map[uint64]*domain.LegacyClientProfile{},
	}
}

func recordKey(clientID uint64, formID, stepID string) string {
	return fmt.Sprintf("%d/%s/%s", clientID, formID, stepID)
}

func (f *fakeRepository) GetOrCreate(_ context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	key := recordKey(clientID, formID, stepID)
	if r, ok := f.records[key]; ok {
		clone := *r
		return &clone, nil
	}
	f.nextID++
	r := &domain.OnboardingRecord{
		ClientID: clientID,
		FormID:   formID,
		StepID:   stepID,
		Status:   domain.StatusNotStarted,
	}
	r.ID = f.nextID
	f.records[key] = r
	clone := *r
	return &clone, nil
}

func (f *fakeRepository) Get(_ context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	if r, ok := f.records[recordKey(clientID, formID, stepID)]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeRepository) UpdateWithVersion(_ context.Context, record *domain.OnboardingRecord) error {
	key := recordKey(record.ClientID, record.FormID, record.StepID)
	stored, ok := f.records[key]
	if !ok || stored.Version != record.Version {
		return domain.ErrVersionConflict
	}
	record.Version++
	clone := *record
	f.records[key] = &clone
	return nil
}

func (f *fakeRepository) GetLegacyProfile(_ context.Context, clientID uint64) (*domain.LegacyClientProfile, error) {
	return f.legacy[clientID], nil
}

// recordingPublisher 记录已发布的生命周期事件
type recordingPublisher struct {
	started   []domain.OnboardingStartedEvent
	completed []domain.OnboardingCompletedEvent
}

func (p *recordingPublisher) PublishStarted(e domain.OnboardingStartedEvent) {
	p.started = append(p.started, e)
}

func (p *recordingPublisher) PublishCompleted(e domain.OnboardingCompletedEvent) {
	p.completed = append(p.completed, e)
}

type staticDirectory string

func (d staticDirectory) AdvisorName(context.Context, uint64) (string, error) {
	return string(d), nil
}

func newTestService() (*OnboardingService, *fakeRepository, *recordingPublisher) {
	repo := newFakeRepository()
	events := &recordingPublisher{}
	return NewOnboardingService(repo, events, staticDirectory("Morgan Reed")), repo, events
}

func TestGetStep(t *testing.T) {
	ctx := context.Background()

	t.Run("first touch creates a NOT_STARTED record", func(t *testing.T) {
		svc, _, _ := newTestService()
		state, err := svc.GetStep(ctx, 1, 100, altinvestment.FormID, "step1")
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusNotStarted), state.Status)
		assert.Equal(t, "step1.orderBasics", state.CurrentQuestionID)
	})

	t.Run("unknown form is an error", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.GetStep(ctx, 1, 100, "no-such-form", "step1")
		assert.Error(t, err)
	})

	t.Run("advisor name is prefilled but never overwrites", func(t *testing.T) {
		svc, _, _ := newTestService()
		state, err := svc.GetStep(ctx, 1, 100, investorprofile.FormID, "step1")
		require.NoError(t, err)
		assert.Equal(t, "Morgan Reed", state.Fields.String("rrName"))

		_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, investorprofile.FormID, "step1", "step1.advisor", map[string]any{
			"rrName":   "Typed By User",
			"rrNumber": "R-7",
		})
		require.NoError(t, err)
		require.Nil(t, rejection)

		state, err = svc.GetStep(ctx, 1, 100, investorprofile.FormID, "step1")
		require.NoError(t, err)
		assert.Equal(t, "Typed By User", state.Fields.String("rrName"))
	})

	t.Run("legacy profile columns feed the fallback chain", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.legacy[100] = &domain.LegacyClientProfile{
			ClientID:           100,
			FirstName:          "Ada",
			LastName:           "Lovelace",
			CitizenshipCountry: "GB",
		}
		state, err := svc.GetStep(ctx, 1, 100, investorprofile.FormID, "step1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", state.Fields.String("firstName"))
		assert.Equal(t, "GB", state.Fields.String("countryOfCitizenship"))
	})
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection carries field errors and persists nothing", func(t *testing.T) {
		svc, repo, events := newTestService()
		state, rejection, err := svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.orderBasics", map[string]any{
			"proposedPrincipalAmount": float64(1000),
			"qualifiedAccount":        map[string]any{"yes": true, "no": true},
		})
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Nil(t, state)
		assert.Contains(t, rejection.FieldErrors["step1.orderBasics.qualifiedAccount"], "exactly one")

		stored := repo.records[recordKey(100, altinvestment.FormID, "step1")]
		assert.Equal(t, domain.StatusNotStarted, stored.Status)
		assert.Empty(t, events.started)
	})

	t.Run("first accepted answer starts the step and publishes", func(t *testing.T) {
		svc, _, events := newTestService()
		state, rejection, err := svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.orderBasics", map[string]any{
			"proposedPrincipalAmount": float64(1000),
			"qualifiedAccount":        map[string]any{"no": true},
		})
		require.NoError(t, err)
		require.Nil(t, rejection)
		assert.Equal(t, string(domain.StatusInProgress), state.Status)
		require.Len(t, events.started, 1)
		assert.Equal(t, uint64(100), events.started[0].ClientID)

		// 第二条答案不再重复发布
		_, rejection, err = svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.orderBasics", map[string]any{
			"proposedPrincipalAmount": float64(2000),
			"qualifiedAccount":        map[string]any{"no": true},
		})
		require.NoError(t, err)
		require.Nil(t, rejection)
		assert.Len(t, events.started, 1)
	})

	t.Run("unknown question id yields a rejection", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.bogus", map[string]any{})
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Equal(t, "Unsupported onboarding question.", rejection.FieldErrors["step1.bogus"])
	})

	t.Run("concurrent modification surfaces ErrVersionConflict", func(t *testing.T) {
		svc, repo, _ := newTestService()
		_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.orderBasics", map[string]any{
			"proposedPrincipalAmount": float64(1000),
			"qualifiedAccount":        map[string]any{"no": true},
		})
		require.NoError(t, err)
		require.Nil(t, rejection)

		// 模拟并发写：后台版本前进，下一次提交的读改写失配
		stored := repo.records[recordKey(100, altinvestment.FormID, "step1")]
		stored.Version += 5

		_, _, err = svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step1", "step1.orderBasics", map[string]any{
			"proposedPrincipalAmount": float64(3000),
			"qualifiedAccount":        map[string]any{"no": true},
		})
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("joint account type drives the signature context across forms", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, investorprofile.FormID, "step2", "step2.primaryAccountType", map[string]any{
			"primaryAccountType": map[string]any{"joint": true},
		})
		require.NoError(t, err)
		require.Nil(t, rejection)

		_, rejection, err = svc.SubmitAnswer(ctx, 1, 100, altinvestment.FormID, "step5", "step5.signatures", map[string]any{
			"clientSignature": map[string]any{
				"typedSignature": "Ada",
				"printedName":    "Ada Lovelace",
				"date":           "2024-03-01",
			},
		})
		require.NoError(t, err)
		require.NotNil(t, rejection, "joint account requires the joint owner signature")
		assert.Contains(t, rejection.FieldErrors, "step5.signatures.jointOwnerSignature.typedSignature")
	})
}

func completeSfc(t *testing.T, svc *OnboardingService) {
	t.Helper()
	ctx := context.Background()

	_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, sfc.FormID, "step1", "step1.liquidNonQualifiedAssets", map[string]any{
		"cashMoneyMarketsCds": float64(100),
	})
	require.NoError(t, err)
	require.Nil(t, rejection)

	_, rejection, err = svc.SubmitAnswer(ctx, 1, 100, sfc.FormID, "step2", "step2.certification", map[string]any{
		"accuracyCertification": true,
		"clientSignature": map[string]any{
			"typedSignature": "Ada",
			"printedName":    "Ada Lovelace",
			"date":           "2024-03-01",
		},
	})
	require.NoError(t, err)
	require.Nil(t, rejection)
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	t.Run("untouched form reviews as NOT_STARTED with errors", func(t *testing.T) {
		svc, _, _ := newTestService()
		result, err := svc.Review(ctx, 1, 100, sfc.FormID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusNotStarted), result.Status)
		assert.NotEmpty(t, result.FieldErrors)
	})

	t.Run("zero errors marks every step COMPLETED and publishes", func(t *testing.T) {
		svc, repo, events := newTestService()
		completeSfc(t, svc)

		result, err := svc.Review(ctx, 1, 100, sfc.FormID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), result.Status)
		assert.Empty(t, result.FieldErrors)
		require.Len(t, events.completed, 1)

		for _, stepID := range []string{"step1", "step2"} {
			stored := repo.records[recordKey(100, sfc.FormID, stepID)]
			assert.Equal(t, domain.StatusCompleted, stored.Status)
		}
	})

	t.Run("later edits that break requirements reopen completed steps", func(t *testing.T) {
		svc, repo, _ := newTestService()
		completeSfc(t, svc)

		result, err := svc.Review(ctx, 1, 100, sfc.FormID)
		require.NoError(t, err)
		require.Equal(t, string(domain.StatusCompleted), result.Status)

		// 撤回认证项后复核应失败并回退 COMPLETED
		_, rejection, err := svc.SubmitAnswer(ctx, 1, 100, sfc.FormID, "step2", "step2.certification", map[string]any{
			"accuracyCertification": true,
			"clientSignature": map[string]any{
				"typedSignature": "Ada",
				"printedName":    "Ada Lovelace",
				"date":           "2024-03-01",
			},
		})
		require.NoError(t, err)
		require.Nil(t, rejection)

		stored := repo.records[recordKey(100, sfc.FormID, "step2")]
		stored.FieldsData = `{"accuracyCertification": false}`

		result, err = svc.Review(ctx, 1, 100, sfc.FormID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusInProgress), result.Status)
		assert.Contains(t, result.FieldErrors, "step2.certification.accuracyCertification")

		assert.Equal(t, domain.StatusInProgress, repo.records[recordKey(100, sfc.FormID, "step2")].Status)
	})
}

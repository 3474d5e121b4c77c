// Package application 开户问卷应用层
// 生成摘要：
// 1) GetStep 读取并归一化步骤状态（首次触达 upsert，预填不覆盖已有值）
// 2) SubmitAnswer 校验、应用、推进索引并以比较交换写回
// 3) Review 跨步骤完成度复核，驱动 COMPLETED 状态机
package application

import (
	"context"
	"time"

	"github.com/wyfcoding/clientonboarding/internal/forms"
	"github.com/wyfcoding/clientonboarding/internal/forms/investorprofile"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
	"github.com/wyfcoding/clientonboarding/pkg/logger"
)

// AdvisorDirectory 查询经纪人姓名，用于顾问字段预填
type AdvisorDirectory interface {
	AdvisorName(ctx context.Context, brokerID uint64) (string, error)
}

// OnboardingService 开户问卷应用服务
type OnboardingService struct {
	repo     domain.OnboardingRepository
	events   domain.EventPublisher
	advisors AdvisorDirectory
}

// NewOnboardingService 创建开户问卷应用服务
func NewOnboardingService(repo domain.OnboardingRepository, events domain.EventPublisher, advisors AdvisorDirectory) *OnboardingService {
	if events == nil {
		events = messagingNoop{}
	}
	return &OnboardingService{repo: repo, events: events, advisors: advisors}
}

type messagingNoop struct{}

func (messagingNoop) PublishStarted(domain.OnboardingStartedEvent)     {}
func (messagingNoop) PublishCompleted(domain.OnboardingCompletedEvent) {}

// GetStep 读取步骤状态；首次触达创建 NOT_STARTED 记录
func (s *OnboardingService) GetStep(ctx context.Context, brokerID, clientID uint64, formID, stepID string) (*StepState, error) {
	schema, err := forms.LookupStep(formID, stepID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetOrCreate(ctx, clientID, formID, stepID)
	if err != nil {
		return nil, err
	}

	qctx, err := s.buildContext(ctx, brokerID, clientID, formID, stepID)
	if err != nil {
		return nil, err
	}

	fields := schema.Normalize(record.RawFields(), qctx)
	fields = questionnaire.ApplyPrefill(fields, qctx.Prefill)

	return s.stepState(schema, record, fields, qctx), nil
}

// SubmitAnswer 校验并应用单条答案
// 返回值三选一：成功的新状态、校验失败详情、或基础设施错误（含版本冲突）
func (s *OnboardingService) SubmitAnswer(ctx context.Context, brokerID, clientID uint64, formID, stepID, questionID string, answer any) (*StepState, *AnswerRejection, error) {
	schema, err := forms.LookupStep(formID, stepID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.repo.GetOrCreate(ctx, clientID, formID, stepID)
	if err != nil {
		return nil, nil, err
	}

	qctx, err := s.buildContext(ctx, brokerID, clientID, formID, stepID)
	if err != nil {
		return nil, nil, err
	}

	fields := schema.Normalize(record.RawFields(), qctx)

	result := schema.ValidateAnswerAgainst(fields, questionID, answer, qctx)
	if !result.Success {
		return nil, &AnswerRejection{
			Message:     "Validation failed.",
			FieldErrors: result.FieldErrors,
		}, nil
	}

	fields = schema.ApplyAnswer(fields, questionID, result.Value, qctx)

	// 当前问题索引推进到 min(已答索引+1, 最后可见索引)
	visible := schema.VisibleQuestionIDs(fields, qctx)
	answeredIndex := indexOf(visible, questionID)
	nextIndex := questionnaire.ClampQuestionIndex(answeredIndex+1, visible)

	started := record.AcceptAnswer(nextIndex)
	if err := record.SetFields(fields); err != nil {
		return nil, nil, err
	}

	if err := s.repo.UpdateWithVersion(ctx, record); err != nil {
		return nil, nil, err
	}

	if started {
		s.events.PublishStarted(domain.OnboardingStartedEvent{
			ClientID:  clientID,
			FormID:    formID,
			StepID:    stepID,
			Timestamp: time.Now(),
		})
	}

	return s.stepState(schema, record, fields, qctx), nil, nil
}

// Review 对表单全部步骤重跑完成度校验，驱动状态机
// 零错误 ⇒ 全部步骤记录标记 COMPLETED；否则已完成的记录回退 IN_PROGRESS
func (s *OnboardingService) Review(ctx context.Context, brokerID, clientID uint64, formID string) (*ReviewResult, error) {
	defer logger.LogDuration(ctx, "onboarding review", "client_id", clientID, "form_id", formID)()

	schemas, err := forms.Lookup(formID)
	if err != nil {
		return nil, err
	}

	allErrors := questionnaire.FieldErrors{}
	records := make([]*domain.OnboardingRecord, 0, len(schemas))

	for _, schema := range schemas {
		qctx, err := s.buildContext(ctx, brokerID, clientID, formID, schema.Step)
		if err != nil {
			return nil, err
		}

		record, err := s.repo.GetOrCreate(ctx, clientID, formID, schema.Step)
		if err != nil {
			return nil, err
		}
		records = append(records, record)

		fields := schema.Normalize(record.RawFields(), qctx)
		// 问题 ID 自带 stepN. 前缀，跨步骤合并后路径仍然唯一
		allErrors.Merge(schema.ValidateCompletion(fields, qctx))
	}

	status := domain.StatusInProgress
	if len(allErrors) == 0 {
		status = domain.StatusCompleted
		for _, record := range records {
			if record.Status == domain.StatusCompleted {
				continue
			}
			record.MarkCompleted()
			if err := s.repo.UpdateWithVersion(ctx, record); err != nil {
				return nil, err
			}
		}
		s.events.PublishCompleted(domain.OnboardingCompletedEvent{
			ClientID:  clientID,
			FormID:    formID,
			Timestamp: time.Now(),
		})
	} else {
		// 后续编辑使此前满足的字段失效：COMPLETED 回退
		for _, record := range records {
			if record.Status != domain.StatusCompleted {
				continue
			}
			record.Reopen()
			if err := s.repo.UpdateWithVersion(ctx, record); err != nil {
				return nil, err
			}
		}
		if allNotStarted(records) {
			status = domain.StatusNotStarted
		}
	}

	return &ReviewResult{
		FormID:      formID,
		Status:      string(status),
		FieldErrors: allErrors,
	}, nil
}

// buildContext 组装跨表单上下文：顾问预填、遗留档案回退、共同持有人签名标志
func (s *OnboardingService) buildContext(ctx context.Context, brokerID, clientID uint64, formID, stepID string) (questionnaire.Context, error) {
	qctx := questionnaire.Context{}

	// 共同持有人签名要求由投资者概况表步骤二的账户类型派生
	accountTypeRecord, err := s.repo.Get(ctx, clientID, investorprofile.FormID, "step2")
	if err != nil {
		return qctx, err
	}
	if accountTypeRecord != nil {
		fields := questionnaire.FieldRecord(accountTypeRecord.RawFields())
		qctx.RequiresJointOwnerSignature = fields.Flag("primaryAccountType", "joint")
	}

	if formID == investorprofile.FormID && stepID == "step1" {
		legacy, err := s.repo.GetLegacyProfile(ctx, clientID)
		if err != nil {
			return qctx, err
		}
		if legacy != nil {
			qctx.Legacy = map[string]any{
				"firstName":            legacy.FirstName,
				"lastName":             legacy.LastName,
				"countryOfCitizenship": legacy.CitizenshipCountry,
			}
		}

		if s.advisors != nil {
			name, err := s.advisors.AdvisorName(ctx, brokerID)
			if err != nil {
				logger.Warn(ctx, "failed to resolve advisor name for prefill", "broker_id", brokerID, "error", err)
			} else if name != "" {
				qctx.Prefill = map[string]string{"rrName": name}
			}
		}
	}

	return qctx, nil
}

func (s *OnboardingService) stepState(schema *questionnaire.StepSchema, record *domain.OnboardingRecord, fields questionnaire.FieldRecord, qctx questionnaire.Context) *StepState {
	visible := schema.VisibleQuestionIDs(fields, qctx)
	index := questionnaire.ClampQuestionIndex(record.CurrentQuestionIndex, visible)

	currentID := ""
	if len(visible) > 0 {
		currentID = visible[index]
	}

	return &StepState{
		FormID:               schema.Form,
		StepID:               schema.Step,
		Status:               string(record.Status),
		Fields:               fields,
		VisibleQuestionIDs:   visible,
		CurrentQuestionIndex: index,
		CurrentQuestionID:    currentID,
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func allNotStarted(records []*domain.OnboardingRecord) bool {
	for _, record := range records {
		if record.Status != domain.StatusNotStarted {
			return false
		}
	}
	return true
}

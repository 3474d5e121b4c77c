package domain

import "time"

// 事件类型
const (
	OnboardingStartedEventType   = "OnboardingStartedEvent"
	OnboardingCompletedEventType = "OnboardingCompletedEvent"
)

// OnboardingStartedEvent 某表单首条答案被接受
type OnboardingStartedEvent struct {
	ClientID  uint64    `json:"client_id"`
	FormID    string    `json:"form_id"`
	StepID    string    `json:"step_id"`
	Timestamp time.Time `json:"timestamp"`
}

// OnboardingCompletedEvent 某表单全部步骤完成度校验通过
type OnboardingCompletedEvent struct {
	ClientID  uint64    `json:"client_id"`
	FormID    string    `json:"form_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 生命周期事件发布接口
// 发布失败只记录日志，绝不阻塞请求路径
type EventPublisher interface {
	PublishStarted(event OnboardingStartedEvent)
	PublishCompleted(event OnboardingCompletedEvent)
}

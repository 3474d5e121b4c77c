package application

import "github.com/wyfcoding/clientonboarding/internal/questionnaire"

// StepState 步骤状态响应：归一化记录、可见问题列表与收敛后的当前问题索引
type StepState struct {
	FormID               string                    `json:"formId"`
	StepID               string                    `json:"stepId"`
	Status               string                    `json:"status"`
	Fields               questionnaire.FieldRecord `json:"fields"`
	VisibleQuestionIDs   []string                  `json:"visibleQuestionIds"`
	CurrentQuestionIndex int                       `json:"currentQuestionIndex"`
	CurrentQuestionID    string                    `json:"currentQuestionId"`
}

// AnswerRejection 答案校验失败响应（HTTP 400 形态）
type AnswerRejection struct {
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// ReviewResult 完成度复核结果；FieldErrors 为空即表单完成
type ReviewResult struct {
	FormID      string            `json:"formId"`
	Status      string            `json:"status"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// Package domain 开户问卷领域层
// 生成摘要：
// 1) 定义每客户、每表单、每步骤的开户记录聚合根及其状态机
// 2) 定义遗留客户档案（三级回退链的最后一环）
package domain

import (
	"encoding/json"

	"gorm.io/gorm"
)

// OnboardingStatus 开户记录状态
type OnboardingStatus string

const (
	StatusNotStarted OnboardingStatus = "NOT_STARTED" // 已创建但尚无已接受的答案
	StatusInProgress OnboardingStatus = "IN_PROGRESS" // 至少一条答案被接受
	StatusCompleted  OnboardingStatus = "COMPLETED"   // 该表单全部步骤完成度校验通过
)

// OnboardingRecord 开户记录聚合根，按 客户+表单+步骤 唯一
// 字段数据以不透明 JSON 存储；version 列用于乐观并发控制
type OnboardingRecord struct {
	gorm.Model
	ClientID             uint64           `gorm:"column:client_id;uniqueIndex:idx_client_form_step;not null"`
	FormID               string           `gorm:"column:form_id;type:varchar(64);uniqueIndex:idx_client_form_step;not null"`
	StepID               string           `gorm:"column:step_id;type:varchar(32);uniqueIndex:idx_client_form_step;not null"`
	Status               OnboardingStatus `gorm:"column:status;type:varchar(20);not null;default:'NOT_STARTED'"`
	CurrentQuestionIndex int              `gorm:"column:current_question_index;not null;default:0"`
	FieldsData           string           `gorm:"column:fields_data;type:json"`
	Version              uint64           `gorm:"column:version;not null;default:0"`
}

// TableName 表名
func (OnboardingRecord) TableName() string {
	return "onboarding_records"
}

// RawFields 解析存储的 JSON 字段数据；畸形或空数据退化为空映射，从不报错
// 宽容解析与引擎的归一化契约一致：存储可以暂时无效，只有校验是严格的
func (r *OnboardingRecord) RawFields() map[string]any {
	if r.FieldsData == "" {
		return map[string]any{}
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(r.FieldsData), &raw); err != nil {
		return map[string]any{}
	}
	return raw
}

// SetFields 序列化字段记录写回存储
func (r *OnboardingRecord) SetFields(fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	r.FieldsData = string(data)
	return nil
}

// AcceptAnswer 接受一条答案后的状态推进：NOT_STARTED → IN_PROGRESS
func (r *OnboardingRecord) AcceptAnswer(nextQuestionIndex int) (started bool) {
	r.CurrentQuestionIndex = nextQuestionIndex
	if r.Status == StatusNotStarted {
		r.Status = StatusInProgress
		return true
	}
	return false
}

// MarkCompleted 完成度校验通过后标记完成
func (r *OnboardingRecord) MarkCompleted() {
	r.Status = StatusCompleted
}

// Reopen 后续编辑使此前满足的字段失效时，COMPLETED 回退到 IN_PROGRESS
// 无终态锁：每次写入都会重新校验
func (r *OnboardingRecord) Reopen() {
	if r.Status == StatusCompleted {
		r.Status = StatusInProgress
	}
}

// LegacyClientProfile 迁移前系统的客户档案扁平列
// 投资者概况表步骤一的回退链末环：嵌套 JSON → 扁平遗留键 → 本表列
type LegacyClientProfile struct {
	gorm.Model
	ClientID           uint64 `gorm:"column:client_id;uniqueIndex;not null"`
	FirstName          string `gorm:"column:first_name;type:varchar(64)"`
	LastName           string `gorm:"column:last_name;type:varchar(64)"`
	CitizenshipCountry string `gorm:"column:citizenship_country;type:varchar(2)"`
}

// TableName 表名
func (LegacyClientProfile) TableName() string {
	return "legacy_client_profiles"
}

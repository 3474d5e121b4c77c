// Package mysql 开户记录仓储的 GORM 实现
package mysql

import (
	"context"

	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"gorm.io/gorm"
)

// OnboardingRepositoryImpl 开户记录仓储实现
type OnboardingRepositoryImpl struct {
	db *gorm.DB
}

// NewOnboardingRepository 创建开户记录仓储
func NewOnboardingRepository(db *gorm.DB) domain.OnboardingRepository {
	return &OnboardingRepositoryImpl{db: db}
}

// GetOrCreate 首次触达时创建 NOT_STARTED 记录
func (r *OnboardingRepositoryImpl) GetOrCreate(ctx context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	record := &domain.OnboardingRecord{
		ClientID: clientID,
		FormID:   formID,
		StepID:   stepID,
		Status:   domain.StatusNotStarted,
	}
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND form_id = ? AND step_id = ?", clientID, formID, stepID).
		FirstOrCreate(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Get 查询单条记录，不存在返回 nil
func (r *OnboardingRepositoryImpl) Get(ctx context.Context, clientID uint64, formID, stepID string) (*domain.OnboardingRecord, error) {
	var record domain.OnboardingRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND form_id = ? AND step_id = ?", clientID, formID, stepID).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateWithVersion 比较交换写回：WHERE version = 读取时的值
// 命中零行即有并发写入者抢先，返回 ErrVersionConflict 由调用方决定重试或上报
func (r *OnboardingRepositoryImpl) UpdateWithVersion(ctx context.Context, record *domain.OnboardingRecord) error {
	result := r.db.WithContext(ctx).
		Model(&domain.OnboardingRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{
			"status":                 record.Status,
			"current_question_index": record.CurrentQuestionIndex,
			"fields_data":            record.FieldsData,
			"version":                record.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	record.Version++
	return nil
}

// GetLegacyProfile 查询遗留客户档案，不存在返回 nil
func (r *OnboardingRepositoryImpl) GetLegacyProfile(ctx context.Context, clientID uint64) (*domain.LegacyClientProfile, error) {
	var profile domain.LegacyClientProfile
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

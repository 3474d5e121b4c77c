package domain

import (
	"context"
	"errors"
)

// ErrVersionConflict 乐观并发冲突：记录在读取与写回之间被并发修改
var ErrVersionConflict = errors.New("onboarding record was modified concurrently")

// OnboardingRepository 开户记录仓储接口
type OnboardingRepository interface {
	// GetOrCreate 首次 GET 触达时创建 NOT_STARTED 记录（upsert 语义）
	GetOrCreate(ctx context.Context, clientID uint64, formID, stepID string) (*OnboardingRecord, error)
	// Get 查询单条记录，不存在返回 nil
	Get(ctx context.Context, clientID uint64, formID, stepID string) (*OnboardingRecord, error)
	// UpdateWithVersion 基于 version 列的比较交换写回；失配返回 ErrVersionConflict
	UpdateWithVersion(ctx context.Context, record *OnboardingRecord) error
	// GetLegacyProfile 查询遗留客户档案，不存在返回 nil
	GetLegacyProfile(ctx context.Context, clientID uint64) (*LegacyClientProfile, error)
}

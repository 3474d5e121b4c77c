// Package mysql 经纪人仓储的 GORM 实现
package mysql

import (
	"context"

	"github.com/wyfcoding/clientonboarding/internal/auth/domain"
	"gorm.io/gorm"
)

// BrokerRepositoryImpl 经纪人仓储实现
type BrokerRepositoryImpl struct {
	db *gorm.DB
}

// NewBrokerRepository 创建经纪人仓储
func NewBrokerRepository(db *gorm.DB) domain.BrokerRepository {
	return &BrokerRepositoryImpl{db: db}
}

// Save 保存经纪人账户
func (r *BrokerRepositoryImpl) Save(ctx context.Context, broker *domain.Broker) error {
	return r.db.WithContext(ctx).Save(broker).Error
}

// GetByID 按 ID 查询，不存在返回 ErrBrokerNotFound
func (r *BrokerRepositoryImpl) GetByID(ctx context.Context, id uint64) (*domain.Broker, error) {
	var broker domain.Broker
	err := r.db.WithContext(ctx).First(&broker, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

// GetByEmail 按邮箱查询，不存在返回 ErrBrokerNotFound
func (r *BrokerRepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.Broker, error) {
	var broker domain.Broker
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&broker).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrBrokerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

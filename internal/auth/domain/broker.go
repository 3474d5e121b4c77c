// Package domain 经纪人认证领域层
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBrokerNotFound     = errors.New("broker not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
)

// Broker 经纪人账户
type Broker struct {
	gorm.Model
	Email        string `gorm:"column:email;type:varchar(100);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null"`
	FullName     string `gorm:"column:full_name;type:varchar(100);not null"`
	RRNumber     string `gorm:"column:rr_number;type:varchar(20)"`
	Active       bool   `gorm:"column:active;not null;default:true"`
}

// TableName 表名
func (Broker) TableName() string {
	return "brokers"
}

// BrokerRepository 经纪人仓储接口
type BrokerRepository interface {
	Save(ctx context.Context, broker *Broker) error
	GetByID(ctx context.Context, id uint64) (*Broker, error)
	GetByEmail(ctx context.Context, email string) (*Broker, error)
}

// AuthSession 经纪人认证会话
type AuthSession struct {
	Token     string    `json:"token"`
	BrokerID  uint64    `json:"broker_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired 会话是否已过期
func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionRepository 会话仓储接口（通常仅实现 Redis 版本）
type SessionRepository interface {
	Save(ctx context.Context, session *AuthSession) error
	Get(ctx context.Context, token string) (*AuthSession, error)
	Delete(ctx context.Context, token string) error
}

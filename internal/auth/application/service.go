// Package application 经纪人认证应用层
// 生成摘要：
// 1) 注册（bcrypt 哈希）、登录（签发 JWT 并落 Redis 会话）、登出
// 2) 实现开户服务的 AdvisorDirectory 与会话中间件的 SessionChecker
package application

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/clientonboarding/internal/auth/domain"
	"github.com/wyfcoding/clientonboarding/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 经纪人认证应用服务
type AuthService struct {
	brokers    domain.BrokerRepository
	sessions   domain.SessionRepository
	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewAuthService 创建认证应用服务
func NewAuthService(brokers domain.BrokerRepository, sessions domain.SessionRepository, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		brokers:    brokers,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

// Register 注册经纪人账户
func (s *AuthService) Register(ctx context.Context, email, password, fullName, rrNumber string) (uint64, error) {
	if _, err := s.brokers.GetByEmail(ctx, email); err == nil {
		return 0, domain.ErrEmailRegistered
	} else if !errors.Is(err, domain.ErrBrokerNotFound) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	broker := &domain.Broker{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		RRNumber:     rrNumber,
		Active:       true,
	}
	if err := s.brokers.Save(ctx, broker); err != nil {
		return 0, err
	}
	return uint64(broker.ID), nil
}

// Login 校验凭据，签发 JWT 并持久化会话
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error) {
	broker, err := s.brokers.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if !broker.Active {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(broker.PasswordHash), []byte(password)) != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt = now.Add(s.sessionTTL)

	claims := middleware.SessionClaims{
		BrokerID: uint64(broker.ID),
		Email:    broker.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   broker.Email,
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.AuthSession{
		Token:     token,
		BrokerID:  uint64(broker.ID),
		Email:     broker.Email,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Logout 注销会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Check 实现 middleware.SessionChecker：JWT 有效之外会话也须未被注销
func (s *AuthService) Check(ctx context.Context, token string) (bool, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return false, err
	}
	if session == nil || session.IsExpired() {
		return false, nil
	}
	return true, nil
}

// AdvisorName 实现开户服务的 AdvisorDirectory，用于顾问字段预填
func (s *AuthService) AdvisorName(ctx context.Context, brokerID uint64) (string, error) {
	broker, err := s.brokers.GetByID(ctx, brokerID)
	if err != nil {
		return "", err
	}
	return broker.FullName, nil
}

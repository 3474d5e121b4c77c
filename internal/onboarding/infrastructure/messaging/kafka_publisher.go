// Package messaging 开户生命周期事件的 Kafka 发布实现
package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/clientonboarding/pkg/logger"
	"github.com/wyfcoding/clientonboarding/pkg/mq"
)

// KafkaEventPublisher 实现 EventPublisher 接口
// 发布失败只记录日志：事件是通知性质，不允许阻塞答案写入路径
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishStarted 发布开户开始事件
func (p *KafkaEventPublisher) PublishStarted(event domain.OnboardingStartedEvent) {
	p.publish(domain.OnboardingStartedEventType, strconv.FormatUint(event.ClientID, 10), event)
}

// PublishCompleted 发布开户完成事件
func (p *KafkaEventPublisher) PublishCompleted(event domain.OnboardingCompletedEvent) {
	p.publish(domain.OnboardingCompletedEventType, strconv.FormatUint(event.ClientID, 10), event)
}

func (p *KafkaEventPublisher) publish(eventType, key string, event any) {
	ctx := context.Background()
	payload := map[string]any{
		"event_type": eventType,
		"payload":    event,
	}
	if err := p.producer.SendMessage(ctx, p.topic, key, payload); err != nil {
		logger.Error(ctx, "failed to publish onboarding event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

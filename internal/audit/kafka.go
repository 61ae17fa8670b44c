package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/loganrenz/trade-io-sub000/pkg/logger"
)

// kafkaRecorder 基于 Kafka 的审计事件记录器
type kafkaRecorder struct {
	writer *kafka.Writer
}

// NewKafkaRecorder 创建 Kafka 审计记录器
func NewKafkaRecorder(brokers []string, topic string) Recorder {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &kafkaRecorder{writer: writer}
}

// Record 按账户 ID 分区投递，同账户事件保持有序
func (r *kafkaRecorder) Record(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "审计事件序列化失败", "event_id", event.EventID, "error", err)
		return
	}

	err = r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: payload,
	})
	if err != nil {
		logger.Error(ctx, "审计事件投递失败",
			"event_id", event.EventID,
			"type", event.Type,
			"error", err)
	}
}

func (r *kafkaRecorder) Close() error {
	return r.writer.Close()
}

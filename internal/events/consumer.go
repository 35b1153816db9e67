package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// VerdictHandler finalizes a waiting submission with the external
// grader's verdict.
type VerdictHandler func(ctx context.Context, verdict *GradingVerdict) error

// GradingVerdictConsumer subscribes to the grader's result topic and
// feeds verdicts back into the submission flow.
type GradingVerdictConsumer struct {
	subscriber message.Subscriber
	logger     *slog.Logger
	topic      string
	handler    VerdictHandler
}

type ConsumerConfig struct {
	KafkaBrokers  []string
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
	Handler       VerdictHandler
}

func NewGradingVerdictConsumer(config ConsumerConfig) (*GradingVerdictConsumer, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       config.KafkaBrokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return &GradingVerdictConsumer{
		subscriber: subscriber,
		logger:     config.Logger,
		topic:      config.Topic,
		handler:    config.Handler,
	}, nil
}

// Run consumes verdicts until ctx is cancelled. A verdict that cannot be
// decoded is acked and dropped; a handler failure nacks the message for
// redelivery.
func (c *GradingVerdictConsumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.topic, err)
	}

	for msg := range messages {
		var verdict GradingVerdict
		if err := json.Unmarshal(msg.Payload, &verdict); err != nil {
			c.logger.Error("Dropping malformed grading verdict",
				"message_id", msg.UUID,
				"error", err)
			msg.Ack()
			continue
		}

		if err := c.handler(ctx, &verdict); err != nil {
			c.logger.Error("Failed to apply grading verdict",
				"submission_id", verdict.SubmissionID,
				"error", err)
			msg.Nack()
			continue
		}

		c.logger.Info("Grading verdict applied",
			"submission_id", verdict.SubmissionID,
			"result", verdict.Result,
			"grade", verdict.Grade)
		msg.Ack()
	}
	return nil
}

func (c *GradingVerdictConsumer) Close() error {
	return c.subscriber.Close()
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// GradingJobPublisher hands submissions over to the external grading
// backend. The core never talks to the backend directly; this boundary is
// its only coupling.
type GradingJobPublisher interface {
	PublishGradingJob(ctx context.Context, job *GradingJob) error
	Close() error
}

// KafkaJobPublisher implements GradingJobPublisher using Watermill with
// Kafka.
type KafkaJobPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

type PublisherConfig struct {
	KafkaBrokers []string
	Topic        string
	Logger       *slog.Logger
}

func NewKafkaJobPublisher(config PublisherConfig) (*KafkaJobPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}
	return &KafkaJobPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topic:     config.Topic,
	}, nil
}

func (p *KafkaJobPublisher) PublishGradingJob(_ context.Context, job *GradingJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal grading job: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("submission_id", strconv.FormatUint(uint64(job.SubmissionID), 10))
	msg.Metadata.Set("course_id", job.CourseID)
	msg.Metadata.Set("task_id", job.TaskID)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish grading job",
			"submission_id", job.SubmissionID,
			"task_id", job.TaskID,
			"error", err)
		return fmt.Errorf("failed to publish grading job: %w", err)
	}

	p.logger.Info("Grading job published",
		"submission_id", job.SubmissionID,
		"course_id", job.CourseID,
		"task_id", job.TaskID,
		"environment", job.Environment)
	return nil
}

func (p *KafkaJobPublisher) Close() error {
	return p.publisher.Close()
}

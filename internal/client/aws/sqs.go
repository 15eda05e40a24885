package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/logger"
)

// SQSPublisher sends messages to a single SQS queue. The reconciliation job
// uses it to re-queue itself while more work remains.
type SQSPublisher struct {
	svc      *sqs.Client
	queueURL string
}

// NewSQSPublisher creates a publisher for the given queue URL using the
// default AWS configuration chain.
func NewSQSPublisher(ctx context.Context, queueURL string) (*SQSPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SQSPublisher{
		svc:      sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Publish sends a message body to the queue.
func (p *SQSPublisher) Publish(ctx context.Context, body string) error {
	out, err := p.svc.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send SQS message: %w", err)
	}

	logger.Debug("published SQS message",
		zap.String("queue_url", p.queueURL),
		zap.Stringp("message_id", out.MessageId))
	return nil
}

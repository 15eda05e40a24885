package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/logger"
)

// EmailService sends operational notifications. It is a no-op when no API
// key is configured, so local and test environments never touch the mail
// provider.
type EmailService struct {
	client    *resend.Client
	logger    *zap.Logger
	fromEmail string
	toEmail   string
	enabled   bool
}

func NewEmailService(apiKey, fromEmail, toEmail string) *EmailService {
	s := &EmailService{
		logger:    logger.Log,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   apiKey != "" && toEmail != "",
	}
	if s.enabled {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

// SendCaptureFailure notifies operators that a capture aborted part-way
// through an order's packages and may need manual reconciliation.
func (s *EmailService) SendCaptureFailure(ctx context.Context, orderID string, cause error) {
	subject := fmt.Sprintf("Tax capture failed for order %s", orderID)
	body := fmt.Sprintf(
		"Capturing tax for order %s aborted with: %v\n\n"+
			"Packages captured before the failure were not rolled back; "+
			"the order remains pending and can be retried.",
		orderID, cause)
	s.send(subject, body)
}

// SendReconciliationSummary mails the outcome of one reconciliation run.
func (s *EmailService) SendReconciliationSummary(ctx context.Context, results *ReconciliationResults) {
	subject := "Package reconciliation run summary"
	body := fmt.Sprintf(
		"Processed: %d\nRepaired: %d\nPackages removed: %d\nFailed: %d\n",
		results.Processed, results.Repaired, results.RemovedPackages, results.Failed)
	s.send(subject, body)
}

func (s *EmailService) send(subject, body string) {
	if !s.enabled {
		return
	}

	sent, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		s.logger.Error("failed to send notification email",
			zap.String("subject", subject),
			zap.Error(err))
		return
	}

	s.logger.Info("notification email sent",
		zap.String("email_id", sent.Id),
		zap.String("subject", subject))
}

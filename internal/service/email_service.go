package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"camphq/internal/config"
	"camphq/internal/metrics"
	"camphq/internal/models"
)

// EmailService sends transactional email through Amazon SES. When the
// sender address is not configured the service stays disabled and every
// send becomes a no-op, so local development needs no AWS credentials.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	baseURL   string
	enabled   bool
}

// NewEmailService creates an email service from configuration
func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SESFromEmail == "" {
		slog.Info("email service disabled, SES_FROM_EMAIL not set")
		return &EmailService{enabled: false}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.SESFromEmail,
		fromName:  cfg.SESFromName,
		baseURL:   cfg.AppBaseURL,
		enabled:   true,
	}, nil
}

// IsEnabled reports whether the service will actually send email
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendWelcomeEmail greets a newly registered parent
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	subject := "Welcome to CampHQ"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Your CampHQ parent account is ready. Log in to add your campers\r\n"+
			"and enroll them for the season.\r\n\r\n"+
			"%s\r\n\r\n"+
			"See you at camp!\r\n",
		fullName, s.baseURL)

	return s.send(ctx, toEmail, subject, body)
}

// SendEnrollmentStatusEmail tells a parent that an enrollment decision
// was made for their camper.
func (s *EmailService) SendEnrollmentStatusEmail(ctx context.Context, toEmail, fullName string, enr *models.Enrollment) error {
	camperName := "your camper"
	if enr.Camper != nil {
		camperName = enr.Camper.FullName()
	}
	yearLabel := ""
	if enr.CampYear != nil {
		yearLabel = fmt.Sprintf(" for camp %d", enr.CampYear.Year)
	}

	subject := fmt.Sprintf("Enrollment update: %s", camperName)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"The enrollment%s of %s is now \"%s\".\r\n",
		fullName, yearLabel, camperName, enr.Status)
	if enr.Notes != "" {
		body += fmt.Sprintf("\r\nNotes from the camp office:\r\n%s\r\n", enr.Notes)
	}
	body += fmt.Sprintf("\r\nLog in at %s for the details.\r\n", s.baseURL)

	return s.send(ctx, toEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, body string) error {
	if !s.IsEnabled() {
		slog.Debug("email service disabled, skipping send", "to", toEmail, "subject", subject)
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	})
	metrics.RecordEmail(err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent", "to", toEmail, "subject", subject)
	return nil
}

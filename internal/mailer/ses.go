// Package mailer delivers double opt-in confirmation emails over AWS SES v2.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/newsletter-optin/internal/config"
	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

const confirmationSubject = "Confirm your newsletter subscription"

// sendEmailAPI is the slice of the SES v2 client the mailer needs.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer implements subscription.Notifier over AWS SES v2.
type SESMailer struct {
	client   sendEmailAPI
	sender   string
	siteName string
	timeout  time.Duration
}

// New creates an SES-backed mailer. When AccessKey/SecretKey are empty the
// default AWS credential chain is used (IAM role on ECS).
func New(ctx context.Context, cfg appconfig.EmailConfig) (*SESMailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESMailer{
		client:   sesv2.NewFromConfig(awsCfg),
		sender:   cfg.Sender,
		siteName: cfg.SiteName,
		timeout:  cfg.Timeout(),
	}, nil
}

// SendConfirmation sends the confirmation email carrying confirmURL.
func (m *SESMailer) SendConfirmation(ctx context.Context, recipient, confirmURL string) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	body := confirmationBody(confirmURL, m.siteName)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(confirmationSubject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		logger.Error("confirmation email send failed", "recipient", recipient, "err", err)
		return fmt.Errorf("sending confirmation email: %w", err)
	}

	logger.Info("confirmation email sent", "recipient", recipient)
	return nil
}

// confirmationBody assembles the plain-text confirmation message.
func confirmationBody(confirmURL, siteName string) string {
	lines := []string{
		"Hello,",
		"",
		"Thank you for subscribing to our newsletter. Please confirm your subscription by clicking the link below:",
		"",
		confirmURL,
		"",
		"If you did not request this subscription, please ignore this email.",
		"",
		"Best regards,",
		siteName,
	}
	return strings.Join(lines, "\n")
}

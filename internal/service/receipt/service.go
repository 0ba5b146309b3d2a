package receipt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds receipt mailer configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (Mailhog or another relay, for development)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// Service mails payment receipts after a successful capture.
type Service struct {
	config   *Config
	provider Provider
	log      *zap.Logger
}

func NewService(config *Config, log *zap.Logger) (*Service, error) {
	s := &Service{config: config, log: log}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return s, nil
}

var _ ports.ReceiptSender = (*Service)(nil)

// SendPaymentReceipt mails a plain confirmation to the payer's contact email.
func (s *Service) SendPaymentReceipt(ctx context.Context, payment *domain.Payment) error {
	if payment.Email == "" {
		return fmt.Errorf("payment %s has no contact email", payment.ID)
	}

	subject := fmt.Sprintf("Payment received: %s %.2f", payment.Currency, payment.AmountMajor)
	body := fmt.Sprintf(
		"Your payment was captured successfully.\r\n\r\n"+
			"Payment ID: %s\r\nOrder ID: %s\r\nAmount: %s %.2f\r\nMethod: %s\r\n",
		payment.ID, payment.OrderID, payment.Currency, payment.AmountMajor, payment.Method,
	)

	if err := s.provider.Send(ctx, payment.Email, subject, body, false); err != nil {
		return err
	}

	s.log.Info("Payment receipt sent",
		zap.String("payment_id", payment.ID),
		zap.String("to", payment.Email))
	return nil
}

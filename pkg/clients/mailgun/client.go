package mailgun

import (
	"context"
	"fmt"
	"time"

	mailgunsdk "github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/config"
	"github.com/neurostream/intake/pkg/utils"
)

const sendTimeout = 30 * time.Second

// Message is a plain-text notification email
type Message struct {
	To      string
	Subject string
	Text    string
}

// Client defines the interface for sending notification emails via Mailgun
type Client interface {
	Send(ctx context.Context, msg Message) error
}

type clientImpl struct {
	cfg    config.EmailConfig
	sender sender
	log    *zap.Logger
}

// sender is the slice of the Mailgun SDK this client uses
type sender interface {
	NewMessage(from, subject, text string, to ...string) *mailgunsdk.Message
	Send(ctx context.Context, m *mailgunsdk.Message) (string, string, error)
}

// NewClient creates a Mailgun client, or returns an error when the
// configuration is incomplete.
func NewClient(cfg config.EmailConfig, log *zap.Logger) (Client, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	mg := mailgunsdk.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunAPIBase != "" {
		mg.SetAPIBase(cfg.MailgunAPIBase)
	}

	return &clientImpl{
		cfg:    cfg,
		sender: mg,
		log:    log.Named("mailgun"),
	}, nil
}

func (c *clientImpl) Send(ctx context.Context, msg Message) error {
	from := fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail)
	message := c.sender.NewMessage(from, msg.Subject, msg.Text, msg.To)

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, id, err := c.sender.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	c.log.Info("email sent",
		zap.String("to_hash", utils.HashString(msg.To)),
		zap.String("message_id", id))
	return nil
}

// validate checks that the configuration is complete
func validate(cfg config.EmailConfig) error {
	if cfg.MailgunDomain == "" {
		return fmt.Errorf("MAILGUN_DOMAIN is required")
	}
	if cfg.MailgunAPIKey == "" {
		return fmt.Errorf("MAILGUN_API_KEY is required")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required")
	}
	if cfg.FromName == "" {
		return fmt.Errorf("EMAIL_FROM_NAME is required")
	}
	return nil
}

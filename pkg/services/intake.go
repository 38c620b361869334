package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/clients/mailgun"
	"github.com/neurostream/intake/pkg/models"
	"github.com/neurostream/intake/pkg/properties"
	"github.com/neurostream/intake/pkg/sanitize"
	"github.com/neurostream/intake/pkg/sheet"
	"github.com/neurostream/intake/pkg/utils"
)

// Envelope messages are shown verbatim to API callers, hence the capitals.
var (
	ErrNoPayload        = errors.New("No data received")
	ErrMalformedPayload = errors.New("Invalid JSON payload")
	ErrMissingRequired  = errors.New("Missing required fields")
)

// IsInputError reports whether err was caused by the request body
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoPayload) || errors.Is(err, ErrMalformedPayload) || errors.Is(err, ErrMissingRequired)
}

// Envelope is the JSON success/error wrapper returned for every POST
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IntakeService defines the interface for persisting a submission and notifying the team
type IntakeService interface {
	// Process handles one POST body. The envelope is always well formed;
	// the error (nil on success) lets callers choose a status code.
	Process(ctx context.Context, body []byte) (Envelope, error)
	// Liveness is the fixed plaintext answer to GET
	Liveness() string
}

type intakeServiceImpl struct {
	variant Variant
	sheet   sheet.Sheet
	mailer  mailgun.Client
	props   properties.Store
	log     *zap.Logger
	now     func() time.Time
}

// NewIntakeService creates the service for one form variant. mailer may be
// nil, in which case notifications are skipped with a warning.
func NewIntakeService(
	variant Variant,
	store sheet.Sheet,
	mailer mailgun.Client,
	props properties.Store,
	log *zap.Logger,
) IntakeService {
	return &intakeServiceImpl{
		variant: variant,
		sheet:   store,
		mailer:  mailer,
		props:   props,
		log:     log.Named("intake").With(zap.String("form", string(variant.Kind))),
		now:     time.Now,
	}
}

func (s *intakeServiceImpl) Liveness() string {
	return s.variant.Liveness
}

func (s *intakeServiceImpl) Process(ctx context.Context, body []byte) (Envelope, error) {
	receivedAt := s.now()

	if len(bytes.TrimSpace(body)) == 0 {
		return s.fail(ErrNoPayload)
	}

	record, err := models.Decode(s.variant.Kind, body)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	// Stored content is plain text regardless of what the client sent
	record = record.Sanitized(sanitize.String)

	if missing := record.MissingRequired(); len(missing) > 0 {
		s.log.Info("rejected submission", zap.Strings("missing", missing))
		return s.fail(ErrMissingRequired)
	}

	if err := s.guard(func() error { return s.persist(ctx, record, receivedAt) }); err != nil {
		s.log.Error("error processing submission", zap.Error(err))
		return s.fail(err)
	}

	return Envelope{Success: true, Message: s.variant.SuccessMessage}, nil
}

// persist appends the row then sends the notification
func (s *intakeServiceImpl) persist(ctx context.Context, record models.Record, receivedAt time.Time) error {
	row := append([]string{receivedAt.UTC().Format(time.RFC3339)}, record.Values()...)
	if err := s.sheet.AppendRow(ctx, row); err != nil {
		return err
	}
	s.log.Info("stored submission", zap.String("email_hash", utils.HashString(emailOf(record))))

	to, ok, err := s.props.Get(properties.NotificationEmail)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("NOTIFICATION_EMAIL not configured, skipping notification")
		return nil
	}
	if s.mailer == nil {
		s.log.Warn("email client not configured, skipping notification")
		return nil
	}

	total, err := s.sheet.Count(ctx)
	if err != nil {
		return err
	}

	text, err := s.variant.EmailBody(record, receivedAt, total)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, mailgun.Message{
		To:      to,
		Subject: s.variant.EmailSubject,
		Text:    text,
	})
}

// guard turns a panic inside fn into an error so no fault escapes the request
func (s *intakeServiceImpl) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (s *intakeServiceImpl) fail(err error) (Envelope, error) {
	return Envelope{Success: false, Error: err.Error()}, err
}

func emailOf(r models.Record) string {
	for i, f := range r.Fields() {
		if f == "email" {
			return r.Values()[i]
		}
	}
	return ""
}

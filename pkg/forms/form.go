// Package forms drives a single contact or waitlist form instance: it keeps
// the sanitized field values, validates on submit, and posts the record to
// the configured intake endpoint.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/models"
	"github.com/neurostream/intake/pkg/sanitize"
	"github.com/neurostream/intake/pkg/validation"
)

var (
	ErrUnknownField          = errors.New("unknown field")
	ErrSubmitInProgress      = errors.New("submission already in progress")
	ErrEndpointNotConfigured = errors.New("endpoint not configured")
)

// State is where a form instance is in its submit cycle
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the terminal result of one Submit call
type Outcome int

const (
	OutcomeInvalid Outcome = iota + 1
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes what happened on submit
type Result struct {
	Outcome Outcome
	// Errors holds field errors when Outcome is OutcomeInvalid
	Errors validation.Errors
	// Message is the banner shown for OutcomeSuccess and OutcomeError
	Message string
	// Err is the transport or configuration failure behind OutcomeError
	Err error
	// Confirmed reports whether the server's reply was read. With the opaque
	// submitter it is always false: success only means the request went out.
	Confirmed bool
}

// EndpointSource yields the intake URL at submit time; "" means unconfigured
type EndpointSource func() string

// StaticEndpoint always returns u
func StaticEndpoint(u string) EndpointSource {
	return func() string { return u }
}

// EnvEndpoint reads the named environment variable on every submit
func EnvEndpoint(key string) EndpointSource {
	return func() string { return os.Getenv(key) }
}

// Form is one form instance. Methods are safe for concurrent use.
type Form struct {
	kind      models.Kind
	fields    []string
	endpoint  EndpointSource
	submitter Submitter
	banner    banner
	log       *zap.Logger

	mu     sync.Mutex
	state  State
	values map[string]string
	errs   validation.Errors
}

// New creates an empty form of the given kind
func New(kind models.Kind, endpoint EndpointSource, submitter Submitter, log *zap.Logger) (*Form, error) {
	b, ok := banners[kind]
	if !ok {
		return nil, fmt.Errorf("unknown form kind %q", kind)
	}

	fields := models.FieldNames(kind)
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = ""
	}

	return &Form{
		kind:      kind,
		fields:    fields,
		endpoint:  endpoint,
		submitter: submitter,
		banner:    b,
		log:       log.Named("form").With(zap.String("form", string(kind))),
		values:    values,
	}, nil
}

// Kind returns which form this is
func (f *Form) Kind() models.Kind {
	return f.kind
}

// Fields returns the field names in display order
func (f *Form) Fields() []string {
	return append([]string(nil), f.fields...)
}

// Set stores the sanitized value of one field and clears that field's error
func (f *Form) Set(field, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.values[field] = sanitize.String(raw)
	delete(f.errs, field)
	return nil
}

// Value returns the current value of a field
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every field value
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the outstanding field errors
func (f *Form) Errors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errs)
}

// State returns the current submit state
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates the form and, if valid, posts it. While a submission is
// in flight further calls fail with ErrSubmitInProgress and send nothing.
// The form is idle again when Submit returns.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	}
	f.state = StateValidating

	record, err := models.FromValues(f.kind, f.values)
	if err != nil {
		f.state = StateIdle
		f.mu.Unlock()
		return Result{}, err
	}

	if errs := validation.Validate(record); errs != nil {
		f.errs = errs
		f.state = StateIdle
		f.mu.Unlock()
		f.log.Debug("form validation failed", zap.Int("fields", len(errs)))
		return Result{Outcome: OutcomeInvalid, Errors: copyErrors(errs)}, nil
	}

	f.errs = nil
	f.state = StateSubmitting
	endpoint := f.endpoint()
	f.mu.Unlock()

	receipt, err := f.send(ctx, endpoint, record)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle

	if err != nil {
		f.log.Error("error submitting form", zap.Error(err))
		return Result{Outcome: OutcomeError, Message: f.banner.failure, Err: err}, nil
	}

	for k := range f.values {
		f.values[k] = ""
	}
	return Result{Outcome: OutcomeSuccess, Message: f.banner.success, Confirmed: receipt.Confirmed}, nil
}

func (f *Form) send(ctx context.Context, endpoint string, record models.Record) (Receipt, error) {
	if endpoint == "" {
		return Receipt{}, ErrEndpointNotConfigured
	}

	body, err := json.Marshal(record)
	if err != nil {
		return Receipt{}, fmt.Errorf("error encoding form: %w", err)
	}

	f.log.Info("submitting form")
	return f.submitter.Submit(ctx, endpoint, body)
}

func copyErrors(errs validation.Errors) validation.Errors {
	if errs == nil {
		return nil
	}
	out := make(validation.Errors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

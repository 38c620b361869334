package services

import (
	"fmt"
	"time"

	"github.com/aymerick/raymond"

	"github.com/neurostream/intake/pkg/models"
)

// Variant holds the per-form wording of an intake deployment
type Variant struct {
	Kind           models.Kind
	SuccessMessage string
	Liveness       string
	EmailSubject   string
	email          *raymond.Template
}

// Notification bodies are plain text, so values use triple-stash (no HTML escaping)
var contactEmail = raymond.MustParse(`New contact form submission:

Name: {{{name}}}
Email: {{{email}}}
Company: {{#if company}}{{{company}}}{{else}}Not provided{{/if}}
Subject: {{{subject}}}
Message: {{{message}}}
Time: {{{time}}}

Total submissions: {{total}}`)

var waitlistEmail = raymond.MustParse(`New waitlist signup:

Name: {{{firstName}}} {{{lastName}}}
Email: {{{email}}}
Company: {{{company}}}
Role: {{{role}}}
Use Case: {{#if useCase}}{{{useCase}}}{{else}}Not provided{{/if}}
Time: {{{time}}}

Total signups: {{total}}`)

var variants = map[models.Kind]Variant{
	models.KindContact: {
		Kind:           models.KindContact,
		SuccessMessage: "Message sent successfully",
		Liveness:       "NeuroStream Contact API is working!",
		EmailSubject:   "New NeuroStream Contact Form Submission",
		email:          contactEmail,
	},
	models.KindWaitlist: {
		Kind:           models.KindWaitlist,
		SuccessMessage: "Successfully added to waitlist",
		Liveness:       "NeuroStream Waitlist API is working!",
		EmailSubject:   "New NeuroStream Waitlist Signup",
		email:          waitlistEmail,
	},
}

// VariantFor returns the wording for a form kind
func VariantFor(kind models.Kind) (Variant, error) {
	v, ok := variants[kind]
	if !ok {
		return Variant{}, fmt.Errorf("unknown form kind %q", kind)
	}
	return v, nil
}

// EmailBody renders the notification text for a stored record
func (v Variant) EmailBody(r models.Record, receivedAt time.Time, total int) (string, error) {
	ctx := make(map[string]interface{}, len(r.Fields())+2)
	values := r.Values()
	for i, f := range r.Fields() {
		ctx[f] = values[i]
	}
	ctx["time"] = receivedAt.UTC().Format(time.RFC1123)
	ctx["total"] = total

	body, err := v.email.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("error rendering %s email: %w", v.Kind, err)
	}
	return body, nil
}

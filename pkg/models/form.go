package models

import "fmt"

// Kind identifies which form a record came from
type Kind string

const (
	KindContact  Kind = "contact"
	KindWaitlist Kind = "waitlist"
)

// ParseKind converts a configuration value into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindContact, KindWaitlist:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown form kind %q", s)
}

// Roles is the closed list of roles offered by the waitlist form
var Roles = []string{
	"Data Engineer",
	"Analytics Engineer",
	"Data Analyst",
	"ML Engineer",
	"Product Manager",
	"Engineering Manager",
	"CTO/VP Engineering",
	"Other",
}

// IsRole reports whether s is one of Roles
func IsRole(s string) bool {
	for _, r := range Roles {
		if r == s {
			return true
		}
	}
	return false
}

// Record is a single user-submitted form payload
type Record interface {
	Kind() Kind
	// Fields returns the JSON field names in declared order
	Fields() []string
	// Values returns the field values in declared order
	Values() []string
	// MissingRequired returns the names of required fields that are empty
	MissingRequired() []string
	// Sanitized returns a copy with clean applied to every field
	Sanitized(clean func(string) string) Record
}

// Represents the data structure coming from the contact page form
type ContactRecord struct {
	Name    string `json:"name" validate:"required,max=100,personname"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Company string `json:"company" validate:"max=100"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (ContactRecord) Kind() Kind { return KindContact }

func (ContactRecord) Fields() []string {
	return []string{"name", "email", "company", "subject", "message"}
}

func (r ContactRecord) Values() []string {
	return []string{r.Name, r.Email, r.Company, r.Subject, r.Message}
}

func (r ContactRecord) MissingRequired() []string {
	return missing(r.Fields(), r.Values(), "name", "email", "subject", "message")
}

func (r ContactRecord) Sanitized(clean func(string) string) Record {
	return ContactRecord{
		Name:    clean(r.Name),
		Email:   clean(r.Email),
		Company: clean(r.Company),
		Subject: clean(r.Subject),
		Message: clean(r.Message),
	}
}

// Represents the data structure coming from the waitlist page form
type WaitlistRecord struct {
	FirstName string `json:"firstName" validate:"required,max=50,personname"`
	LastName  string `json:"lastName" validate:"required,max=50,personname"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Company   string `json:"company" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,role"`
	UseCase   string `json:"useCase" validate:"max=2000"`
}

func (WaitlistRecord) Kind() Kind { return KindWaitlist }

func (WaitlistRecord) Fields() []string {
	return []string{"firstName", "lastName", "email", "company", "role", "useCase"}
}

func (r WaitlistRecord) Values() []string {
	return []string{r.FirstName, r.LastName, r.Email, r.Company, r.Role, r.UseCase}
}

func (r WaitlistRecord) MissingRequired() []string {
	return missing(r.Fields(), r.Values(), "firstName", "lastName", "email", "company", "role")
}

func (r WaitlistRecord) Sanitized(clean func(string) string) Record {
	return WaitlistRecord{
		FirstName: clean(r.FirstName),
		LastName:  clean(r.LastName),
		Email:     clean(r.Email),
		Company:   clean(r.Company),
		Role:      clean(r.Role),
		UseCase:   clean(r.UseCase),
	}
}

func missing(fields, values []string, required ...string) []string {
	var out []string
	for _, name := range required {
		for i, f := range fields {
			if f == name && values[i] == "" {
				out = append(out, name)
			}
		}
	}
	return out
}

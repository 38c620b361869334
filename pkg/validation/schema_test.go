package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/intake/pkg/models"
)

func validContact() models.ContactRecord {
	return models.ContactRecord{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Hi",
		Message: "Hello",
	}
}

func validWaitlist() models.WaitlistRecord {
	return models.WaitlistRecord{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Company:   "Analytical Engines",
		Role:      "Data Engineer",
	}
}

func TestValidateValidRecords(t *testing.T) {
	assert.Nil(t, Validate(validContact()))
	assert.Nil(t, Validate(validWaitlist()))
}

func TestValidateMissingOneRequiredField(t *testing.T) {
	contactCases := map[string]func(*models.ContactRecord){
		"name":    func(r *models.ContactRecord) { r.Name = "" },
		"email":   func(r *models.ContactRecord) { r.Email = "" },
		"subject": func(r *models.ContactRecord) { r.Subject = "" },
		"message": func(r *models.ContactRecord) { r.Message = "" },
	}
	for field, clear := range contactCases {
		t.Run("contact/"+field, func(t *testing.T) {
			r := validContact()
			clear(&r)
			errs := Validate(r)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, field)
		})
	}

	waitlistCases := map[string]func(*models.WaitlistRecord){
		"firstName": func(r *models.WaitlistRecord) { r.FirstName = "" },
		"lastName":  func(r *models.WaitlistRecord) { r.LastName = "" },
		"email":     func(r *models.WaitlistRecord) { r.Email = "" },
		"company":   func(r *models.WaitlistRecord) { r.Company = "" },
		"role":      func(r *models.WaitlistRecord) { r.Role = "" },
	}
	for field, clear := range waitlistCases {
		t.Run("waitlist/"+field, func(t *testing.T) {
			r := validWaitlist()
			clear(&r)
			errs := Validate(r)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, field)
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	errs := Validate(models.ContactRecord{Name: "R2-D2", Email: "not-an-email"})
	assert.Equal(t, Errors{
		"name":    "Name contains invalid characters",
		"email":   "Please enter a valid email address",
		"subject": "Subject is required",
		"message": "Message is required",
	}, errs)
}

func TestValidateMessages(t *testing.T) {
	tests := []struct {
		name   string
		record models.Record
		field  string
		want   string
	}{
		{
			name:   "invalid email only",
			record: func() models.Record { r := validContact(); r.Email = "not-an-email"; return r }(),
			field:  "email",
			want:   "Please enter a valid email address",
		},
		{
			name:   "name too long",
			record: func() models.Record { r := validContact(); r.Name = strings.Repeat("a", 101); return r }(),
			field:  "name",
			want:   "Name must be less than 100 characters",
		},
		{
			name:   "company too long",
			record: func() models.Record { r := validContact(); r.Company = strings.Repeat("c", 101); return r }(),
			field:  "company",
			want:   "Company name must be less than 100 characters",
		},
		{
			name:   "message too long",
			record: func() models.Record { r := validContact(); r.Message = strings.Repeat("m", 5001); return r }(),
			field:  "message",
			want:   "Message must be less than 5000 characters",
		},
		{
			name:   "first name digits",
			record: func() models.Record { r := validWaitlist(); r.FirstName = "Ada2"; return r }(),
			field:  "firstName",
			want:   "First name contains invalid characters",
		},
		{
			name:   "last name too long",
			record: func() models.Record { r := validWaitlist(); r.LastName = strings.Repeat("l", 51); return r }(),
			field:  "lastName",
			want:   "Last name must be less than 50 characters",
		},
		{
			name:   "unknown role",
			record: func() models.Record { r := validWaitlist(); r.Role = "Astronaut"; return r }(),
			field:  "role",
			want:   "Please select a valid role",
		},
		{
			name:   "missing role",
			record: func() models.Record { r := validWaitlist(); r.Role = ""; return r }(),
			field:  "role",
			want:   "Please select your role",
		},
		{
			name:   "use case too long",
			record: func() models.Record { r := validWaitlist(); r.UseCase = strings.Repeat("u", 2001); return r }(),
			field:  "useCase",
			want:   "Use case description must be less than 2000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.record)
			assert.Equal(t, Errors{tt.field: tt.want}, errs)
		})
	}
}

func TestValidateAcceptsNamePunctuation(t *testing.T) {
	r := validContact()
	r.Name = "Mary-Jane O'Neil"
	assert.Nil(t, Validate(r))
}

func TestErrorsError(t *testing.T) {
	errs := Errors{"subject": "Subject is required", "email": "Email is required"}
	assert.Equal(t, "validation failed: email: Email is required; subject: Subject is required", errs.Error())
}

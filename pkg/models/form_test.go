package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRecordMissingRequired(t *testing.T) {
	r := ContactRecord{Name: "Ada", Email: "a@b.com"}
	assert.Equal(t, []string{"subject", "message"}, r.MissingRequired())

	full := ContactRecord{Name: "Ada", Email: "a@b.com", Subject: "Hi", Message: "Hello"}
	assert.Empty(t, full.MissingRequired())
}

func TestWaitlistRecordCompanyRequired(t *testing.T) {
	r := WaitlistRecord{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com", Role: "Other"}
	assert.Equal(t, []string{"company"}, r.MissingRequired())
}

func TestValuesFollowColumnOrder(t *testing.T) {
	r := WaitlistRecord{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com", Company: "AE", Role: "Other"}
	values := r.Values()
	require.Len(t, values, len(Columns(KindWaitlist))-1)
	assert.Equal(t, "", values[len(values)-1], "absent useCase is stored as empty string")
	assert.Equal(t, TimestampColumn, Columns(KindWaitlist)[0])
}

func TestDecode(t *testing.T) {
	rec, err := Decode(KindContact, []byte(`{"name":"Ada","email":"a@b.com"}`))
	require.NoError(t, err)
	assert.Equal(t, ContactRecord{Name: "Ada", Email: "a@b.com"}, rec)

	_, err = Decode(KindWaitlist, []byte(`{"firstName":`))
	assert.Error(t, err)
}

func TestFromValuesIgnoresForeignFields(t *testing.T) {
	rec, err := FromValues(KindContact, map[string]string{"name": "Ada", "role": "Other"})
	require.NoError(t, err)
	assert.Equal(t, ContactRecord{Name: "Ada"}, rec)

	_, err = FromValues(Kind("newsletter"), nil)
	assert.Error(t, err)
}

func TestSanitized(t *testing.T) {
	r := ContactRecord{Name: "ada", Message: "hi"}.Sanitized(strings.ToUpper)
	assert.Equal(t, ContactRecord{Name: "ADA", Message: "HI"}, r)
}

func TestParseKindAndRoles(t *testing.T) {
	k, err := ParseKind("waitlist")
	require.NoError(t, err)
	assert.Equal(t, KindWaitlist, k)

	_, err = ParseKind("")
	assert.Error(t, err)

	assert.True(t, IsRole("CTO/VP Engineering"))
	assert.False(t, IsRole("cto"))
}

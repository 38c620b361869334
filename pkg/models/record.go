package models

import (
	"encoding/json"
	"fmt"
)

// TimestampColumn is the first column of every stored row
const TimestampColumn = "Timestamp"

// Columns returns the sheet header for a kind, timestamp first
func Columns(kind Kind) []string {
	switch kind {
	case KindContact:
		return []string{TimestampColumn, "Name", "Email", "Company", "Subject", "Message"}
	case KindWaitlist:
		return []string{TimestampColumn, "First Name", "Last Name", "Email", "Company", "Role", "Use Case"}
	}
	return nil
}

// FieldNames returns the JSON field names of a kind in declared order
func FieldNames(kind Kind) []string {
	switch kind {
	case KindContact:
		return ContactRecord{}.Fields()
	case KindWaitlist:
		return WaitlistRecord{}.Fields()
	}
	return nil
}

// FromValues builds a record of the given kind from a field name → value map.
// Names not belonging to the kind are ignored.
func FromValues(kind Kind, values map[string]string) (Record, error) {
	switch kind {
	case KindContact:
		return ContactRecord{
			Name:    values["name"],
			Email:   values["email"],
			Company: values["company"],
			Subject: values["subject"],
			Message: values["message"],
		}, nil
	case KindWaitlist:
		return WaitlistRecord{
			FirstName: values["firstName"],
			LastName:  values["lastName"],
			Email:     values["email"],
			Company:   values["company"],
			Role:      values["role"],
			UseCase:   values["useCase"],
		}, nil
	}
	return nil, fmt.Errorf("unknown form kind %q", kind)
}

// Decode parses a JSON body into the record type for kind
func Decode(kind Kind, body []byte) (Record, error) {
	switch kind {
	case KindContact:
		var r ContactRecord
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, err
		}
		return r, nil
	case KindWaitlist:
		var r WaitlistRecord
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown form kind %q", kind)
}

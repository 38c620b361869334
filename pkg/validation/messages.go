package validation

import "github.com/neurostream/intake/pkg/models"

var emailMessages = map[string]string{
	"required": "Email is required",
	"email":    "Please enter a valid email address",
	"max":      "Email address is too long",
}

func nameMessages(label, limit string) map[string]string {
	return map[string]string{
		"required":   label + " is required",
		"max":        label + " must be less than " + limit + " characters",
		"personname": label + " contains invalid characters",
	}
}

// field → validator tag → message
var messages = map[models.Kind]map[string]map[string]string{
	models.KindContact: {
		"name":    nameMessages("Name", "100"),
		"email":   emailMessages,
		"company": {"max": "Company name must be less than 100 characters"},
		"subject": {
			"required": "Subject is required",
			"max":      "Subject must be less than 200 characters",
		},
		"message": {
			"required": "Message is required",
			"max":      "Message must be less than 5000 characters",
		},
	},
	models.KindWaitlist: {
		"firstName": nameMessages("First name", "50"),
		"lastName":  nameMessages("Last name", "50"),
		"email":     emailMessages,
		"company": {
			"required": "Company is required",
			"max":      "Company name must be less than 100 characters",
		},
		"role": {
			"required": "Please select your role",
			"role":     "Please select a valid role",
		},
		"useCase": {"max": "Use case description must be less than 2000 characters"},
	},
}

package forms

import "github.com/neurostream/intake/pkg/models"

// banner is the user-facing text after a submit; failures never expose detail
type banner struct {
	success string
	failure string
}

var banners = map[models.Kind]banner{
	models.KindContact: {
		success: "Thanks for reaching out! We'll get back to you within 24 hours.",
		failure: "Something went wrong. Please try again or email us directly.",
	},
	models.KindWaitlist: {
		success: "Thanks for your interest in NeuroStream. We'll be in touch soon with your beta access.",
		failure: "Something went wrong. Please try again or contact us directly.",
	},
}

package skiptrace

import (
	"math"

	"reclaim/internal/lead"
)

// Field weights for enrichment completeness. Bonus points enter the
// achievable total only when earned, so a landline phone or an unverified
// email scores its full base weight rather than being penalized for the
// missing bonus.
const (
	phonePoints       = 35
	mobileBonus       = 5
	emailPoints       = 30
	verifiedBonus     = 5
	addressPoints     = 25
	propertyPoints    = 10
)

// Score rates the completeness of an enrichment result on a 0.0-1.0 scale,
// rounded to two decimals. Pure function: deterministic, no side effects,
// and monotonic in field presence.
func Score(e *lead.Enrichment) float64 {
	if e == nil {
		return 0
	}

	var achieved, achievable float64

	achievable += phonePoints
	if e.Phone != "" {
		achieved += phonePoints
		if e.PhoneType == "mobile" {
			achieved += mobileBonus
			achievable += mobileBonus
		}
	}

	achievable += emailPoints
	if e.Email != "" {
		achieved += emailPoints
		if e.EmailVerified {
			achieved += verifiedBonus
			achievable += verifiedBonus
		}
	}

	achievable += addressPoints
	if e.MailingAddress != "" {
		achieved += addressPoints
	}

	achievable += propertyPoints
	if e.Property != nil {
		achieved += propertyPoints
	}

	return math.Round(achieved/achievable*100) / 100
}

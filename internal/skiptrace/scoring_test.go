package skiptrace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reclaim/internal/lead"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name string
		enr  *lead.Enrichment
		want float64
	}{
		{"nil result", nil, 0},
		{"empty result", &lead.Enrichment{}, 0},
		{
			"everything, verified mobile",
			&lead.Enrichment{
				Phone: "305-555-0142", PhoneType: "mobile",
				Email: "j@example.com", EmailVerified: true,
				MailingAddress: "12 Palm Ave",
				Property:       &lead.PropertyRecord{ParcelID: "p1"},
			},
			1.0,
		},
		{
			"landline phone only",
			&lead.Enrichment{Phone: "305-555-0142", PhoneType: "landline"},
			0.35, // 35 of 100: the mobile bonus is not counted against a landline
		},
		{
			"mobile phone only",
			&lead.Enrichment{Phone: "305-555-0142", PhoneType: "mobile"},
			0.38, // 40 of 105
		},
		{
			"unverified email only",
			&lead.Enrichment{Email: "j@example.com"},
			0.30, // 30 of 100
		},
		{
			"verified email only",
			&lead.Enrichment{Email: "j@example.com", EmailVerified: true},
			0.33, // 35 of 105
		},
		{
			"address only",
			&lead.Enrichment{MailingAddress: "12 Palm Ave"},
			0.25,
		},
		{
			"mobile phone, verified email, address",
			&lead.Enrichment{
				Phone: "305-555-0142", PhoneType: "mobile",
				Email: "j@example.com", EmailVerified: true,
				MailingAddress: "12 Palm Ave",
			},
			0.91, // 100 of 110, property missing
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Score(tc.enr), 0.001)
		})
	}
}

func TestScore_BonusEntersDenominatorOnlyWhenEarned(t *testing.T) {
	// A landline scores its full 35-point base weight; the mobile bonus
	// must not inflate the achievable total when it was never earned.
	landline := Score(&lead.Enrichment{Phone: "918-555-0100", PhoneType: "landline"})
	assert.InDelta(t, 0.35, landline, 0.001)

	unverified := Score(&lead.Enrichment{Email: "j@example.com"})
	assert.InDelta(t, 0.30, unverified, 0.001)
}

func TestScore_Deterministic(t *testing.T) {
	enr := &lead.Enrichment{Phone: "555", Email: "j@example.com", MailingAddress: "x"}
	first := Score(enr)
	for range 10 {
		assert.Equal(t, first, Score(enr))
	}
}

func TestScore_MonotonicInFieldPresence(t *testing.T) {
	phoneOnly := Score(&lead.Enrichment{Phone: "555"})
	withEmail := Score(&lead.Enrichment{Phone: "555", Email: "j@example.com"})
	withAddress := Score(&lead.Enrichment{Phone: "555", Email: "j@example.com", MailingAddress: "x"})

	assert.Greater(t, withEmail, phoneOnly)
	assert.Greater(t, withAddress, withEmail)
}

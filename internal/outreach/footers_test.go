package outreach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"reclaim/internal/lead"
)

func TestPersonalize(t *testing.T) {
	ld := &lead.Lead{Name: "Jane Smith", ClaimAmount: 8250, State: "FL"}

	got := Personalize("Hi [Name], $[Amount] may be yours in [State]. Act now, [Name]!", ld)
	assert.Equal(t, "Hi Jane Smith, $8250.00 may be yours in FL. Act now, Jane Smith!", got)
}

func TestPersonalize_DerivesNameFromEmailWhenMissing(t *testing.T) {
	ld := &lead.Lead{Email: "jane.smith@example.com", ClaimAmount: 100, State: "OK"}

	got := Personalize("Hi [Name]", ld)
	assert.Equal(t, "Hi Jane Smith", got)
}

func TestDisclosures_SMSFooter(t *testing.T) {
	d := Disclosures{OptOutBaseURL: "https://x.example/opt-out"}
	ld := &lead.Lead{ID: "lead-1", State: "TX"}

	got := d.Apply("body", ld, lead.ChannelSMS, false)
	assert.True(t, strings.HasPrefix(got, "body"), "no state prefix for TX")
	assert.Contains(t, got, "Reply STOP to opt out or visit: https://x.example/opt-out/lead-1")
}

func TestDisclosures_EmailFooterCarriesPhysicalAddress(t *testing.T) {
	d := Disclosures{
		OptOutBaseURL: "https://x.example/opt-out",
		OrgName:       "Reclaim Recovery LLC",
		OrgAddress:    "500 Main St, Tulsa, OK 74103",
	}
	got := d.Apply("body", &lead.Lead{ID: "lead-1"}, lead.ChannelEmail, false)

	assert.Contains(t, got, "To unsubscribe, visit: https://x.example/opt-out/lead-1")
	assert.Contains(t, got, "Reclaim Recovery LLC")
	assert.Contains(t, got, "500 Main St, Tulsa, OK 74103")
}

func TestDisclosures_StatePrefixes(t *testing.T) {
	d := Disclosures{}

	fl := d.Apply("body", &lead.Lead{State: "FL"}, lead.ChannelEmail, false)
	assert.True(t, strings.HasPrefix(fl, "Under Florida Statute §45.032"))

	ok := d.Apply("body", &lead.Lead{State: "OK"}, lead.ChannelEmail, false)
	assert.True(t, strings.HasPrefix(ok, "Under Oklahoma law (12 O.S. §772)"))
}

func TestDisclosures_MiniMirandaOnFirstContactOnly(t *testing.T) {
	d := Disclosures{}
	ld := &lead.Lead{ID: "lead-1", State: "TX"}

	first := d.Apply("body", ld, lead.ChannelSMS, true)
	assert.Contains(t, first, "This is an attempt to collect a debt")

	later := d.Apply("body", ld, lead.ChannelSMS, false)
	assert.NotContains(t, later, "This is an attempt to collect a debt")
}

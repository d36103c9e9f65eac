package outreach

import (
	"fmt"
	"strings"

	"reclaim/internal/lead"
	"reclaim/pkg/email"
)

// State-specific disclosures that must lead the message body.
var stateDisclosures = map[string]string{
	"FL": "Under Florida Statute §45.032, you may be entitled to surplus funds from a foreclosure sale.",
	"OK": "Under Oklahoma law (12 O.S. §772), you may claim surplus funds from a sheriff's sale.",
}

// FDCPA §1692e(11) mini-Miranda, required on initial communications.
const miniMiranda = "This is an attempt to collect a debt on your behalf. Any information obtained will be used for that purpose."

// Personalize substitutes [Name], [Amount] and [State] placeholders with the
// lead's values. When the record has no name, one is derived from the best
// known email so messages never open with a blank greeting.
func Personalize(template string, ld *lead.Lead) string {
	name := ld.Name
	if name == "" {
		name = email.DeriveName(ld.BestEmail())
	}
	r := strings.NewReplacer(
		"[Name]", name,
		"[Amount]", fmt.Sprintf("%.2f", ld.ClaimAmount),
		"[State]", ld.State,
	)
	return r.Replace(template)
}

// Disclosures decorates outbound messages with the legally required
// prefixes and footers per channel and state.
type Disclosures struct {
	OptOutBaseURL string // e.g. https://example.com/opt-out
	OrgName       string
	OrgAddress    string // physical address, required by CAN-SPAM
}

// Apply returns the message with all required decorations. firstContact
// adds the mini-Miranda line.
func (d Disclosures) Apply(content string, ld *lead.Lead, channel lead.Channel, firstContact bool) string {
	var b strings.Builder

	if prefix, ok := stateDisclosures[ld.State]; ok {
		b.WriteString(prefix)
		b.WriteString("\n\n")
	}
	b.WriteString(content)

	if firstContact {
		b.WriteString("\n\n")
		b.WriteString(miniMiranda)
	}

	switch channel {
	case lead.ChannelSMS:
		b.WriteString("\n\nReply STOP to opt out")
		if d.OptOutBaseURL != "" {
			fmt.Fprintf(&b, " or visit: %s/%s", d.OptOutBaseURL, ld.ID)
		}
	case lead.ChannelEmail:
		b.WriteString("\n\n--")
		if d.OptOutBaseURL != "" {
			fmt.Fprintf(&b, "\nTo unsubscribe, visit: %s/%s", d.OptOutBaseURL, ld.ID)
		}
		if d.OrgName != "" {
			fmt.Fprintf(&b, "\n%s", d.OrgName)
		}
		if d.OrgAddress != "" {
			fmt.Fprintf(&b, "\n%s", d.OrgAddress)
		}
	}
	return b.String()
}

// Package lead holds the core identity record for a person/claim and the
// append-only audit records that hang off it.
package lead

import (
	"strings"
	"time"
)

// Status tracks a lead through the recovery funnel. Transitions move forward
// only; archived and opted_out are terminal from any state.
type Status string

const (
	StatusNew       Status = "new"
	StatusEnriched  Status = "enriched"
	StatusContacted Status = "contacted"
	StatusFiled     Status = "filed"
	StatusRecovered Status = "recovered"
	StatusArchived  Status = "archived"
	StatusOptedOut  Status = "opted_out"
)

var forwardTransitions = map[Status][]Status{
	StatusNew:       {StatusEnriched},
	StatusEnriched:  {StatusContacted},
	StatusContacted: {StatusFiled},
	StatusFiled:     {StatusRecovered},
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusRecovered || s == StatusArchived || s == StatusOptedOut
}

// CanTransition reports whether from -> to is a legal status move.
// Archiving and opting out are allowed from any non-terminal state.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == StatusArchived || to == StatusOptedOut {
		return true
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Channel identifies an outreach medium.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelCall  Channel = "call"
)

func (c Channel) Valid() bool {
	return c == ChannelSMS || c == ChannelEmail || c == ChannelCall
}

// Direction distinguishes outbound sends from inbound replies.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Lead is the system-owned identity record for a claimant. Enrichment fields
// are written by the skip-trace cascade; contact bookkeeping by the outreach
// orchestrator. Leads are never deleted except by explicit user action.
type Lead struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Phones         []string `json:"phones,omitempty"`
	Email          string   `json:"email,omitempty"`
	Emails         []string `json:"emails,omitempty"`
	MailingAddress string   `json:"mailing_address,omitempty"`
	ClaimAmount    float64  `json:"claim_amount"`
	State          string   `json:"state"` // two-letter state code
	County         string   `json:"county,omitempty"`

	OptedOut    bool `json:"opted_out"`
	DNCScrubbed bool `json:"dnc_scrubbed"`
	DNCListed   bool `json:"dnc_listed"`
	Litigation  bool `json:"litigation"`

	ContactCount    int     `json:"contact_count"`
	EnrichmentScore float64 `json:"enrichment_score"`
	TraceProvider   string  `json:"trace_provider,omitempty"`
	Status          Status  `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BestPhone picks the dial target: an explicit override, then the primary
// phone, then the first known number.
func (l *Lead) BestPhone(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if l.Phone != "" {
		return l.Phone
	}
	if len(l.Phones) > 0 {
		return l.Phones[0]
	}
	return ""
}

// BestEmail picks the email target.
func (l *Lead) BestEmail() string {
	if l.Email != "" {
		return l.Email
	}
	if len(l.Emails) > 0 {
		return l.Emails[0]
	}
	return ""
}

// PropertyRecord carries optional property detail a vendor appended to a
// trace result.
type PropertyRecord struct {
	ParcelID      string    `json:"parcel_id,omitempty"`
	AssessedValue float64   `json:"assessed_value,omitempty"`
	LastSaleDate  time.Time `json:"last_sale_date,omitempty"`
}

// Enrichment is the normalized result of one skip-trace call, validated at
// the adapter boundary. At least one of phone/email/mailing address must be
// present for the result to count.
type Enrichment struct {
	Phone          string          `json:"phone,omitempty"`
	PhoneType      string          `json:"phone_type,omitempty"` // "mobile" or "landline" when the vendor reports it
	Email          string          `json:"email,omitempty"`
	EmailVerified  bool            `json:"email_verified,omitempty"`
	MailingAddress string          `json:"mailing_address,omitempty"`
	Property       *PropertyRecord `json:"property,omitempty"`
	Provider       string          `json:"provider,omitempty"`
}

// Empty reports whether the result carries no usable contact field.
func (e Enrichment) Empty() bool {
	return e.Phone == "" && e.Email == "" && e.MailingAddress == ""
}

// ProviderAttempt records one (lead, provider) skip-trace call. Immutable
// once created.
type ProviderAttempt struct {
	ID        string      `json:"id"`
	LeadID    string      `json:"lead_id"`
	Provider  string      `json:"provider"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	Result    *Enrichment `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CommunicationRecord is an append-only log entry for one attempted or
// completed outreach action.
type CommunicationRecord struct {
	ID         string    `json:"id"`
	LeadID     string    `json:"lead_id"`
	Channel    Channel   `json:"channel"`
	Direction  Direction `json:"direction"`
	Content    string    `json:"content,omitempty"`
	Status     string    `json:"status"` // sent, blocked, frequency_capped, failed, received
	Violations []string  `json:"violations,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ComplianceScan records the outcome of one compliance evaluation, feeding
// the compliance report.
type ComplianceScan struct {
	ID            string    `json:"id"`
	LeadID        string    `json:"lead_id"`
	Action        Channel   `json:"action"`
	Compliant     bool      `json:"compliant"`
	Violations    []string  `json:"violations,omitempty"`
	CertificateID string    `json:"certificate_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NameMatches supports the litigation lookup: case-insensitive containment,
// mirroring how court-record searches behave.
func (l *Lead) NameMatches(name string) bool {
	return strings.Contains(strings.ToLower(l.Name), strings.ToLower(name))
}

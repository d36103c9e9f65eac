package skiptrace

import (
	"errors"
	"fmt"
)

// ErrorCategory normalizes vendor failure modes so the cascade can log and
// count them uniformly.
type ErrorCategory string

const (
	// ErrorTimeout indicates the vendor exceeded its allotted time.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the vendor returned an invalid or empty payload.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues.
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorVendorOutage indicates the vendor is unavailable.
	ErrorVendorOutage ErrorCategory = "vendor_outage"

	// ErrorRateLimited indicates the vendor throttled us.
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected adapter-side fault.
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps a vendor failure with its normalized category. The
// cascade absorbs these into failed attempt records; they never propagate to
// callers.
type ProviderError struct {
	Category   ErrorCategory
	Provider   string
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// Retryable reports whether the failure is transient enough to be worth a
// later retry of the same vendor.
func (e *ProviderError) Retryable() bool {
	switch e.Category {
	case ErrorTimeout, ErrorVendorOutage, ErrorRateLimited:
		return true
	}
	return false
}

func NewProviderError(category ErrorCategory, provider, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the normalized category from an error chain.
func CategoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/lead"
)

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewJWTIssuer([]byte("secret"), WithIssuerClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	cert, err := issuer.Issue(context.Background(), "lead-1", lead.ChannelSMS, passedChecks)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.ID)
	assert.NotEmpty(t, cert.Token)

	leadID, action, err := issuer.Verify(cert.Token)
	require.NoError(t, err)
	assert.Equal(t, "lead-1", leadID)
	assert.Equal(t, "sms", action)
}

func TestJWTIssuer_VerifyRejectsWrongKey(t *testing.T) {
	issuer, err := NewJWTIssuer([]byte("secret"))
	require.NoError(t, err)
	other, err := NewJWTIssuer([]byte("different"))
	require.NoError(t, err)

	cert, err := issuer.Issue(context.Background(), "lead-1", lead.ChannelEmail, passedChecks)
	require.NoError(t, err)

	_, _, err = other.Verify(cert.Token)
	assert.Error(t, err)
}

func TestJWTIssuer_RequiresKey(t *testing.T) {
	_, err := NewJWTIssuer(nil)
	assert.Error(t, err)
}

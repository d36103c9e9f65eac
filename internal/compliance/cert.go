package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reclaim/internal/lead"
)

// Certificate is proof that an outreach action passed every compliance
// check at a point in time. ID goes on the scan record; Token is the signed
// form handed to auditors.
type Certificate struct {
	ID    string
	Token string
}

// CertificateIssuer mints compliance certificates.
type CertificateIssuer interface {
	Issue(ctx context.Context, leadID string, action lead.Channel, checks []string) (Certificate, error)
}

const certValidity = 365 * 24 * time.Hour

// JWTIssuer signs compliance certificates as HS256 tokens. The jti claim is
// the certificate ID recorded on the scan; the token itself can be handed to
// auditors for verification against the signing key.
type JWTIssuer struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

type JWTIssuerOption func(*JWTIssuer)

func WithIssuerClock(now func() time.Time) JWTIssuerOption {
	return func(j *JWTIssuer) {
		if now != nil {
			j.now = now
		}
	}
}

func NewJWTIssuer(signingKey []byte, opts ...JWTIssuerOption) (*JWTIssuer, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("signing key is required")
	}
	j := &JWTIssuer{
		signingKey: signingKey,
		issuer:     "reclaim-compliance",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

type certificateClaims struct {
	jwt.RegisteredClaims
	LeadID string   `json:"lead_id"`
	Action string   `json:"action"`
	Checks []string `json:"checks"`
}

func (j *JWTIssuer) Issue(_ context.Context, leadID string, action lead.Channel, checks []string) (Certificate, error) {
	now := j.now()
	certID := uuid.NewString()

	claims := certificateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        certID,
			Issuer:    j.issuer,
			Subject:   leadID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(certValidity)),
		},
		LeadID: leadID,
		Action: string(action),
		Checks: checks,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.signingKey)
	if err != nil {
		return Certificate{}, fmt.Errorf("sign certificate: %w", err)
	}
	return Certificate{ID: certID, Token: token}, nil
}

// Verify parses a certificate token and returns its claims. Used by the
// audit endpoint rather than the outreach path.
func (j *JWTIssuer) Verify(tokenStr string) (leadID, action string, err error) {
	var claims certificateClaims
	_, err = jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.signingKey, nil
	}, jwt.WithIssuer(j.issuer))
	if err != nil {
		return "", "", fmt.Errorf("verify certificate: %w", err)
	}
	return claims.LeadID, claims.Action, nil
}

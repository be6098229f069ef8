// Package auth verifies Firebase ID tokens and exposes the caller to handlers.
package auth

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// AdminClaim is the custom claim that grants access to the admin panel.
const AdminClaim = "admin"

// User is the authenticated caller. UID doubles as the family account id.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
	// Admin is set from the AdminClaim custom claim.
	Admin bool
}

// Verification failures. Handlers never see these; the middleware maps them to
// 401 or, for ErrCertificateFetch, 503.
var (
	ErrNoToken          = errors.New("missing authorization header")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrUserDisabled     = errors.New("user disabled")
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates tokens and returns user information.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// FirebaseVerifier checks ID tokens with the Firebase Admin SDK, including revocation.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// sdkFailures translates Admin SDK error predicates, first match wins.
var sdkFailures = []struct {
	is  func(error) bool
	err error
}{
	{fbauth.IsCertificateFetchFailed, ErrCertificateFetch},
	{fbauth.IsIDTokenExpired, ErrTokenExpired},
	{fbauth.IsIDTokenRevoked, ErrTokenRevoked},
	{fbauth.IsUserDisabled, ErrUserDisabled},
}

func translateSDKError(err error) error {
	for _, f := range sdkFailures {
		if f.is(err) {
			return f.err
		}
	}
	return ErrInvalidToken
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*User, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, translateSDKError(err)
	}
	return userFromClaims(token.UID, token.Claims), nil
}

// userFromClaims reads the fields the API cares about. Claims of the wrong type are
// treated as absent.
func userFromClaims(uid string, claims map[string]any) *User {
	email, _ := claims["email"].(string)
	verified, _ := claims["email_verified"].(bool)
	admin, _ := claims[AdminClaim].(bool)
	return &User{
		UID:           uid,
		Email:         email,
		EmailVerified: verified,
		Admin:         admin,
	}
}

// ExtractBearerToken returns the credential of a "Bearer <token>" header. The
// scheme is case-insensitive.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

var _ Verifier = (*FirebaseVerifier)(nil)

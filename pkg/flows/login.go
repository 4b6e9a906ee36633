package flows

import (
	"errors"
	"fmt"
	"time"

	"github.com/podhealth/pod-api/pkg/domain"
)

// Messages returned by LoginOrRegister. Callers and clients match on these.
const (
	MsgLoginSuccessful = "Login successful"
	MsgAccountCreated  = "Account created and logged in"
)

// placeholderToken stands in for a real session token. Token issuance is
// out of scope; the login flow succeeds unconditionally for any valid email.
const placeholderToken = "demo-token"

// LoginResult is the outcome of a login-or-register invocation.
type LoginResult struct {
	Created bool
	Message string
	Token   string
}

// LoginOrRegister treats login and first-time registration as one operation:
// if a user document with the email exists the caller is logged in, otherwise
// a minimal user document is created first. The password is accepted
// unconditionally and never inspected.
func LoginOrRegister(store domain.DocumentStore, email string) (*LoginResult, error) {
	users, err := store.Query("user", map[string]interface{}{"email": email}, 1)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if len(users) > 0 {
		return &LoginResult{Message: MsgLoginSuccessful, Token: placeholderToken}, nil
	}

	doc := domain.Document{
		"email":      email,
		"created_at": Timestamp(),
	}
	if _, err := store.Create("user", doc); err != nil {
		// A concurrent registration for the same email won the race; the
		// user exists now, which is all a login needs.
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) {
			return &LoginResult{Message: MsgLoginSuccessful, Token: placeholderToken}, nil
		}
		return nil, fmt.Errorf("user registration failed: %w", err)
	}

	return &LoginResult{Created: true, Message: MsgAccountCreated, Token: placeholderToken}, nil
}

// Timestamp returns the current time as an ISO-8601 UTC string with
// millisecond precision and a trailing Z, the format stored in created_at.
func Timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

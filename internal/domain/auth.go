package domain

import "errors"

// Auth provider error codes. Clients switch on these to pick a message.
const (
	AuthCodeInvalidEmail      = "auth/invalid-email"
	AuthCodeWeakPassword      = "auth/weak-password"
	AuthCodeEmailInUse        = "auth/email-already-in-use"
	AuthCodeUserNotFound      = "auth/user-not-found"
	AuthCodeWrongPassword     = "auth/wrong-password"
	AuthCodeInvalidCredential = "auth/invalid-credential"
	AuthCodeTooManyRequests   = "auth/too-many-requests"
	AuthCodeInvalidToken      = "auth/invalid-id-token"
	AuthCodeInternal          = "auth/internal-error"
)

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 6

// AuthError is an auth provider failure carrying a provider code.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// AuthCode extracts the provider code from err, or "" if err is not an
// auth error.
func AuthCode(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

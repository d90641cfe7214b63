package cache

import "strings"

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "onyx"

const (
	scopeAuth    = "auth"
	kindRevoked  = "revoked"
	kindFailedIn = "failed_logins"
	keySeparator = ":"
)

func key(parts ...string) string {
	return KeyPrefix + keySeparator + strings.Join(parts, keySeparator)
}

// RevokedTokenKey marks a refresh token (by jti) as signed out.
func RevokedTokenKey(tokenID string) string {
	return key(scopeAuth, kindRevoked, tokenID)
}

// FailedLoginsKey counts recent failed sign-ins. Emails are case-folded
// so "Ada@x.io" and "ada@x.io" share one counter.
func FailedLoginsKey(email string) string {
	return key(scopeAuth, kindFailedIn, strings.ToLower(strings.TrimSpace(email)))
}

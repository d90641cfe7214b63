package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevokedTokenKey(t *testing.T) {
	assert.Equal(t, "onyx:auth:revoked:01J0TOKEN", RevokedTokenKey("01J0TOKEN"))
}

func TestFailedLoginsKey(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ada@example.com", "onyx:auth:failed_logins:ada@example.com"},
		{"Ada@Example.COM", "onyx:auth:failed_logins:ada@example.com"},
		{"  ada@example.com ", "onyx:auth:failed_logins:ada@example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FailedLoginsKey(tt.email), "email %q", tt.email)
	}
}

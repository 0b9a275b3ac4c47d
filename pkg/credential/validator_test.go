package credential

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(d).Unix(),
		"iat": time.Now().Unix(),
	})
}

func TestValidator_IsValid(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid token", tokenExpiringIn(t, time.Hour), true},
		{"expired token", tokenExpiringIn(t, -time.Minute), false},
		{"empty token", "", false},
		{"garbage token", "not.a.jwt", false},
		{"missing exp claim", signedToken(t, jwt.MapClaims{"sub": "user-1"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.token))
		})
	}
}

func TestValidator_IsValid_ExpiryBoundary(t *testing.T) {
	v := NewValidator()
	token := tokenExpiringIn(t, time.Hour)

	// freeze the clock exactly at expiry: now >= exp must be invalid
	exp, ok := v.Expiry(token)
	require.True(t, ok)
	v.now = func() time.Time { return exp }
	assert.False(t, v.IsValid(token))

	v.now = func() time.Time { return exp.Add(-time.Second) }
	assert.True(t, v.IsValid(token))
}

func TestValidator_IsExpiringSoon(t *testing.T) {
	v := NewValidator()
	window := 300 * time.Second

	assert.False(t, v.IsExpiringSoon(tokenExpiringIn(t, time.Hour), window))
	assert.True(t, v.IsExpiringSoon(tokenExpiringIn(t, 250*time.Second), window))
	assert.True(t, v.IsExpiringSoon(tokenExpiringIn(t, -time.Minute), window))

	// callers with no credential at all must be routed into renewal
	assert.True(t, v.IsExpiringSoon("", window))
	assert.True(t, v.IsExpiringSoon("garbage", window))
}

func TestValidator_CachesDecodedExpiry(t *testing.T) {
	v := NewValidator()
	token := tokenExpiringIn(t, time.Hour)

	exp1, ok := v.Expiry(token)
	require.True(t, ok)
	_, cached := v.cache.Get(token)
	assert.True(t, cached)

	exp2, ok := v.Expiry(token)
	require.True(t, ok)
	assert.Equal(t, exp1, exp2)
}

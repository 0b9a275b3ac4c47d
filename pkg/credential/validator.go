package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
)

// claimsCacheSize bounds the token->expiry cache. The session holds at most
// a handful of distinct tokens at a time, so a small cache is plenty.
const claimsCacheSize = 16

// Validator answers expiry questions about credentials. It decodes the exp
// claim without verifying the signature; the server is the only party that
// can verify, the client only needs to know when to renew.
type Validator struct {
	parser *jwt.Parser
	cache  *lru.Cache[string, time.Time]

	// now is replaceable in tests
	now func() time.Time
}

// NewValidator creates a new credential validator
func NewValidator() *Validator {
	cache, _ := lru.New[string, time.Time](claimsCacheSize)
	return &Validator{
		parser: jwt.NewParser(),
		cache:  cache,
		now:    time.Now,
	}
}

// IsValid reports whether the credential decodes and has not expired.
// Fails closed: an empty token, a decode error, or a missing exp claim all
// yield false.
func (v *Validator) IsValid(token string) bool {
	exp, ok := v.expiry(token)
	if !ok {
		return false
	}
	return v.now().Before(exp)
}

// IsExpiringSoon reports whether the credential expires within the given
// window. A missing or undecodable credential counts as expiring, so callers
// without a usable credential are routed into the renewal path.
func (v *Validator) IsExpiringSoon(token string, window time.Duration) bool {
	exp, ok := v.expiry(token)
	if !ok {
		return true
	}
	return exp.Sub(v.now()) < window
}

// Expiry returns the decoded expiry time of the credential, if it has one.
func (v *Validator) Expiry(token string) (time.Time, bool) {
	return v.expiry(token)
}

func (v *Validator) expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	if exp, ok := v.cache.Get(token); ok {
		return exp, true
	}

	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expTime, err := claims.GetExpirationTime()
	if err != nil || expTime == nil {
		return time.Time{}, false
	}

	v.cache.Add(token, expTime.Time)
	return expTime.Time, true
}

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrefersCanonicalKey(t *testing.T) {
	env := tokenEnvelope{Token: "plain", AccessToken: "oauth", Access: "drf"}
	grant, ok := env.normalize()
	assert.True(t, ok)
	assert.Equal(t, "plain", grant.Token)
}

func TestNormalizeAcceptsAlternateKeys(t *testing.T) {
	grant, ok := tokenEnvelope{AccessToken: "oauth"}.normalize()
	assert.True(t, ok)
	assert.Equal(t, "oauth", grant.Token)

	grant, ok = tokenEnvelope{Access: "drf", ExpiresIn: 600}.normalize()
	assert.True(t, ok)
	assert.Equal(t, "drf", grant.Token)
	assert.Equal(t, 600, grant.ExpiresIn)
}

func TestNormalizeTokenless(t *testing.T) {
	_, ok := tokenEnvelope{Message: "activation required"}.normalize()
	assert.False(t, ok)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetGravatarURL(t *testing.T) {
	// Hash must be computed from the trimmed, lowercased address.
	url := GetGravatarURL("  Maria@Example.COM ", 120)
	assert.Equal(t, GetGravatarURL("maria@example.com", 120), url)
	assert.Contains(t, url, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url, "s=120")

	// Invalid sizes fall back to the default.
	assert.Contains(t, GetGravatarURL("maria@example.com", 0), "s=200")
}

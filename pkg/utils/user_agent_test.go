package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent_Desktop(t *testing.T) {
	info := ParseUserAgent(
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"en-GB,en;q=0.9",
	)
	assert.Equal(t, "Computer", info.Device)
	assert.Contains(t, info.Browser, "Chrome")
	assert.Equal(t, "en-GB", info.Locale)
	assert.False(t, info.Bot)
}

func TestParseUserAgent_Unknown(t *testing.T) {
	info := ParseUserAgent("curl/8.4.0", "")
	assert.Equal(t, "Unknown", info.Device)
	assert.Equal(t, "", info.Locale)
}

func TestPrimaryLocale(t *testing.T) {
	assert.Equal(t, "fr", primaryLocale("fr;q=0.8"))
	assert.Equal(t, "de-DE", primaryLocale(" de-DE , en"))
}

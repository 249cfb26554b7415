package hablare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intrusive-memory/hablare"
)

func TestVoiceURIRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		providerID string
		voiceID    string
		language   string
	}{
		{"plain", "elevenlabs", "21m00Tcm4TlvDq8ikWAM", "en-US"},
		{"no language", "system", "Alex", ""},
		{"voice with spaces", "system", "Amélie (Enhanced)", "fr-CA"},
		{"uppercase provider", "ElevenLabs", "v1", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := hablare.NewVoiceURI(tt.providerID, tt.voiceID, tt.language)
			parsed, ok := hablare.ParseVoiceURI(uri.String())
			require.True(t, ok)
			assert.Equal(t, uri, parsed)
			assert.Equal(t, tt.voiceID, parsed.VoiceID)
			assert.Equal(t, tt.language, parsed.Language)
		})
	}
}

func TestVoiceURILowercasesProvider(t *testing.T) {
	uri := hablare.NewVoiceURI("ElevenLabs", "v1", "en")
	assert.Equal(t, "elevenlabs", uri.ProviderID)

	parsed, ok := hablare.ParseVoiceURI("hablare://ELEVENLABS/v1?lang=en")
	require.True(t, ok)
	assert.Equal(t, "elevenlabs", parsed.ProviderID)
}

func TestVoiceURIString(t *testing.T) {
	uri := hablare.NewVoiceURI("system", "Alex", "en-US")
	assert.Equal(t, "hablare://system/Alex?lang=en-US", uri.String())

	noLang := hablare.NewVoiceURI("system", "Alex", "")
	assert.Equal(t, "hablare://system/Alex", noLang.String())
}

func TestParseVoiceURIRejectsGarbage(t *testing.T) {
	for _, s := range []string{
		"",
		"not a uri",
		"http://system/Alex",
		"hablare://",
		"hablare:///Alex",
		"hablare://system",
		"hablare://system/",
		"::::",
	} {
		_, ok := hablare.ParseVoiceURI(s)
		assert.False(t, ok, "expected %q to be rejected", s)
	}
}

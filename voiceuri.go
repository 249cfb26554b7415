package hablare

import (
	"net/url"
	"strings"
)

// VoiceURIScheme is the scheme of the compact voice reference string.
const VoiceURIScheme = "hablare"

// VoiceURI references a (provider, voice, language) triple outside the
// runtime registry, e.g. in stored character-to-voice assignments. The
// string form is "hablare://providerid/voiceID?lang=code" and round-
// trips losslessly.
type VoiceURI struct {
	ProviderID string
	VoiceID    string
	Language   string
}

// NewVoiceURI builds a voice reference. The provider id is normalized
// to lowercase.
func NewVoiceURI(providerID, voiceID, language string) VoiceURI {
	return VoiceURI{
		ProviderID: strings.ToLower(providerID),
		VoiceID:    voiceID,
		Language:   language,
	}
}

func (u VoiceURI) String() string {
	s := VoiceURIScheme + "://" + strings.ToLower(u.ProviderID) + "/" + url.PathEscape(u.VoiceID)
	if u.Language != "" {
		s += "?lang=" + url.QueryEscape(u.Language)
	}
	return s
}

// ParseVoiceURI parses a voice reference string. Unparseable input
// yields ok false; parsing never returns an error.
func ParseVoiceURI(s string) (VoiceURI, bool) {
	parsed, err := url.Parse(s)
	if err != nil {
		return VoiceURI{}, false
	}
	if parsed.Scheme != VoiceURIScheme || parsed.Host == "" {
		return VoiceURI{}, false
	}
	voiceID := strings.TrimPrefix(parsed.Path, "/")
	if voiceID == "" {
		return VoiceURI{}, false
	}
	return VoiceURI{
		ProviderID: strings.ToLower(parsed.Host),
		VoiceID:    voiceID,
		Language:   parsed.Query().Get("lang"),
	}, true
}

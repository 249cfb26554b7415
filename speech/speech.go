// Package speech defines the value types exchanged between voice
// providers and the coordination layer: audio payloads, voice
// descriptions and synthesis requests.
package speech

// Format identifies an audio container/codec by its mime type.
type Format string

const (
	FormatLINEAR16 Format = "audio/l16"
	FormatMP3      Format = "audio/mpeg"
	FormatOGG      Format = "audio/ogg"
	FormatAAC      Format = "audio/aac"
	FormatFLAC     Format = "audio/flac"
	FormatWAV      Format = "audio/wav"
	FormatAIFF     Format = "audio/aiff"
)

// Audio is a synthesized audio payload together with its container
// format. The format is declared by the producing provider; it is never
// inferred from the bytes.
type Audio struct {
	Format Format `json:"mime"`
	Data   []byte `json:"data"`
}

// Quality is a coarse tier for on-device voices. It is derived from
// platform metadata or canonical voice names and exists for display and
// filtering only.
type Quality string

const (
	QualityDefault  Quality = "default"
	QualityEnhanced Quality = "enhanced"
	QualityPremium  Quality = "premium"
)

// Voice describes a synthesis persona offered by a provider. Voices are
// immutable values built from provider responses; optional attributes
// are left empty when the backend does not report them.
type Voice struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ProviderID string  `json:"provider_id"`
	Language   string  `json:"language,omitempty"`
	Locality   string  `json:"locality,omitempty"`
	Gender     string  `json:"gender,omitempty"`
	Quality    Quality `json:"quality,omitempty"`
}

// Request carries a single synthesis request to a provider.
type Request struct {
	Text     string
	VoiceID  string
	Language string

	// Format is the preferred output container. Providers that only
	// emit one container ignore it.
	Format Format
}

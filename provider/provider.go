// Package provider defines the capability interface voice backends
// implement and the descriptor metadata the registry keeps about them.
package provider

import (
	"context"
	"time"

	"github.com/intrusive-memory/hablare/speech"
)

// VoiceProvider is a speech-synthesis backend. Implementations are the
// on-device adapter, the HTTP/SDK cloud adapters and test doubles; the
// set is closed on purpose, there is no plugin loading.
type VoiceProvider interface {
	// ID returns the stable provider identifier (lowercase).
	ID() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// Configured reports whether the provider has the credential or
	// local resource it needs to synthesize.
	Configured() bool

	// Voices lists the voices the provider offers. language may be a
	// BCP-47 code used as a filter hint, or empty for all voices.
	Voices(ctx context.Context, language string) ([]speech.Voice, error)

	// Synthesize converts the request text into audio bytes.
	Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error)

	// EstimateDuration returns a pre-generation estimate of the spoken
	// length of text. Purely local; never performs synthesis.
	EstimateDuration(text, voiceID string) time.Duration

	// VoiceAvailable reports whether voiceID is offered by this
	// provider. False on any lookup failure, never an error.
	VoiceAvailable(ctx context.Context, voiceID string) bool
}

// Factory constructs a fresh provider instance.
type Factory func() VoiceProvider

// Descriptor is the registry's metadata about a provider, kept separate
// from any live instance. Registered once at startup and replaced only
// explicitly.
type Descriptor struct {
	ID          string
	DisplayName string

	// DefaultEnabled controls the initial enablement state.
	DefaultEnabled bool

	// AlwaysEnabled marks providers that cannot be disabled; the
	// on-device synthesizer is one.
	AlwaysEnabled bool

	// RequiresConfiguration is true for providers that need a
	// credential before they can operate.
	RequiresConfiguration bool

	New Factory
}

package hablare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intrusive-memory/hablare/internal/requestid"
	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

// GenerateParams describes one generation request to the coordinator.
type GenerateParams struct {
	Text       string
	ProviderID string
	VoiceID    string

	// VoiceName is optional display metadata carried into the result
	// and the persisted record.
	VoiceName string

	// RequestorID optionally names the caller-side object (for example
	// a screenplay element) the audio belongs to.
	RequestorID string

	// Language is passed through to providers that take a language
	// hint.
	Language string

	// MIMEOverride, when non-empty, replaces the provider-declared
	// container mime type on the result.
	MIMEOverride string
}

// GenerationResult wraps provider audio with request metadata. The
// duration is the provider's own pre-generation estimate, never a
// measurement of the returned bytes.
type GenerationResult struct {
	RequestID         string
	Audio             []byte
	MIMEType          string
	Text              string
	VoiceID           string
	VoiceName         string
	ProviderID        string
	EstimatedDuration time.Duration

	// Cached is true when the result was served from the record store
	// without invoking the provider.
	Cached bool
}

// Record converts the result into a persistable audio record.
func (g *GenerationResult) Record() *AudioRecord {
	return &AudioRecord{
		ID:         uuid.NewString(),
		ProviderID: g.ProviderID,
		MIMEType:   g.MIMEType,
		Payload:    g.Audio,
		Prompt:     g.Text,
		Duration:   g.EstimatedDuration.Seconds(),
		VoiceID:    g.VoiceID,
		VoiceName:  g.VoiceName,
		CreatedAt:  time.Now(),
	}
}

// Coordinator resolves providers through a registry, invokes
// generation and deduplicates against a record store. Every call is
// stateless given the current registry contents.
type Coordinator struct {
	registry *Registry
	store    RecordStore
}

// NewCoordinator wires a coordinator to a registry and an optional
// record store. A nil store disables caching and persistence.
func NewCoordinator(registry *Registry, store RecordStore) *Coordinator {
	return &Coordinator{registry: registry, store: store}
}

// Registry exposes the underlying registry.
func (c *Coordinator) Registry() *Registry { return c.registry }

// Generate synthesizes audio for the given text. The record store is
// consulted first: an existing record for the exact (provider, voice,
// text) triple short-circuits generation entirely. Resolution failures
// (ErrNotRegistered, ErrDisabled, ErrNotConfigured) are returned before
// any generation is attempted, and provider errors propagate unchanged.
func (c *Coordinator) Generate(ctx context.Context, params GenerateParams) (*GenerationResult, error) {
	providerID := strings.ToLower(params.ProviderID)

	p, err := c.registry.ConfiguredProvider(providerID)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		rec, err := c.store.Find(ctx, providerID, params.VoiceID, params.Text)
		if err != nil {
			return nil, fmt.Errorf("record lookup: %w", err)
		}
		if rec != nil {
			return resultFromRecord(rec, params), nil
		}
	}

	audio, err := p.Synthesize(ctx, speech.Request{
		Text:     params.Text,
		VoiceID:  params.VoiceID,
		Language: params.Language,
	})
	if err != nil {
		return nil, err
	}

	mime := string(audio.Format)
	if params.MIMEOverride != "" {
		mime = params.MIMEOverride
	}

	result := &GenerationResult{
		RequestID:         requestid.New(),
		Audio:             audio.Data,
		MIMEType:          mime,
		Text:              params.Text,
		VoiceID:           params.VoiceID,
		VoiceName:         params.VoiceName,
		ProviderID:        providerID,
		EstimatedDuration: p.EstimateDuration(params.Text, params.VoiceID),
	}

	if c.store != nil {
		rec := result.Record()
		rec.RequestorID = params.RequestorID
		if err := c.store.Insert(ctx, rec); err != nil {
			return nil, fmt.Errorf("record insert: %w", err)
		}
	}

	return result, nil
}

func resultFromRecord(rec *AudioRecord, params GenerateParams) *GenerationResult {
	voiceName := rec.VoiceName
	if voiceName == "" {
		voiceName = params.VoiceName
	}
	return &GenerationResult{
		RequestID:         requestid.New(),
		Audio:             rec.Payload,
		MIMEType:          rec.MIMEType,
		Text:              rec.Prompt,
		VoiceID:           rec.VoiceID,
		VoiceName:         voiceName,
		ProviderID:        rec.ProviderID,
		EstimatedDuration: time.Duration(rec.Duration * float64(time.Second)),
		Cached:            true,
	}
}

// Voices lists the voices of one provider. Resolution and provider
// errors propagate unchanged.
func (c *Coordinator) Voices(ctx context.Context, providerID string) ([]speech.Voice, error) {
	p, err := c.registry.ConfiguredProvider(providerID)
	if err != nil {
		return nil, err
	}
	return p.Voices(ctx, "")
}

// AllVoices aggregates voices across every registered, enabled and
// configured provider. A provider failing for any reason is omitted
// from the result; this is the only boundary where errors are
// swallowed.
func (c *Coordinator) AllVoices(ctx context.Context) map[string][]speech.Voice {
	out := make(map[string][]speech.Voice)
	for _, id := range c.registry.IDs() {
		p, err := c.registry.ConfiguredProvider(id)
		if err != nil {
			continue
		}
		voices, err := p.Voices(ctx, "")
		if err != nil {
			continue
		}
		out[id] = voices
	}
	return out
}

// VoiceAvailable reports whether the provider offers voiceID. Any
// resolution or lookup failure yields false, never an error.
func (c *Coordinator) VoiceAvailable(ctx context.Context, voiceID, providerID string) bool {
	p, err := c.registry.ConfiguredProvider(providerID)
	if err != nil {
		return false
	}
	return p.VoiceAvailable(ctx, voiceID)
}

// RegisterProvider registers a live provider instance behind a
// descriptor that always returns it. Convenience for test doubles and
// preconfigured providers.
func (c *Coordinator) RegisterProvider(p provider.VoiceProvider) {
	c.registry.Register(provider.Descriptor{
		ID:             p.ID(),
		DisplayName:    p.DisplayName(),
		DefaultEnabled: true,
		New:            func() provider.VoiceProvider { return p },
	}, true)
}

// RegisteredProviders returns one instance per registered provider.
func (c *Coordinator) RegisteredProviders() []provider.VoiceProvider {
	return c.registry.InstantiateAll()
}

// ProviderWithID instantiates a registered provider without state
// checks, or nil.
func (c *Coordinator) ProviderWithID(id string) provider.VoiceProvider {
	return c.registry.Provider(id)
}

// IsProviderRegistered reports whether id has a descriptor.
func (c *Coordinator) IsProviderRegistered(id string) bool {
	return c.registry.Contains(id)
}

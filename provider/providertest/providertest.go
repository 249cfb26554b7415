// Package providertest provides a function-field VoiceProvider double
// for tests.
package providertest

import (
	"context"
	"time"

	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

var _ provider.VoiceProvider = (*Provider)(nil)

// Provider is a configurable VoiceProvider test double. Zero-value
// fields fall back to benign defaults: configured, no voices, empty
// audio, heuristic duration.
type Provider struct {
	ProviderID   string
	Name         string
	NotConfigured bool

	VoicesFn     func(ctx context.Context, language string) ([]speech.Voice, error)
	SynthesizeFn func(ctx context.Context, req speech.Request) (*speech.Audio, error)

	// Call counters, for asserting that cached paths skip generation.
	VoicesInvoked     int
	SynthesizeInvoked int
}

func (p *Provider) ID() string { return p.ProviderID }

func (p *Provider) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ProviderID
}

func (p *Provider) Configured() bool { return !p.NotConfigured }

func (p *Provider) Voices(ctx context.Context, language string) ([]speech.Voice, error) {
	p.VoicesInvoked++
	if p.VoicesFn != nil {
		return p.VoicesFn(ctx, language)
	}
	return nil, nil
}

func (p *Provider) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	p.SynthesizeInvoked++
	if p.SynthesizeFn != nil {
		return p.SynthesizeFn(ctx, req)
	}
	return &speech.Audio{Format: speech.FormatWAV, Data: []byte{}}, nil
}

func (p *Provider) EstimateDuration(text, voiceID string) time.Duration {
	return speech.EstimateDuration(text)
}

func (p *Provider) VoiceAvailable(ctx context.Context, voiceID string) bool {
	voices, err := p.Voices(ctx, "")
	if err != nil {
		return false
	}
	for _, v := range voices {
		if v.ID == voiceID {
			return true
		}
	}
	return false
}

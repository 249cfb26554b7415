// Package elevenlabs is the cloud HTTP voice provider. It wraps the
// ElevenLabs REST API: GET /voices for listing and POST
// /text-to-speech/{voice} for synthesis.
package elevenlabs

import (
	"context"
	"strings"
	"time"

	"github.com/intrusive-memory/hablare/credstore"
	"github.com/intrusive-memory/hablare/pconf"
	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

const (
	ProviderID  = "elevenlabs"
	displayName = "ElevenLabs"

	defaultModelID = "eleven_multilingual_v2"
)

var defaultVoiceSettings = ttsVoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
}

var _ provider.VoiceProvider = (*Provider)(nil)

// Provider talks to the ElevenLabs API. It is configured iff a
// credential is present, either stored under the "elevenlabs-api-key"
// credstore entry or supplied ephemerally via pconf.WithAPIKey.
type Provider struct {
	apiKey string
	client *apiClient
}

// New builds a provider. Without pconf.WithAPIKey the credential is
// resolved through the credential store; an absent credential yields a
// usable but unconfigured provider.
func New(configs ...pconf.Config) *Provider {
	cfg := pconf.GeneralConfig{}
	for i := range configs {
		configs[i].Apply(&cfg)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = credstore.APIKey(ProviderID)
	}

	return &Provider{
		apiKey: apiKey,
		client: newAPIClient(apiKey, cfg.BaseURL, cfg.HTTPClient),
	}
}

// Descriptor returns the registry descriptor for this provider.
func Descriptor(configs ...pconf.Config) provider.Descriptor {
	return provider.Descriptor{
		ID:                    ProviderID,
		DisplayName:           displayName,
		DefaultEnabled:        false,
		RequiresConfiguration: true,
		New: func() provider.VoiceProvider {
			return New(configs...)
		},
	}
}

func (p *Provider) ID() string          { return ProviderID }
func (p *Provider) DisplayName() string { return displayName }

func (p *Provider) Configured() bool { return p.apiKey != "" }

func (p *Provider) Voices(ctx context.Context, language string) ([]speech.Voice, error) {
	if !p.Configured() {
		return nil, speech.ErrNotConfigured
	}
	voices, err := p.client.requestVoiceList(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		return voices, nil
	}
	filtered := voices[:0]
	for _, v := range voices {
		if v.Language == "" || strings.HasPrefix(v.Language, language) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (p *Provider) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	if !p.Configured() {
		return nil, speech.ErrNotConfigured
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, speech.ErrInvalidRequest
	}

	data, err := p.client.requestTTS(ctx, req.VoiceID, ttsRequest{
		Text:          req.Text,
		ModelID:       defaultModelID,
		VoiceSettings: defaultVoiceSettings,
	})
	if err != nil {
		return nil, err
	}

	return &speech.Audio{
		Format: speech.FormatMP3,
		Data:   data,
	}, nil
}

// EstimateDuration is a local heuristic and works without a credential.
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

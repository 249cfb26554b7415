// Package openaitts is a cloud voice provider on top of the OpenAI
// speech API. The API has no voice enumeration endpoint, so the voice
// list is the fixed catalog the service documents.
package openaitts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/intrusive-memory/hablare/credstore"
	"github.com/intrusive-memory/hablare/pconf"
	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

const (
	ProviderID  = "openai"
	displayName = "OpenAI Speech"

	defaultModel = openai.TTSModel1HD
)

var catalog = []openai.SpeechVoice{
	openai.VoiceAlloy,
	openai.VoiceEcho,
	openai.VoiceFable,
	openai.VoiceOnyx,
	openai.VoiceNova,
	openai.VoiceShimmer,
}

var _ provider.VoiceProvider = (*Provider)(nil)

type Provider struct {
	apiKey string
	client *openai.Client
}

// New builds the provider; the credential comes from pconf.WithAPIKey
// or the "openai-api-key" credstore entry.
func New(configs ...pconf.Config) *Provider {
	cfg := pconf.GeneralConfig{}
	for i := range configs {
		configs[i].Apply(&cfg)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = credstore.APIKey(ProviderID)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	return &Provider{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientConfig),
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
	voices := make([]speech.Voice, 0, len(catalog))
	for _, v := range catalog {
		voices = append(voices, speech.Voice{
			ID:         string(v),
			Name:       capitalize(string(v)),
			ProviderID: ProviderID,
		})
	}
	return voices, nil
}

func (p *Provider) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	if !p.Configured() {
		return nil, speech.ErrNotConfigured
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, speech.ErrInvalidRequest
	}

	format := req.Format
	if format == "" {
		format = speech.FormatMP3
	}
	encoding, err := encodingOf(format)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          defaultModel,
		Voice:          openai.SpeechVoice(req.VoiceID),
		Speed:          1.0,
		ResponseFormat: encoding,
		Input:          req.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}

	return &speech.Audio{Format: format, Data: data}, nil
}

func (p *Provider) EstimateDuration(text, voiceID string) time.Duration {
	return speech.EstimateDuration(text)
}

func (p *Provider) VoiceAvailable(ctx context.Context, voiceID string) bool {
	for _, v := range catalog {
		if string(v) == voiceID {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func encodingOf(format speech.Format) (openai.SpeechResponseFormat, error) {
	switch format {
	case speech.FormatMP3:
		return openai.SpeechResponseFormatMp3, nil
	case speech.FormatOGG:
		return openai.SpeechResponseFormatOpus, nil
	case speech.FormatAAC:
		return openai.SpeechResponseFormatAac, nil
	case speech.FormatFLAC:
		return openai.SpeechResponseFormatFlac, nil
	case speech.FormatWAV:
		return openai.SpeechResponseFormatWav, nil
	case speech.FormatLINEAR16:
		return openai.SpeechResponseFormatPcm, nil
	default:
		return "", speech.ErrUnsupportedFormat
	}
}

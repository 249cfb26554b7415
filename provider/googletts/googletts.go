// Package googletts is a cloud voice provider on top of the Google
// Cloud Text-to-Speech SDK.
package googletts

import (
	"context"
	"fmt"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/intrusive-memory/hablare/pconf"
	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

const (
	ProviderID  = "googletts"
	displayName = "Google Cloud Text-to-Speech"
)

var _ provider.VoiceProvider = (*Provider)(nil)

// Provider wraps a texttospeech.Client. A provider whose client could
// not be constructed (no credentials on the host) reports unconfigured
// instead of erroring at construction.
type Provider struct {
	client *texttospeech.Client

	language string
	format   speech.Format
}

// New builds the provider, dialing the SDK client with the supplied
// Google client options. ctx bounds only the dial.
func New(ctx context.Context, configs ...pconf.Config) *Provider {
	cfg := pconf.GeneralConfig{}
	for i := range configs {
		configs[i].Apply(&cfg)
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	client, err := texttospeech.NewClient(ctx, cfg.GoogleClientOptions...)
	if err != nil {
		client = nil
	}

	return &Provider{
		client:   client,
		language: language,
		format:   speech.FormatMP3,
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
			return New(context.Background(), configs...)
		},
	}
}

func (p *Provider) ID() string          { return ProviderID }
func (p *Provider) DisplayName() string { return displayName }

func (p *Provider) Configured() bool { return p.client != nil }

func (p *Provider) Voices(ctx context.Context, language string) ([]speech.Voice, error) {
	if !p.Configured() {
		return nil, speech.ErrNotConfigured
	}
	if language == "" {
		language = p.language
	}

	resp, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: language,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}

	voices := make([]speech.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		lang := ""
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, speech.Voice{
			ID:         v.Name,
			Name:       v.Name,
			ProviderID: ProviderID,
			Language:   lang,
			Gender:     genderOf(v.SsmlGender),
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
		format = p.format
	}
	encoding, err := encodingOf(format)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = p.language
	}

	resp, err := p.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: language,
			Name:         req.VoiceID,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: encoding,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrNetwork, err)
	}

	return &speech.Audio{Format: format, Data: resp.AudioContent}, nil
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

func encodingOf(format speech.Format) (texttospeechpb.AudioEncoding, error) {
	switch format {
	case speech.FormatLINEAR16, speech.FormatWAV:
		return texttospeechpb.AudioEncoding_LINEAR16, nil
	case speech.FormatMP3:
		return texttospeechpb.AudioEncoding_MP3, nil
	case speech.FormatOGG:
		return texttospeechpb.AudioEncoding_OGG_OPUS, nil
	default:
		return texttospeechpb.AudioEncoding_AUDIO_ENCODING_UNSPECIFIED, speech.ErrUnsupportedFormat
	}
}

func genderOf(g texttospeechpb.SsmlVoiceGender) string {
	switch g {
	case texttospeechpb.SsmlVoiceGender_MALE:
		return "male"
	case texttospeechpb.SsmlVoiceGender_FEMALE:
		return "female"
	}
	return ""
}

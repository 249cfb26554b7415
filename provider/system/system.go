// Package system is the on-device voice provider. It drives the host
// operating system's speech synthesizer over a subprocess: `say` on
// darwin (AIFF output) and `espeak-ng` elsewhere (WAV output). The
// container format is reported alongside the bytes, never inferred from
// a file extension.
package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/intrusive-memory/hablare/provider"
	"github.com/intrusive-memory/hablare/speech"
)

const (
	ProviderID  = "system"
	displayName = "System Voices"

	// When a language filter leaves fewer matches than this, an
	// unfiltered sample is returned instead of a near-empty list.
	minFilteredVoices = 2
	sampleVoiceCount  = 5
)

var _ provider.VoiceProvider = (*Provider)(nil)

// Provider synthesizes through the platform speech binary. It needs no
// credential and is always configured; hosts without a synthesizer
// surface ErrNotSupported at call time instead.
type Provider struct {
	language string
	tempDir  string

	// Subprocess seams, overridable in tests so no process is spawned.
	run    func(ctx context.Context, name string, args ...string) error
	output func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New builds the on-device provider. language sets the default voice
// listing filter; empty means unfiltered.
func New(language string) *Provider {
	return &Provider{
		language: language,
		tempDir:  os.TempDir(),
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Descriptor returns the registry descriptor. The on-device provider is
// always enabled; SetEnabled(false) for it is ignored by the registry.
func Descriptor(language string) provider.Descriptor {
	return provider.Descriptor{
		ID:             ProviderID,
		DisplayName:    displayName,
		DefaultEnabled: true,
		AlwaysEnabled:  true,
		New: func() provider.VoiceProvider {
			return New(language)
		},
	}
}

func (p *Provider) ID() string          { return ProviderID }
func (p *Provider) DisplayName() string { return displayName }
func (p *Provider) Configured() bool    { return true }

// Format returns the audio container the current host emits.
func (p *Provider) Format() speech.Format {
	if runtime.GOOS == "darwin" {
		return speech.FormatAIFF
	}
	return speech.FormatWAV
}

func (p *Provider) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, speech.ErrInvalidRequest
	}

	var (
		format speech.Format
		name   string
		args   []string
		out    string
	)
	switch runtime.GOOS {
	case "darwin":
		format = speech.FormatAIFF
		out = filepath.Join(p.tempDir, tempName("aiff"))
		name = "say"
		if req.VoiceID != "" {
			args = append(args, "-v", req.VoiceID)
		}
		args = append(args, "-o", out, req.Text)
	case "windows":
		return nil, fmt.Errorf("%w: no speech synthesizer binary on %s", speech.ErrNotSupported, runtime.GOOS)
	default:
		format = speech.FormatWAV
		out = filepath.Join(p.tempDir, tempName("wav"))
		name = "espeak-ng"
		if req.VoiceID != "" {
			args = append(args, "-v", req.VoiceID)
		}
		args = append(args, "-w", out, req.Text)
	}
	defer os.Remove(out)

	if err := p.run(ctx, name, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", name, err)
	}

	return &speech.Audio{Format: format, Data: data}, nil
}

func (p *Provider) Voices(ctx context.Context, language string) ([]speech.Voice, error) {
	if language == "" {
		language = p.language
	}

	all, err := p.listVoices(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		return all, nil
	}

	want := normalizeLanguage(language)
	filtered := make([]speech.Voice, 0, len(all))
	for _, v := range all {
		if strings.HasPrefix(normalizeLanguage(v.Language), want) {
			filtered = append(filtered, v)
		}
	}

	// A too-strict filter should not leave the caller with nothing to
	// pick from.
	if len(filtered) < minFilteredVoices {
		n := sampleVoiceCount
		if n > len(all) {
			n = len(all)
		}
		return all[:n], nil
	}
	return filtered, nil
}

func (p *Provider) listVoices(ctx context.Context) ([]speech.Voice, error) {
	switch runtime.GOOS {
	case "darwin":
		out, err := p.output(ctx, "say", "-v", "?")
		if err != nil {
			return nil, fmt.Errorf("say: %w", err)
		}
		return parseSayVoices(out), nil
	case "windows":
		return nil, fmt.Errorf("%w: no speech synthesizer binary on %s", speech.ErrNotSupported, runtime.GOOS)
	default:
		out, err := p.output(ctx, "espeak-ng", "--voices")
		if err != nil {
			return nil, fmt.Errorf("espeak-ng: %w", err)
		}
		return parseEspeakVoices(out), nil
	}
}

// EstimateDuration is the shared character-count heuristic; nothing is
// synthesized.
func (p *Provider) EstimateDuration(text, voiceID string) time.Duration {
	return speech.EstimateDuration(text)
}

func (p *Provider) VoiceAvailable(ctx context.Context, voiceID string) bool {
	voices, err := p.listVoices(ctx)
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

func normalizeLanguage(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

func tempName(ext string) string {
	return fmt.Sprintf("hablare-%d.%s", time.Now().UnixNano(), ext)
}

package system

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intrusive-memory/hablare/speech"
)

const sayOutput = `Alex                en_US    # Most people recognize me by my voice.
Alva                sv_SE    # Hej, mitt namn är Alva.
Amélie (Enhanced)   fr_CA    # Bonjour! Je m’appelle Amélie.
Ava (Premium)       en_US    # Hello, my name is Ava.
Daniel              en_GB    # Hello, my name is Daniel.
`

const espeakOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      afrikaans          gmw/af
 5  en-gb           --/M      english            gmw/en
 5  en-us           --/M      english-us         gmw/en-US
 5  fr-fr           --/F      french             roa/fr
`

// fakeExec wires both subprocess seams to canned data: listings return
// listing, synthesis writes payload to the output path argument.
func fakeExec(p *Provider, listing string, payload []byte) *[]string {
	var calls []string
	p.output = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return []byte(listing), nil
	}
	p.run = func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		for i, a := range args {
			if (a == "-o" || a == "-w") && i+1 < len(args) {
				return os.WriteFile(args[i+1], payload, 0o600)
			}
		}
		return errors.New("no output path argument")
	}
	return &calls
}

func hostListing() string {
	if runtime.GOOS == "darwin" {
		return sayOutput
	}
	return espeakOutput
}

func TestParseSayVoices(t *testing.T) {
	voices := parseSayVoices([]byte(sayOutput))
	require.Len(t, voices, 5)

	assert.Equal(t, "Alex", voices[0].ID)
	assert.Equal(t, "en-US", voices[0].Language)
	assert.Equal(t, "US", voices[0].Locality)
	assert.Equal(t, speech.QualityDefault, voices[0].Quality)
	assert.Equal(t, ProviderID, voices[0].ProviderID)

	assert.Equal(t, "Amélie (Enhanced)", voices[2].ID)
	assert.Equal(t, speech.QualityEnhanced, voices[2].Quality)
	assert.Equal(t, "fr-CA", voices[2].Language)

	assert.Equal(t, "Ava (Premium)", voices[3].ID)
	assert.Equal(t, speech.QualityPremium, voices[3].Quality)
}

func TestParseEspeakVoices(t *testing.T) {
	voices := parseEspeakVoices([]byte(espeakOutput))
	require.Len(t, voices, 4)

	assert.Equal(t, "english", voices[1].ID)
	assert.Equal(t, "en-GB", voices[1].Language)
	assert.Equal(t, "male", voices[1].Gender)

	assert.Equal(t, "french", voices[3].ID)
	assert.Equal(t, "female", voices[3].Gender)
}

func TestVoicesLanguageFilter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system synthesizer on windows")
	}
	p := New("")
	fakeExec(p, hostListing(), nil)

	all, err := p.Voices(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, all)

	filtered, err := p.Voices(context.Background(), "en")
	require.NoError(t, err)
	require.NotEmpty(t, filtered)
	for _, v := range filtered {
		assert.True(t, strings.HasPrefix(strings.ToLower(v.Language), "en"), "voice %q language %q", v.ID, v.Language)
	}
}

func TestVoicesFilterFallbackSample(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system synthesizer on windows")
	}
	p := New("")
	fakeExec(p, hostListing(), nil)

	all, err := p.Voices(context.Background(), "")
	require.NoError(t, err)

	// A language no voice matches falls back to an unfiltered sample
	// rather than an empty list.
	voices, err := p.Voices(context.Background(), "zz-ZZ")
	require.NoError(t, err)
	assert.NotEmpty(t, voices)
	assert.LessOrEqual(t, len(voices), sampleVoiceCount)
	assert.Equal(t, all[0].ID, voices[0].ID)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	p := New("")
	calls := fakeExec(p, hostListing(), []byte("audio"))

	for _, text := range []string{"", "   ", "\t\n "} {
		_, err := p.Synthesize(context.Background(), speech.Request{Text: text, VoiceID: "Alex"})
		assert.True(t, errors.Is(err, speech.ErrInvalidRequest), "text %q", text)
	}
	assert.Empty(t, *calls, "no subprocess may run for invalid input")
}

func TestSynthesizeProducesPlatformContainer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system synthesizer on windows")
	}
	p := New("")
	p.tempDir = t.TempDir()
	calls := fakeExec(p, hostListing(), []byte("fake-audio"))

	audio, err := p.Synthesize(context.Background(), speech.Request{Text: "Hello.", VoiceID: "Alex"})
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-audio"), audio.Data)
	assert.Equal(t, p.Format(), audio.Format)
	if runtime.GOOS == "darwin" {
		assert.Equal(t, speech.FormatAIFF, audio.Format)
	} else {
		assert.Equal(t, speech.FormatWAV, audio.Format)
	}
	require.Len(t, *calls, 1)
	assert.Contains(t, (*calls)[0], "Alex")
}

func TestSynthesizeRunFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system synthesizer on windows")
	}
	p := New("")
	p.tempDir = t.TempDir()
	p.run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	}

	_, err := p.Synthesize(context.Background(), speech.Request{Text: "Hello.", VoiceID: "Alex"})
	assert.Error(t, err)
}

func TestVoiceAvailable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no system synthesizer on windows")
	}
	p := New("")
	fakeExec(p, hostListing(), nil)

	voices, err := p.Voices(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, voices)

	assert.True(t, p.VoiceAvailable(context.Background(), voices[0].ID))
	assert.False(t, p.VoiceAvailable(context.Background(), "NoSuchVoice"))
}

func TestEstimateDurationFloorAndMonotonic(t *testing.T) {
	p := New("")
	assert.GreaterOrEqual(t, p.EstimateDuration("", "Alex").Seconds(), 1.0)

	prev := p.EstimateDuration("", "Alex")
	for _, n := range []int{10, 100, 500, 1000} {
		d := p.EstimateDuration(strings.Repeat("a", n), "Alex")
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestDescriptorAlwaysEnabled(t *testing.T) {
	desc := Descriptor("")
	assert.Equal(t, ProviderID, desc.ID)
	assert.True(t, desc.AlwaysEnabled)
	assert.True(t, desc.DefaultEnabled)
	assert.False(t, desc.RequiresConfiguration)
	assert.True(t, desc.New().Configured())
}

package hablare_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intrusive-memory/hablare"
	"github.com/intrusive-memory/hablare/provider/providertest"
	"github.com/intrusive-memory/hablare/speech"
)

// memStore is a map-backed RecordStore for coordinator tests.
type memStore struct {
	records map[string]*hablare.AudioRecord
	inserts int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*hablare.AudioRecord)}
}

func key(providerID, voiceID, prompt string) string {
	return providerID + "\x00" + voiceID + "\x00" + prompt
}

func (s *memStore) Find(ctx context.Context, providerID, voiceID, prompt string) (*hablare.AudioRecord, error) {
	return s.records[key(providerID, voiceID, prompt)], nil
}

func (s *memStore) Insert(ctx context.Context, rec *hablare.AudioRecord) error {
	k := key(rec.ProviderID, rec.VoiceID, rec.Prompt)
	s.inserts++
	if _, ok := s.records[k]; ok {
		return nil
	}
	s.records[k] = rec
	return nil
}

func newTestCoordinator(store hablare.RecordStore, providers ...*providertest.Provider) *hablare.Coordinator {
	c := hablare.NewCoordinator(hablare.NewRegistry(), store)
	for _, p := range providers {
		c.RegisterProvider(p)
	}
	return c
}

func TestGenerateProducesResultAndRecord(t *testing.T) {
	p := &providertest.Provider{
		ProviderID: "custom1",
		SynthesizeFn: func(ctx context.Context, req speech.Request) (*speech.Audio, error) {
			return &speech.Audio{Format: speech.FormatMP3, Data: []byte("mp3-bytes")}, nil
		},
	}
	store := newMemStore()
	c := newTestCoordinator(store, p)

	result, err := c.Generate(context.Background(), hablare.GenerateParams{
		Text:       "Hello there.",
		ProviderID: "custom1",
		VoiceID:    "v1",
		VoiceName:  "Voice One",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.RequestID, "req_"))
	assert.Equal(t, []byte("mp3-bytes"), result.Audio)
	assert.Equal(t, "audio/mpeg", result.MIMEType)
	assert.Equal(t, "custom1", result.ProviderID)
	assert.Equal(t, "Voice One", result.VoiceName)
	assert.False(t, result.Cached)
	assert.GreaterOrEqual(t, result.EstimatedDuration.Seconds(), 1.0)

	rec, err := store.Find(context.Background(), "custom1", "v1", "Hello there.")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []byte("mp3-bytes"), rec.Payload)
	assert.NotEmpty(t, rec.ID)
}

func TestGenerateMIMEOverride(t *testing.T) {
	p := &providertest.Provider{ProviderID: "custom1"}
	c := newTestCoordinator(nil, p)

	result, err := c.Generate(context.Background(), hablare.GenerateParams{
		Text:         "text",
		ProviderID:   "custom1",
		VoiceID:      "v1",
		MIMEOverride: "audio/x-custom",
	})
	require.NoError(t, err)
	assert.Equal(t, "audio/x-custom", result.MIMEType)
}

func TestGenerateResolutionFailureSkipsGeneration(t *testing.T) {
	p := &providertest.Provider{ProviderID: "cloud", NotConfigured: true}
	store := newMemStore()
	c := newTestCoordinator(store, p)

	_, err := c.Generate(context.Background(), hablare.GenerateParams{
		Text:       "text",
		ProviderID: "cloud",
		VoiceID:    "v1",
	})
	assert.True(t, errors.Is(err, speech.ErrNotConfigured))
	assert.Zero(t, p.SynthesizeInvoked)
	assert.Zero(t, store.inserts)

	_, err = c.Generate(context.Background(), hablare.GenerateParams{
		Text:       "text",
		ProviderID: "unknown",
		VoiceID:    "v1",
	})
	assert.True(t, errors.Is(err, speech.ErrNotRegistered))
}

func TestGenerateProviderErrorPropagates(t *testing.T) {
	boom := errors.New("synthesis exploded")
	p := &providertest.Provider{
		ProviderID: "custom1",
		SynthesizeFn: func(ctx context.Context, req speech.Request) (*speech.Audio, error) {
			return nil, boom
		},
	}
	store := newMemStore()
	c := newTestCoordinator(store, p)

	_, err := c.Generate(context.Background(), hablare.GenerateParams{
		Text:       "text",
		ProviderID: "custom1",
		VoiceID:    "v1",
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.inserts)
}

func TestGeneratePreInsertedRecordShortCircuits(t *testing.T) {
	p := &providertest.Provider{ProviderID: "custom1"}
	store := newMemStore()
	require.NoError(t, store.Insert(context.Background(), &hablare.AudioRecord{
		ID:         "pre",
		ProviderID: "custom1",
		VoiceID:    "v1",
		Prompt:     "cached line",
		Payload:    []byte("cached-bytes"),
		MIMEType:   "audio/mpeg",
		Duration:   2.5,
		VoiceName:  "Voice One",
	}))
	inserts := store.inserts

	c := newTestCoordinator(store, p)

	result, err := c.Generate(context.Background(), hablare.GenerateParams{
		Text:       "cached line",
		ProviderID: "custom1",
		VoiceID:    "v1",
	})
	require.NoError(t, err)

	assert.True(t, result.Cached)
	assert.Equal(t, []byte("cached-bytes"), result.Audio)
	assert.Equal(t, "Voice One", result.VoiceName)
	assert.InDelta(t, 2.5, result.EstimatedDuration.Seconds(), 0.001)
	// No provider call and no new record.
	assert.Zero(t, p.SynthesizeInvoked)
	assert.Equal(t, inserts, store.inserts)
}

func TestGenerateTwiceSingleRecord(t *testing.T) {
	p := &providertest.Provider{ProviderID: "custom1"}
	store := newMemStore()
	c := newTestCoordinator(store, p)

	params := hablare.GenerateParams{Text: "same line", ProviderID: "custom1", VoiceID: "v1"}

	first, err := c.Generate(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := c.Generate(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	assert.Equal(t, 1, p.SynthesizeInvoked)
	assert.Len(t, store.records, 1)
}

func TestVoicesDelegates(t *testing.T) {
	p := &providertest.Provider{
		ProviderID: "custom1",
		VoicesFn: func(ctx context.Context, language string) ([]speech.Voice, error) {
			return []speech.Voice{{ID: "custom1-voice-1", Name: "One", ProviderID: "custom1"}}, nil
		},
	}
	c := newTestCoordinator(nil, p)

	voices, err := c.Voices(context.Background(), "custom1")
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "custom1-voice-1", voices[0].ID)
	assert.Equal(t, "custom1", voices[0].ProviderID)
}

func TestVoicesErrorPropagates(t *testing.T) {
	p := &providertest.Provider{ProviderID: "cloud", NotConfigured: true}
	c := newTestCoordinator(nil, p)

	_, err := c.Voices(context.Background(), "cloud")
	assert.True(t, errors.Is(err, speech.ErrNotConfigured))
}

func TestAllVoicesOmitsFailingProvider(t *testing.T) {
	good := &providertest.Provider{
		ProviderID: "good",
		VoicesFn: func(ctx context.Context, language string) ([]speech.Voice, error) {
			return []speech.Voice{{ID: "g1", ProviderID: "good"}}, nil
		},
	}
	bad := &providertest.Provider{
		ProviderID: "bad",
		VoicesFn: func(ctx context.Context, language string) ([]speech.Voice, error) {
			return nil, errors.New("upstream down")
		},
	}
	c := newTestCoordinator(nil, good, bad)

	all := c.AllVoices(context.Background())
	require.Contains(t, all, "good")
	assert.NotContains(t, all, "bad")
	assert.Len(t, all["good"], 1)
}

func TestAllVoicesSkipsDisabledAndUnconfigured(t *testing.T) {
	enabled := &providertest.Provider{
		ProviderID: "enabled",
		VoicesFn: func(ctx context.Context, language string) ([]speech.Voice, error) {
			return []speech.Voice{{ID: "e1", ProviderID: "enabled"}}, nil
		},
	}
	unconfigured := &providertest.Provider{ProviderID: "unconfigured", NotConfigured: true}
	disabled := &providertest.Provider{ProviderID: "disabled"}

	c := newTestCoordinator(nil, enabled, unconfigured, disabled)
	c.Registry().SetEnabled("disabled", false)

	all := c.AllVoices(context.Background())
	assert.Contains(t, all, "enabled")
	assert.NotContains(t, all, "unconfigured")
	assert.NotContains(t, all, "disabled")
}

func TestVoiceAvailable(t *testing.T) {
	p := &providertest.Provider{
		ProviderID: "custom1",
		VoicesFn: func(ctx context.Context, language string) ([]speech.Voice, error) {
			return []speech.Voice{{ID: "present", ProviderID: "custom1"}}, nil
		},
	}
	unconfigured := &providertest.Provider{ProviderID: "cloud", NotConfigured: true}
	c := newTestCoordinator(nil, p, unconfigured)

	assert.True(t, c.VoiceAvailable(context.Background(), "present", "custom1"))
	assert.False(t, c.VoiceAvailable(context.Background(), "absent", "custom1"))
	// Unconfigured resolves to false, never an error.
	assert.False(t, c.VoiceAvailable(context.Background(), "present", "cloud"))
	assert.False(t, c.VoiceAvailable(context.Background(), "present", "unknown"))
}

func TestRegistryPassThroughs(t *testing.T) {
	p := &providertest.Provider{ProviderID: "custom1"}
	c := newTestCoordinator(nil, p)

	assert.True(t, c.IsProviderRegistered("custom1"))
	assert.False(t, c.IsProviderRegistered("other"))
	assert.NotNil(t, c.ProviderWithID("custom1"))
	assert.Nil(t, c.ProviderWithID("other"))
	require.Len(t, c.RegisteredProviders(), 1)
	assert.Equal(t, "custom1", c.RegisteredProviders()[0].ID())
}

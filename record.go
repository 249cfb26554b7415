package hablare

import (
	"context"
	"time"
)

// AudioRecord is a persisted generation result, keyed by the
// (provider, voice, prompt) triple. Records are written once and never
// mutated; cleanup is external.
type AudioRecord struct {
	ID          string
	ProviderID  string
	RequestorID string
	MIMEType    string
	Payload     []byte
	Prompt      string
	Duration    float64 // estimated seconds, from the provider heuristic
	VoiceID     string
	VoiceName   string
	CreatedAt   time.Time
}

// RecordStore persists generated audio so repeated requests for the
// same (provider, voice, prompt) triple are not regenerated.
type RecordStore interface {
	// Find returns the record for the exact triple, or nil when there
	// is none.
	Find(ctx context.Context, providerID, voiceID, prompt string) (*AudioRecord, error)

	// Insert persists a record. Stores with a uniqueness constraint on
	// the triple treat a duplicate insert as a no-op.
	Insert(ctx context.Context, rec *AudioRecord) error
}

// Package record persists generated audio in sqlite so identical
// (provider, voice, prompt) requests are not regenerated.
package record

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/intrusive-memory/hablare"
)

var _ hablare.RecordStore = (*Store)(nil)

// Store is a sqlite-backed audio record store. The unique index on
// (provider_id, voice_id, prompt) makes Insert a true insert-if-absent,
// so concurrent identical requests cannot produce duplicate records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a record store at dbPath. Use
// "file::memory:?cache=shared" for an in-memory store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS audio_records (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		requestor_id TEXT,
		mime_type TEXT,
		payload BLOB,
		prompt TEXT NOT NULL,
		duration REAL,
		voice_id TEXT NOT NULL,
		voice_name TEXT,
		created_at DATETIME,
		UNIQUE(provider_id, voice_id, prompt)
	);`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Find returns the record for the exact triple, or nil when absent.
func (s *Store) Find(ctx context.Context, providerID, voiceID, prompt string) (*hablare.AudioRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider_id, requestor_id, mime_type, payload, prompt, duration, voice_id, voice_name, created_at
		 FROM audio_records WHERE provider_id=? AND voice_id=? AND prompt=?`,
		providerID, voiceID, prompt)

	var rec hablare.AudioRecord
	var requestorID, mimeType, voiceName sql.NullString
	var createdAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.ProviderID, &requestorID, &mimeType, &rec.Payload,
		&rec.Prompt, &rec.Duration, &rec.VoiceID, &voiceName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.RequestorID = requestorID.String
	rec.MIMEType = mimeType.String
	rec.VoiceName = voiceName.String
	rec.CreatedAt = createdAt.Time
	return &rec, nil
}

// Insert persists a record. Inserting a triple that already exists is a
// no-op rather than an error.
func (s *Store) Insert(ctx context.Context, rec *hablare.AudioRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audio_records (id, provider_id, requestor_id, mime_type, payload, prompt, duration, voice_id, voice_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(provider_id, voice_id, prompt) DO NOTHING`,
		rec.ID, rec.ProviderID, rec.RequestorID, rec.MIMEType, rec.Payload,
		rec.Prompt, rec.Duration, rec.VoiceID, rec.VoiceName, rec.CreatedAt)
	return err
}

// Count returns the number of persisted records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audio_records`).Scan(&n)
	return n, err
}

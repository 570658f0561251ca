package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/policypal/backend/internal/model/chat"
)

// SQLiteStore keeps one conversation document per (app_id, user_id, doc_name)
// row, with the message log serialized as JSON.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// storedMessage is the durable shape of a single message.
type storedMessage struct {
	ID         string          `json:"id,omitempty"`
	Sender     string          `json:"sender"`
	Text       string          `json:"text"`
	Confidence chat.Confidence `json:"confidence,omitempty"`
	Timestamp  storedTime      `json:"timestamp"`
}

// OpenSQLite opens (or creates) the conversation database at the given path,
// ensuring the parent directory exists, and initializes the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store at %s: %w", path, err)
	}

	store := &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init store schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			app_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			doc_name TEXT NOT NULL,
			messages TEXT NOT NULL,
			last_updated INTEGER NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			PRIMARY KEY (app_id, user_id, doc_name)
		);
	`)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the stored conversation for the user, or ErrNotFound when no
// document exists yet.
func (s *SQLiteStore) Load(ctx context.Context, appID, userID string) (chat.Conversation, error) {
	var rawMessages string
	var lastUpdated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT messages, last_updated FROM conversations WHERE app_id = ? AND user_id = ? AND doc_name = ?`,
		appID, userID, DocumentName,
	).Scan(&rawMessages, &lastUpdated)
	if err == sql.ErrNoRows {
		return chat.Conversation{}, ErrNotFound
	}
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to load conversation for user %s: %w", userID, err)
	}

	var stored []storedMessage
	if err := json.Unmarshal([]byte(rawMessages), &stored); err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to decode stored conversation for user %s: %w", userID, err)
	}

	messages := make([]chat.Message, 0, len(stored))
	for _, msg := range stored {
		messages = append(messages, chat.Message{
			ID:         msg.ID,
			Sender:     msg.Sender,
			Text:       msg.Text,
			Confidence: msg.Confidence,
			Timestamp:  msg.Timestamp.Time,
		})
	}

	return chat.Conversation{
		Messages:    messages,
		LastUpdated: time.Unix(lastUpdated, 0).UTC(),
	}, nil
}

// Save merge-upserts the conversation document: messages and last_updated are
// overwritten, created_at is preserved from the first write. Messages lacking
// a concrete timestamp are assigned the write-time instant so client clock
// skew never reaches storage.
func (s *SQLiteStore) Save(ctx context.Context, appID, userID string, conv chat.Conversation) error {
	writeTime := s.now()

	stored := make([]storedMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		ts := msg.Timestamp
		if ts.IsZero() {
			ts = writeTime
		}
		stored = append(stored, storedMessage{
			ID:         msg.ID,
			Sender:     msg.Sender,
			Text:       msg.Text,
			Confidence: msg.Confidence,
			Timestamp:  storedTime{ts},
		})
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode conversation for user %s: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (app_id, user_id, doc_name, messages, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (app_id, user_id, doc_name)
		DO UPDATE SET messages = excluded.messages, last_updated = excluded.last_updated`,
		appID, userID, DocumentName, string(payload), writeTime.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation for user %s: %w", userID, err)
	}
	return nil
}

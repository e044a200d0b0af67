// Package transcript exports chat sessions to a JSON file the user keeps.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/csheth/lexdesk/internal/session"
)

const fileName = "transcripts.json"

// Snapshot is one exported session.
type Snapshot struct {
	ID         string            `json:"id"`
	Backend    string            `json:"backend,omitempty"`
	CapturedAt time.Time         `json:"capturedAt"`
	Messages   []session.Message `json:"messages"`
}

// FromMessages captures msgs. The seeded greeting is kept so exports read the
// same as the screen did.
func FromMessages(id, backend string, msgs []session.Message, now time.Time) Snapshot {
	return Snapshot{
		ID:         id,
		Backend:    backend,
		CapturedAt: now,
		Messages:   append([]session.Message(nil), msgs...),
	}
}

// DefaultPath is where exports go when no path is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lexdesk", fileName)
	}
	return fileName
}

// Save appends snapshot to the JSON array at path, creating the file if needed.
func Save(path string, snapshot Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	entries, err := loadEntries(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		entries = nil
	}
	entries = append(entries, raw)
	return writeEntries(path, entries)
}

func writeEntries(path string, entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

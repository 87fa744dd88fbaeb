package web

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// roomDelimiter separates sessions when a room file is reused after a
// chat ends
const roomDelimiter = "-----"

// TranscriptConfig holds the configuration for the transcript recorder
type TranscriptConfig struct {
	// Dir is the directory transcript files are written to
	Dir string
}

// Transcript appends chat lines to one file per room for offline analysis.
// Files are named ChatRoom_<roomID> and lines are tab-separated.
type Transcript struct {
	dir string
	mu  sync.Mutex
}

// NewTranscript creates a transcript recorder, creating the directory if needed
func NewTranscript(cfg *TranscriptConfig) (*Transcript, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Dir == "" {
		return nil, errors.New("transcript directory cannot be empty")
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}

	return &Transcript{
		dir: cfg.Dir,
	}, nil
}

// Append records one chat line for the room
func (t *Transcript) Append(roomID int, participantID, text string) error {
	return t.write(roomID, fmt.Sprintf("%s\t%s\n", participantID, text))
}

// EndRoom marks the end of a chat session in the room's file
func (t *Transcript) EndRoom(roomID int) error {
	return t.write(roomID, roomDelimiter+"\n")
}

func (t *Transcript) write(roomID int, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	path := filepath.Join(t.dir, fmt.Sprintf("ChatRoom_%d", roomID))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open transcript file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write transcript line: %w", err)
	}

	return nil
}

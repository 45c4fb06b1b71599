// Package history persists chat transcripts as JSONL records, one file per
// conversation, plus a bounded index of recent conversations.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nexus-ai/nexus/internal/store"
)

// Role identifies who produced a transcript line.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Entry is one transcript line.
type Entry struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Recent describes one conversation in the recent index, newest last.
type Recent struct {
	File string `json:"file"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Store owns the history directory and the recent index. A conversation file
// is created lazily on the first appended exchange.
type Store struct {
	dir        string
	recentPath string
	limit      int
	now        func() time.Time

	mu      sync.Mutex
	current string
}

// New creates a history store. limit bounds the recent index; zero or
// negative keeps everything.
func New(dir, recentPath string, limit int) *Store {
	return &Store{
		dir:        dir,
		recentPath: recentPath,
		limit:      limit,
		now:        time.Now,
	}
}

// Append records one user/bot exchange in the current conversation, starting
// a new conversation file if none is open.
func (s *Store) Append(userText, botText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		if err := s.startLocked(); err != nil {
			return err
		}
	}

	now := s.now()
	var b strings.Builder
	for _, entry := range []Entry{
		{Role: RoleUser, Content: userText, At: now},
		{Role: RoleBot, Content: botText, At: now},
	} {
		encoded, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal history record: %w", err)
		}
		b.Write(encoded)
		b.WriteByte('\n')
	}
	if err := store.AppendFile(s.current, []byte(b.String())); err != nil {
		return fmt.Errorf("append history record: %w", err)
	}
	return nil
}

// Reset closes the current conversation; the next exchange opens a new file.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// Load reads the transcript at path. Malformed lines are skipped.
func (s *Store) Load(path string) ([]Entry, error) {
	content, err := store.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	entries := make([]Entry, 0)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history file: %w", err)
	}
	return entries, nil
}

// RecentChats returns the recent index, oldest first.
func (s *Store) RecentChats() ([]Recent, error) {
	content, err := store.ReadFile(s.recentPath)
	if errors.Is(err, os.ErrNotExist) {
		return []Recent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recent index: %w", err)
	}

	var recents []Recent
	if err := json.Unmarshal([]byte(content), &recents); err != nil {
		return nil, fmt.Errorf("decode recent index: %w", err)
	}
	return recents, nil
}

// ClearRecent empties the recent index. Transcript files are kept.
func (s *Store) ClearRecent() error {
	return s.writeRecent([]Recent{})
}

func (s *Store) startLocked() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	now := s.now()
	name := fmt.Sprintf("chat_%s.jsonl", now.Format("20060102_150405"))
	s.current = filepath.Join(s.dir, name)

	recents, err := s.RecentChats()
	if err != nil {
		return err
	}
	recents = append(recents, Recent{
		File: s.current,
		Name: name,
		Date: now.Format("2006-01-02 15:04"),
	})
	if s.limit > 0 && len(recents) > s.limit {
		recents = recents[len(recents)-s.limit:]
	}
	return s.writeRecent(recents)
}

func (s *Store) writeRecent(recents []Recent) error {
	data, err := json.MarshalIndent(recents, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recent index: %w", err)
	}
	if err := store.WriteFile(s.recentPath, data); err != nil {
		return fmt.Errorf("write recent index: %w", err)
	}
	return nil
}

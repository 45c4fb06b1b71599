// Package profile holds the user/bot identity and nested personal details,
// persisted as a single JSON document.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nexus-ai/nexus/internal/store"
)

// ErrUnknownField is returned when a set targets a category/field pair that
// is not part of the protected schema.
var ErrUnknownField = errors.New("unknown profile category or field")

// Protected categories. Unknown category/field pairs are rejected on update;
// extra categories found in a stored profile are kept read-only.
const (
	CategoryUser     = "user"
	CategoryFamily   = "family"
	CategoryFriends  = "friends"
	CategoryTeachers = "teachers"
)

// schema lists the fields a protected category may hold and their kinds.
var schema = map[string]map[string]Kind{
	CategoryUser: {
		"name":           KindText,
		"birth_date":     KindDate,
		"age":            KindText,
		"university":     KindText,
		"course":         KindText,
		"favorite_color": KindText,
		"favorite_sport": KindText,
		"skills":         KindList,
	},
	CategoryFamily: {
		"mother":      KindText,
		"father":      KindText,
		"grandmother": KindText,
		"sister":      KindText,
	},
	CategoryFriends: {
		"super_close": KindList,
		"close":       KindList,
		"best":        KindList,
	},
	CategoryTeachers: {
		"skill_lab": KindText,
	},
}

// Store is the in-memory profile backed by one JSON file.
type Store struct {
	path string

	mu       sync.RWMutex
	userName string
	botName  string
	volume   int
	brightness int
	details  map[string]map[string]Value
}

// New creates a Store with the default skeleton, not yet saved.
func New(path, userName, botName string, volume, brightness int) *Store {
	return &Store{
		path:       path,
		userName:   userName,
		botName:    botName,
		volume:     volume,
		brightness: brightness,
		details:    defaultDetails(),
	}
}

// Load reads a profile document from disk. A missing file yields the default
// skeleton so a fresh install can converse immediately.
func Load(path, userName, botName string, volume, brightness int) (*Store, error) {
	s := New(path, userName, botName, volume, brightness)

	content, err := store.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var doc document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if doc.UserName != "" {
		s.userName = doc.UserName
	}
	if doc.BotName != "" {
		s.botName = doc.BotName
	}
	if doc.Volume != nil {
		s.volume = clampPercent(*doc.Volume)
	}
	if doc.Brightness != nil {
		s.brightness = clampPercent(*doc.Brightness)
	}
	// Stored categories extend the skeleton; unknown categories are kept as
	// free-form data but stay rejected for updates.
	for category, fields := range doc.Details {
		if _, ok := s.details[category]; !ok {
			s.details[category] = map[string]Value{}
		}
		for field, value := range fields {
			s.details[category][field] = value
		}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save atomically writes the profile document.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := document{
		UserName:   s.userName,
		BotName:    s.botName,
		Volume:     intPtr(s.volume),
		Brightness: intPtr(s.brightness),
		Details:    s.details,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return store.WriteFile(s.path, data)
}

// Get returns a stored field value, reporting absence for unset fields.
func (s *Store) Get(category, field string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.details[category]
	if !ok {
		return Value{}, false
	}
	value, ok := fields[field]
	if !ok || value.IsZero() {
		return Value{}, false
	}
	return value, true
}

// Set updates a protected field from raw user text. Unknown category/field
// pairs are rejected rather than auto-created. Setting birth_date also
// recomputes the derived age.
func (s *Store) Set(category, field, raw string) error {
	kind, ok := fieldKind(category, field)
	if !ok {
		return ErrUnknownField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindDate:
		date, err := ParseDate(raw)
		if err != nil {
			return err
		}
		s.details[category][field] = Value{Kind: KindDate, Date: date}
		if category == CategoryUser && field == "birth_date" {
			age := ComputeAge(date, time.Now())
			s.details[CategoryUser]["age"] = Value{Kind: KindText, Text: strconv.Itoa(age)}
		}
	case KindList:
		s.details[category][field] = Value{Kind: KindList, List: splitList(raw)}
	default:
		s.details[category][field] = Value{Kind: KindText, Text: Normalize(raw)}
	}
	return nil
}

// UserName returns the current user display name.
func (s *Store) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

// SetUserName updates the user display name.
func (s *Store) SetUserName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userName = name
}

// BotName returns the current bot display name.
func (s *Store) BotName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.botName
}

// SetBotName updates the bot display name.
func (s *Store) SetBotName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botName = name
}

// Volume returns the persisted volume percentage.
func (s *Store) Volume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetVolume persists a clamped volume percentage in memory.
func (s *Store) SetVolume(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clampPercent(percent)
}

// Brightness returns the persisted brightness percentage.
func (s *Store) Brightness() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brightness
}

// SetBrightness persists a clamped brightness percentage in memory.
func (s *Store) SetBrightness(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = clampPercent(percent)
}

// Categories returns protected category names with at least one set field,
// for display purposes.
func (s *Store) Categories() []string {
	return []string{CategoryUser, CategoryFamily, CategoryFriends, CategoryTeachers}
}

// Fields returns a copy of the set fields in one category.
func (s *Store) Fields(category string) map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.details[category]
	if !ok {
		return nil
	}
	out := make(map[string]Value, len(fields))
	for name, value := range fields {
		if value.IsZero() {
			continue
		}
		out[name] = value
	}
	return out
}

// Normalize trims whitespace and trailing sentence punctuation from a value.
func Normalize(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), ".!?")
}

func fieldKind(category, field string) (Kind, bool) {
	fields, ok := schema[category]
	if !ok {
		return KindText, false
	}
	kind, ok := fields[field]
	return kind, ok
}

func defaultDetails() map[string]map[string]Value {
	details := make(map[string]map[string]Value, len(schema))
	for category := range schema {
		details[category] = map[string]Value{}
	}
	details[CategoryUser]["university"] = Value{Kind: KindText, Text: "East West Institute Of Technology"}
	details[CategoryUser]["course"] = Value{Kind: KindText, Text: "Computer Science Engineering"}
	return details
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := Normalize(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func intPtr(v int) *int {
	return &v
}

type document struct {
	UserName   string                      `json:"user_name"`
	BotName    string                      `json:"bot_name"`
	Volume     *int                        `json:"volume,omitempty"`
	Brightness *int                        `json:"brightness,omitempty"`
	Details    map[string]map[string]Value `json:"details"`
}

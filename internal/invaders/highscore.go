package invaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrPrefNotFound is returned by a PrefsStore when the key has no value.
var ErrPrefNotFound = errors.New("invaders: preference not found")

// PrefsStore is a keyed string store for persisted player state.
type PrefsStore interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
}

// MemoryPrefs is an in-process PrefsStore used when no database is open.
type MemoryPrefs struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryPrefs creates an empty store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]string)}
}

// GetString returns the stored value or ErrPrefNotFound.
func (m *MemoryPrefs) GetString(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrPrefNotFound
	}
	return v, nil
}

// SetString stores value under key.
func (m *MemoryPrefs) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// HighScoreTable keeps the best scores in ascending order.
type HighScoreTable struct {
	ScoreTable []int `json:"ScoreTable"`
}

// Add inserts score and keeps only the highest limit entries.
func (t *HighScoreTable) Add(score, limit int) {
	t.ScoreTable = append(t.ScoreTable, score)
	sort.Ints(t.ScoreTable)
	t.trim(limit)
}

// trim keeps the highest limit entries of a sorted table. A limit of zero
// or less keeps everything.
func (t *HighScoreTable) trim(limit int) {
	if limit > 0 && len(t.ScoreTable) > limit {
		t.ScoreTable = append([]int(nil), t.ScoreTable[len(t.ScoreTable)-limit:]...)
	}
}

// Highest returns the best score, or 0 for an empty table.
func (t HighScoreTable) Highest() int {
	if len(t.ScoreTable) == 0 {
		return 0
	}
	return t.ScoreTable[len(t.ScoreTable)-1]
}

// Display returns the scores highest first.
func (t HighScoreTable) Display() []int {
	out := make([]int, len(t.ScoreTable))
	for i, s := range t.ScoreTable {
		out[len(out)-1-i] = s
	}
	return out
}

// LoadHighScoreTable reads the table stored under key and keeps its
// highest limit entries. A missing record yields an empty table and no
// error; a corrupt one yields an empty table and the decode error.
func LoadHighScoreTable(prefs PrefsStore, key string, limit int) (HighScoreTable, error) {
	if prefs == nil {
		return HighScoreTable{}, nil
	}
	raw, err := prefs.GetString(key)
	if errors.Is(err, ErrPrefNotFound) || (err == nil && raw == "") {
		return HighScoreTable{}, nil
	}
	if err != nil {
		return HighScoreTable{}, fmt.Errorf("invaders: failed to read high scores: %w", err)
	}

	var t HighScoreTable
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return HighScoreTable{}, fmt.Errorf("invaders: corrupt high score record: %w", err)
	}
	sort.Ints(t.ScoreTable)
	t.trim(limit)
	return t, nil
}

// SaveHighScoreTable writes the table under key.
func SaveHighScoreTable(prefs PrefsStore, key string, t HighScoreTable) error {
	if prefs == nil {
		return nil
	}
	if t.ScoreTable == nil {
		t.ScoreTable = []int{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("invaders: failed to encode high scores: %w", err)
	}
	if err := prefs.SetString(key, string(data)); err != nil {
		return fmt.Errorf("invaders: failed to save high scores: %w", err)
	}
	return nil
}

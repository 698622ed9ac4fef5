package submit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists the per-device identity and submission cooldowns across
// sessions, the way the browser clients use localStorage.
type Store interface {
	// DeviceID returns the persisted device id, generating and saving a
	// fresh UUID on first use.
	DeviceID() (string, error)
	// CooldownUntil reports an active cooldown for key. Expired cooldowns
	// are treated as absent.
	CooldownUntil(key string) (time.Time, bool)
	SetCooldownUntil(key string, until time.Time) error
}

// CooldownKey builds the store key for a poll and vote day.
func CooldownKey(pollID, voteDay string) string {
	return "submitCooldown:" + pollID + ":" + voteDay
}

// FileStore keeps the device id and cooldown timestamps in a single JSON
// file. Writes are last-write-wins; one process per state file is assumed,
// mirroring the one-tab assumption of the web client.
type FileStore struct {
	path string

	mu sync.Mutex
}

type storeState struct {
	DeviceID  string           `json:"deviceId,omitempty"`
	Cooldowns map[string]int64 `json:"cooldowns,omitempty"` // key -> unix ms
}

// NewFileStore creates a store backed by path. The file is created lazily
// on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath places the state file under the user config dir.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "syrianzone", "tierlist.json"), nil
}

func (s *FileStore) DeviceID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return "", err
	}
	if state.DeviceID != "" {
		return state.DeviceID, nil
	}
	state.DeviceID = uuid.NewString()
	if err := s.save(state); err != nil {
		return "", err
	}
	return state.DeviceID, nil
}

func (s *FileStore) CooldownUntil(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return time.Time{}, false
	}
	ms, ok := state.Cooldowns[key]
	if !ok {
		return time.Time{}, false
	}
	until := time.UnixMilli(ms)
	if !time.Now().Before(until) {
		return time.Time{}, false
	}
	return until, true
}

func (s *FileStore) SetCooldownUntil(key string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state.Cooldowns == nil {
		state.Cooldowns = make(map[string]int64)
	}
	state.Cooldowns[key] = until.UnixMilli()
	// Expired entries are dropped on the way out.
	now := time.Now()
	for k, ms := range state.Cooldowns {
		if !now.Before(time.UnixMilli(ms)) {
			delete(state.Cooldowns, k)
		}
	}
	return s.save(state)
}

func (s *FileStore) load() (*storeState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &storeState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file is discarded rather than wedging submission.
		return &storeState{}, nil
	}
	return &state, nil
}

func (s *FileStore) save(state *storeState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

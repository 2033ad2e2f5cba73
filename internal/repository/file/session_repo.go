package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// SessionRepository persists chat sessions as sessions/<id>.json, one file
// per conversation so a long history never forces rewriting every session.
type SessionRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewSessionRepository creates a session repository rooted at dataDir
func NewSessionRepository(dataDir string) *SessionRepository {
	return &SessionRepository{dir: filepath.Join(dataDir, "sessions")}
}

func (r *SessionRepository) path(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String()+".json")
}

// Get returns the session with the given ID
func (r *SessionRepository) Get(id uuid.UUID) (*domain.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", r.path(id), err)
	}
	var session domain.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path(id), err)
	}
	return &session, nil
}

// Save writes the session, creating it if new
func (r *SessionRepository) Save(s *domain.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return atomicWrite(r.path(s.ID), data)
}

// List returns all sessions, most recently updated first
func (r *SessionRepository) List() ([]domain.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.dir, err)
	}

	var sessions []domain.ChatSession
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var session domain.ChatSession
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Name(), err)
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt) })
	return sessions, nil
}

// Delete removes the session with the given ID
func (r *SessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove %s: %w", r.path(id), err)
	}
	return nil
}

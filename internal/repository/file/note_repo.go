package file

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// NoteRepository persists research notes in notes.json
type NoteRepository struct {
	*store
}

// NewNoteRepository creates a note repository rooted at dataDir
func NewNoteRepository(dataDir string) *NoteRepository {
	return &NoteRepository{store: newStore(filepath.Join(dataDir, "notes.json"))}
}

// List returns all notes, most recently updated first
func (r *NoteRepository) List() ([]domain.ResearchNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []domain.ResearchNote
	if err := r.load(&notes); err != nil {
		return nil, err
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

// Get returns the note with the given ID
func (r *NoteRepository) Get(id uuid.UUID) (*domain.ResearchNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []domain.ResearchNote
	if err := r.load(&notes); err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create stores a new note
func (r *NoteRepository) Create(n *domain.ResearchNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notes []domain.ResearchNote
	if err := r.load(&notes); err != nil {
		return err
	}

	now := time.Now().UTC()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	notes = append(notes, *n)
	return r.save(notes)
}

// Update replaces the stored note with the same ID
func (r *NoteRepository) Update(n *domain.ResearchNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notes []domain.ResearchNote
	if err := r.load(&notes); err != nil {
		return err
	}
	for i := range notes {
		if notes[i].ID == n.ID {
			n.CreatedAt = notes[i].CreatedAt
			n.UpdatedAt = time.Now().UTC()
			notes[i] = *n
			return r.save(notes)
		}
	}
	return domain.ErrNotFound
}

// Delete removes the note with the given ID
func (r *NoteRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notes []domain.ResearchNote
	if err := r.load(&notes); err != nil {
		return err
	}
	for i := range notes {
		if notes[i].ID == id {
			notes = append(notes[:i], notes[i+1:]...)
			return r.save(notes)
		}
	}
	return domain.ErrNotFound
}

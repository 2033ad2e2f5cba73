package file

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// WatchlistRepository persists watchlists in watchlists.json
type WatchlistRepository struct {
	*store
}

// NewWatchlistRepository creates a watchlist repository rooted at dataDir
func NewWatchlistRepository(dataDir string) *WatchlistRepository {
	return &WatchlistRepository{store: newStore(filepath.Join(dataDir, "watchlists.json"))}
}

// List returns all watchlists
func (r *WatchlistRepository) List() ([]domain.Watchlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lists []domain.Watchlist
	if err := r.load(&lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// Get returns the watchlist with the given ID
func (r *WatchlistRepository) Get(id uuid.UUID) (*domain.Watchlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lists []domain.Watchlist
	if err := r.load(&lists); err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].ID == id {
			return &lists[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create stores a new watchlist
func (r *WatchlistRepository) Create(w *domain.Watchlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lists []domain.Watchlist
	if err := r.load(&lists); err != nil {
		return err
	}
	for i := range lists {
		if lists[i].Name == w.Name {
			return domain.ErrDuplicateEntry
		}
	}

	now := time.Now().UTC()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Symbols == nil {
		w.Symbols = []string{}
	}

	lists = append(lists, *w)
	return r.save(lists)
}

// Update replaces the stored watchlist with the same ID
func (r *WatchlistRepository) Update(w *domain.Watchlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lists []domain.Watchlist
	if err := r.load(&lists); err != nil {
		return err
	}
	for i := range lists {
		if lists[i].ID == w.ID {
			w.CreatedAt = lists[i].CreatedAt
			w.UpdatedAt = time.Now().UTC()
			lists[i] = *w
			return r.save(lists)
		}
	}
	return domain.ErrNotFound
}

// Delete removes the watchlist with the given ID
func (r *WatchlistRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lists []domain.Watchlist
	if err := r.load(&lists); err != nil {
		return err
	}
	for i := range lists {
		if lists[i].ID == id {
			lists = append(lists[:i], lists[i+1:]...)
			return r.save(lists)
		}
	}
	return domain.ErrNotFound
}

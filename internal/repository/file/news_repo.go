package file

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// NewsRepository persists news items in news.json
type NewsRepository struct {
	*store
}

// NewNewsRepository creates a news repository rooted at dataDir
func NewNewsRepository(dataDir string) *NewsRepository {
	return &NewsRepository{store: newStore(filepath.Join(dataDir, "news.json"))}
}

// Add stores a news item
func (r *NewsRepository) Add(item *domain.NewsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []domain.NewsItem
	if err := r.load(&items); err != nil {
		return err
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now().UTC()
	if item.PublishedAt.IsZero() {
		item.PublishedAt = item.CreatedAt
	}
	item.Symbol = strings.ToUpper(item.Symbol)

	items = append(items, *item)
	return r.save(items)
}

// List returns news items, newest first. An empty symbol matches all; limit 0
// means no limit.
func (r *NewsRepository) List(symbol string, limit int) ([]domain.NewsItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []domain.NewsItem
	if err := r.load(&items); err != nil {
		return nil, err
	}

	out := make([]domain.NewsItem, 0, len(items))
	for _, it := range items {
		if symbol != "" && !strings.EqualFold(it.Symbol, symbol) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

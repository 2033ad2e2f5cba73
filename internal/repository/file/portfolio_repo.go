package file

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// PortfolioRepository persists portfolios in portfolios.json
type PortfolioRepository struct {
	*store
}

// NewPortfolioRepository creates a portfolio repository rooted at dataDir
func NewPortfolioRepository(dataDir string) *PortfolioRepository {
	return &PortfolioRepository{store: newStore(filepath.Join(dataDir, "portfolios.json"))}
}

// List returns all portfolios
func (r *PortfolioRepository) List() ([]domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var portfolios []domain.Portfolio
	if err := r.load(&portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

// Get returns the portfolio with the given ID
func (r *PortfolioRepository) Get(id uuid.UUID) (*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var portfolios []domain.Portfolio
	if err := r.load(&portfolios); err != nil {
		return nil, err
	}
	for i := range portfolios {
		if portfolios[i].ID == id {
			return &portfolios[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create stores a new portfolio
func (r *PortfolioRepository) Create(p *domain.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var portfolios []domain.Portfolio
	if err := r.load(&portfolios); err != nil {
		return err
	}
	for i := range portfolios {
		if portfolios[i].Name == p.Name {
			return domain.ErrDuplicateEntry
		}
	}

	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Positions == nil {
		p.Positions = []domain.Position{}
	}

	portfolios = append(portfolios, *p)
	return r.save(portfolios)
}

// Update replaces the stored portfolio with the same ID
func (r *PortfolioRepository) Update(p *domain.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var portfolios []domain.Portfolio
	if err := r.load(&portfolios); err != nil {
		return err
	}
	for i := range portfolios {
		if portfolios[i].ID == p.ID {
			p.CreatedAt = portfolios[i].CreatedAt
			p.UpdatedAt = time.Now().UTC()
			portfolios[i] = *p
			return r.save(portfolios)
		}
	}
	return domain.ErrNotFound
}

// Delete removes the portfolio with the given ID
func (r *PortfolioRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var portfolios []domain.Portfolio
	if err := r.load(&portfolios); err != nil {
		return err
	}
	for i := range portfolios {
		if portfolios[i].ID == id {
			portfolios = append(portfolios[:i], portfolios[i+1:]...)
			return r.save(portfolios)
		}
	}
	return domain.ErrNotFound
}

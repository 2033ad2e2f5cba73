package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
)

const priceDateLayout = "2006-01-02"

var priceHeader = []string{"date", "open", "high", "low", "close", "volume"}

// PriceRepository persists daily OHLCV history as one CSV per symbol under
// prices/. CSV keeps the files editable by hand and importable from any
// broker export.
type PriceRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewPriceRepository creates a price repository rooted at dataDir
func NewPriceRepository(dataDir string) *PriceRepository {
	return &PriceRepository{dir: filepath.Join(dataDir, "prices")}
}

func (r *PriceRepository) path(symbol string) string {
	return filepath.Join(r.dir, strings.ToUpper(symbol)+".csv")
}

// Symbols returns every symbol with stored history
func (r *PriceRepository) Symbols() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.dir, err)
	}
	var symbols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// History returns all bars for a symbol, oldest first
func (r *PriceRepository) History(symbol string) ([]domain.PriceBar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.read(symbol)
}

// Latest returns the most recent bar for a symbol
func (r *PriceRepository) Latest(symbol string) (*domain.PriceBar, error) {
	bars, err := r.History(symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, domain.ErrNoPriceData
	}
	return &bars[len(bars)-1], nil
}

// Upsert merges bars into the symbol's history, replacing bars that share a
// date, and rewrites the file sorted by date.
func (r *PriceRepository) Upsert(symbol string, bars []domain.PriceBar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.read(symbol)
	if err != nil && !errors.Is(err, domain.ErrNoPriceData) {
		return err
	}

	byDate := make(map[string]domain.PriceBar, len(existing)+len(bars))
	for _, b := range existing {
		byDate[b.Date.Format(priceDateLayout)] = b
	}
	for _, b := range bars {
		byDate[b.Date.Format(priceDateLayout)] = b
	}

	merged := make([]domain.PriceBar, 0, len(byDate))
	for _, b := range byDate {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })

	return r.write(symbol, merged)
}

func (r *PriceRepository) read(symbol string) ([]domain.PriceBar, error) {
	f, err := os.Open(r.path(symbol))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNoPriceData
		}
		return nil, fmt.Errorf("open %s: %w", r.path(symbol), err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path(symbol), err)
	}

	var bars []domain.PriceBar
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "date" {
			continue // header row
		}
		bar, err := parseBar(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.path(symbol), i+1, err)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (r *PriceRepository) write(symbol string, bars []domain.PriceBar) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(priceHeader); err != nil {
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Date.Format(priceDateLayout),
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return atomicWrite(r.path(symbol), []byte(sb.String()))
}

func parseBar(rec []string) (domain.PriceBar, error) {
	if len(rec) < 6 {
		return domain.PriceBar{}, fmt.Errorf("expected 6 columns, got %d", len(rec))
	}
	date, err := time.Parse(priceDateLayout, rec[0])
	if err != nil {
		return domain.PriceBar{}, fmt.Errorf("bad date %q: %w", rec[0], err)
	}
	fields := make([]decimal.Decimal, 4)
	for i, raw := range rec[1:5] {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.PriceBar{}, fmt.Errorf("bad price %q: %w", raw, err)
		}
		fields[i] = d
	}
	volume, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return domain.PriceBar{}, fmt.Errorf("bad volume %q: %w", rec[5], err)
	}
	return domain.PriceBar{
		Date:   date,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: volume,
	}, nil
}

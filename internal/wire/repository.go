package wire

import (
	"github.com/google/wire"

	"github.com/finsight/finsight/internal/repository/file"
)

// RepositorySet provides all repository instances.
var RepositorySet = wire.NewSet(
	ProvidePortfolioRepository,
	ProvideWatchlistRepository,
	ProvideTradeRepository,
	ProvidePriceRepository,
	ProvideNewsRepository,
	ProvideNoteRepository,
	ProvideSessionRepository,
)

// ProvidePortfolioRepository creates a new PortfolioRepository.
func ProvidePortfolioRepository(dir DataDir) *file.PortfolioRepository {
	return file.NewPortfolioRepository(string(dir))
}

// ProvideWatchlistRepository creates a new WatchlistRepository.
func ProvideWatchlistRepository(dir DataDir) *file.WatchlistRepository {
	return file.NewWatchlistRepository(string(dir))
}

// ProvideTradeRepository creates a new TradeRepository.
func ProvideTradeRepository(dir DataDir) *file.TradeRepository {
	return file.NewTradeRepository(string(dir))
}

// ProvidePriceRepository creates a new PriceRepository.
func ProvidePriceRepository(dir DataDir) *file.PriceRepository {
	return file.NewPriceRepository(string(dir))
}

// ProvideNewsRepository creates a new NewsRepository.
func ProvideNewsRepository(dir DataDir) *file.NewsRepository {
	return file.NewNewsRepository(string(dir))
}

// ProvideNoteRepository creates a new NoteRepository.
func ProvideNoteRepository(dir DataDir) *file.NoteRepository {
	return file.NewNoteRepository(string(dir))
}

// ProvideSessionRepository creates a new SessionRepository.
func ProvideSessionRepository(dir DataDir) *file.SessionRepository {
	return file.NewSessionRepository(string(dir))
}

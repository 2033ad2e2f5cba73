package wire

import (
	"fmt"
	"os"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/config"
)

// DataDir is the provisioned root of the file-backed data layer.
type DataDir string

// StorageSet provides the data directory.
var StorageSet = wire.NewSet(
	ProvideDataDir,
)

// ProvideDataDir creates the data directory if needed and returns its path.
func ProvideDataDir(cfg *config.Config, logger *zap.Logger) (DataDir, error) {
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir %s: %w", cfg.Data.Dir, err)
	}
	logger.Info("data directory ready", zap.String("dir", cfg.Data.Dir))
	return DataDir(cfg.Data.Dir), nil
}

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalog files on the local file system.
type fileLoader struct {
	opts   Options
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(opts Options, logger zerolog.Logger) Loader {
	return &fileLoader{
		opts:   opts,
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a CSV or YAML catalog file, gunzipping it when the name ends in .gz.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]Entry, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	entries, err := decode(file, filePath, l.opts)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode catalog file")
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("entries_loaded", len(entries)).
		Msg("catalog file loaded successfully")

	return entries, nil
}

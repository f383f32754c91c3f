package catalog

import (
	"context"
	"errors"
	"fmt"

	"gestion-produits/internal/model"
	"gestion-produits/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrInvalidCatalog is returned in strict mode when at least one row fails
// validation. Nothing is inserted in that case.
var ErrInvalidCatalog = errors.New("catalog contains invalid rows")

// RowError describes a rejected catalog row.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result summarises an import run.
type Result struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// ImporterConfig holds configuration for the catalog importer.
type ImporterConfig struct {
	// Rate is the maximum number of inserts per second. Zero means unlimited.
	Rate int
	// Strict rejects the whole catalog if any row is invalid.
	Strict bool
}

// Importer inserts catalog entries one at a time through a Creator.
type Importer struct {
	creator Creator
	limiter *rate.Limiter
	strict  bool
	logger  zerolog.Logger
}

// NewImporter creates a new catalog importer.
func NewImporter(creator Creator, cfg ImporterConfig, logger zerolog.Logger) *Importer {
	limit, burst := rate.Inf, 0
	if cfg.Rate > 0 {
		limit, burst = rate.Limit(cfg.Rate), 1
	}

	return &Importer{
		creator: creator,
		limiter: rate.NewLimiter(limit, burst),
		strict:  cfg.Strict,
		logger:  logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import validates and inserts entries in file order. Invalid rows are
// recorded in the result and skipped, unless the importer is strict. A
// storage failure stops the run and is returned with the partial result.
func (i *Importer) Import(ctx context.Context, entries []Entry) (Result, error) {
	result := Result{Total: len(entries), Errors: []RowError{}}

	inputs := make([]model.ProductInput, len(entries))
	valid := make([]bool, len(entries))
	for n, e := range entries {
		in, err := e.Input()
		if err == nil {
			_, err = service.ValidateInput(in)
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: e.Line, Reason: err.Error()})
			continue
		}
		inputs[n], valid[n] = in, true
	}

	if i.strict && len(result.Errors) > 0 {
		result.Skipped = len(entries)
		i.logger.Warn().
			Int("invalid_rows", len(result.Errors)).
			Msg("strict import rejected catalog")
		return result, fmt.Errorf("%w: %d of %d rows", ErrInvalidCatalog, len(result.Errors), len(entries))
	}

	for n, e := range entries {
		if !valid[n] {
			result.Skipped++
			continue
		}

		if err := i.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("import interrupted at line %d: %w", e.Line, err)
		}

		p, err := i.creator.Create(ctx, inputs[n])
		if err != nil {
			if de, ok := model.IsDomainError(err); ok {
				result.Skipped++
				result.Errors = append(result.Errors, RowError{Line: e.Line, Reason: de.Message})
				continue
			}
			i.logger.Error().Err(err).Int("line", e.Line).Msg("failed to import catalog row")
			return result, fmt.Errorf("failed to import line %d: %w", e.Line, err)
		}

		result.Imported++
		i.logger.Debug().Int("line", e.Line).Int64("product_id", p.ID).Msg("catalog row imported")
	}

	i.logger.Info().
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("catalog import finished")

	return result, nil
}

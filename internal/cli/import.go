package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"gestion-produits/internal/catalog"
	"gestion-produits/internal/config"
	"gestion-produits/internal/database"
	"gestion-produits/internal/repository"
	"gestion-produits/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type importOptions struct {
	strict    bool
	encoding  string
	delimiter string
	rate      int
	asJSON    bool
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import products from a CSV or YAML catalog",
		Long: "Import products from a catalog file. The path may be local or s3://bucket/key;\n" +
			"with S3_ENABLED=true plain paths are looked up under S3_PREFIX first.\n" +
			"Files ending in .gz are decompressed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cmd.Flags().Changed("rate") {
				opts.rate = cfg.Import.Rate
			}

			catalogOpts, err := opts.catalogOptions()
			if err != nil {
				return err
			}

			logger := config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr())
			ctx := cmd.Context()

			pool, err := database.NewPool(ctx, cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer pool.Close()

			if err := database.EnsureSchema(ctx, pool, cfg.Database.CreateSchema, logger); err != nil {
				return fmt.Errorf("failed to check database schema: %w", err)
			}

			svc := service.NewProductService(repository.NewProductRepository(pool, logger), logger)
			loader := newCatalogLoader(ctx, cfg, catalogOpts, args[0], logger)

			result, err := runImport(ctx, loader, svc, args[0], catalog.ImporterConfig{
				Rate:   opts.rate,
				Strict: opts.strict,
			}, logger)
			if printErr := printResult(cmd.OutOrStdout(), result, opts.asJSON); printErr != nil {
				return printErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject the whole catalog if any row is invalid")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "utf-8", "CSV text encoding (utf-8, windows-1252, iso-8859-1, windows-1251)")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().IntVar(&opts.rate, "rate", 0, "maximum inserts per second, 0 for unlimited (default $IMPORT_RATE)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (o *importOptions) catalogOptions() (catalog.Options, error) {
	if utf8.RuneCountInString(o.delimiter) != 1 {
		return catalog.Options{}, fmt.Errorf("delimiter must be a single character, got %q", o.delimiter)
	}
	if o.rate < 0 {
		return catalog.Options{}, fmt.Errorf("rate cannot be negative: %d", o.rate)
	}

	delimiter, _ := utf8.DecodeRuneInString(o.delimiter)
	opts := catalog.Options{Encoding: o.encoding, Delimiter: delimiter}
	if err := opts.Validate(); err != nil {
		return catalog.Options{}, err
	}
	return opts, nil
}

// newCatalogLoader builds a loader for path. An S3 loader is set up when S3 is
// enabled or path is an s3:// URI; if it cannot be initialised only the local
// file system is used.
func newCatalogLoader(ctx context.Context, cfg *config.Config, opts catalog.Options, path string, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(opts, logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled || catalog.IsS3URI(path) {
		l, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, opts, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Debug().Msg("using local file system for catalog files (S3 disabled)")
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
}

func runImport(
	ctx context.Context,
	loader catalog.Loader,
	creator catalog.Creator,
	path string,
	cfg catalog.ImporterConfig,
	logger zerolog.Logger,
) (catalog.Result, error) {
	entries, err := loader.Load(ctx, path)
	if err != nil {
		return catalog.Result{Errors: []catalog.RowError{}}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NewImporter(creator, cfg, logger).Import(ctx, entries)
}

func printResult(w io.Writer, result catalog.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if _, err := fmt.Fprintf(w, "%d/%d produits importés, %d ignorés\n", result.Imported, result.Total, result.Skipped); err != nil {
		return err
	}
	for _, e := range result.Errors {
		if _, err := fmt.Fprintf(w, "  ligne %d: %s\n", e.Line, e.Reason); err != nil {
			return err
		}
	}
	return nil
}

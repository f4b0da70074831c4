package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/config"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/importer"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/logging"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/metrics"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	moviesPath := flag.String("movies", "", "Path to movies CSV (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Write to an in-memory catalog instead of Scylla")
	verifyOnly := flag.Bool("verify-only", false, "Skip the import and only read back rows")
	verify := flag.Int("verify", 10, "Number of rows to read back from each table after the import (0 disables)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address during the import")
	flag.Parse()

	// Konfiguration laden
	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.New(config.LogConfig{}, "movie-loader")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	if *moviesPath != "" {
		cfg.Import.Path = *moviesPath
	}
	log := logging.New(cfg.Log, "movie-loader")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tables := storage.TableNames{Movies: cfg.Catalog.MoviesTable, ByGenre: cfg.Catalog.GenreTable}

	var (
		batches   storage.BatchSession
		schemaSrc storage.MetadataSource
		catalog   storage.Catalog
	)
	// Scylla Session oder In-Memory-Katalog für -dry-run
	if *dryRun {
		mem := storage.NewMemoryStorage(cfg.Catalog.Keyspace, cfg.Catalog.MetadataType, tables)
		batches, schemaSrc, catalog = mem, mem, mem
	} else {
		session, err := storage.NewScyllaSession(cfg.Scylla)
		if err != nil {
			log.Fatal().Err(err).Msg("scylla connection failed")
		}
		defer session.Close()
		batches, schemaSrc = session, session
		catalog = storage.NewScyllaStorage(session, cfg.Catalog.Keyspace, tables)
	}

	if !*verifyOnly {
		reg := prometheus.NewRegistry()
		ingest := metrics.NewIngest(reg)
		if *metricsAddr != "" {
			go serveMetrics(*metricsAddr, reg, log)
		}
		if err := runImport(ctx, cfg, batches, schemaSrc, tables, ingest, log); err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
	}

	// Erste Zeilen beider Tabellen ausgeben
	if *verify > 0 {
		if err := printCatalog(ctx, os.Stdout, catalog, *verify); err != nil {
			log.Fatal().Err(err).Msg("read back failed")
		}
	}
}

// runImport löst das Schema auf, lädt die CSV und schreibt alle Filme
func runImport(
	ctx context.Context,
	cfg *config.Config,
	batches storage.BatchSession,
	schemaSrc storage.MetadataSource,
	tables storage.TableNames,
	ingest *metrics.Ingest,
	log zerolog.Logger,
) error {
	snap, err := storage.LoadSnapshot(schemaSrc, cfg.Catalog.Keyspace)
	if err != nil {
		return err
	}
	ids, err := storage.NewIDGenerator(cfg.Catalog.IDStrategy)
	if err != nil {
		return err
	}
	writer, err := storage.NewWriter(batches, snap, storage.WriterOptions{
		MetadataType: cfg.Catalog.MetadataType,
		Tables:       tables,
		IDs:          ids,
		ProtoVersion: byte(cfg.Scylla.ProtoVersion),
	})
	if err != nil {
		return err
	}

	rows, err := importer.NewDataImporter(cfg.Import.Path, log).LoadMovies()
	if err != nil {
		return err
	}

	loader := importer.NewLoader(writer, importer.LoaderOptions{
		Workers:       cfg.Import.Workers,
		RatePerSecond: cfg.Import.RatePerSecond,
		OnError:       importer.ErrorPolicy(cfg.Import.OnError),
		RetryPasses:   cfg.Import.RetryPasses,
		Metrics:       ingest,
	}, log)

	start := time.Now()
	log.Info().Str("path", cfg.Import.Path).Int("rows", len(rows)).Int("workers", cfg.Import.Workers).Msg("starting movie import")
	summary, err := loader.Load(ctx, rows)
	log.Info().
		Int("read", summary.Read).
		Int("written", summary.Written).
		Int("skipped", summary.Skipped).
		Int("retried", summary.Retried).
		Dur("took", time.Since(start)).
		Msg("movie import finished")
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

// printCatalog gibt bis zu limit Zeilen beider Tabellen aus
func printCatalog(ctx context.Context, w io.Writer, catalog storage.Catalog, limit int) error {
	movies, err := catalog.ListMovies(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, len(movies))
	for _, m := range movies {
		fmt.Fprintf(w, "%s | %s | original=%t | %s | %s\n", m.ID, m.Title, m.IsOriginal, m.Metadata, m.Synopsis)
	}

	entries, err := catalog.ListGenreEntries(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, len(entries))
	for _, g := range entries {
		fmt.Fprintf(w, "%s | %s | %s | original=%t | %s\n", g.Genre, g.MovieID, g.Title, g.IsOriginal, g.Metadata)
	}
	return nil
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/metrics"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/storage"
)

// MovieWriter schreibt einen Film in den Katalog. *storage.Writer implementiert es.
type MovieWriter interface {
	WriteMovie(ctx context.Context, rec models.MovieRecord) (gocql.UUID, error)
}

// ErrorPolicy legt fest, wie sich ein fehlerhafter Datensatz auf den Import auswirkt
type ErrorPolicy string

const (
	// SkipOnError loggt den Fehler und macht mit dem nächsten Datensatz weiter
	SkipOnError ErrorPolicy = "skip"
	// AbortOnError plant nach dem ersten endgültigen Fehler keine Datensätze mehr ein
	AbortOnError ErrorPolicy = "abort"
)

// LoaderOptions konfiguriert einen Loader
type LoaderOptions struct {
	Workers       int
	RatePerSecond float64 // 0 = keine Drosselung
	OnError       ErrorPolicy
	RetryPasses   int // zusätzliche Durchläufe für Datensätze mit fehlgeschlagenem Batch
	Metrics       *metrics.Ingest
}

// Failure ist ein Datensatz, den der Import aufgegeben hat
type Failure struct {
	Line  int
	Title string
	Err   error
}

// Summary beschreibt einen abgeschlossenen Import
type Summary struct {
	Read     int
	Written  int
	Skipped  int
	Retried  int
	Failures []Failure
}

// Loader schreibt Zeilen nebenläufig über einen MovieWriter
type Loader struct {
	writer  MovieWriter
	opts    LoaderOptions
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewLoader erstellt einen Loader. Workers unter 1 zählen als 1.
func NewLoader(writer MovieWriter, opts LoaderOptions, log zerolog.Logger) *Loader {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.OnError == "" {
		opts.OnError = SkipOnError
	}
	l := &Loader{writer: writer, opts: opts, log: log}
	if opts.RatePerSecond > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Workers)
	}
	return l
}

// Load schreibt alle Zeilen. Mit SkipOnError kommt nur ein Fehler zurück, wenn ctx endet,
// mit AbortOnError zusätzlich der erste endgültige Fehler eines Datensatzes. Ein WriteError
// wird auch mit AbortOnError zuerst in den RetryPasses wiederholt und bricht erst ab, wenn
// keine Durchläufe mehr übrig sind. Bereits geschriebene Filme bleiben geschrieben.
func (l *Loader) Load(ctx context.Context, rows []Row) (Summary, error) {
	summary := Summary{Read: len(rows)}

	pending := rows
	for pass := 0; len(pending) > 0; pass++ {
		retryable := pass < l.opts.RetryPasses
		if pass > 0 {
			summary.Retried += len(pending)
			l.log.Info().Int("pass", pass).Int("records", len(pending)).Msg("retrying failed writes")
		}

		again, err := l.runPass(ctx, pending, retryable, &summary)
		if err != nil {
			summary.Skipped = len(summary.Failures)
			return summary, err
		}
		pending = again
	}

	summary.Skipped = len(summary.Failures)
	return summary, nil
}

// runPass schreibt rows einmal und gibt die Zeilen für den nächsten Durchlauf zurück
func (l *Loader) runPass(ctx context.Context, rows []Row, retryable bool, summary *Summary) ([]Row, error) {
	var (
		mu    sync.Mutex
		retry []Row
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)

	for _, row := range rows {
		if gctx.Err() != nil {
			break
		}
		row := row
		g.Go(func() error {
			if l.limiter != nil {
				if err := l.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			id, err := l.write(gctx, row.Movie)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				summary.Written++
				l.log.Debug().
					Str("movie_id", id.String()).
					Str("title", row.Movie.Title).
					Str("genre", row.Movie.Genre).
					Msg("movie written")
				return nil
			}
			if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
				return err
			}
			if retryable && storage.IsRetryable(err) {
				retry = append(retry, row)
				return nil
			}

			summary.Failures = append(summary.Failures, Failure{Line: row.Line, Title: row.Movie.Title, Err: err})
			if l.opts.OnError == AbortOnError {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
			l.log.Warn().Int("line", row.Line).Str("title", row.Movie.Title).Err(err).Msg("skipping movie")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return retry, nil
}

func (l *Loader) write(ctx context.Context, rec models.MovieRecord) (gocql.UUID, error) {
	m := l.opts.Metrics
	if m == nil {
		return l.writer.WriteMovie(ctx, rec)
	}

	m.InFlight.Inc()
	start := time.Now()
	id, err := l.writer.WriteMovie(ctx, rec)
	m.BatchDuration.Observe(time.Since(start).Seconds())
	m.InFlight.Dec()

	if err != nil {
		m.RecordsFailed.WithLabelValues(failureReason(err)).Inc()
		return id, err
	}
	m.RecordsWritten.Inc()
	return id, nil
}

func failureReason(err error) string {
	var (
		schemaErr *storage.SchemaResolutionError
		rangeErr  *storage.RangeError
		bindErr   *storage.BindError
		writeErr  *storage.WriteError
	)
	switch {
	case errors.As(err, &schemaErr):
		return metrics.ReasonSchema
	case errors.As(err, &rangeErr):
		return metrics.ReasonRange
	case errors.As(err, &bindErr):
		return metrics.ReasonBind
	case errors.As(err, &writeErr):
		return metrics.ReasonWrite
	default:
		return metrics.ReasonOther
	}
}

package storage

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

// BatchSession erstellt und führt Batches aus. *gocql.Session implementiert es.
type BatchSession interface {
	NewBatch(typ gocql.BatchType) *gocql.Batch
	ExecuteBatch(batch *gocql.Batch) error
}

// WriterOptions konfiguriert NewWriter. Nullwerte fallen auf die Standardwerte aus schema.cql zurück.
type WriterOptions struct {
	MetadataType string
	Tables       TableNames
	IDs          IDGenerator
	ProtoVersion byte
}

// Writer schreibt Filme mit einem Logged Batch pro Film in beide Tabellen.
// Er hat keinen veränderlichen Zustand und ist nebenläufig nutzbar.
type Writer struct {
	session BatchSession
	codec   *MetadataCodec
	stmts   *StatementBuilder
	ids     IDGenerator
}

// NewWriter löst den Metadaten-Typ und beide Tabellen in snap auf. Schemafehler werden
// hier gemeldet, bevor ein Film geschrieben wird.
func NewWriter(session BatchSession, snap *Snapshot, opts WriterOptions) (*Writer, error) {
	if opts.MetadataType == "" {
		opts.MetadataType = "metadata"
	}
	if opts.Tables == (TableNames{}) {
		opts.Tables = DefaultTableNames
	}
	if opts.IDs == nil {
		opts.IDs = RandomIDs{}
	}

	codec, err := NewMetadataCodec(snap, opts.MetadataType, opts.ProtoVersion)
	if err != nil {
		return nil, err
	}
	stmts, err := NewStatementBuilder(snap, codec, opts.Tables)
	if err != nil {
		return nil, err
	}
	return &Writer{session: session, codec: codec, stmts: stmts, ids: opts.IDs}, nil
}

// WriteMovie vergibt eine neue ID für rec und schreibt den Film atomar in beide Tabellen.
// Die ID wird nur nach erfolgreichem Batch zurückgegeben. Fehler werden nicht wiederholt.
func (w *Writer) WriteMovie(ctx context.Context, rec models.MovieRecord) (gocql.UUID, error) {
	id := w.ids.NewID()

	meta, err := w.codec.Build(rec)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("movie %q (%s): %w", rec.Title, rec.Genre, err)
	}

	byID, err := w.stmts.PrimaryKeyInsert(id, rec, meta)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("movie %q (%s): %w", rec.Title, rec.Genre, err)
	}
	byGenre, err := w.stmts.GenreInsert(id, rec, meta)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("movie %q (%s): %w", rec.Title, rec.Genre, err)
	}

	b := w.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(byID.CQL, byID.Values...)
	b.Query(byGenre.CQL, byGenre.Values...)

	if err := w.session.ExecuteBatch(b); err != nil {
		return gocql.UUID{}, &WriteError{Title: rec.Title, Genre: rec.Genre, Err: err}
	}
	return id, nil
}

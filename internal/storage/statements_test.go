package storage

import (
	"errors"
	"testing"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

func newTestBuilder(t *testing.T, ks *gocql.KeyspaceMetadata) (*StatementBuilder, error) {
	t.Helper()
	snap := NewSnapshot(ks)
	codec, err := NewMetadataCodec(snap, "metadata", 4)
	if err != nil {
		t.Fatalf("NewMetadataCodec: %v", err)
	}
	return NewStatementBuilder(snap, codec, DefaultTableNames)
}

func TestStatementBuilderBindsBothTables(t *testing.T) {
	b, err := newTestBuilder(t, ExpectedSchema("movie", "metadata", DefaultTableNames, 4))
	if err != nil {
		t.Fatalf("NewStatementBuilder: %v", err)
	}

	id := RandomIDs{}.NewID()
	rec := models.MovieRecord{Genre: "drama", Title: "X", Synopsis: "s", ReleaseYear: 2001, Duration: 120}
	meta := models.MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama"}}

	byID, err := b.PrimaryKeyInsert(id, rec, meta)
	if err != nil {
		t.Fatalf("PrimaryKeyInsert: %v", err)
	}
	want := "INSERT INTO movie.movies (id, title, is_original, synopsis, metadata) VALUES (?, ?, ?, ?, ?)"
	if byID.CQL != want {
		t.Errorf("CQL = %q, want %q", byID.CQL, want)
	}
	if byID.Values[0] != id || byID.Values[1] != "X" || byID.Values[2] != false || byID.Values[3] != "s" {
		t.Errorf("unexpected values %v", byID.Values)
	}

	byGenre, err := b.GenreInsert(id, rec, meta)
	if err != nil {
		t.Fatalf("GenreInsert: %v", err)
	}
	want = "INSERT INTO movie.movies_by_genre (movie_id, genre, is_original, title, metadata) VALUES (?, ?, ?, ?, ?)"
	if byGenre.CQL != want {
		t.Errorf("CQL = %q, want %q", byGenre.CQL, want)
	}
	if byGenre.Values[0] != id || byGenre.Values[1] != "drama" || byGenre.Values[2] != false || byGenre.Values[3] != "X" {
		t.Errorf("unexpected values %v", byGenre.Values)
	}
	if byGenre.Table != "movies_by_genre" || byID.Table != "movies" {
		t.Errorf("unexpected tables %q, %q", byID.Table, byGenre.Table)
	}
}

func TestStatementBuilderMissingColumn(t *testing.T) {
	ks := ExpectedSchema("movie", "metadata", DefaultTableNames, 4)
	delete(ks.Tables["movies_by_genre"].Columns, "title")

	_, err := newTestBuilder(t, ks)

	var schemaErr *SchemaResolutionError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
	if schemaErr.Object != "movies_by_genre" || schemaErr.Field != "title" {
		t.Errorf("unexpected error %+v", schemaErr)
	}
}

func TestStatementBuilderMissingTable(t *testing.T) {
	ks := ExpectedSchema("movie", "metadata", DefaultTableNames, 4)
	delete(ks.Tables, "movies")

	_, err := newTestBuilder(t, ks)

	var schemaErr *SchemaResolutionError
	if !errors.As(err, &schemaErr) || schemaErr.Object != "movies" {
		t.Fatalf("expected SchemaResolutionError for movies, got %v", err)
	}
}

func TestStatementBuilderBindError(t *testing.T) {
	ks := ExpectedSchema("movie", "metadata", DefaultTableNames, 4)
	ks.Tables["movies"].Columns["is_original"].Type = gocql.NewNativeType(4, gocql.TypeUUID, "")

	b, err := newTestBuilder(t, ks)
	if err != nil {
		t.Fatalf("NewStatementBuilder: %v", err)
	}

	stmt, err := b.PrimaryKeyInsert(RandomIDs{}.NewID(), models.MovieRecord{Genre: "drama", Title: "X"}, models.MovieMetadata{Genres: []string{"drama"}})

	var bindErr *BindError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected BindError, got %v", err)
	}
	if bindErr.Table != "movies" || bindErr.Column != "is_original" {
		t.Errorf("unexpected bind error %+v", bindErr)
	}
	if stmt.CQL != "" || stmt.Values != nil {
		t.Errorf("expected no statement on bind failure, got %+v", stmt)
	}
}

func TestStatementBuilderMetadataColumnNotUDT(t *testing.T) {
	ks := ExpectedSchema("movie", "metadata", DefaultTableNames, 4)
	ks.Tables["movies"].Columns["metadata"].Type = gocql.NewNativeType(4, gocql.TypeText, "")

	_, err := newTestBuilder(t, ks)

	var schemaErr *SchemaResolutionError
	if !errors.As(err, &schemaErr) || schemaErr.Field != "metadata" {
		t.Fatalf("expected SchemaResolutionError for metadata column, got %v", err)
	}
}

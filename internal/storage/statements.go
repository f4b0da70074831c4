package storage

import (
	"fmt"
	"strings"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

var (
	movieColumns   = []string{"id", "title", "is_original", "synopsis", "metadata"}
	byGenreColumns = []string{"movie_id", "genre", "is_original", "title", "metadata"}
)

// Statement ist ein vollständig gebundenes CQL-Insert
type Statement struct {
	Table   string
	CQL     string
	Columns []string
	Values  []interface{}
}

// InsertMovieCQL liefert das Insert in die Primärschlüssel-Tabelle
func InsertMovieCQL(keyspace, table string) string {
	return insertCQL(keyspace, table, movieColumns)
}

// InsertMovieByGenreCQL liefert das Insert in die Genre-Tabelle
func InsertMovieByGenreCQL(keyspace, table string) string {
	return insertCQL(keyspace, table, byGenreColumns)
}

func insertCQL(keyspace, table string, cols []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)", keyspace, table, strings.Join(cols, ", "), marks)
}

type boundTable struct {
	name  string
	cql   string
	cols  []string
	types []gocql.TypeInfo
}

// StatementBuilder baut die beiden Inserts eines Films. Tabellen und Spalten werden beim Erstellen aufgelöst.
type StatementBuilder struct {
	movies  boundTable
	byGenre boundTable
}

// NewStatementBuilder löst beide Tabellen in snap auf. Die metadata-Spalte wird mit dem UDT des Codecs gebunden.
func NewStatementBuilder(snap *Snapshot, codec *MetadataCodec, tables TableNames) (*StatementBuilder, error) {
	movies, err := resolveTable(snap, codec, tables.Movies, movieColumns)
	if err != nil {
		return nil, err
	}
	byGenre, err := resolveTable(snap, codec, tables.ByGenre, byGenreColumns)
	if err != nil {
		return nil, err
	}
	return &StatementBuilder{movies: movies, byGenre: byGenre}, nil
}

func resolveTable(snap *Snapshot, codec *MetadataCodec, name string, cols []string) (boundTable, error) {
	t, err := snap.ResolveTable(name)
	if err != nil {
		return boundTable{}, err
	}
	bt := boundTable{
		name:  name,
		cql:   insertCQL(snap.Keyspace(), name, cols),
		cols:  cols,
		types: make([]gocql.TypeInfo, len(cols)),
	}
	for i, c := range cols {
		col, ok := t.Columns[c]
		if !ok || col == nil {
			return boundTable{}, &SchemaResolutionError{Keyspace: snap.Keyspace(), Object: name, Field: c}
		}
		if c == "metadata" {
			if col.Type != nil && col.Type.Type() != gocql.TypeUDT && col.Type.Type() != gocql.TypeCustom {
				return boundTable{}, &SchemaResolutionError{
					Keyspace: snap.Keyspace(), Object: name, Field: c,
					Reason: fmt.Sprintf("expected user type %s, got %s", codec.TypeName(), col.Type),
				}
			}
			bt.types[i] = codec.TypeInfo()
			continue
		}
		if col.Type != nil {
			bt.types[i] = withProto(col.Type, codec.Proto())
		}
	}
	return bt, nil
}

// PrimaryKeyInsert bindet rec an das Insert in die Primärschlüssel-Tabelle
func (b *StatementBuilder) PrimaryKeyInsert(id gocql.UUID, rec models.MovieRecord, meta models.MovieMetadata) (Statement, error) {
	return b.movies.bind(id, rec.Title, false, rec.Synopsis, meta)
}

// GenreInsert bindet rec an das Insert in die Genre-Tabelle
func (b *StatementBuilder) GenreInsert(id gocql.UUID, rec models.MovieRecord, meta models.MovieMetadata) (Statement, error) {
	return b.byGenre.bind(id, rec.Genre, false, rec.Title, meta)
}

// bind serialisiert jeden Wert mit dem Typ seiner Spalte, damit Typfehler auffallen,
// bevor das Statement in einen Batch gelangt.
func (t boundTable) bind(values ...interface{}) (Statement, error) {
	if len(values) != len(t.cols) {
		return Statement{}, &BindError{Table: t.name, Err: fmt.Errorf("%d values for %d columns", len(values), len(t.cols))}
	}
	for i, v := range values {
		if t.types[i] == nil {
			continue
		}
		if _, err := gocql.Marshal(t.types[i], v); err != nil {
			return Statement{}, &BindError{Table: t.name, Column: t.cols[i], Err: err}
		}
	}
	return Statement{Table: t.name, CQL: t.cql, Columns: t.cols, Values: values}, nil
}

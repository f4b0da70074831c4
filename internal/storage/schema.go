package storage

import (
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// MetadataSource liefert die Schema-Metadaten des Treibers. *gocql.Session implementiert es.
type MetadataSource interface {
	KeyspaceMetadata(keyspace string) (*gocql.KeyspaceMetadata, error)
}

// Snapshot ist eine unveränderliche Sicht auf Tabellen und Typen eines Keyspaces.
// Er wird einmal beim Start geladen und von allen Writern geteilt.
type Snapshot struct {
	keyspace *gocql.KeyspaceMetadata
}

// LoadSnapshot lädt das Schema von keyspace aus src
func LoadSnapshot(src MetadataSource, keyspace string) (*Snapshot, error) {
	ks, err := src.KeyspaceMetadata(keyspace)
	if errors.Is(err, gocql.ErrKeyspaceDoesNotExist) || (err == nil && ks == nil) {
		return nil, &SchemaResolutionError{Keyspace: keyspace}
	}
	if err != nil {
		return nil, fmt.Errorf("load schema metadata for %s: %w", keyspace, err)
	}
	return NewSnapshot(ks), nil
}

// NewSnapshot kapselt bereits geladene Keyspace-Metadaten
func NewSnapshot(ks *gocql.KeyspaceMetadata) *Snapshot {
	return &Snapshot{keyspace: ks}
}

// Keyspace gibt den Namen des Keyspaces zurück
func (s *Snapshot) Keyspace() string {
	return s.keyspace.Name
}

// ResolveNestedType sucht einen benutzerdefinierten Typ anhand seines Namens
func (s *Snapshot) ResolveNestedType(name string) (*gocql.UserTypeMetadata, error) {
	ut, ok := s.keyspace.UserTypes[name]
	if !ok || ut == nil {
		return nil, &SchemaResolutionError{Keyspace: s.keyspace.Name, Object: name}
	}
	return ut, nil
}

// ResolveTable sucht eine Tabelle anhand ihres Namens
func (s *Snapshot) ResolveTable(name string) (*gocql.TableMetadata, error) {
	t, ok := s.keyspace.Tables[name]
	if !ok || t == nil {
		return nil, &SchemaResolutionError{Keyspace: s.keyspace.Name, Object: name}
	}
	return t, nil
}

// TableNames benennt die beiden Tabellen eines Films
type TableNames struct {
	Movies  string
	ByGenre string
}

// DefaultTableNames entspricht schema.cql
var DefaultTableNames = TableNames{Movies: "movies", ByGenre: "movies_by_genre"}

// ExpectedSchema beschreibt den Keyspace aus schema.cql.
// MemoryStorage liefert es als eigene Schema-Metadaten.
func ExpectedSchema(keyspace, typeName string, tables TableNames, proto byte) *gocql.KeyspaceMetadata {
	native := func(t gocql.Type) gocql.TypeInfo { return gocql.NewNativeType(proto, t, "") }
	udt := gocql.NewNativeType(proto, gocql.TypeUDT, typeName)

	col := func(table, name string, kind gocql.ColumnKind, info gocql.TypeInfo) *gocql.ColumnMetadata {
		return &gocql.ColumnMetadata{Keyspace: keyspace, Table: table, Name: name, Kind: kind, Type: info}
	}
	table := func(name string, cols ...*gocql.ColumnMetadata) *gocql.TableMetadata {
		t := &gocql.TableMetadata{Keyspace: keyspace, Name: name, Columns: make(map[string]*gocql.ColumnMetadata, len(cols))}
		for _, c := range cols {
			t.Columns[c.Name] = c
			t.OrderedColumns = append(t.OrderedColumns, c.Name)
			switch c.Kind {
			case gocql.ColumnPartitionKey:
				t.PartitionKey = append(t.PartitionKey, c)
			case gocql.ColumnClusteringKey:
				t.ClusteringColumns = append(t.ClusteringColumns, c)
			}
		}
		return t
	}

	movies := table(tables.Movies,
		col(tables.Movies, "id", gocql.ColumnPartitionKey, native(gocql.TypeUUID)),
		col(tables.Movies, "title", gocql.ColumnRegular, native(gocql.TypeText)),
		col(tables.Movies, "is_original", gocql.ColumnRegular, native(gocql.TypeBoolean)),
		col(tables.Movies, "synopsis", gocql.ColumnRegular, native(gocql.TypeText)),
		col(tables.Movies, "metadata", gocql.ColumnRegular, udt),
	)
	byGenre := table(tables.ByGenre,
		col(tables.ByGenre, "genre", gocql.ColumnPartitionKey, native(gocql.TypeText)),
		col(tables.ByGenre, "movie_id", gocql.ColumnClusteringKey, native(gocql.TypeUUID)),
		col(tables.ByGenre, "is_original", gocql.ColumnRegular, native(gocql.TypeBoolean)),
		col(tables.ByGenre, "title", gocql.ColumnRegular, native(gocql.TypeText)),
		col(tables.ByGenre, "metadata", gocql.ColumnRegular, udt),
	)

	return &gocql.KeyspaceMetadata{
		Name:          keyspace,
		DurableWrites: true,
		Tables: map[string]*gocql.TableMetadata{
			movies.Name:  movies,
			byGenre.Name: byGenre,
		},
		UserTypes: map[string]*gocql.UserTypeMetadata{
			typeName: {
				Keyspace:   keyspace,
				Name:       typeName,
				FieldNames: []string{"release_year", "duration", "genres"},
				FieldTypes: []gocql.TypeInfo{
					native(gocql.TypeSmallInt),
					native(gocql.TypeBigInt),
					gocql.CollectionType{NativeType: gocql.NewNativeType(proto, gocql.TypeSet, ""), Elem: native(gocql.TypeText)},
				},
			},
		},
	}
}

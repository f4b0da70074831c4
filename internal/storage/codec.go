package storage

import (
	"fmt"
	"math"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

// DefaultProtoVersion ist die Protokollversion, wenn keine konfiguriert ist
const DefaultProtoVersion = 4

// metadataFields listet die UDT-Felder des Codecs und die jeweils erlaubten CQL-Typen
var metadataFields = []struct {
	name  string
	types []gocql.Type
	elem  []gocql.Type // Elementtypen für Collections
}{
	{name: "release_year", types: []gocql.Type{gocql.TypeSmallInt}},
	{name: "duration", types: []gocql.Type{gocql.TypeBigInt}},
	{name: "genres", types: []gocql.Type{gocql.TypeSet}, elem: []gocql.Type{gocql.TypeText, gocql.TypeVarchar}},
}

// MetadataCodec baut MovieMetadata-Werte für einen einmal gegen den Snapshot geprüften UDT
type MetadataCodec struct {
	name string
	info gocql.UDTTypeInfo
}

// NewMetadataCodec löst typeName in snap auf und prüft, ob alle Metadaten-Felder deklariert sind
func NewMetadataCodec(snap *Snapshot, typeName string, proto byte) (*MetadataCodec, error) {
	ut, err := snap.ResolveNestedType(typeName)
	if err != nil {
		return nil, err
	}
	if proto == 0 {
		proto = DefaultProtoVersion
	}

	declared := make(map[string]gocql.TypeInfo, len(ut.FieldNames))
	for i, name := range ut.FieldNames {
		var t gocql.TypeInfo
		if i < len(ut.FieldTypes) {
			t = ut.FieldTypes[i]
		}
		declared[name] = t
	}

	for _, f := range metadataFields {
		t, ok := declared[f.name]
		if !ok {
			return nil, &SchemaResolutionError{Keyspace: snap.Keyspace(), Object: typeName, Field: f.name}
		}
		if err := checkFieldType(t, f.types, f.elem); err != nil {
			return nil, &SchemaResolutionError{Keyspace: snap.Keyspace(), Object: typeName, Field: f.name, Reason: err.Error()}
		}
	}

	// Elemente in deklarierter Feldreihenfolge, so erwartet sie der Server
	elems := make([]gocql.UDTField, 0, len(ut.FieldNames))
	for _, name := range ut.FieldNames {
		elems = append(elems, gocql.UDTField{Name: name, Type: withProto(declared[name], proto)})
	}

	return &MetadataCodec{
		name: typeName,
		info: gocql.UDTTypeInfo{
			NativeType: gocql.NewNativeType(proto, gocql.TypeUDT, ""),
			KeySpace:   snap.Keyspace(),
			Name:       typeName,
			Elements:   elems,
		},
	}, nil
}

// TypeInfo liefert den aufgelösten UDT für gocql.Marshal
func (c *MetadataCodec) TypeInfo() gocql.TypeInfo {
	return c.info
}

// Proto gibt die Protokollversion der Typen zurück
func (c *MetadataCodec) Proto() byte {
	return c.info.Version()
}

// TypeName gibt den Namen des UDT zurück
func (c *MetadataCodec) TypeName() string {
	return c.name
}

// Build leitet die Metadaten aus rec ab. Die Genre-Menge enthält genau rec.Genre.
func (c *MetadataCodec) Build(rec models.MovieRecord) (models.MovieMetadata, error) {
	if rec.ReleaseYear > math.MaxInt16 {
		return models.MovieMetadata{}, &RangeError{
			Field: "release_year",
			Value: int64(rec.ReleaseYear),
			Min:   math.MinInt16,
			Max:   math.MaxInt16,
		}
	}
	return models.MovieMetadata{
		ReleaseYear: int16(rec.ReleaseYear),
		Duration:    int64(rec.Duration),
		Genres:      []string{rec.Genre},
	}, nil
}

func checkFieldType(t gocql.TypeInfo, want, elem []gocql.Type) error {
	if t == nil {
		return fmt.Errorf("field has no type information")
	}
	if !containsType(want, t.Type()) {
		return fmt.Errorf("unexpected type %s", t.Type())
	}
	if len(elem) == 0 {
		return nil
	}
	coll, ok := t.(gocql.CollectionType)
	if !ok || coll.Elem == nil || !containsType(elem, coll.Elem.Type()) {
		return fmt.Errorf("unexpected element type in %s", t)
	}
	return nil
}

func containsType(ts []gocql.Type, t gocql.Type) bool {
	for _, c := range ts {
		if c == t {
			return true
		}
	}
	return false
}

// withProto baut native Typen und Collections mit der Protokollversion der Session neu.
// Aus dem Schema gelesene Typen haben keine Version, die Collection-Kodierung hängt aber davon ab.
func withProto(t gocql.TypeInfo, proto byte) gocql.TypeInfo {
	switch v := t.(type) {
	case gocql.NativeType:
		return gocql.NewNativeType(proto, v.Type(), v.Custom())
	case gocql.CollectionType:
		out := gocql.CollectionType{NativeType: gocql.NewNativeType(proto, v.Type(), v.Custom())}
		if v.Key != nil {
			out.Key = withProto(v.Key, proto)
		}
		if v.Elem != nil {
			out.Elem = withProto(v.Elem, proto)
		}
		return out
	default:
		return t
	}
}

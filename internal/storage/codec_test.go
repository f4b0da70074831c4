package storage

import (
	"errors"
	"testing"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

func expectedSnapshot() (*Snapshot, *gocql.KeyspaceMetadata) {
	ks := ExpectedSchema("movie", "metadata", DefaultTableNames, DefaultProtoVersion)
	return NewSnapshot(ks), ks
}

func TestNewMetadataCodecSchemaErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(ut *gocql.UserTypeMetadata)
		typeName  string
		wantField string
	}{
		{
			name:     "missing type",
			typeName: "details",
		},
		{
			name: "missing genres field",
			mutate: func(ut *gocql.UserTypeMetadata) {
				ut.FieldNames = ut.FieldNames[:2]
				ut.FieldTypes = ut.FieldTypes[:2]
			},
			wantField: "genres",
		},
		{
			name: "release_year declared as int",
			mutate: func(ut *gocql.UserTypeMetadata) {
				ut.FieldTypes[0] = gocql.NewNativeType(4, gocql.TypeInt, "")
			},
			wantField: "release_year",
		},
		{
			name: "genres declared as list",
			mutate: func(ut *gocql.UserTypeMetadata) {
				ut.FieldTypes[2] = gocql.CollectionType{
					NativeType: gocql.NewNativeType(4, gocql.TypeList, ""),
					Elem:       gocql.NewNativeType(4, gocql.TypeText, ""),
				}
			},
			wantField: "genres",
		},
		{
			name: "genres of int",
			mutate: func(ut *gocql.UserTypeMetadata) {
				ut.FieldTypes[2] = gocql.CollectionType{
					NativeType: gocql.NewNativeType(4, gocql.TypeSet, ""),
					Elem:       gocql.NewNativeType(4, gocql.TypeInt, ""),
				}
			},
			wantField: "genres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, ks := expectedSnapshot()
			if tt.mutate != nil {
				tt.mutate(ks.UserTypes["metadata"])
			}
			typeName := tt.typeName
			if typeName == "" {
				typeName = "metadata"
			}

			_, err := NewMetadataCodec(snap, typeName, 4)

			var schemaErr *SchemaResolutionError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaResolutionError, got %v", err)
			}
			if schemaErr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", schemaErr.Field, tt.wantField)
			}
		})
	}
}

func TestMetadataCodecBuild(t *testing.T) {
	snap, _ := expectedSnapshot()
	codec, err := NewMetadataCodec(snap, "metadata", 4)
	if err != nil {
		t.Fatalf("NewMetadataCodec: %v", err)
	}

	tests := []struct {
		name    string
		record  models.MovieRecord
		want    models.MovieMetadata
		wantErr bool
	}{
		{
			name:   "regular movie",
			record: models.MovieRecord{Genre: "drama", ReleaseYear: 2001, Duration: 120},
			want:   models.MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama"}},
		},
		{
			name:   "largest release year",
			record: models.MovieRecord{Genre: "sci-fi", ReleaseYear: 32767, Duration: 65535},
			want:   models.MovieMetadata{ReleaseYear: 32767, Duration: 65535, Genres: []string{"sci-fi"}},
		},
		{
			name:    "release year beyond smallint",
			record:  models.MovieRecord{Genre: "drama", ReleaseYear: 32768},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Build(tt.record)
			if tt.wantErr {
				var rangeErr *RangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("expected RangeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !got.Equal(tt.want) || len(got.Genres) != 1 {
				t.Errorf("Build = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataCodecMarshalsResolvedType(t *testing.T) {
	snap, _ := expectedSnapshot()
	codec, err := NewMetadataCodec(snap, "metadata", 4)
	if err != nil {
		t.Fatalf("NewMetadataCodec: %v", err)
	}
	meta, err := codec.Build(models.MovieRecord{Genre: "drama", ReleaseYear: 1999, Duration: 136})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := gocql.Marshal(codec.TypeInfo(), meta)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded models.MovieMetadata
	if err := gocql.Unmarshal(codec.TypeInfo(), data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Equal(meta) {
		t.Errorf("decoded %v, want %v", decoded, meta)
	}
}

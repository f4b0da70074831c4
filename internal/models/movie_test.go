package models

import (
	"testing"

	"github.com/gocql/gocql"
)

func TestMovieMetadataEqual(t *testing.T) {
	base := MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama", "crime"}}

	tests := []struct {
		name  string
		other MovieMetadata
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "genre order ignored", other: MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"crime", "drama"}}, want: true},
		{name: "duplicates ignored", other: MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"crime", "drama", "drama"}}, want: true},
		{name: "missing genre", other: MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama"}}, want: false},
		{name: "other genre", other: MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama", "comedy"}}, want: false},
		{name: "year differs", other: MovieMetadata{ReleaseYear: 2002, Duration: 120, Genres: base.Genres}, want: false},
		{name: "duration differs", other: MovieMetadata{ReleaseYear: 2001, Duration: 121, Genres: base.Genres}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.other.Equal(base); got != tt.want {
				t.Errorf("reverse Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMovieMetadataUnknownField(t *testing.T) {
	m := MovieMetadata{ReleaseYear: 2001}

	data, err := m.MarshalUDT("rating", gocql.NewNativeType(4, gocql.TypeInt, ""))
	if err != nil || data != nil {
		t.Errorf("expected null for unknown field, got %v, %v", data, err)
	}
	if err := m.UnmarshalUDT("rating", gocql.NewNativeType(4, gocql.TypeInt, ""), []byte{0, 0, 0, 1}); err != nil {
		t.Errorf("UnmarshalUDT unknown field: %v", err)
	}
	if m.ReleaseYear != 2001 {
		t.Errorf("unknown field changed the value: %+v", m)
	}
}

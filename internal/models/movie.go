package models

import (
	"fmt"

	"github.com/gocql/gocql"
)

// MovieRecord repräsentiert eine Zeile aus der movies_by_genre.csv
type MovieRecord struct {
	Genre       string `csv:"genre" json:"genre"`
	Title       string `csv:"title" json:"title"`
	Trailer     string `csv:"trailer" json:"trailer"`
	ReleaseYear uint16 `csv:"release_year" json:"releaseYear"`
	Synopsis    string `csv:"synopsis" json:"synopsis"`
	Duration    uint16 `csv:"duration" json:"duration"`
}

// MovieMetadata repräsentiert die frozen<metadata>-Spalte beider Tabellen
type MovieMetadata struct {
	ReleaseYear int16    `cql:"release_year" json:"releaseYear"`
	Duration    int64    `cql:"duration" json:"duration"`
	Genres      []string `cql:"genres" json:"genres"`
}

// MarshalUDT implementiert gocql.UDTMarshaler. Unbekannte Felder werden als null gebunden.
func (m MovieMetadata) MarshalUDT(name string, info gocql.TypeInfo) ([]byte, error) {
	switch name {
	case "release_year":
		return gocql.Marshal(info, m.ReleaseYear)
	case "duration":
		return gocql.Marshal(info, m.Duration)
	case "genres":
		return gocql.Marshal(info, m.Genres)
	default:
		return nil, nil
	}
}

// UnmarshalUDT implementiert gocql.UDTUnmarshaler
func (m *MovieMetadata) UnmarshalUDT(name string, info gocql.TypeInfo, data []byte) error {
	switch name {
	case "release_year":
		return gocql.Unmarshal(info, data, &m.ReleaseYear)
	case "duration":
		return gocql.Unmarshal(info, data, &m.Duration)
	case "genres":
		return gocql.Unmarshal(info, data, &m.Genres)
	default:
		return nil
	}
}

// Equal vergleicht Erscheinungsjahr, Dauer und die Menge der Genres.
// Reihenfolge und Duplikate der Genres werden ignoriert.
func (m MovieMetadata) Equal(o MovieMetadata) bool {
	if m.ReleaseYear != o.ReleaseYear || m.Duration != o.Duration {
		return false
	}
	a := make(map[string]struct{}, len(m.Genres))
	for _, g := range m.Genres {
		a[g] = struct{}{}
	}
	b := make(map[string]struct{}, len(o.Genres))
	for _, g := range o.Genres {
		if _, ok := a[g]; !ok {
			return false
		}
		b[g] = struct{}{}
	}
	return len(a) == len(b)
}

func (m MovieMetadata) String() string {
	return fmt.Sprintf("{release_year: %d, duration: %d, genres: %v}", m.ReleaseYear, m.Duration, m.Genres)
}

// MovieByPrimaryKey repräsentiert eine Zeile aus movie.movies
type MovieByPrimaryKey struct {
	ID         gocql.UUID    `json:"id"`
	Title      string        `json:"title"`
	IsOriginal bool          `json:"isOriginal"`
	Synopsis   string        `json:"synopsis"`
	Metadata   MovieMetadata `json:"metadata"`
}

// MovieByGenre repräsentiert eine Zeile aus movie.movies_by_genre
type MovieByGenre struct {
	Genre      string        `json:"genre"`
	MovieID    gocql.UUID    `json:"movieId"`
	IsOriginal bool          `json:"isOriginal"`
	Title      string        `json:"title"`
	Metadata   MovieMetadata `json:"metadata"`
}

// MoviesResponse für Huma API
type MoviesResponse struct {
	Body []MovieByPrimaryKey `json:"body"`
}

// MovieResponse für Huma API
type MovieResponse struct {
	Body MovieByPrimaryKey `json:"body"`
}

// GenreMoviesResponse für Huma API
type GenreMoviesResponse struct {
	Body struct {
		Genre string         `json:"genre"`
		Items []MovieByGenre `json:"items"`
	} `json:"body"`
}

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

var requiredColumns = []string{"genre", "title", "release_year", "synopsis", "duration"}

// Row ist eine geparste CSV-Zeile. Line beginnt bei 1 und zählt den Header mit.
type Row struct {
	Line  int
	Movie models.MovieRecord
}

// DataImporter lädt Filme aus einer CSV-Datei
type DataImporter struct {
	moviesPath string
	log        zerolog.Logger
}

// NewDataImporter erstellt einen neuen DataImporter
func NewDataImporter(moviesPath string, log zerolog.Logger) *DataImporter {
	return &DataImporter{
		moviesPath: moviesPath,
		log:        log,
	}
}

// LoadMovies lädt alle Filme aus der CSV-Datei. Fehlerhafte Zeilen werden geloggt und übersprungen.
func (d *DataImporter) LoadMovies() ([]Row, error) {
	file, err := os.Open(d.moviesPath)
	if err != nil {
		return nil, fmt.Errorf("open movies file: %w", err)
	}
	defer file.Close()

	return ParseMovies(file, func(line int, err error) {
		d.log.Warn().Int("line", line).Err(err).Msg("skipping unparsable row")
	})
}

// ParseMovies liest eine Film-CSV mit Header aus r. Die Spaltenreihenfolge ist beliebig,
// Header werden ohne Beachtung der Groß-/Kleinschreibung zugeordnet, trailer ist optional.
// Fehlerhafte Zeilen werden an skip gemeldet, sofern gesetzt, und ausgelassen.
func ParseMovies(r io.Reader, skip func(line int, err error)) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := readHeader(reader)
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && skip != nil {
				skip(perr.StartLine, err)
				continue
			}
			return nil, fmt.Errorf("read movies: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		movie, err := parseMovieRecord(header, record)
		if err != nil {
			if skip != nil {
				skip(line, err)
			}
			continue
		}
		rows = append(rows, Row{Line: line, Movie: movie})
	}

	return rows, nil
}

// parseMovieRecord parst eine CSV-Zeile in einen MovieRecord
func parseMovieRecord(header map[string]int, record []string) (models.MovieRecord, error) {
	var movie models.MovieRecord

	movie.Genre = valueAt(header, record, "genre")
	if movie.Genre == "" {
		return movie, fmt.Errorf("empty genre")
	}
	movie.Title = valueAt(header, record, "title")
	if movie.Title == "" {
		return movie, fmt.Errorf("empty title")
	}
	movie.Trailer = valueAt(header, record, "trailer")
	movie.Synopsis = valueAt(header, record, "synopsis")

	year, err := strconv.ParseUint(valueAt(header, record, "release_year"), 10, 16)
	if err != nil {
		return movie, fmt.Errorf("invalid release_year: %s", valueAt(header, record, "release_year"))
	}
	movie.ReleaseYear = uint16(year)

	duration, err := strconv.ParseUint(valueAt(header, record, "duration"), 10, 16)
	if err != nil {
		return movie, fmt.Errorf("invalid duration: %s", valueAt(header, record, "duration"))
	}
	movie.Duration = uint16(duration)

	return movie, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

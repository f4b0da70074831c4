package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

// MemoryStorage hält beide Filmtabellen im Speicher. Es nimmt die Batches des Writers an,
// liefert eigene Schema-Metadaten und beantwortet Catalog-Abfragen.
type MemoryStorage struct {
	keyspace     string
	metadataType string
	tables       TableNames
	insertMovie  string
	insertGenre  string

	movies  map[gocql.UUID]models.MovieByPrimaryKey
	order   []gocql.UUID
	byGenre map[string][]models.MovieByGenre
	batches int
	mutex   sync.RWMutex
}

// NewMemoryStorage erstellt einen leeren Speicher für das angegebene Keyspace-Layout
func NewMemoryStorage(keyspace, metadataType string, tables TableNames) *MemoryStorage {
	return &MemoryStorage{
		keyspace:     keyspace,
		metadataType: metadataType,
		tables:       tables,
		insertMovie:  InsertMovieCQL(keyspace, tables.Movies),
		insertGenre:  InsertMovieByGenreCQL(keyspace, tables.ByGenre),
		movies:       make(map[gocql.UUID]models.MovieByPrimaryKey),
		byGenre:      make(map[string][]models.MovieByGenre),
	}
}

// KeyspaceMetadata liefert ExpectedSchema für den eigenen Keyspace
func (ms *MemoryStorage) KeyspaceMetadata(keyspace string) (*gocql.KeyspaceMetadata, error) {
	if keyspace != ms.keyspace {
		return nil, gocql.ErrKeyspaceDoesNotExist
	}
	return ExpectedSchema(ms.keyspace, ms.metadataType, ms.tables, DefaultProtoVersion), nil
}

// NewBatch erstellt einen leeren Batch des angegebenen Typs
func (ms *MemoryStorage) NewBatch(typ gocql.BatchType) *gocql.Batch {
	return &gocql.Batch{Type: typ}
}

// ExecuteBatch wendet alle Einträge des Batches an oder keinen
func (ms *MemoryStorage) ExecuteBatch(batch *gocql.Batch) error {
	if batch.Type != gocql.LoggedBatch {
		return fmt.Errorf("memory storage only applies logged batches, got type %d", batch.Type)
	}

	var (
		movies []models.MovieByPrimaryKey
		genres []models.MovieByGenre
	)
	for i, e := range batch.Entries {
		switch e.Stmt {
		case ms.insertMovie:
			m, err := decodeMovie(e.Args)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			movies = append(movies, m)
		case ms.insertGenre:
			g, err := decodeMovieByGenre(e.Args)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			genres = append(genres, g)
		default:
			return fmt.Errorf("batch entry %d: unsupported statement %q", i, e.Stmt)
		}
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	for _, m := range movies {
		if _, exists := ms.movies[m.ID]; !exists {
			ms.order = append(ms.order, m.ID)
		}
		ms.movies[m.ID] = m
	}
	for _, g := range genres {
		rows := ms.byGenre[g.Genre]
		idx := sort.Search(len(rows), func(i int) bool { return compareUUID(rows[i].MovieID, g.MovieID) >= 0 })
		if idx < len(rows) && rows[idx].MovieID == g.MovieID {
			rows[idx] = g
			continue
		}
		rows = append(rows, models.MovieByGenre{})
		copy(rows[idx+1:], rows[idx:])
		rows[idx] = g
		ms.byGenre[g.Genre] = rows
	}
	ms.batches++
	return nil
}

// Batches gibt die Anzahl der angewendeten Batches zurück
func (ms *MemoryStorage) Batches() int {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	return ms.batches
}

// GetMovie gibt einen Film anhand seiner ID zurück
func (ms *MemoryStorage) GetMovie(_ context.Context, id gocql.UUID) (*models.MovieByPrimaryKey, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	m, ok := ms.movies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// ListMovies gibt bis zu limit Filme in Einfügereihenfolge zurück
func (ms *MemoryStorage) ListMovies(_ context.Context, limit int) ([]models.MovieByPrimaryKey, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	n := clampLimit(limit, len(ms.order))
	out := make([]models.MovieByPrimaryKey, 0, n)
	for _, id := range ms.order[:n] {
		out = append(out, ms.movies[id])
	}
	return out, nil
}

// ListMoviesByGenre gibt bis zu limit Zeilen eines Genres zurück, sortiert nach Film-ID
func (ms *MemoryStorage) ListMoviesByGenre(_ context.Context, genre string, limit int) ([]models.MovieByGenre, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	rows := ms.byGenre[genre]
	n := clampLimit(limit, len(rows))
	out := make([]models.MovieByGenre, n)
	copy(out, rows[:n])
	return out, nil
}

// ListGenreEntries gibt bis zu limit Zeilen der Genre-Tabelle zurück, Genre für Genre
func (ms *MemoryStorage) ListGenreEntries(_ context.Context, limit int) ([]models.MovieByGenre, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	genres := make([]string, 0, len(ms.byGenre))
	for g := range ms.byGenre {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	var out []models.MovieByGenre
	for _, g := range genres {
		for _, row := range ms.byGenre[g] {
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func clampLimit(limit, n int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}

func compareUUID(a, b gocql.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func decodeMovie(args []interface{}) (models.MovieByPrimaryKey, error) {
	var m models.MovieByPrimaryKey
	if len(args) != len(movieColumns) {
		return m, fmt.Errorf("expected %d values, got %d", len(movieColumns), len(args))
	}
	var ok [5]bool
	m.ID, ok[0] = args[0].(gocql.UUID)
	m.Title, ok[1] = args[1].(string)
	m.IsOriginal, ok[2] = args[2].(bool)
	m.Synopsis, ok[3] = args[3].(string)
	m.Metadata, ok[4] = args[4].(models.MovieMetadata)
	for i, good := range ok {
		if !good {
			return m, fmt.Errorf("column %s: unexpected value type %T", movieColumns[i], args[i])
		}
	}
	return m, nil
}

func decodeMovieByGenre(args []interface{}) (models.MovieByGenre, error) {
	var g models.MovieByGenre
	if len(args) != len(byGenreColumns) {
		return g, fmt.Errorf("expected %d values, got %d", len(byGenreColumns), len(args))
	}
	var ok [5]bool
	g.MovieID, ok[0] = args[0].(gocql.UUID)
	g.Genre, ok[1] = args[1].(string)
	g.IsOriginal, ok[2] = args[2].(bool)
	g.Title, ok[3] = args[3].(string)
	g.Metadata, ok[4] = args[4].(models.MovieMetadata)
	for i, good := range ok {
		if !good {
			return g, fmt.Errorf("column %s: unexpected value type %T", byGenreColumns[i], args[i])
		}
	}
	return g, nil
}

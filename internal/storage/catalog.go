package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

// Catalog liest Filme aus beiden Tabellen
type Catalog interface {
	GetMovie(ctx context.Context, id gocql.UUID) (*models.MovieByPrimaryKey, error)
	ListMovies(ctx context.Context, limit int) ([]models.MovieByPrimaryKey, error)
	ListMoviesByGenre(ctx context.Context, genre string, limit int) ([]models.MovieByGenre, error)
	ListGenreEntries(ctx context.Context, limit int) ([]models.MovieByGenre, error)
}

var (
	_ Catalog = (*ScyllaStorage)(nil)
	_ Catalog = (*MemoryStorage)(nil)

	_ BatchSession   = (*gocql.Session)(nil)
	_ BatchSession   = (*MemoryStorage)(nil)
	_ MetadataSource = (*gocql.Session)(nil)
	_ MetadataSource = (*MemoryStorage)(nil)
)

// ScyllaStorage implementiert Catalog mit einer gocql Session
type ScyllaStorage struct {
	session  *gocql.Session
	keyspace string
	tables   TableNames
}

// NewScyllaStorage erstellt einen Catalog für keyspace
func NewScyllaStorage(session *gocql.Session, keyspace string, tables TableNames) *ScyllaStorage {
	return &ScyllaStorage{session: session, keyspace: keyspace, tables: tables}
}

func (s *ScyllaStorage) selectMovies() string {
	return fmt.Sprintf(`SELECT id, title, is_original, synopsis, metadata FROM %s.%s`, s.keyspace, s.tables.Movies)
}

func (s *ScyllaStorage) selectByGenre() string {
	return fmt.Sprintf(`SELECT genre, movie_id, is_original, title, metadata FROM %s.%s`, s.keyspace, s.tables.ByGenre)
}

// GetMovie gibt einen Film anhand seiner ID zurück
func (s *ScyllaStorage) GetMovie(ctx context.Context, id gocql.UUID) (*models.MovieByPrimaryKey, error) {
	var m models.MovieByPrimaryKey
	err := s.session.Query(s.selectMovies()+` WHERE id = ?`, id).
		WithContext(ctx).
		Scan(&m.ID, &m.Title, &m.IsOriginal, &m.Synopsis, &m.Metadata)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	return &m, nil
}

// ListMovies gibt bis zu limit Zeilen der Primärschlüssel-Tabelle zurück
func (s *ScyllaStorage) ListMovies(ctx context.Context, limit int) ([]models.MovieByPrimaryKey, error) {
	iter := s.session.Query(s.selectMovies()+` LIMIT ?`, limit).WithContext(ctx).Iter()

	var (
		out []models.MovieByPrimaryKey
		m   models.MovieByPrimaryKey
	)
	for iter.Scan(&m.ID, &m.Title, &m.IsOriginal, &m.Synopsis, &m.Metadata) {
		out = append(out, m)
		m = models.MovieByPrimaryKey{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return out, nil
}

// ListMoviesByGenre gibt bis zu limit Zeilen eines Genres zurück
func (s *ScyllaStorage) ListMoviesByGenre(ctx context.Context, genre string, limit int) ([]models.MovieByGenre, error) {
	iter := s.session.Query(s.selectByGenre()+` WHERE genre = ? LIMIT ?`, genre, limit).WithContext(ctx).Iter()
	out, err := scanByGenre(iter)
	if err != nil {
		return nil, fmt.Errorf("list movies of genre %q: %w", genre, err)
	}
	return out, nil
}

// ListGenreEntries gibt bis zu limit Zeilen der Genre-Tabelle über alle Partitionen zurück
func (s *ScyllaStorage) ListGenreEntries(ctx context.Context, limit int) ([]models.MovieByGenre, error) {
	iter := s.session.Query(s.selectByGenre()+` LIMIT ?`, limit).WithContext(ctx).Iter()
	out, err := scanByGenre(iter)
	if err != nil {
		return nil, fmt.Errorf("list genre entries: %w", err)
	}
	return out, nil
}

func scanByGenre(iter *gocql.Iter) ([]models.MovieByGenre, error) {
	var (
		out []models.MovieByGenre
		g   models.MovieByGenre
	)
	for iter.Scan(&g.Genre, &g.MovieID, &g.IsOriginal, &g.Title, &g.Metadata) {
		out = append(out, g)
		g = models.MovieByGenre{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
)

func TestMemoryStorageBatchIsAllOrNothing(t *testing.T) {
	store := newTestStore()
	id := RandomIDs{}.NewID()
	meta := models.MovieMetadata{ReleaseYear: 2001, Duration: 120, Genres: []string{"drama"}}

	tests := []struct {
		name  string
		batch func() *gocql.Batch
	}{
		{
			name: "unknown statement",
			batch: func() *gocql.Batch {
				b := store.NewBatch(gocql.LoggedBatch)
				b.Query(InsertMovieCQL("movie", "movies"), id, "X", false, "s", meta)
				b.Query("DELETE FROM movie.movies WHERE id = ?", id)
				return b
			},
		},
		{
			name: "wrong value type",
			batch: func() *gocql.Batch {
				b := store.NewBatch(gocql.LoggedBatch)
				b.Query(InsertMovieCQL("movie", "movies"), id, "X", false, "s", meta)
				b.Query(InsertMovieByGenreCQL("movie", "movies_by_genre"), id.String(), "drama", false, "X", meta)
				return b
			},
		},
		{
			name: "unlogged batch",
			batch: func() *gocql.Batch {
				b := store.NewBatch(gocql.UnloggedBatch)
				b.Query(InsertMovieCQL("movie", "movies"), id, "X", false, "s", meta)
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.ExecuteBatch(tt.batch()); err == nil {
				t.Fatal("expected batch to be rejected")
			}
			if _, err := store.GetMovie(context.Background(), id); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected no movie row, got err=%v", err)
			}
			if store.Batches() != 0 {
				t.Errorf("expected 0 applied batches, got %d", store.Batches())
			}
		})
	}
}

func TestMemoryStorageReads(t *testing.T) {
	store := newTestStore()
	w := newTestWriter(t, store, store)
	ctx := context.Background()

	for _, rec := range []models.MovieRecord{
		{Genre: "drama", Title: "A", ReleaseYear: 2000, Duration: 100},
		{Genre: "comedy", Title: "B", ReleaseYear: 2001, Duration: 90},
		{Genre: "drama", Title: "C", ReleaseYear: 2002, Duration: 110},
	} {
		if _, err := w.WriteMovie(ctx, rec); err != nil {
			t.Fatalf("WriteMovie: %v", err)
		}
	}

	movies, _ := store.ListMovies(ctx, 2)
	if len(movies) != 2 || movies[0].Title != "A" || movies[1].Title != "B" {
		t.Errorf("ListMovies(2) = %+v", movies)
	}

	drama, _ := store.ListMoviesByGenre(ctx, "drama", 0)
	if len(drama) != 2 {
		t.Fatalf("expected 2 drama rows, got %d", len(drama))
	}
	if compareUUID(drama[0].MovieID, drama[1].MovieID) >= 0 {
		t.Error("genre partition not ordered by movie id")
	}

	none, _ := store.ListMoviesByGenre(ctx, "western", 10)
	if len(none) != 0 {
		t.Errorf("expected empty partition, got %d rows", len(none))
	}

	entries, _ := store.ListGenreEntries(ctx, 2)
	if len(entries) != 2 || entries[0].Genre != "comedy" {
		t.Errorf("ListGenreEntries(2) = %+v", entries)
	}
}

func TestMemoryStorageKeyspaceMetadata(t *testing.T) {
	store := newTestStore()

	if _, err := store.KeyspaceMetadata("other"); !errors.Is(err, gocql.ErrKeyspaceDoesNotExist) {
		t.Errorf("expected ErrKeyspaceDoesNotExist, got %v", err)
	}
	ks, err := store.KeyspaceMetadata("movie")
	if err != nil {
		t.Fatalf("KeyspaceMetadata: %v", err)
	}
	if _, ok := ks.UserTypes["metadata"]; !ok {
		t.Error("expected metadata user type")
	}
	if len(ks.Tables) != 2 {
		t.Errorf("expected 2 tables, got %d", len(ks.Tables))
	}
}

func TestLoadSnapshotMissingKeyspace(t *testing.T) {
	_, err := LoadSnapshot(newTestStore(), "films")

	var schemaErr *SchemaResolutionError
	if !errors.As(err, &schemaErr) || schemaErr.Keyspace != "films" {
		t.Fatalf("expected SchemaResolutionError for films, got %v", err)
	}
}

func TestIDGenerators(t *testing.T) {
	tests := []struct {
		strategy string
		version  int
		wantErr  bool
	}{
		{strategy: "", version: 4},
		{strategy: "random", version: 4},
		{strategy: "time", version: 1},
		{strategy: "sequential", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			gen, err := NewIDGenerator(tt.strategy)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIDGenerator: %v", err)
			}

			seen := make(map[gocql.UUID]bool)
			for i := 0; i < 1000; i++ {
				id := gen.NewID()
				if id.Version() != tt.version {
					t.Fatalf("version = %d, want %d", id.Version(), tt.version)
				}
				if seen[id] {
					t.Fatalf("duplicate id %v", id)
				}
				seen[id] = true
			}
		})
	}
}

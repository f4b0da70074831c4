package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/models"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/storage"
)

// MaxLimit begrenzt den Query-Parameter limit
const MaxLimit = 1000

// MovieHandler behandelt Film-bezogene API-Anfragen
type MovieHandler struct {
	catalog      storage.Catalog
	defaultLimit int
}

// NewMovieHandler erstellt einen neuen MovieHandler
func NewMovieHandler(catalog storage.Catalog, defaultLimit int) *MovieHandler {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &MovieHandler{
		catalog:      catalog,
		defaultLimit: defaultLimit,
	}
}

// LimitParam ist der gemeinsame Paging-Parameter
type LimitParam struct {
	Limit int `query:"limit" minimum:"0" maximum:"1000" doc:"Maximale Anzahl Zeilen (0 = Server-Standard)"`
}

func (h *MovieHandler) limit(p LimitParam) int {
	if p.Limit <= 0 {
		return h.defaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// Register registriert die Film-Routen an der Huma API
func (h *MovieHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listMovies",
		Method:      "GET",
		Path:        "/movies",
		Summary:     "List movies",
		Description: "List rows of the by-primary-key table",
		Tags:        []string{"movies"},
	}, h.HumaListMovies)

	huma.Register(api, huma.Operation{
		OperationID: "getMovie",
		Method:      "GET",
		Path:        "/movies/{id}",
		Summary:     "Get movie",
		Description: "Get one movie by its id",
		Tags:        []string{"movies"},
	}, h.HumaGetMovie)

	huma.Register(api, huma.Operation{
		OperationID: "listMoviesByGenre",
		Method:      "GET",
		Path:        "/genres/{genre}/movies",
		Summary:     "List movies of a genre",
		Description: "List rows of one partition of the by-genre table",
		Tags:        []string{"movies", "genres"},
	}, h.HumaListMoviesByGenre)
}

// HumaListMovies listet Filme aus der Primärschlüssel-Tabelle
func (h *MovieHandler) HumaListMovies(ctx context.Context, input *struct {
	LimitParam
}) (*models.MoviesResponse, error) {
	movies, err := h.catalog.ListMovies(ctx, h.limit(input.LimitParam))
	if err != nil {
		return nil, huma.Error500InternalServerError("list movies failed", err)
	}
	if movies == nil {
		movies = []models.MovieByPrimaryKey{}
	}
	return &models.MoviesResponse{Body: movies}, nil
}

// HumaGetMovie gibt einen Film anhand seiner ID zurück
func (h *MovieHandler) HumaGetMovie(ctx context.Context, input *struct {
	ID string `path:"id" doc:"UUID des Films"`
}) (*models.MovieResponse, error) {
	id, err := gocql.ParseUUID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid movie id: " + err.Error())
	}

	movie, err := h.catalog.GetMovie(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error404NotFound("movie not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("get movie failed", err)
	}
	return &models.MovieResponse{Body: *movie}, nil
}

// HumaListMoviesByGenre listet die Filme eines Genres
func (h *MovieHandler) HumaListMoviesByGenre(ctx context.Context, input *struct {
	Genre string `path:"genre" doc:"Name des Genres"`
	LimitParam
}) (*models.GenreMoviesResponse, error) {
	rows, err := h.catalog.ListMoviesByGenre(ctx, input.Genre, h.limit(input.LimitParam))
	if err != nil {
		return nil, huma.Error500InternalServerError("list movies by genre failed", err)
	}
	if rows == nil {
		rows = []models.MovieByGenre{}
	}

	resp := &models.GenreMoviesResponse{}
	resp.Body.Genre = input.Genre
	resp.Body.Items = rows
	return resp, nil
}

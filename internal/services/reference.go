package services

import (
	"context"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

// ReferenceService exposes the read-only genre and MPA catalogs.
type ReferenceService struct {
	genres storage.GenreStorage
	mpa    storage.MpaStorage
}

func NewReferenceService(genres storage.GenreStorage, mpa storage.MpaStorage) *ReferenceService {
	return &ReferenceService{genres: genres, mpa: mpa}
}

func (s *ReferenceService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.genres.ListGenres(ctx)
}

func (s *ReferenceService) GetGenre(ctx context.Context, id int) (*models.Genre, error) {
	return s.genres.GetGenre(ctx, id)
}

func (s *ReferenceService) ListMpa(ctx context.Context) ([]models.Mpa, error) {
	return s.mpa.ListMpa(ctx)
}

func (s *ReferenceService) GetMpa(ctx context.Context, id int) (*models.Mpa, error) {
	return s.mpa.GetMpa(ctx, id)
}

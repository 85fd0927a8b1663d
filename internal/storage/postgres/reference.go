package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

// GenreStore and MpaStore read the seeded reference catalogs; the rows
// are inserted by migrations and never written at runtime.

type GenreStore struct {
	db DBConn
}

func NewGenreStore(db DBConn) *GenreStore {
	return &GenreStore{db: db}
}

func (s *GenreStore) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := s.db.Query(ctx, `SELECT genre_id, name FROM genres ORDER BY genre_id`)
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading genres: %w", err)
	}
	return genres, nil
}

func (s *GenreStore) GetGenre(ctx context.Context, id int) (*models.Genre, error) {
	var g models.Genre
	err := s.db.QueryRow(ctx,
		`SELECT genre_id, name FROM genres WHERE genre_id = $1`, id,
	).Scan(&g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("genre %d: %w", id, storage.ErrGenreNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting genre by id: %w", err)
	}
	return &g, nil
}

type MpaStore struct {
	db DBConn
}

func NewMpaStore(db DBConn) *MpaStore {
	return &MpaStore{db: db}
}

func (s *MpaStore) ListMpa(ctx context.Context) ([]models.Mpa, error) {
	rows, err := s.db.Query(ctx, `SELECT mpa_id, name FROM mpa ORDER BY mpa_id`)
	if err != nil {
		return nil, fmt.Errorf("listing mpa ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Mpa{}
	for rows.Next() {
		var m models.Mpa
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning mpa rating: %w", err)
		}
		ratings = append(ratings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading mpa ratings: %w", err)
	}
	return ratings, nil
}

func (s *MpaStore) GetMpa(ctx context.Context, id int) (*models.Mpa, error) {
	var m models.Mpa
	err := s.db.QueryRow(ctx,
		`SELECT mpa_id, name FROM mpa WHERE mpa_id = $1`, id,
	).Scan(&m.ID, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mpa rating %d: %w", id, storage.ErrMpaNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting mpa rating by id: %w", err)
	}
	return &m, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

type FilmStore struct {
	db DB
}

func NewFilmStore(db DB) *FilmStore {
	return &FilmStore{db: db}
}

func (s *FilmStore) ListFilms(ctx context.Context) ([]models.Film, error) {
	rows, err := s.db.Query(ctx,
		`SELECT m.film_id, m.title, m.description, m.release_date, m.duration, r.mpa_id, r.name
		 FROM movies m
		 JOIN mpa r ON m.mpa_id = r.mpa_id
		 ORDER BY m.film_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing films: %w", err)
	}
	defer rows.Close()

	films, err := scanFilms(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachGenres(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

func (s *FilmStore) CreateFilm(ctx context.Context, film models.Film) (*models.Film, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning create film transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO movies (title, description, release_date, duration, mpa_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING film_id`,
		film.Name, film.Description, film.ReleaseDate.Time, film.Duration, film.Mpa.ID,
	).Scan(&film.ID)
	if err != nil {
		return nil, fmt.Errorf("creating film: %w", err)
	}

	if err := replaceGenres(ctx, tx, film.ID, film.Genres); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create film: %w", err)
	}
	committed = true
	return &film, nil
}

func (s *FilmStore) UpdateFilm(ctx context.Context, film models.Film) (*models.Film, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning update film transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	result, err := tx.Exec(ctx,
		`UPDATE movies SET title = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
		 WHERE film_id = $6`,
		film.Name, film.Description, film.ReleaseDate.Time, film.Duration, film.Mpa.ID, film.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating film: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("film %d: %w", film.ID, storage.ErrFilmNotFound)
	}

	if err := replaceGenres(ctx, tx, film.ID, film.Genres); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update film: %w", err)
	}
	committed = true
	return &film, nil
}

func (s *FilmStore) GetFilm(ctx context.Context, id int64) (*models.Film, error) {
	film, err := scanFilm(s.db.QueryRow(ctx,
		`SELECT m.film_id, m.title, m.description, m.release_date, m.duration, r.mpa_id, r.name
		 FROM movies m
		 JOIN mpa r ON m.mpa_id = r.mpa_id
		 WHERE m.film_id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("film %d: %w", id, storage.ErrFilmNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting film by id: %w", err)
	}

	films := []models.Film{*film}
	if err := s.attachGenres(ctx, films); err != nil {
		return nil, err
	}
	return &films[0], nil
}

func (s *FilmStore) ListPopular(ctx context.Context, limit int) ([]models.Film, error) {
	// Zero-like films join to no rows and count as 0 rather than being
	// excluded, so the ranking always has enough candidates.
	rows, err := s.db.Query(ctx,
		`SELECT m.film_id, m.title, m.description, m.release_date, m.duration, r.mpa_id, r.name
		 FROM movies m
		 JOIN mpa r ON m.mpa_id = r.mpa_id
		 LEFT JOIN likes l ON m.film_id = l.film_id
		 GROUP BY m.film_id, m.title, m.description, m.release_date, m.duration, r.mpa_id, r.name
		 ORDER BY COUNT(l.user_id) DESC, m.film_id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing popular films: %w", err)
	}
	defer rows.Close()

	films, err := scanFilms(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachGenres(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

// replaceGenres swaps the film's genre rows for the given set inside
// the caller's transaction. Prior associations are never merged.
func replaceGenres(ctx context.Context, tx Tx, filmID int64, genres []models.Genre) error {
	if _, err := tx.Exec(ctx, `DELETE FROM movie_genres WHERE film_id = $1`, filmID); err != nil {
		return fmt.Errorf("clearing film genres: %w", err)
	}
	for _, g := range genres {
		_, err := tx.Exec(ctx,
			`INSERT INTO movie_genres (film_id, genre_id) VALUES ($1, $2)
			 ON CONFLICT (film_id, genre_id) DO NOTHING`,
			filmID, g.ID,
		)
		if err != nil {
			return fmt.Errorf("adding film genre: %w", err)
		}
	}
	return nil
}

// attachGenres populates the genre set of every film in one query.
// Films with no rows end up with an empty, non-nil slice.
func (s *FilmStore) attachGenres(ctx context.Context, films []models.Film) error {
	for i := range films {
		films[i].Genres = []models.Genre{}
	}
	if len(films) == 0 {
		return nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT mg.film_id, g.genre_id, g.name
		 FROM movie_genres mg
		 JOIN genres g ON mg.genre_id = g.genre_id
		 ORDER BY mg.film_id, g.genre_id`,
	)
	if err != nil {
		return fmt.Errorf("loading film genres: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*models.Film, len(films))
	for i := range films {
		byID[films[i].ID] = &films[i]
	}
	for rows.Next() {
		var (
			filmID int64
			genre  models.Genre
		)
		if err := rows.Scan(&filmID, &genre.ID, &genre.Name); err != nil {
			return fmt.Errorf("scanning film genre: %w", err)
		}
		if film, ok := byID[filmID]; ok {
			film.Genres = append(film.Genres, genre)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading film genres: %w", err)
	}
	return nil
}

func scanFilm(row Row) (*models.Film, error) {
	var (
		film    models.Film
		release time.Time
	)
	err := row.Scan(&film.ID, &film.Name, &film.Description, &release, &film.Duration,
		&film.Mpa.ID, &film.Mpa.Name)
	if err != nil {
		return nil, err
	}
	film.ReleaseDate = models.Date{Time: release}
	return &film, nil
}

func scanFilms(rows Rows) ([]models.Film, error) {
	films := []models.Film{}
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning film: %w", err)
		}
		films = append(films, *film)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading films: %w", err)
	}
	return films, nil
}

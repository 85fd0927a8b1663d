package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

// No film may be released before the first motion picture screening.
var earliestReleaseDate = models.NewDate(1895, time.December, 28)

const maxDescriptionLength = 200

// DefaultPopularLimit is the ranking size used when the caller does not
// specify one.
const DefaultPopularLimit = 10

// FilmService owns the film catalog, the like ledger, and the
// popularity ranking derived from it. Like counts are always computed
// from the ledger, never stored on the film.
type FilmService struct {
	films  storage.FilmStorage
	likes  storage.LikeStorage
	genres storage.GenreStorage
	mpa    storage.MpaStorage
	users  *UserService
}

func NewFilmService(films storage.FilmStorage, likes storage.LikeStorage, genres storage.GenreStorage, mpa storage.MpaStorage, users *UserService) *FilmService {
	return &FilmService{films: films, likes: likes, genres: genres, mpa: mpa, users: users}
}

func (s *FilmService) List(ctx context.Context) ([]models.Film, error) {
	return s.films.ListFilms(ctx)
}

func (s *FilmService) Create(ctx context.Context, film models.Film) (*models.Film, error) {
	if err := validateFilm(film); err != nil {
		return nil, err
	}
	resolved, err := s.resolveReferences(ctx, film)
	if err != nil {
		return nil, err
	}
	return s.films.CreateFilm(ctx, *resolved)
}

func (s *FilmService) Update(ctx context.Context, film models.Film) (*models.Film, error) {
	if err := validateFilm(film); err != nil {
		return nil, err
	}
	resolved, err := s.resolveReferences(ctx, film)
	if err != nil {
		return nil, err
	}
	return s.films.UpdateFilm(ctx, *resolved)
}

func (s *FilmService) Get(ctx context.Context, id int64) (*models.Film, error) {
	if id <= 0 {
		return nil, fmt.Errorf("film %d: %w", id, storage.ErrFilmNotFound)
	}
	return s.films.GetFilm(ctx, id)
}

func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.resolveLikeEdge(ctx, filmID, userID); err != nil {
		return err
	}
	return s.likes.AddLike(ctx, filmID, userID)
}

func (s *FilmService) DeleteLike(ctx context.Context, filmID, userID int64) error {
	if err := s.resolveLikeEdge(ctx, filmID, userID); err != nil {
		return err
	}
	return s.likes.DeleteLike(ctx, filmID, userID)
}

func (s *FilmService) resolveLikeEdge(ctx context.Context, filmID, userID int64) error {
	if _, err := s.Get(ctx, filmID); err != nil {
		return err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	return nil
}

// Popular lists films ordered by descending like count, truncated to
// limit. Callers are expected to pass a sane, positive limit.
func (s *FilmService) Popular(ctx context.Context, limit int) ([]models.Film, error) {
	return s.films.ListPopular(ctx, limit)
}

// validateFilm enforces the catalog invariants. Film validation
// happens here and nowhere else, before persistence is attempted.
func validateFilm(film models.Film) error {
	if strings.TrimSpace(film.Name) == "" {
		return fmt.Errorf("%w: film name must not be blank", ErrValidation)
	}
	if strings.TrimSpace(film.Description) == "" {
		return fmt.Errorf("%w: film description must not be blank", ErrValidation)
	}
	if len(film.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: film description must not exceed %d characters", ErrValidation, maxDescriptionLength)
	}
	if film.ReleaseDate.IsZero() {
		return fmt.Errorf("%w: film release date must be set", ErrValidation)
	}
	if film.ReleaseDate.Before(earliestReleaseDate) {
		return fmt.Errorf("%w: release date %s precedes the earliest permissible date %s",
			ErrValidation, film.ReleaseDate, earliestReleaseDate)
	}
	if film.Duration <= 0 {
		return fmt.Errorf("%w: film duration must be positive", ErrValidation)
	}
	if film.Mpa.ID == 0 {
		return fmt.Errorf("%w: film mpa rating must be set", ErrValidation)
	}
	return nil
}

// resolveReferences validates the MPA rating and every genre against
// the reference catalogs and fills in their display names. Duplicate
// genres collapse while the first occurrence keeps its position.
func (s *FilmService) resolveReferences(ctx context.Context, film models.Film) (*models.Film, error) {
	rating, err := s.mpa.GetMpa(ctx, film.Mpa.ID)
	if err != nil {
		return nil, err
	}
	film.Mpa = *rating

	seen := make(map[int]struct{}, len(film.Genres))
	genres := make([]models.Genre, 0, len(film.Genres))
	for _, g := range film.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		genre, err := s.genres.GetGenre(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		genres = append(genres, *genre)
	}
	film.Genres = genres
	return &film, nil
}

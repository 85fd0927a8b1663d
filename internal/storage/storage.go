// Package storage defines the persistence ports of the film domain.
// Two implementations exist: an in-memory map-backed store (memory) and
// a PostgreSQL-backed one (postgres). The service layer depends only on
// these interfaces; the backend is chosen once at process startup.
package storage

import (
	"context"
	"errors"

	"filmgraph/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrFilmNotFound  = errors.New("film not found")
	ErrGenreNotFound = errors.New("genre not found")
	ErrMpaNotFound   = errors.New("mpa rating not found")
)

// UserStorage persists user records. Create assigns a fresh identifier
// starting at 1; Update replaces the stored record wholesale and never
// inserts.
type UserStorage interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// FriendStorage maintains the symmetric friendship relation. Both
// directions of an edge are written and removed in the same logical
// operation, so callers observe the same behavior regardless of how
// the backend represents the edge.
type FriendStorage interface {
	AddFriend(ctx context.Context, userID, friendID int64) error
	DeleteFriend(ctx context.Context, userID, friendID int64) error
	ListFriends(ctx context.Context, userID int64) ([]models.User, error)
	ListCommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error)
}

// FilmStorage persists film records together with their genre
// associations. ListPopular orders by descending like count, counting
// zero-like films as 0, and truncates to limit.
type FilmStorage interface {
	ListFilms(ctx context.Context) ([]models.Film, error)
	CreateFilm(ctx context.Context, film models.Film) (*models.Film, error)
	UpdateFilm(ctx context.Context, film models.Film) (*models.Film, error)
	GetFilm(ctx context.Context, id int64) (*models.Film, error)
	ListPopular(ctx context.Context, limit int) ([]models.Film, error)
}

// LikeStorage records which users liked which films. AddLike is
// idempotent; DeleteLike of an absent edge is a no-op.
type LikeStorage interface {
	AddLike(ctx context.Context, filmID, userID int64) error
	DeleteLike(ctx context.Context, filmID, userID int64) error
	CountLikes(ctx context.Context, filmID int64) (int, error)
}

// GenreStorage reads the fixed genre catalog.
type GenreStorage interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id int) (*models.Genre, error)
}

// MpaStorage reads the fixed MPA rating catalog.
type MpaStorage interface {
	ListMpa(ctx context.Context) ([]models.Mpa, error)
	GetMpa(ctx context.Context, id int) (*models.Mpa, error)
}

// Package memory implements the storage ports with plain maps guarded
// by a single coarse lock. Friend edges are kept in both directions
// inside the same critical section, so the symmetric contract holds
// exactly as it does for the relational backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

// Store implements every storage port over in-process maps. A single
// RWMutex covers all maps and both ID counters.
type Store struct {
	mu sync.RWMutex

	users      map[int64]models.User
	nextUserID int64

	films      map[int64]models.Film
	nextFilmID int64

	// friends[a] holds the friend set of a; edges appear under both keys.
	friends map[int64]map[int64]struct{}

	// likes[filmID] holds the set of user IDs that liked the film.
	likes map[int64]map[int64]struct{}

	genres []models.Genre
	mpa    []models.Mpa
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]models.User),
		nextUserID: 1,
		films:      make(map[int64]models.Film),
		nextFilmID: 1,
		friends:    make(map[int64]map[int64]struct{}),
		likes:      make(map[int64]map[int64]struct{}),
		genres:     seedGenres(),
		mpa:        seedMpa(),
	}
}

func seedGenres() []models.Genre {
	return []models.Genre{
		{ID: 1, Name: "Comedy"},
		{ID: 2, Name: "Drama"},
		{ID: 3, Name: "Cartoon"},
		{ID: 4, Name: "Thriller"},
		{ID: 5, Name: "Documentary"},
		{ID: 6, Name: "Action"},
	}
}

func seedMpa() []models.Mpa {
	return []models.Mpa{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
}

// --- UserStorage ---

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

func (s *Store) UpdateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, fmt.Errorf("user %d: %w", user.ID, storage.ErrUserNotFound)
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrUserNotFound)
	}
	return &user, nil
}

// --- FriendStorage ---

func (s *Store) AddFriend(_ context.Context, userID, friendID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addEdge(userID, friendID)
	s.addEdge(friendID, userID)
	return nil
}

func (s *Store) addEdge(from, to int64) {
	set, ok := s.friends[from]
	if !ok {
		set = make(map[int64]struct{})
		s.friends[from] = set
	}
	set[to] = struct{}{}
}

func (s *Store) DeleteFriend(_ context.Context, userID, friendID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.friends[userID], friendID)
	delete(s.friends[friendID], userID)
	return nil
}

func (s *Store) ListFriends(_ context.Context, userID int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolveUsers(s.friends[userID]), nil
}

func (s *Store) ListCommonFriends(_ context.Context, userID, otherID int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	common := make(map[int64]struct{})
	for id := range s.friends[userID] {
		if _, ok := s.friends[otherID][id]; ok {
			common[id] = struct{}{}
		}
	}
	return s.resolveUsers(common), nil
}

func (s *Store) resolveUsers(ids map[int64]struct{}) []models.User {
	users := make([]models.User, 0, len(ids))
	for id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// --- FilmStorage ---

func (s *Store) ListFilms(_ context.Context) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make([]models.Film, 0, len(s.films))
	for _, f := range s.films {
		films = append(films, copyFilm(f))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *Store) CreateFilm(_ context.Context, film models.Film) (*models.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	film.ID = s.nextFilmID
	s.nextFilmID++
	stored := copyFilm(film)
	s.films[film.ID] = stored
	out := copyFilm(stored)
	return &out, nil
}

func (s *Store) UpdateFilm(_ context.Context, film models.Film) (*models.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[film.ID]; !ok {
		return nil, fmt.Errorf("film %d: %w", film.ID, storage.ErrFilmNotFound)
	}
	stored := copyFilm(film)
	s.films[film.ID] = stored
	out := copyFilm(stored)
	return &out, nil
}

func (s *Store) GetFilm(_ context.Context, id int64) (*models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	film, ok := s.films[id]
	if !ok {
		return nil, fmt.Errorf("film %d: %w", id, storage.ErrFilmNotFound)
	}
	out := copyFilm(film)
	return &out, nil
}

func (s *Store) ListPopular(_ context.Context, limit int) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make([]models.Film, 0, len(s.films))
	for _, f := range s.films {
		films = append(films, copyFilm(f))
	}
	// Stable sort on insertion order keeps ties deterministic within
	// this backend; the contract leaves tie order unspecified.
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	sort.SliceStable(films, func(i, j int) bool {
		return len(s.likes[films[i].ID]) > len(s.likes[films[j].ID])
	})
	if limit >= 0 && limit < len(films) {
		films = films[:limit]
	}
	return films, nil
}

// copyFilm clones the genre slice so callers never alias stored state.
func copyFilm(f models.Film) models.Film {
	genres := make([]models.Genre, len(f.Genres))
	copy(genres, f.Genres)
	f.Genres = genres
	return f
}

// --- LikeStorage ---

func (s *Store) AddLike(_ context.Context, filmID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.likes[filmID]
	if !ok {
		set = make(map[int64]struct{})
		s.likes[filmID] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (s *Store) DeleteLike(_ context.Context, filmID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.likes[filmID], userID)
	return nil
}

func (s *Store) CountLikes(_ context.Context, filmID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.likes[filmID]), nil
}

// --- GenreStorage / MpaStorage ---

func (s *Store) ListGenres(_ context.Context) ([]models.Genre, error) {
	genres := make([]models.Genre, len(s.genres))
	copy(genres, s.genres)
	return genres, nil
}

func (s *Store) GetGenre(_ context.Context, id int) (*models.Genre, error) {
	for _, g := range s.genres {
		if g.ID == id {
			genre := g
			return &genre, nil
		}
	}
	return nil, fmt.Errorf("genre %d: %w", id, storage.ErrGenreNotFound)
}

func (s *Store) ListMpa(_ context.Context) ([]models.Mpa, error) {
	ratings := make([]models.Mpa, len(s.mpa))
	copy(ratings, s.mpa)
	return ratings, nil
}

func (s *Store) GetMpa(_ context.Context, id int) (*models.Mpa, error) {
	for _, m := range s.mpa {
		if m.ID == id {
			rating := m
			return &rating, nil
		}
	}
	return nil, fmt.Errorf("mpa rating %d: %w", id, storage.ErrMpaNotFound)
}

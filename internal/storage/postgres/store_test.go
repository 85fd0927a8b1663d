package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

func testUser(id int64) models.User {
	return models.User{
		ID:       id,
		Email:    "alice@example.com",
		Login:    "alice",
		Name:     "alice",
		Birthday: models.NewDate(1990, time.March, 14),
	}
}

func TestUserStore_GetUser(t *testing.T) {
	birthday := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "FROM users") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return rowFromValues(int64(7), "alice@example.com", "alice", "alice", birthday)
		},
	}
	store := NewUserStore(db)

	user, err := store.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.ID != 7 || user.Login != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Birthday.String() != "1990-03-14" {
		t.Fatalf("expected birthday 1990-03-14, got %s", user.Birthday)
	}
}

func TestUserStore_GetUser_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	store := NewUserStore(db)

	if _, err := store.GetUser(context.Background(), 42); !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStore_CreateUser(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "INSERT INTO users") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return rowFromValues(int64(3))
		},
	}
	store := NewUserStore(db)

	user, err := store.CreateUser(context.Background(), testUser(0))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID != 3 {
		t.Fatalf("expected assigned ID 3, got %d", user.ID)
	}
}

func TestUserStore_UpdateUser_NotFound(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "UPDATE users") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}
	store := NewUserStore(db)

	if _, err := store.UpdateUser(context.Background(), testUser(42)); !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFriendStore_AddFriend_WritesBothDirections(t *testing.T) {
	var inserts [][]any
	var committed bool
	tx := &fakeTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "INSERT INTO friends") || !strings.Contains(sql, "ON CONFLICT") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			inserts = append(inserts, args)
			return fakeCommandTag{rowsAffected: 1}, nil
		},
		CommitFunc: func(ctx context.Context) error {
			committed = true
			return nil
		},
	}
	db := &fakeDB{
		BeginFunc: func(ctx context.Context) (Tx, error) { return tx, nil },
	}
	store := NewFriendStore(db)

	if err := store.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if !committed {
		t.Fatal("expected transaction commit")
	}
	if len(inserts) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(inserts))
	}
	if inserts[0][0] != int64(1) || inserts[0][1] != int64(2) {
		t.Fatalf("unexpected forward edge args: %v", inserts[0])
	}
	if inserts[1][0] != int64(2) || inserts[1][1] != int64(1) {
		t.Fatalf("unexpected reverse edge args: %v", inserts[1])
	}
}

func TestFriendStore_AddFriend_RollsBackOnError(t *testing.T) {
	var rolledBack bool
	tx := &fakeTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{}, errors.New("boom")
		},
		RollbackFunc: func(ctx context.Context) error {
			rolledBack = true
			return nil
		},
		CommitFunc: func(ctx context.Context) error {
			t.Fatal("expected no commit after exec failure")
			return nil
		},
	}
	db := &fakeDB{
		BeginFunc: func(ctx context.Context) (Tx, error) { return tx, nil },
	}
	store := NewFriendStore(db)

	if err := store.AddFriend(context.Background(), 1, 2); err == nil {
		t.Fatal("expected error")
	}
	if !rolledBack {
		t.Fatal("expected rollback")
	}
}

func TestFriendStore_DeleteAbsentFriendIsNoop(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "DELETE FROM friends") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}
	store := NewFriendStore(db)

	if err := store.DeleteFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("expected nil error deleting absent edge, got %v", err)
	}
}

func TestLikeStore_AddLikeIsIdempotentSQL(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "INSERT INTO likes") || !strings.Contains(sql, "DO NOTHING") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}
	store := NewLikeStore(db)

	if err := store.AddLike(context.Background(), 1, 2); err != nil {
		t.Fatalf("expected conflicting like to succeed, got %v", err)
	}
}

func TestLikeStore_DeleteAbsentLikeIsNoop(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}
	store := NewLikeStore(db)

	if err := store.DeleteLike(context.Background(), 1, 2); err != nil {
		t.Fatalf("expected nil error deleting absent like, got %v", err)
	}
}

func TestLikeStore_CountLikes(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(3)
		},
	}
	store := NewLikeStore(db)

	count, err := store.CountLikes(context.Background(), 1)
	if err != nil {
		t.Fatalf("CountLikes: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestGenreStore_GetGenre_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	store := NewGenreStore(db)

	if _, err := store.GetGenre(context.Background(), 99); !errors.Is(err, storage.ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}
}

func TestGenreStore_ListGenres(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{
				{1, "Comedy"},
				{2, "Drama"},
			}}, nil
		},
	}
	store := NewGenreStore(db)

	genres, err := store.ListGenres(context.Background())
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}
	if len(genres) != 2 || genres[0].Name != "Comedy" || genres[1].Name != "Drama" {
		t.Fatalf("unexpected genres: %v", genres)
	}
}

func TestMpaStore_GetMpa_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	store := NewMpaStore(db)

	if _, err := store.GetMpa(context.Background(), 99); !errors.Is(err, storage.ErrMpaNotFound) {
		t.Fatalf("expected ErrMpaNotFound, got %v", err)
	}
}

func TestFilmStore_GetFilm_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	store := NewFilmStore(db)

	if _, err := store.GetFilm(context.Background(), 42); !errors.Is(err, storage.ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}
}

func TestFilmStore_UpdateFilm_NotFound(t *testing.T) {
	var rolledBack bool
	tx := &fakeTx{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "UPDATE movies") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return fakeCommandTag{rowsAffected: 0}, nil
		},
		RollbackFunc: func(ctx context.Context) error {
			rolledBack = true
			return nil
		},
	}
	db := &fakeDB{
		BeginFunc: func(ctx context.Context) (Tx, error) { return tx, nil },
	}
	store := NewFilmStore(db)

	film := models.Film{ID: 42, Name: "Ghost", ReleaseDate: models.NewDate(2001, time.June, 1), Duration: 120, Mpa: models.Mpa{ID: 1}}
	if _, err := store.UpdateFilm(context.Background(), film); !errors.Is(err, storage.ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}
	if !rolledBack {
		t.Fatal("expected rollback")
	}
}

func TestFilmStore_CreateFilm_ReplacesGenres(t *testing.T) {
	var execs []string
	var committed bool
	tx := &fakeTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "INSERT INTO movies") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return rowFromValues(int64(5))
		},
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			execs = append(execs, sql)
			return fakeCommandTag{rowsAffected: 1}, nil
		},
		CommitFunc: func(ctx context.Context) error {
			committed = true
			return nil
		},
	}
	db := &fakeDB{
		BeginFunc: func(ctx context.Context) (Tx, error) { return tx, nil },
	}
	store := NewFilmStore(db)

	film := models.Film{
		Name:        "Heat",
		Description: "a film",
		ReleaseDate: models.NewDate(2001, time.June, 1),
		Duration:    120,
		Mpa:         models.Mpa{ID: 1},
		Genres:      []models.Genre{{ID: 2}, {ID: 4}},
	}
	created, err := store.CreateFilm(context.Background(), film)
	if err != nil {
		t.Fatalf("CreateFilm: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected assigned ID 5, got %d", created.ID)
	}
	if !committed {
		t.Fatal("expected commit")
	}
	if len(execs) != 3 {
		t.Fatalf("expected delete plus two genre inserts, got %d execs", len(execs))
	}
	if !strings.Contains(execs[0], "DELETE FROM movie_genres") {
		t.Fatalf("expected genre clear first, got %q", execs[0])
	}
	for _, sql := range execs[1:] {
		if !strings.Contains(sql, "INSERT INTO movie_genres") {
			t.Fatalf("expected genre insert, got %q", sql)
		}
	}
}

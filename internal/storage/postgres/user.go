// Package postgres implements the storage ports on PostgreSQL via pgx.
// Stores talk to the pool through the DB interface so they can be
// exercised against fakes in tests.
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

type UserStore struct {
	db DBConn
}

func NewUserStore(db DBConn) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, email, login, name, birthday FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (s *UserStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, login, name, birthday)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id`,
		user.Email, user.Login, user.Name, user.Birthday.Time,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	result, err := s.db.Exec(ctx,
		`UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE user_id = $5`,
		user.Email, user.Login, user.Name, user.Birthday.Time, user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("user %d: %w", user.ID, storage.ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT user_id, email, login, name, birthday FROM users WHERE user_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

func scanUser(row Row) (*models.User, error) {
	var (
		user     models.User
		birthday time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday); err != nil {
		return nil, err
	}
	user.Birthday = models.Date{Time: birthday}
	return &user, nil
}

func scanUsers(rows Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	return users, nil
}

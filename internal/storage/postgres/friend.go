package postgres

import (
	"context"
	"fmt"

	"filmgraph/internal/models"
)

// FriendStore keeps one directed row per direction; a symmetric edge is
// always two rows written inside the same transaction so readers of
// either direction observe the same relation.
type FriendStore struct {
	db DB
}

func NewFriendStore(db DB) *FriendStore {
	return &FriendStore{db: db}
}

func (s *FriendStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning add friend transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	// ON CONFLICT keeps the operation idempotent.
	const insert = `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)
	                ON CONFLICT (user_id, friend_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, userID, friendID); err != nil {
		return fmt.Errorf("adding friend edge: %w", err)
	}
	if _, err := tx.Exec(ctx, insert, friendID, userID); err != nil {
		return fmt.Errorf("adding reverse friend edge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing add friend: %w", err)
	}
	committed = true
	return nil
}

func (s *FriendStore) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	// A single statement removes both directions; deleting a missing
	// edge affects zero rows and is not an error.
	_, err := s.db.Exec(ctx,
		`DELETE FROM friends
		 WHERE (user_id = $1 AND friend_id = $2)
		    OR (user_id = $2 AND friend_id = $1)`,
		userID, friendID,
	)
	if err != nil {
		return fmt.Errorf("deleting friend edge: %w", err)
	}
	return nil
}

func (s *FriendStore) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.user_id, u.email, u.login, u.name, u.birthday
		 FROM users u
		 JOIN friends f ON u.user_id = f.friend_id
		 WHERE f.user_id = $1
		 ORDER BY u.user_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (s *FriendStore) ListCommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.user_id, u.email, u.login, u.name, u.birthday
		 FROM users u
		 JOIN friends f1 ON u.user_id = f1.friend_id AND f1.user_id = $1
		 JOIN friends f2 ON u.user_id = f2.friend_id AND f2.user_id = $2
		 ORDER BY u.user_id`,
		userID, otherID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing common friends: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

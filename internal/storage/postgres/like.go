package postgres

import (
	"context"
	"fmt"
)

type LikeStore struct {
	db DBConn
}

func NewLikeStore(db DBConn) *LikeStore {
	return &LikeStore{db: db}
}

func (s *LikeStore) AddLike(ctx context.Context, filmID, userID int64) error {
	// ON CONFLICT keeps repeated likes indistinguishable from one.
	_, err := s.db.Exec(ctx,
		`INSERT INTO likes (film_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (film_id, user_id) DO NOTHING`,
		filmID, userID,
	)
	if err != nil {
		return fmt.Errorf("adding like: %w", err)
	}
	return nil
}

func (s *LikeStore) DeleteLike(ctx context.Context, filmID, userID int64) error {
	// Removing an absent like affects zero rows and is not an error.
	_, err := s.db.Exec(ctx,
		`DELETE FROM likes WHERE film_id = $1 AND user_id = $2`,
		filmID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting like: %w", err)
	}
	return nil
}

func (s *LikeStore) CountLikes(ctx context.Context, filmID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE film_id = $1`, filmID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}
	return count, nil
}

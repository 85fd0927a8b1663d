// Package services holds the domain logic between the HTTP layer and
// the storage ports. Services keep no mutable state of their own; the
// chosen storage backend is the only shared resource.
package services

import (
	"context"
	"fmt"

	"filmgraph/internal/models"
	"filmgraph/internal/storage"
)

// UserService owns the user directory and the symmetric friendship
// graph on top of it.
type UserService struct {
	users   storage.UserStorage
	friends storage.FriendStorage
}

func NewUserService(users storage.UserStorage, friends storage.FriendStorage) *UserService {
	return &UserService{users: users, friends: friends}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, user models.User) (*models.User, error) {
	defaultName(&user)
	return s.users.CreateUser(ctx, user)
}

// Update replaces the stored record wholesale; an unknown ID is a
// not-found failure, never an insert.
func (s *UserService) Update(ctx context.Context, user models.User) (*models.User, error) {
	defaultName(&user)
	return s.users.UpdateUser(ctx, user)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrUserNotFound)
	}
	return s.users.GetUser(ctx, id)
}

// defaultName applies the single business rule of the directory: an
// empty display name falls back to the login.
func defaultName(user *models.User) {
	if user.Name == "" {
		user.Name = user.Login
	}
}

func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.resolvePair(ctx, userID, friendID); err != nil {
		return err
	}
	return s.friends.AddFriend(ctx, userID, friendID)
}

func (s *UserService) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.resolvePair(ctx, userID, friendID); err != nil {
		return err
	}
	return s.friends.DeleteFriend(ctx, userID, friendID)
}

func (s *UserService) ListFriends(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.friends.ListFriends(ctx, userID)
}

func (s *UserService) ListCommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	if err := s.resolvePair(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.friends.ListCommonFriends(ctx, userID, otherID)
}

// resolvePair checks that both IDs refer to existing users before any
// edge is touched.
func (s *UserService) resolvePair(ctx context.Context, userID, otherID int64) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, otherID); err != nil {
		return err
	}
	return nil
}

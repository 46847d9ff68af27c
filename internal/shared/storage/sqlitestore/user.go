package sqlitestore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.users.insert(ctx, s.db, user)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.byID(ctx, s.db, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.byKey(ctx, s.db, email)
}

func (s *Store) ListUsers(ctx context.Context, uf storage.UserFilter) ([]*model.User, error) {
	return s.users.list(ctx, s.db, userMatcher(uf), uf.ListOptions)
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	return modify(ctx, s, s.users, id, func(u *model.User) {
		patch.Apply(u)
		u.UpdatedAt = s.now().UTC()
	})
}

func (s *Store) UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	return modify(ctx, s, s.users, id, func(u *model.User) {
		u.Status = status
		u.UpdatedAt = s.now().UTC()
	})
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := modify(ctx, s, s.users, id, func(u *model.User) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = s.now().UTC()
	})
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.users.delete(ctx, s.db, id)
}

func (s *Store) CountUsers(ctx context.Context, uf storage.UserFilter) (int64, error) {
	return s.users.count(ctx, s.db, userMatcher(uf))
}

func userMatcher(uf storage.UserFilter) func(*model.User) bool {
	return func(u *model.User) bool {
		if uf.Role != "" && u.Role != uf.Role {
			return false
		}
		if uf.Status != "" && u.Status != uf.Status {
			return false
		}
		if uf.Subscription != "" && u.Subscription != uf.Subscription {
			return false
		}
		return storage.MatchesSearch(uf.Search, u.Name, u.Email)
	}
}

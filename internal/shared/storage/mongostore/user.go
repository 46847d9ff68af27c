package mongostore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

// GetUserByEmail 精确匹配（区分大小写）
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) ListUsers(ctx context.Context, uf storage.UserFilter) ([]*model.User, error) {
	return findMany[model.User](ctx, s.col(ColUsers), userFilter(uf), findOptions("created_at", uf.ListOptions))
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	set := setDoc(patch.Fields(), bson.E{Key: "updated_at", Value: s.now().UTC()})
	return patchByID[model.User](ctx, s.col(ColUsers), id, set)
}

func (s *Store) UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	return patchByID[model.User](ctx, s.col(ColUsers), id, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: s.now().UTC()},
	})
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "password_hash", Value: passwordHash},
		{Key: "updated_at", Value: s.now().UTC()},
	})
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColUsers), id)
}

func (s *Store) CountUsers(ctx context.Context, uf storage.UserFilter) (int64, error) {
	return s.col(ColUsers).CountDocuments(ctx, userFilter(uf))
}

func userFilter(uf storage.UserFilter) bson.D {
	filter := listFilter(storage.ListOptions{Search: uf.Search}, "name", "email")
	if uf.Role != "" {
		filter = append(filter, bson.E{Key: "role", Value: uf.Role})
	}
	if uf.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: uf.Status})
	}
	if uf.Subscription != "" {
		filter = append(filter, bson.E{Key: "subscription", Value: uf.Subscription})
	}
	return filter
}

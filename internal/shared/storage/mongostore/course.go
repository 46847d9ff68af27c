package mongostore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// CourseStore
// ============================================================================

func (s *Store) CreateCourse(ctx context.Context, course *model.Course) error {
	return insertOne(ctx, s.col(ColCourses), course)
}

func (s *Store) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return findOne[model.Course](ctx, s.col(ColCourses), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListCourses(ctx context.Context, opts storage.ListOptions) ([]*model.Course, error) {
	return findMany[model.Course](ctx, s.col(ColCourses), listFilter(opts, "title"), findOptions("created_at", opts))
}

func (s *Store) UpdateCourse(ctx context.Context, id string, patch model.CoursePatch) (*model.Course, error) {
	set := setDoc(patch.Fields(), bson.E{Key: "updated_at", Value: s.now().UTC()})
	return patchByID[model.Course](ctx, s.col(ColCourses), id, set)
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColCourses), id)
}

func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	return s.col(ColCourses).CountDocuments(ctx, bson.D{})
}

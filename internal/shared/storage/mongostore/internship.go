package mongostore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// InternshipStore
// ============================================================================

func (s *Store) CreateInternship(ctx context.Context, internship *model.Internship) error {
	return insertOne(ctx, s.col(ColInternships), internship)
}

func (s *Store) GetInternship(ctx context.Context, id string) (*model.Internship, error) {
	return findOne[model.Internship](ctx, s.col(ColInternships), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListInternships(ctx context.Context, opts storage.ListOptions) ([]*model.Internship, error) {
	return findMany[model.Internship](ctx, s.col(ColInternships), listFilter(opts, "title"), findOptions("created_at", opts))
}

func (s *Store) UpdateInternship(ctx context.Context, id string, patch model.InternshipPatch) (*model.Internship, error) {
	set := setDoc(patch.Fields(), bson.E{Key: "updated_at", Value: s.now().UTC()})
	return patchByID[model.Internship](ctx, s.col(ColInternships), id, set)
}

func (s *Store) DeleteInternship(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColInternships), id)
}

func (s *Store) CountInternships(ctx context.Context) (int64, error) {
	return s.col(ColInternships).CountDocuments(ctx, bson.D{})
}

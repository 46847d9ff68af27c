package mongostore

import (
	"context"
	"regexp"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// BlogStore
// ============================================================================

func (s *Store) CreateBlog(ctx context.Context, blog *model.Blog) error {
	return insertOne(ctx, s.col(ColBlogs), blog)
}

func (s *Store) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	return findOne[model.Blog](ctx, s.col(ColBlogs), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	return findOne[model.Blog](ctx, s.col(ColBlogs), bson.D{{Key: "slug", Value: slug}})
}

// ListBlogs 按发布日期倒序列出文章
func (s *Store) ListBlogs(ctx context.Context, bf storage.BlogFilter) ([]*model.Blog, error) {
	filter := bson.D{}
	if bf.Search != "" {
		filter = append(filter, bson.E{Key: "title", Value: bson.Regex{Pattern: regexp.QuoteMeta(bf.Search), Options: "i"}})
	}
	if bf.PublishedOnly {
		filter = append(filter,
			bson.E{Key: "status", Value: model.BlogStatusPublished},
			bson.E{Key: "date", Value: bson.D{{Key: "$lte", Value: bf.Now}}},
		)
	}
	return findMany[model.Blog](ctx, s.col(ColBlogs), filter, findOptions("date", bf.ListOptions))
}

func (s *Store) UpdateBlog(ctx context.Context, id string, patch model.BlogPatch) (*model.Blog, error) {
	set := setDoc(patch.Fields(), bson.E{Key: "updated_at", Value: s.now().UTC()})
	return patchByID[model.Blog](ctx, s.col(ColBlogs), id, set)
}

func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColBlogs), id)
}

func (s *Store) CountBlogs(ctx context.Context) (int64, error) {
	return s.col(ColBlogs).CountDocuments(ctx, bson.D{})
}

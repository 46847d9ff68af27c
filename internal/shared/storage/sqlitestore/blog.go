package sqlitestore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// ============================================================================
// BlogStore
// ============================================================================

func (s *Store) CreateBlog(ctx context.Context, blog *model.Blog) error {
	return s.blogs.insert(ctx, s.db, blog)
}

func (s *Store) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	return s.blogs.byID(ctx, s.db, id)
}

func (s *Store) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	return s.blogs.byKey(ctx, s.db, slug)
}

// ListBlogs sort_key 为发布日期
func (s *Store) ListBlogs(ctx context.Context, bf storage.BlogFilter) ([]*model.Blog, error) {
	return s.blogs.list(ctx, s.db, func(b *model.Blog) bool {
		if bf.PublishedOnly && !b.IsPublic(bf.Now) {
			return false
		}
		return storage.MatchesSearch(bf.Search, b.Title)
	}, bf.ListOptions)
}

func (s *Store) UpdateBlog(ctx context.Context, id string, patch model.BlogPatch) (*model.Blog, error) {
	return modify(ctx, s, s.blogs, id, func(b *model.Blog) {
		patch.Apply(b)
		b.UpdatedAt = s.now().UTC()
	})
}

func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	return s.blogs.delete(ctx, s.db, id)
}

func (s *Store) CountBlogs(ctx context.Context) (int64, error) {
	return s.blogs.count(ctx, s.db, nil)
}

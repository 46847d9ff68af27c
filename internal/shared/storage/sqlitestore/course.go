package sqlitestore

import (
	"context"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// ============================================================================
// CourseStore / InternshipStore
// ============================================================================

func (s *Store) CreateCourse(ctx context.Context, course *model.Course) error {
	return s.courses.insert(ctx, s.db, course)
}

func (s *Store) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return s.courses.byID(ctx, s.db, id)
}

func (s *Store) ListCourses(ctx context.Context, opts storage.ListOptions) ([]*model.Course, error) {
	return s.courses.list(ctx, s.db, func(c *model.Course) bool {
		return (opts.Category == "" || c.Category == opts.Category) && storage.MatchesSearch(opts.Search, c.Title)
	}, opts)
}

func (s *Store) UpdateCourse(ctx context.Context, id string, patch model.CoursePatch) (*model.Course, error) {
	return modify(ctx, s, s.courses, id, func(c *model.Course) {
		patch.Apply(c)
		c.UpdatedAt = s.now().UTC()
	})
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.courses.delete(ctx, s.db, id)
}

func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	return s.courses.count(ctx, s.db, nil)
}

func (s *Store) CreateInternship(ctx context.Context, internship *model.Internship) error {
	return s.internships.insert(ctx, s.db, internship)
}

func (s *Store) GetInternship(ctx context.Context, id string) (*model.Internship, error) {
	return s.internships.byID(ctx, s.db, id)
}

func (s *Store) ListInternships(ctx context.Context, opts storage.ListOptions) ([]*model.Internship, error) {
	return s.internships.list(ctx, s.db, func(i *model.Internship) bool {
		return (opts.Category == "" || i.Category == opts.Category) && storage.MatchesSearch(opts.Search, i.Title)
	}, opts)
}

func (s *Store) UpdateInternship(ctx context.Context, id string, patch model.InternshipPatch) (*model.Internship, error) {
	return modify(ctx, s, s.internships, id, func(i *model.Internship) {
		patch.Apply(i)
		i.UpdatedAt = s.now().UTC()
	})
}

func (s *Store) DeleteInternship(ctx context.Context, id string) error {
	return s.internships.delete(ctx, s.db, id)
}

func (s *Store) CountInternships(ctx context.Context) (int64, error) {
	return s.internships.count(ctx, s.db, nil)
}

// Package storagetest 提供 storage.PersistentStore 的驱动一致性测试
//
// 每个驱动在自己的 store_test.go 中调用 Run，保证 MongoDB 与 SQLite 行为一致。
package storagetest

import (
	"context"
	"testing"
	"time"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory 为每个子测试返回一个空的存储实例
type Factory func(t *testing.T) storage.PersistentStore

// Run 执行全部一致性测试
func Run(t *testing.T, newStore Factory) {
	t.Run("CourseLifecycle", func(t *testing.T) { testCourseLifecycle(t, newStore(t)) })
	t.Run("CourseListFilters", func(t *testing.T) { testCourseListFilters(t, newStore(t)) })
	t.Run("InternshipCRUD", func(t *testing.T) { testInternshipCRUD(t, newStore(t)) })
	t.Run("BlogPublishedOnly", func(t *testing.T) { testBlogPublishedOnly(t, newStore(t)) })
	t.Run("BlogSlugUnique", func(t *testing.T) { testBlogSlugUnique(t, newStore(t)) })
	t.Run("UserCRUD", func(t *testing.T) { testUserCRUD(t, newStore(t)) })
	t.Run("UserEmailUnique", func(t *testing.T) { testUserEmailUnique(t, newStore(t)) })
}

// 驱动以毫秒精度保存时间
func baseTime() time.Time {
	return time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Course 构造一个合法课程
func Course(title, category string, createdAt time.Time) *model.Course {
	return model.NewCourse(model.CoursePatch{
		Title:            ptr(title),
		Category:         ptr(category),
		Instructor:       ptr("Dr. Rao"),
		Description:      ptr("An introduction"),
		Duration:         ptr("6 Weeks"),
		Price:            ptr(199.0),
		Rating:           ptr(4.2),
		StudentsEnrolled: ptr(10),
		ImageURL:         ptr("https://example.com/course.png"),
	}, createdAt)
}

// Blog 构造一个合法博客
func Blog(title string, status model.BlogStatus, date time.Time) *model.Blog {
	b := model.NewBlog(model.BlogPatch{
		Title:    ptr(title),
		Excerpt:  ptr("Excerpt"),
		Content:  ptr("<p>Content</p>"),
		ImageURL: ptr("https://example.com/blog.png"),
		Author:   ptr("Jane"),
		ReadTime: ptr("4 min read"),
		Status:   ptr(status),
	}, date)
	b.Date = date
	return b
}

func testCourseLifecycle(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	c := Course("Go Basics", "Programming", baseTime())
	require.NoError(t, s.CreateCourse(ctx, c))

	assert.ErrorIs(t, s.CreateCourse(ctx, c), storage.ErrDuplicate)

	got, err := s.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, got.Title)
	assert.Equal(t, 4.2, got.Rating)
	assert.True(t, got.CreatedAt.Equal(c.CreatedAt))

	updated, err := s.UpdateCourse(ctx, c.ID, model.CoursePatch{Price: ptr(250.0)})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Price)
	assert.Equal(t, c.Title, updated.Title, "omitted fields are preserved")
	assert.Equal(t, c.Instructor, updated.Instructor)
	assert.Equal(t, 10, updated.StudentsEnrolled)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))

	n, err := s.CountCourses(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.DeleteCourse(ctx, c.ID))
	_, err = s.GetCourse(ctx, c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCourse(ctx, c.ID), storage.ErrNotFound)
	_, err = s.UpdateCourse(ctx, c.ID, model.CoursePatch{Price: ptr(1.0)})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := s.ListCourses(ctx, storage.ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testCourseListFilters(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	t0 := baseTime()
	for i, c := range []struct{ title, category string }{
		{"Go Basics", "Programming"},
		{"Advanced Go", "Programming"},
		{"Figma 101", "Design"},
	} {
		require.NoError(t, s.CreateCourse(ctx, Course(c.title, c.category, t0.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.ListCourses(ctx, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Figma 101", all[0].Title, "newest first")
	assert.Equal(t, "Go Basics", all[2].Title)

	prog, err := s.ListCourses(ctx, storage.ListOptions{Category: "Programming"})
	require.NoError(t, err)
	assert.Len(t, prog, 2)

	search, err := s.ListCourses(ctx, storage.ListOptions{Search: "go"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	page, err := s.ListCourses(ctx, storage.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Advanced Go", page[0].Title)
}

func testInternshipCRUD(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	i := model.NewInternship(model.InternshipPatch{
		Title:        ptr("Data Intern"),
		Category:     ptr("Data Science"),
		Organization: ptr("Acme"),
		Description:  ptr("Pipelines"),
		Duration:     ptr("3 Months"),
		Stipend:      ptr("Unpaid"),
		Location:     ptr("Berlin"),
		ImageURL:     ptr("https://example.com/i.png"),
	}, baseTime())
	require.NoError(t, s.CreateInternship(ctx, i))

	got, err := s.GetInternship(ctx, i.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeInternship, got.Type)
	assert.Equal(t, 0, got.Applicants)

	updated, err := s.UpdateInternship(ctx, i.ID, model.InternshipPatch{Applicants: ptr(42), Location: ptr("Remote")})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Applicants)
	assert.Equal(t, "Remote", updated.Location)
	assert.Equal(t, "Acme", updated.Organization)

	list, err := s.ListInternships(ctx, storage.ListOptions{Category: "Data Science"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteInternship(ctx, i.ID))
	n, err := s.CountInternships(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testBlogPublishedOnly(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	now := baseTime()
	old := Blog("Older Post", model.BlogStatusPublished, now.Add(-48*time.Hour))
	recent := Blog("Recent Post", model.BlogStatusPublished, now.Add(-time.Hour))
	draft := Blog("Draft Post", model.BlogStatusDraft, now.Add(-2*time.Hour))
	future := Blog("Future Post", model.BlogStatusPublished, now.Add(24*time.Hour))
	for _, b := range []*model.Blog{old, recent, draft, future} {
		require.NoError(t, s.CreateBlog(ctx, b))
	}

	public, err := s.ListBlogs(ctx, storage.BlogFilter{PublishedOnly: true, Now: now})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, recent.ID, public[0].ID, "newest date first")
	assert.Equal(t, old.ID, public[1].ID)

	all, err := s.ListBlogs(ctx, storage.BlogFilter{Now: now})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, future.ID, all[0].ID)

	got, err := s.GetBlogBySlug(ctx, "draft-post")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	// 改为发布后进入公开列表
	_, err = s.UpdateBlog(ctx, draft.ID, model.BlogPatch{Status: ptr(model.BlogStatusPublished)})
	require.NoError(t, err)
	public, err = s.ListBlogs(ctx, storage.BlogFilter{PublishedOnly: true, Now: now})
	require.NoError(t, err)
	assert.Len(t, public, 3)
}

func testBlogSlugUnique(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	require.NoError(t, s.CreateBlog(ctx, Blog("Hello World", model.BlogStatusPublished, baseTime())))
	err := s.CreateBlog(ctx, Blog("Hello, World!", model.BlogStatusPublished, baseTime()))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = s.GetBlogBySlug(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUserCRUD(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	u := model.NewUser("Ada Lovelace", "Ada@Example.com", "hash-1", baseTime())
	require.NoError(t, s.CreateUser(ctx, u))

	admin := model.NewUser("Root", "root@example.com", "hash-2", baseTime().Add(time.Minute))
	admin.Role = model.UserRoleAdmin
	require.NoError(t, s.CreateUser(ctx, admin))

	got, err := s.GetUserByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash-1", got.PasswordHash, "hash is persisted even though JSON hides it")

	blocked, err := s.UpdateUserStatus(ctx, u.ID, model.UserStatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusBlocked, blocked.Status)
	assert.Equal(t, "Ada Lovelace", blocked.Name)

	require.NoError(t, s.UpdateUserPassword(ctx, u.ID, "hash-3"))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-3", got.PasswordHash)
	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "nope", "x"), storage.ErrNotFound)

	renamed, err := s.UpdateUser(ctx, u.ID, model.UserPatch{Name: ptr("Ada King")})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", renamed.Name)
	assert.Equal(t, "hash-3", renamed.PasswordHash)

	admins, err := s.CountUsers(ctx, storage.UserFilter{Role: model.UserRoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)

	found, err := s.ListUsers(ctx, storage.UserFilter{ListOptions: storage.ListOptions{Search: "king"}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, u.ID, found[0].ID)

	all, err := s.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, admin.ID, all[0].ID)

	_, err = s.GetUserByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound, "email lookup is case-sensitive")

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	_, err = s.GetUserByEmail(ctx, "Ada@Example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUserEmailUnique(t *testing.T, s storage.PersistentStore) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, model.NewUser("A", "dup@example.com", "h", baseTime())))
	err := s.CreateUser(ctx, model.NewUser("B", "dup@example.com", "h", baseTime()))
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

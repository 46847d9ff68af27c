// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（生产）、sqlitestore/（开发、CLI、测试）
//   - 初始化时通过依赖注入传入实现
//
// 所有操作都是针对单个文档的同步读写，没有跨文档事务。
package storage

import (
	"context"
	"strings"
	"time"

	"interntech/internal/shared/model"
)

// ============================================================================
// 查询参数
// ============================================================================

// ListOptions 列表查询参数
type ListOptions struct {
	Category string // 精确匹配（Course/Internship）
	Search   string // 标题模糊搜索，不区分大小写（User 为姓名/邮箱）
	Limit    int    // 0 表示不限制
	Offset   int
}

// BlogFilter 博客列表查询参数
type BlogFilter struct {
	ListOptions
	// PublishedOnly 只返回 status=published 且 date<=Now 的文章（公开模式）
	PublishedOnly bool
	Now           time.Time
}

// UserFilter 用户列表查询参数
type UserFilter struct {
	ListOptions
	Role         model.UserRole
	Status       model.UserStatus
	Subscription model.Subscription
}

// MatchesSearch 大小写不敏感的子串匹配，供非 Mongo 驱动在内存中过滤
func MatchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), s) {
			return true
		}
	}
	return false
}

// ============================================================================
// 领域存储接口
// ============================================================================

// CourseStore 课程存储
type CourseStore interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	ListCourses(ctx context.Context, opts ListOptions) ([]*model.Course, error)
	// UpdateCourse 部分更新：只写入 patch 中设置的字段，返回更新后的文档
	UpdateCourse(ctx context.Context, id string, patch model.CoursePatch) (*model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CountCourses(ctx context.Context) (int64, error)
}

// InternshipStore 实习存储
type InternshipStore interface {
	CreateInternship(ctx context.Context, internship *model.Internship) error
	GetInternship(ctx context.Context, id string) (*model.Internship, error)
	ListInternships(ctx context.Context, opts ListOptions) ([]*model.Internship, error)
	UpdateInternship(ctx context.Context, id string, patch model.InternshipPatch) (*model.Internship, error)
	DeleteInternship(ctx context.Context, id string) error
	CountInternships(ctx context.Context) (int64, error)
}

// BlogStore 博客存储
type BlogStore interface {
	CreateBlog(ctx context.Context, blog *model.Blog) error
	GetBlog(ctx context.Context, id string) (*model.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error)
	ListBlogs(ctx context.Context, filter BlogFilter) ([]*model.Blog, error)
	UpdateBlog(ctx context.Context, id string, patch model.BlogPatch) (*model.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
	CountBlogs(ctx context.Context) (int64, error)
}

// UserStore 用户存储
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context, filter UserFilter) (int64, error)
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	CourseStore
	InternshipStore
	BlogStore
	UserStore

	Ping(ctx context.Context) error
	Close() error
}

// Package seed 演示数据
//
// 写入一组课程、实习、学员账号和一篇欢迎文章，用于本地开发和演示环境。
// 学员账号使用随机密码（不可登录），只用于填充管理后台的用户列表。
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interntech/internal/apiserver/auth"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// Store 写入演示数据所需的存储能力
type Store interface {
	storage.CourseStore
	storage.InternshipStore
	storage.BlogStore
	storage.UserStore
}

// Options 写入选项
type Options struct {
	// Force 已有课程时仍然写入（课程与实习会重复）
	Force bool
	Now   time.Time
}

// Result 写入统计
type Result struct {
	Courses     int
	Internships int
	Users       int
	Blogs       int
	Skipped     bool // 已有数据且未指定 Force
}

func (r Result) String() string {
	if r.Skipped {
		return "store already has courses, nothing seeded (use --force to seed anyway)"
	}
	return fmt.Sprintf("seeded %d courses, %d internships, %d users, %d blogs", r.Courses, r.Internships, r.Users, r.Blogs)
}

// Run 写入演示数据
func Run(ctx context.Context, store Store, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	n, err := store.CountCourses(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && !opts.Force {
		return &Result{Skipped: true}, nil
	}

	res := &Result{}
	// 逐条错开创建时间，列表顺序与下面的定义顺序一致
	at := func(i int) time.Time { return now.Add(-time.Duration(i) * time.Minute) }

	for i, p := range courses {
		c := model.NewCourse(p, at(i))
		if err := c.Validate(); err != nil {
			return res, fmt.Errorf("course %q: %w", c.Title, err)
		}
		if err := store.CreateCourse(ctx, c); err != nil {
			return res, err
		}
		res.Courses++
	}

	for i, p := range internships {
		in := model.NewInternship(p, at(i))
		if err := in.Validate(); err != nil {
			return res, fmt.Errorf("internship %q: %w", in.Title, err)
		}
		if err := store.CreateInternship(ctx, in); err != nil {
			return res, err
		}
		res.Internships++
	}

	for _, su := range students {
		created, err := createStudent(ctx, store, su, now)
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
		}
	}

	b := model.NewBlog(welcomePost, now)
	switch err := store.CreateBlog(ctx, b); {
	case err == nil:
		res.Blogs++
	case !errors.Is(err, storage.ErrDuplicate):
		return res, err
	}
	return res, nil
}

func createStudent(ctx context.Context, store Store, su student, now time.Time) (bool, error) {
	if _, err := store.GetUserByEmail(ctx, su.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return false, err
	}
	u := model.NewUser(su.Name, su.Email, hash, now)
	u.Status = su.Status
	u.Subscription = su.Subscription
	u.JoinedDate = su.JoinedDate
	if err := u.Validate(); err != nil {
		return false, fmt.Errorf("user %q: %w", su.Email, err)
	}
	if err := store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Package sqlitestore 实现基于 SQLite 的 PersistentStore
//
// 每个集合一张表，文档整体以 BSON 保存在 doc 列中（与 mongostore 共用 bson tag），
// 仅把主键、唯一键和排序键提取为独立列。适用于开发、CLI 和测试场景。
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store 实现 storage.PersistentStore 接口的 SQLite 驱动
type Store struct {
	db  *sql.DB
	now func() time.Time

	courses     table[model.Course]
	internships table[model.Internship]
	blogs       table[model.Blog]
	users       table[model.User]
}

var _ storage.PersistentStore = (*Store)(nil)

// Open 创建 SQLite 存储
// dsn 示例: "data/interntech.db" 或 ":memory:"
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open failed: %w", err)
	}
	// 单连接：串行化写入，并让 :memory: 数据库在整个生命周期内共享
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: set pragma %s: %w", p, err)
		}
	}

	s := &Store{
		db:  db,
		now: time.Now,
		courses: table[model.Course]{
			name: "courses",
			id:   func(c *model.Course) string { return c.ID },
			sort: func(c *model.Course) time.Time { return c.CreatedAt },
		},
		internships: table[model.Internship]{
			name: "internships",
			id:   func(i *model.Internship) string { return i.ID },
			sort: func(i *model.Internship) time.Time { return i.CreatedAt },
		},
		blogs: table[model.Blog]{
			name: "blogs",
			id:   func(b *model.Blog) string { return b.ID },
			key:  func(b *model.Blog) string { return b.Slug },
			sort: func(b *model.Blog) time.Time { return b.Date },
		},
		users: table[model.User]{
			name: "users",
			id:   func(u *model.User) string { return u.ID },
			key:  func(u *model.User) string { return u.Email },
			sort: func(u *model.User) time.Time { return u.CreatedAt },
		},
	}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, name := range []string{s.courses.name, s.internships.name, s.blogs.name, s.users.name} {
		stmts := []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    uniq TEXT UNIQUE,
    sort_key INTEGER NOT NULL,
    doc BLOB NOT NULL
)`, name),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_sort ON %s (sort_key DESC)`, name, name),
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlitestore: migrate %s: %w", name, err)
			}
		}
	}
	return nil
}

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx 在单个事务中执行 fn
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// wrapError 将 SQLite 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return storage.ErrDuplicate
		}
	}
	return err
}

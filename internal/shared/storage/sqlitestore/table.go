package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"interntech/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// querier 由 *sql.DB 和 *sql.Tx 共同实现
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// table 单个集合的泛型文档表
type table[T any] struct {
	name string
	id   func(*T) string
	key  func(*T) string // 唯一键（邮箱、slug），nil 表示无
	sort func(*T) time.Time
}

func (t table[T]) columns(doc *T) (uniq sql.NullString, sortKey int64, raw []byte, err error) {
	if t.key != nil {
		uniq = sql.NullString{String: t.key(doc), Valid: true}
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return uniq, 0, nil, fmt.Errorf("sqlitestore: encode %s: %w", t.name, err)
	}
	return uniq, t.sort(doc).UnixNano(), raw, nil
}

func (t table[T]) insert(ctx context.Context, q querier, doc *T) error {
	uniq, sortKey, raw, err := t.columns(doc)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, uniq, sort_key, doc) VALUES (?, ?, ?, ?)`, t.name),
		t.id(doc), uniq, sortKey, raw)
	return wrapError(err)
}

func (t table[T]) get(ctx context.Context, q querier, column, value string) (*T, error) {
	var raw []byte
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE %s = ?`, t.name, column), value).Scan(&raw)
	if err != nil {
		return nil, wrapError(err)
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sqlitestore: decode %s: %w", t.name, err)
	}
	return &doc, nil
}

func (t table[T]) byID(ctx context.Context, q querier, id string) (*T, error) {
	return t.get(ctx, q, "id", id)
}

func (t table[T]) byKey(ctx context.Context, q querier, key string) (*T, error) {
	return t.get(ctx, q, "uniq", key)
}

// list 按 sort_key 倒序扫描，keep 在内存中过滤，再应用分页
func (t table[T]) list(ctx context.Context, q querier, keep func(*T) bool, opts storage.ListOptions) ([]*T, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY sort_key DESC, id ASC`, t.name))
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	results := []*T{}
	skipped := 0
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode %s: %w", t.name, err)
		}
		if keep != nil && !keep(&doc) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		results = append(results, &doc)
		if opts.Limit > 0 && len(results) == opts.Limit {
			break
		}
	}
	return results, rows.Err()
}

func (t table[T]) count(ctx context.Context, q querier, keep func(*T) bool) (int64, error) {
	if keep == nil {
		var n int64
		err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.name)).Scan(&n)
		return n, wrapError(err)
	}
	docs, err := t.list(ctx, q, keep, storage.ListOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// replace 整体覆盖已存在的文档
func (t table[T]) replace(ctx context.Context, q querier, doc *T) error {
	uniq, sortKey, raw, err := t.columns(doc)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET uniq = ?, sort_key = ?, doc = ? WHERE id = ?`, t.name),
		uniq, sortKey, raw, t.id(doc))
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t table[T]) delete(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.name), id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// modify 在事务内读取、修改并写回文档
func modify[T any](ctx context.Context, s *Store, t table[T], id string, mutate func(*T)) (*T, error) {
	var out *T
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		doc, err := t.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		mutate(doc)
		if err := t.replace(ctx, tx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	return out, err
}

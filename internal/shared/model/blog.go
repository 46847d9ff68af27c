package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// BlogStatus 博客发布状态
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Blog 博客文章
//
// 公开列表只返回 Status=published 且 Date<=now 的文章。
type Blog struct {
	ID         string     `json:"id" bson:"_id"`
	Title      string     `json:"title" bson:"title" validate:"required"`
	Slug       string     `json:"slug" bson:"slug" validate:"required,slug"`
	Excerpt    string     `json:"excerpt" bson:"excerpt" validate:"required"`
	Content    string     `json:"content" bson:"content" validate:"required"`
	ImageURL   string     `json:"imageUrl" bson:"image_url" validate:"required,url"`
	DataAIHint string     `json:"dataAiHint,omitempty" bson:"data_ai_hint,omitempty"`
	Author     string     `json:"author" bson:"author" validate:"required"`
	Date       time.Time  `json:"date" bson:"date" validate:"required"`
	ReadTime   string     `json:"readTime" bson:"read_time" validate:"required"`
	Status     BlogStatus `json:"status" bson:"status" validate:"oneof=draft published"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Validate 校验字段
func (b *Blog) Validate() error {
	return validateStruct(b)
}

// IsPublic 文章在 now 时刻是否对公众可见
func (b *Blog) IsPublic(now time.Time) bool {
	return b.Status == BlogStatusPublished && !b.Date.After(now)
}

// BlogPatch 博客部分更新 / 创建请求体
type BlogPatch struct {
	Title      *string     `json:"title,omitempty"`
	Slug       *string     `json:"slug,omitempty"`
	Excerpt    *string     `json:"excerpt,omitempty"`
	Content    *string     `json:"content,omitempty"`
	ImageURL   *string     `json:"imageUrl,omitempty"`
	DataAIHint *string     `json:"dataAiHint,omitempty"`
	Author     *string     `json:"author,omitempty"`
	Date       *Day        `json:"date,omitempty"`
	ReadTime   *string     `json:"readTime,omitempty"`
	Status     *BlogStatus `json:"status,omitempty"`
}

// NewBlog 由请求体创建博客文档
//
// 未给出 slug 时由标题生成；未给出状态时默认已发布（与旧数据兼容）；
// 未给出日期时使用创建日期。
func NewBlog(p BlogPatch, now time.Time) *Blog {
	b := &Blog{ID: NewID(), Status: BlogStatusPublished, Date: now, CreatedAt: now, UpdatedAt: now}
	p.Apply(b)
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	}
	return b
}

func (p BlogPatch) Apply(b *Blog) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Slug != nil {
		b.Slug = *p.Slug
	}
	if p.Excerpt != nil {
		b.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.ImageURL != nil {
		b.ImageURL = *p.ImageURL
	}
	if p.DataAIHint != nil {
		b.DataAIHint = *p.DataAIHint
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Date != nil {
		b.Date = p.Date.Time()
	}
	if p.ReadTime != nil {
		b.ReadTime = *p.ReadTime
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

func (p BlogPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Slug != nil {
		f["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		f["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		f["content"] = *p.Content
	}
	if p.ImageURL != nil {
		f["image_url"] = *p.ImageURL
	}
	if p.DataAIHint != nil {
		f["data_ai_hint"] = *p.DataAIHint
	}
	if p.Author != nil {
		f["author"] = *p.Author
	}
	if p.Date != nil {
		f["date"] = p.Date.Time()
	}
	if p.ReadTime != nil {
		f["read_time"] = *p.ReadTime
	}
	if p.Status != nil {
		f["status"] = *p.Status
	}
	return f
}

// ============================================================================
// Day - 宽松日期
// ============================================================================

// Day 接受 "2006-01-02" 或 RFC3339 两种格式的日期
type Day time.Time

// Time 返回 UTC 时间
func (d Day) Time() time.Time {
	return time.Time(d).UTC()
}

func (d *Day) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = Day(t)
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD or RFC3339", s)
	}
	*d = Day(t)
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time().Format(time.RFC3339))
}

// Slugify 由标题生成 URL slug（小写，非字母数字折叠为单个 '-'）
func Slugify(title string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

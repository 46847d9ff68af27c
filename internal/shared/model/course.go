// Package model 定义核心数据模型
//
// course.go / internship.go / blog.go / user.go 是四类扁平文档；
// listing.go 是 Course 与 Internship 的带标签联合类型。
//
// 每类文档配套一个 *Patch 类型（全指针字段）用于部分更新：
//   - Apply: 合并到已有文档（未设置字段保持不变）
//   - Fields: 导出需要写入存储的字段
package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingType 文档中的 type 判别字段取值
const (
	TypeCourse     = "Course"
	TypeInternship = "Internship"
)

// NewID 生成文档 ID
func NewID() string {
	return uuid.NewString()
}

// Course 课程
type Course struct {
	ID               string    `json:"id" bson:"_id"`
	Type             string    `json:"type" bson:"type"`
	Title            string    `json:"title" bson:"title" validate:"required"`
	Category         string    `json:"category" bson:"category" validate:"required"`
	Instructor       string    `json:"instructor" bson:"instructor" validate:"required"`
	Description      string    `json:"description" bson:"description" validate:"required"`
	Duration         string    `json:"duration" bson:"duration" validate:"required"`
	Price            float64   `json:"price" bson:"price" validate:"gte=0"`
	Rating           float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	ImageURL         string    `json:"imageUrl" bson:"image_url" validate:"required,url"`
	StudentsEnrolled int       `json:"studentsEnrolled" bson:"students_enrolled" validate:"gte=0"`
	DataAIHint       string    `json:"dataAiHint,omitempty" bson:"data_ai_hint,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updated_at"`
}

// Validate 校验字段
func (c *Course) Validate() error {
	return validateStruct(c)
}

// CoursePatch 课程部分更新 / 创建请求体
type CoursePatch struct {
	Title            *string  `json:"title,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Instructor       *string  `json:"instructor,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Duration         *string  `json:"duration,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	ImageURL         *string  `json:"imageUrl,omitempty"`
	StudentsEnrolled *int     `json:"studentsEnrolled,omitempty"`
	DataAIHint       *string  `json:"dataAiHint,omitempty"`
}

// NewCourse 由请求体创建课程文档（分配 ID、时间戳和 type）
func NewCourse(p CoursePatch, now time.Time) *Course {
	c := &Course{ID: NewID(), Type: TypeCourse, CreatedAt: now, UpdatedAt: now}
	p.Apply(c)
	return c
}

// Apply 将补丁合并到 c
func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Instructor != nil {
		c.Instructor = *p.Instructor
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Rating != nil {
		c.Rating = *p.Rating
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.StudentsEnrolled != nil {
		c.StudentsEnrolled = *p.StudentsEnrolled
	}
	if p.DataAIHint != nil {
		c.DataAIHint = *p.DataAIHint
	}
}

// Fields 返回补丁涉及的文档字段（bson 键 → 值）
func (p CoursePatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Instructor != nil {
		f["instructor"] = *p.Instructor
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Duration != nil {
		f["duration"] = *p.Duration
	}
	if p.Price != nil {
		f["price"] = *p.Price
	}
	if p.Rating != nil {
		f["rating"] = *p.Rating
	}
	if p.ImageURL != nil {
		f["image_url"] = *p.ImageURL
	}
	if p.StudentsEnrolled != nil {
		f["students_enrolled"] = *p.StudentsEnrolled
	}
	if p.DataAIHint != nil {
		f["data_ai_hint"] = *p.DataAIHint
	}
	return f
}

package model

import "time"

// Internship 实习岗位
type Internship struct {
	ID           string    `json:"id" bson:"_id"`
	Type         string    `json:"type" bson:"type"`
	Title        string    `json:"title" bson:"title" validate:"required"`
	Category     string    `json:"category" bson:"category" validate:"required"`
	Organization string    `json:"organization" bson:"organization" validate:"required"`
	Description  string    `json:"description" bson:"description" validate:"required"`
	Duration     string    `json:"duration" bson:"duration" validate:"required"`
	Stipend      string    `json:"stipend" bson:"stipend" validate:"required"`
	Location     string    `json:"location" bson:"location" validate:"required"`
	ImageURL     string    `json:"imageUrl" bson:"image_url" validate:"required,url"`
	Applicants   int       `json:"applicants" bson:"applicants" validate:"gte=0"`
	DataAIHint   string    `json:"dataAiHint,omitempty" bson:"data_ai_hint,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Validate 校验字段
func (i *Internship) Validate() error {
	return validateStruct(i)
}

// InternshipPatch 实习部分更新 / 创建请求体
type InternshipPatch struct {
	Title        *string `json:"title,omitempty"`
	Category     *string `json:"category,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Description  *string `json:"description,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	Stipend      *string `json:"stipend,omitempty"`
	Location     *string `json:"location,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Applicants   *int    `json:"applicants,omitempty"`
	DataAIHint   *string `json:"dataAiHint,omitempty"`
}

// NewInternship 由请求体创建实习文档
func NewInternship(p InternshipPatch, now time.Time) *Internship {
	i := &Internship{ID: NewID(), Type: TypeInternship, CreatedAt: now, UpdatedAt: now}
	p.Apply(i)
	return i
}

func (p InternshipPatch) Apply(i *Internship) {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Organization != nil {
		i.Organization = *p.Organization
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Duration != nil {
		i.Duration = *p.Duration
	}
	if p.Stipend != nil {
		i.Stipend = *p.Stipend
	}
	if p.Location != nil {
		i.Location = *p.Location
	}
	if p.ImageURL != nil {
		i.ImageURL = *p.ImageURL
	}
	if p.Applicants != nil {
		i.Applicants = *p.Applicants
	}
	if p.DataAIHint != nil {
		i.DataAIHint = *p.DataAIHint
	}
}

func (p InternshipPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Title != nil {
		f["title"] = *p.Title
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.Organization != nil {
		f["organization"] = *p.Organization
	}
	if p.Description != nil {
		f["description"] = *p.Description
	}
	if p.Duration != nil {
		f["duration"] = *p.Duration
	}
	if p.Stipend != nil {
		f["stipend"] = *p.Stipend
	}
	if p.Location != nil {
		f["location"] = *p.Location
	}
	if p.ImageURL != nil {
		f["image_url"] = *p.ImageURL
	}
	if p.Applicants != nil {
		f["applicants"] = *p.Applicants
	}
	if p.DataAIHint != nil {
		f["data_ai_hint"] = *p.DataAIHint
	}
	return f
}

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ListingKind Listing 的判别标签
type ListingKind string

const (
	ListingKindCourse     ListingKind = "course"
	ListingKindInternship ListingKind = "internship"
)

// ParseListingKind 解析 kind 查询参数（空字符串表示全部）
func ParseListingKind(s string) (ListingKind, error) {
	switch ListingKind(s) {
	case ListingKindCourse, ListingKindInternship:
		return ListingKind(s), nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("unknown listing kind %q", s)
}

// Listing 课程或实习（带标签联合）
//
// 只有与 Kind 对应的指针非空。所有消费方按 Kind 做穷尽 switch。
type Listing struct {
	Kind       ListingKind
	Course     *Course
	Internship *Internship
}

// CourseListing 包装课程
func CourseListing(c *Course) Listing {
	return Listing{Kind: ListingKindCourse, Course: c}
}

// InternshipListing 包装实习
func InternshipListing(i *Internship) Listing {
	return Listing{Kind: ListingKindInternship, Internship: i}
}

// Check 校验标签与载荷一致
func (l Listing) Check() error {
	switch l.Kind {
	case ListingKindCourse:
		if l.Course == nil || l.Internship != nil {
			return fmt.Errorf("listing: course kind with mismatched payload")
		}
	case ListingKindInternship:
		if l.Internship == nil || l.Course != nil {
			return fmt.Errorf("listing: internship kind with mismatched payload")
		}
	default:
		return fmt.Errorf("listing: unknown kind %q", l.Kind)
	}
	return nil
}

func (l Listing) ID() string {
	switch l.Kind {
	case ListingKindCourse:
		return l.Course.ID
	case ListingKindInternship:
		return l.Internship.ID
	}
	return ""
}

func (l Listing) Title() string {
	switch l.Kind {
	case ListingKindCourse:
		return l.Course.Title
	case ListingKindInternship:
		return l.Internship.Title
	}
	return ""
}

func (l Listing) Category() string {
	switch l.Kind {
	case ListingKindCourse:
		return l.Course.Category
	case ListingKindInternship:
		return l.Internship.Category
	}
	return ""
}

func (l Listing) CreatedAt() time.Time {
	switch l.Kind {
	case ListingKindCourse:
		return l.Course.CreatedAt
	case ListingKindInternship:
		return l.Internship.CreatedAt
	}
	return time.Time{}
}

// MarshalJSON 输出载荷本身（载荷中已带 "type": "Course" | "Internship"）
func (l Listing) MarshalJSON() ([]byte, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}
	switch l.Kind {
	case ListingKindCourse:
		c := *l.Course
		c.Type = TypeCourse
		return json.Marshal(c)
	case ListingKindInternship:
		i := *l.Internship
		i.Type = TypeInternship
		return json.Marshal(i)
	}
	return nil, fmt.Errorf("listing: unknown kind %q", l.Kind)
}

// UnmarshalJSON 按 type 字段还原标签
func (l *Listing) UnmarshalJSON(b []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	switch probe.Type {
	case TypeCourse:
		var c Course
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		*l = CourseListing(&c)
	case TypeInternship:
		var i Internship
		if err := json.Unmarshal(b, &i); err != nil {
			return err
		}
		*l = InternshipListing(&i)
	default:
		return fmt.Errorf("listing: unknown type %q", probe.Type)
	}
	return nil
}

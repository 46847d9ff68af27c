package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleAdmin      UserRole = "admin"
	UserRoleInstructor UserRole = "instructor"
)

// UserStatus 用户状态
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// ParseUserStatus 解析状态字符串，仅接受 active / blocked
func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(s) {
	case UserStatusActive, UserStatusBlocked:
		return UserStatus(s), true
	}
	return "", false
}

// Subscription 订阅等级
type Subscription string

const (
	SubscriptionFree    Subscription = "free"
	SubscriptionPremium Subscription = "premium"
	SubscriptionNone    Subscription = "none"
)

// JoinedDateLayout 注册日期格式（YYYY-MM-DD）
const JoinedDateLayout = "2006-01-02"

// User 用户
//
// Email 是身份键（唯一索引）。PasswordHash 永远不会出现在 JSON 中。
type User struct {
	ID           string       `json:"id" bson:"_id"`
	Name         string       `json:"name" bson:"name" validate:"required"`
	Email        string       `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string       `json:"-" bson:"password_hash"` // never expose in JSON
	Role         UserRole     `json:"role" bson:"role" validate:"oneof=student admin instructor"`
	Status       UserStatus   `json:"status" bson:"status" validate:"oneof=active blocked"`
	Subscription Subscription `json:"subscription" bson:"subscription" validate:"oneof=free premium none"`
	JoinedDate   string       `json:"joinedDate" bson:"joined_date"`
	ImageURL     string       `json:"imageUrl,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updated_at"`
}

// NewUser 创建带默认值的用户（role=student, status=active, subscription=none）
func NewUser(name, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:           NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         UserRoleStudent,
		Status:       UserStatusActive,
		Subscription: SubscriptionNone,
		JoinedDate:   now.Format(JoinedDateLayout),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Validate 校验字段
func (u *User) Validate() error {
	return validateStruct(u)
}

// UserPatch 用户部分更新
//
// 不包含密码：密码只能通过专用接口修改。
type UserPatch struct {
	Name         *string       `json:"name,omitempty"`
	Email        *string       `json:"email,omitempty"`
	Role         *UserRole     `json:"role,omitempty"`
	Status       *UserStatus   `json:"status,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
	ImageURL     *string       `json:"imageUrl,omitempty"`
}

// Apply 将补丁合并到 u，未设置的字段保持不变
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Subscription != nil {
		u.Subscription = *p.Subscription
	}
	if p.ImageURL != nil {
		u.ImageURL = *p.ImageURL
	}
}

// Fields 返回补丁涉及的文档字段（bson 键 → 值）
func (p UserPatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Email != nil {
		f["email"] = *p.Email
	}
	if p.Role != nil {
		f["role"] = *p.Role
	}
	if p.Status != nil {
		f["status"] = *p.Status
	}
	if p.Subscription != nil {
		f["subscription"] = *p.Subscription
	}
	if p.ImageURL != nil {
		f["image_url"] = *p.ImageURL
	}
	return f
}

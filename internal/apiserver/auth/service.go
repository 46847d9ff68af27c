package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interntech/internal/shared/cache"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 8

// UserStore 凭据服务需要的用户存储能力
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// ServiceConfig 凭据服务配置
type ServiceConfig struct {
	Token            Config
	AllowAdminSignup bool
	LoginMaxAttempts int           // <=0 表示不限制
	LoginWindow      time.Duration // 失败计数窗口
}

// Service 凭据服务：登录、注册、注销、改密
type Service struct {
	store   UserStore
	limiter cache.AttemptLimiter
	deny    cache.TokenDenylist
	cfg     ServiceConfig
	now     func() time.Time
}

// NewService 创建凭据服务，c 为空时不做登录限流和注销拒绝列表
func NewService(store UserStore, c cache.Cache, cfg ServiceConfig) *Service {
	s := &Service{store: store, cfg: cfg, now: time.Now}
	if c != nil {
		s.limiter = c
		s.deny = c
	}
	return s
}

// TokenConfig 返回令牌配置（守卫与服务共用）
func (s *Service) TokenConfig() Config {
	return s.cfg.Token
}

// LoginResult 登录成功结果
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Login 管理员登录
//
// 顺序：限流检查 → 按邮箱查找 → 角色检查 → 密码比较 → 账号状态 → 签发令牌。
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, model.NewValidationError("email", "please provide email and password")
	}
	if !s.cfg.Token.HasSecret() {
		return nil, ErrMissingSecret
	}

	key := email + "|" + clientIP
	if s.limited(ctx, key) {
		return nil, ErrTooManyAttempts
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}
	if !CheckPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}
	if user.Status == model.UserStatusBlocked {
		return nil, ErrAccountBlocked
	}

	token, claims, err := GenerateAccessToken(s.cfg.Token, s.now(), user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			log.Printf("[auth.login] reset failures: %v", err)
		}
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (s *Service) limited(ctx context.Context, key string) bool {
	if s.limiter == nil || s.cfg.LoginMaxAttempts <= 0 {
		return false
	}
	n, err := s.limiter.Failures(ctx, key)
	if err != nil {
		log.Printf("[auth.login] read failures: %v", err)
		return false
	}
	return n >= int64(s.cfg.LoginMaxAttempts)
}

func (s *Service) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil || s.cfg.LoginMaxAttempts <= 0 {
		return
	}
	window := s.cfg.LoginWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	if _, err := s.limiter.RecordFailure(ctx, key, window); err != nil {
		log.Printf("[auth.login] record failure: %v", err)
	}
}

// Signup 管理员自助注册（需开启 allow_admin_signup）
func (s *Service) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	if !s.cfg.AllowAdminSignup {
		return nil, ErrSignupDisabled
	}
	return s.CreateUser(ctx, name, email, password, model.UserRoleAdmin)
}

// CreateUser 创建用户（注册、后台新建用户、CLI 共用）
func (s *Service) CreateUser(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error) {
	return s.CreateUserWith(ctx, name, email, password, role, model.UserPatch{})
}

// CreateUserWith 创建用户，extra 中的字段（如订阅等级）在校验前合并，一次写入
//
// 邮箱按原样保存，与登录时的精确匹配保持一致。
func (s *Service) CreateUserWith(ctx context.Context, name, email, password string, role model.UserRole, extra model.UserPatch) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, missingFields(name, email, password)
	}
	if len(password) < MinPasswordLength {
		return nil, model.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := model.NewUser(name, email, hash, s.now().UTC())
	user.Role = role
	extra.Apply(user)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func missingFields(name, email, password string) *model.ValidationError {
	ve := &model.ValidationError{}
	for _, f := range []struct{ field, value string }{{"name", name}, {"email", email}, {"password", password}} {
		if f.value == "" {
			ve.Fields = append(ve.Fields, model.FieldError{Field: f.field, Message: f.field + " is required"})
		}
	}
	return ve
}

// Me 返回当前登录用户
func (s *Service) Me(ctx context.Context, id *Identity) (*model.User, error) {
	if id == nil {
		return nil, ErrInvalidCredentials
	}
	return s.store.GetUser(ctx, id.UserID)
}

// Logout 注销：令牌有效时把 jti 写入拒绝列表直到令牌过期
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" || s.deny == nil || !s.cfg.Token.HasSecret() {
		return nil
	}
	claims, err := ParseToken(s.cfg.Token, token, s.now())
	if err != nil {
		return nil
	}
	id := claims.Identity()
	if id.TokenID == "" {
		return nil
	}
	return s.deny.Revoke(ctx, id.TokenID, id.ExpiresAt)
}

// ChangePassword 修改自己的密码
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return model.NewValidationError("password", "current and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return model.NewValidationError("newPassword", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	return s.SetPassword(ctx, user.ID, newPassword)
}

// SetPassword 直接重置密码（CLI 使用）
func (s *Service) SetPassword(ctx context.Context, userID, password string) error {
	if len(password) < MinPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdateUserPassword(ctx, userID, hash)
}

// UpdateProfile 修改自己的姓名/头像
func (s *Service) UpdateProfile(ctx context.Context, userID string, name, imageURL *string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch := model.UserPatch{Name: name, ImageURL: imageURL}
	merged := *user
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateUser(ctx, userID, patch)
}

// EnsureAdminUser 确保管理员用户存在（启动时调用）
// 配置了 ADMIN_EMAIL/ADMIN_PASSWORD 且用户不存在时自动创建；已存在的非管理员账号提升为管理员
func (s *Service) EnsureAdminUser(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			role := model.UserRoleAdmin
			if _, err := s.store.UpdateUser(ctx, existing.ID, model.UserPatch{Role: &role}); err != nil {
				return fmt.Errorf("promote admin user: %w", err)
			}
			log.Printf("[auth] Promoted user %s to admin role", email)
			return nil
		}
		log.Printf("[auth] Admin user already exists: %s (%s)", email, existing.ID)
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	user, err := s.CreateUser(ctx, "Admin", email, password, model.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (%s)", email, user.ID)
	return nil
}

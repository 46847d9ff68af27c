// Package auth 管理员认证：JWT 会话令牌、密码哈希、会话守卫和凭据服务
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// contextKey context 键类型
type contextKey string

const ctxKeyIdentity contextKey = "identity"

// CookieName 会话 Cookie 名称
const CookieName = "token"

// Identity 从已验证令牌解析出的身份
type Identity struct {
	UserID string
	Email  string
	Role   string
	// TokenID 和 ExpiresAt 用于注销时写入拒绝列表
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin 是否管理员
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

// RoleAdmin 管理员角色常量（避免 model 包循环引用）
const RoleAdmin = "admin"

// Config 令牌配置
type Config struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// DefaultConfig 返回默认令牌配置（1 小时有效期）
func DefaultConfig() Config {
	return Config{AccessTokenTTL: time.Hour}
}

// HasSecret 是否配置了签名密钥
func (c Config) HasSecret() bool {
	return c.JWTSecret != ""
}

func (c Config) ttl() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return time.Hour
	}
	return c.AccessTokenTTL
}

// ============================================================================
// 密码哈希
// ============================================================================

// bcryptCost 测试中调低以加速
var bcryptCost = 12

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword 验证密码（bcrypt 比较为常量时间）
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Identity 转换为请求身份
func (c *Claims) Identity() *Identity {
	id := &Identity{UserID: c.Subject, Email: c.Email, Role: c.Role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// GenerateAccessToken 生成会话令牌
func GenerateAccessToken(cfg Config, now time.Time, userID, email, role string) (string, *Claims, error) {
	if !cfg.HasSecret() {
		return "", nil, ErrMissingSecret
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ttl())),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken 解析并验证 JWT（签名算法、签名、过期时间）
func ParseToken(cfg Config, tokenString string, now time.Time) (*Claims, error) {
	if !cfg.HasSecret() {
		return nil, ErrMissingSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithIdentity 将身份注入 context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFrom 从 context 获取身份，未认证时为 nil
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKeyIdentity).(*Identity)
	return id
}

// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（通过 .env 文件或 shell/容器注入）
//  2. YAML 配置文件（common.yaml → {env}.yaml，如 dev.yaml、prod.yaml）
//  3. 代码硬编码默认值
//
// 凭据单一数据源：
//
//	密码/密钥只从环境变量读取（YAML 中不存储任何密码），
//	对应字段使用 yaml:"-" 标记。
//
// 配置目录确定策略：
//  1. --config 命令行参数（SetConfigDir）
//  2. CONFIG_DIR 环境变量
//  3. ./configs、../configs
package config

import "time"

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// 数据库驱动
const (
	DriverMongoDB = "mongodb"
	DriverSQLite  = "sqlite"
)

// YAMLConfig 统一 YAML 配置文件结构
type YAMLConfig struct {
	APIServer APIServerConfig `yaml:"api_server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	GenAI     GenAIConfig     `yaml:"genai"`
	Web       WebConfig       `yaml:"web"`
	Log       LogConfig       `yaml:"log"`
}

// APIServerConfig API Server 配置
type APIServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"` // 为空时不输出 CORS 头
	// TrustedProxies 可信反向代理（IP 或 CIDR）；只有来自这些地址的请求才读取 X-Forwarded-For
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DatabaseConfig 文档存储配置
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "mongodb"（默认）或 "sqlite"
	URI    string `yaml:"uri"`    // MongoDB 连接 URI，可被 MONGO_URL 覆盖
	Name   string `yaml:"name"`   // MongoDB 数据库名称
	Path   string `yaml:"path"`   // SQLite 文件路径，":memory:" 为内存库
}

// RedisConfig Redis 配置，URL 为空时使用进程内缓存
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"-"` // 只从 REDIS_PASSWORD 环境变量读取
}

// MinIOConfig MinIO 对象存储配置，Endpoint 为空时使用进程内存储
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"` // 例如 localhost:9000
	AccessKey string `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	// PublicBaseURL 对象的公开访问前缀；为空时通过 /media/{key} 由 API 转发
	PublicBaseURL string `yaml:"public_base_url"`
}

// AuthConfig 认证配置
// 注意：JWTSecret/AdminEmail/AdminPassword 只从环境变量读取，不存储在 YAML 中
type AuthConfig struct {
	JWTSecret        string        `yaml:"-"` // 只从 JWT_SECRET 环境变量读取
	AdminEmail       string        `yaml:"-"` // 只从 ADMIN_EMAIL 环境变量读取
	AdminPassword    string        `yaml:"-"` // 只从 ADMIN_PASSWORD 环境变量读取
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"`
	AllowAdminSignup bool          `yaml:"allow_admin_signup"`
	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginWindow      time.Duration `yaml:"login_window"`
	SecureCookie     *bool         `yaml:"secure_cookie"` // 未设置时除 dev 外均为 true
}

// GenAIConfig 内容生成模型配置
type GenAIConfig struct {
	APIKey     string `yaml:"-"` // 只从 GEMINI_API_KEY / GOOGLE_API_KEY 环境变量读取
	Model      string `yaml:"model"`
	ImageModel string `yaml:"image_model"`
}

// WebConfig 前端静态资源
type WebConfig struct {
	StaticDir string `yaml:"static_dir"` // 为空时不提供静态页面
	// DevServerURL 开发模式：非 API 路由反向代理到前端 dev server（优先于 StaticDir）
	DevServerURL string `yaml:"dev_server_url"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug/info/warn/error
	Format string `yaml:"format"` // json/text
}

// Config 应用配置（最终使用的配置）
type Config struct {
	YAMLConfig
	Env            Environment
	ConfigFilePath string // 实际加载的 {env}.yaml 路径，未找到时为空
}

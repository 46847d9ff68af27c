package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// configDir 由外部通过 SetConfigDir 指定，优先级最高
var configDir string

// envSearchDirs .env 文件搜索目录
var envSearchDirs = []string{".", "..", "../.."}

// SetConfigDir 设置配置文件目录（用于 --config 命令行参数）
func SetConfigDir(dir string) {
	configDir = dir
}

// Load 加载配置
// 1. 加载 .env / .env.{env}（敏感信息 + APP_ENV）
// 2. 加载 common.yaml 与 {env}.yaml
// 3. 环境变量覆盖
func Load() *Config {
	loadEnvFiles()
	env := parseEnv(getEnv("APP_ENV", "dev"))
	// .env.{env} 不覆盖已有变量
	loadEnvFile(fmt.Sprintf(".env.%s", env))

	yamlCfg, loadedFrom := loadYAMLConfig(env)
	cfg := &Config{YAMLConfig: *yamlCfg, Env: env, ConfigFilePath: loadedFrom}
	cfg.applyEnv()
	return cfg
}

func defaults() *YAMLConfig {
	return &YAMLConfig{
		APIServer: APIServerConfig{Port: "8080", ShutdownTimeout: 10 * time.Second},
		Database:  DatabaseConfig{URI: "mongodb://localhost:27017", Name: "interntech", Path: "data/interntech.db"},
		MinIO:     MinIOConfig{Bucket: "interntech-media"},
		Auth: AuthConfig{
			AccessTokenTTL:   time.Hour,
			LoginMaxAttempts: 5,
			LoginWindow:      15 * time.Minute,
		},
		GenAI: GenAIConfig{Model: "gemini-2.5-flash", ImageModel: "imagen-4.0-generate-001"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// loadYAMLConfig 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) (*YAMLConfig, string) {
	cfg := defaults()
	loadedFrom := ""
	for _, name := range []string{"common.yaml", fmt.Sprintf("%s.yaml", env)} {
		for _, base := range effectiveConfigPaths() {
			path := filepath.Join(base, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "WARNING: config: parse %s: %v\n", path, err)
			}
			if name != "common.yaml" {
				loadedFrom = path
			}
			break
		}
	}
	return cfg, loadedFrom
}

// effectiveConfigPaths 优先级：SetConfigDir > CONFIG_DIR > 默认
func effectiveConfigPaths() []string {
	if configDir != "" {
		return []string{configDir}
	}
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return []string{dir}
	}
	return []string{"configs", "../configs", "../../configs"}
}

// loadEnvFiles godotenv.Load 不覆盖已有环境变量
func loadEnvFiles() {
	loadEnvFile(".env")
}

func loadEnvFile(name string) {
	for _, dir := range envSearchDirs {
		if err := godotenv.Load(filepath.Join(dir, name)); err == nil {
			return
		}
	}
}

// applyEnv 环境变量覆盖 YAML
func (c *Config) applyEnv() {
	if v := firstEnv("API_PORT", "PORT"); v != "" {
		c.APIServer.Port = v
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.APIServer.TrustedProxies = strings.Split(v, ",")
	}

	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("MONGO_URL"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.Path = v
	}
	inferred := strings.TrimSpace(c.Database.Driver) == ""
	c.Database.Driver = detectDatabaseDriver(c.Database.Driver, c.Database.URI)
	if inferred && c.Database.Driver == DriverSQLite && os.Getenv("SQLITE_PATH") == "" {
		c.Database.Path = sqlitePathFromURI(c.Database.URI)
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")

	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.MinIO.Endpoint = v
	}
	if v := os.Getenv("MEDIA_PUBLIC_BASE_URL"); v != "" {
		c.MinIO.PublicBaseURL = v
	}
	c.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
	c.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.AdminEmail = os.Getenv("ADMIN_EMAIL")
	c.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if v, err := strconv.ParseBool(os.Getenv("ALLOW_ADMIN_SIGNUP")); err == nil {
		c.Auth.AllowAdminSignup = v
	}
	if v, err := strconv.ParseBool(os.Getenv("COOKIE_SECURE")); err == nil {
		c.Auth.SecureCookie = &v
	}

	c.GenAI.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")

	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Web.StaticDir = v
	}
	if v := os.Getenv("WEB_DEV_SERVER_URL"); v != "" {
		c.Web.DevServerURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// CookieSecure 会话 Cookie 是否带 Secure 标记
func (c *Config) CookieSecure() bool {
	if c.Auth.SecureCookie != nil {
		return *c.Auth.SecureCookie
	}
	return c.Env != EnvDevelopment
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	db := maskPassword(c.Database.URI)
	if c.Database.Driver == DriverSQLite {
		db = c.Database.Path
	}
	return fmt.Sprintf("Config{Env: %s, Driver: %s, DB: %s, Redis: %s, MinIO: %s}",
		c.Env, c.Database.Driver, db, maskPassword(c.Redis.URL), c.MinIO.Endpoint)
}

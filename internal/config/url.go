package config

import (
	"os"
	"regexp"
	"strings"
)

// detectDatabaseDriver 检测数据库驱动类型
// 显式 driver 原样返回（小写），未知值交给存储层报错；
// 未设置时按 URI 前缀推断，默认 mongodb
func detectDatabaseDriver(driver, uri string) string {
	if d := strings.ToLower(strings.TrimSpace(driver)); d != "" {
		return d
	}
	if isSQLiteURI(uri) {
		return DriverSQLite
	}
	return DriverMongoDB
}

func isSQLiteURI(uri string) bool {
	return strings.HasPrefix(uri, "file:") || strings.HasPrefix(uri, "sqlite:")
}

// sqlitePathFromURI sqlite:///tmp/x.db、file:/tmp/x.db → /tmp/x.db
func sqlitePathFromURI(uri string) string {
	for _, prefix := range []string{"sqlite://", "sqlite:", "file://", "file:"} {
		if strings.HasPrefix(uri, prefix) {
			return strings.TrimPrefix(uri, prefix)
		}
	}
	return uri
}

var passwordRe = regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	return passwordRe.ReplaceAllString(url, "${1}***${3}")
}

// parseEnv 解析环境字符串
func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

// firstEnv 返回第一个非空的环境变量值
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// getEnv 获取环境变量，支持默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

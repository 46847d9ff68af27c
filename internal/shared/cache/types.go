package cache

// Key 前缀
const (
	KeyRevokedToken  = "auth:revoked:"
	KeyLoginFailures = "auth:login_failures:"
)

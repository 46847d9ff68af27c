// Package main InternTech 运维命令行工具
//
// 直接操作存储层：创建/重置管理员、封禁用户、写入演示数据、签发与校验令牌。
// 配置与 API Server 相同（.env + configs/*.yaml + 环境变量）。
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"interntech/internal/config"
	"interntech/internal/shared/infra"
	"interntech/internal/shared/storage"
)

var (
	configDir string

	// openStore 按配置打开存储（测试中替换）
	openStore = func(cfg *config.Config) (storage.PersistentStore, error) {
		return infra.OpenStore(cfg.Database)
	}
)

var rootCmd = &cobra.Command{
	Use:   "interntechctl",
	Short: "InternTech operations tool",
	Long: `Operate on an InternTech deployment's data store directly.

Available commands:
  admin - Create admin accounts and reset passwords
  user  - List users and change account status
  seed  - Load the demo catalogue
  token - Issue and verify session tokens`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configDir != "" {
			config.SetConfigDir(configDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ./configs)")
	rootCmd.AddCommand(adminCmd, userCmd, seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withStore 加载配置并打开存储，fn 返回后关闭
func withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error) error {
	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg, store)
}

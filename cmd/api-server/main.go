// Package main API Server 入口
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interntech/internal/apiserver/relay"
	"interntech/internal/apiserver/server"
	"interntech/internal/config"
	"interntech/internal/shared/infra"
	"interntech/pkg/logging"
)

func main() {
	// 加载配置（自动加载 .env，APP_ENV 选择 {env}.yaml）
	cfg := config.Load()
	logging.New(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: "api-server",
	}).Install()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	if err := run(cfg); err != nil {
		log.Fatalf("API Server error: %v", err)
	}
	fmt.Println("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		log.Printf("WARNING: JWT_SECRET is not set; admin login and protected routes will fail")
	}

	infr, err := infra.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer infr.Close()

	deps := server.Deps{
		Config:  cfg,
		Store:   infr.Storage,
		Cache:   infr.Cache,
		Objects: infr.Objects,
	}

	if cfg.GenAI.APIKey != "" {
		gen, err := relay.NewGemini(ctx, cfg.GenAI)
		if err != nil {
			return err
		}
		deps.Generator = gen
	} else {
		log.Printf("WARNING: GEMINI_API_KEY is not set; content generation is disabled")
	}

	if cfg.Web.StaticDir != "" {
		deps.StaticFS = os.DirFS(cfg.Web.StaticDir)
		if _, err := fs.Stat(deps.StaticFS, "index.html"); err != nil {
			return fmt.Errorf("static dir %s: %w", cfg.Web.StaticDir, err)
		}
	}

	h, err := server.NewHandler(ctx, deps)
	if err != nil {
		return err
	}

	if err := h.AuthService().EnsureAdminUser(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.APIServer.Port,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // 内容生成可能较慢
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API Server listening on :%s", cfg.APIServer.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// 优雅关闭
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.APIServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	return nil
}

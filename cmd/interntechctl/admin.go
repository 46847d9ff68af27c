package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"interntech/internal/apiserver/auth"
	"interntech/internal/config"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create a new admin account that can sign in to the admin console.

Fails if the email is already registered; use 'admin passwd' to reset
the password of an existing account.`,
	RunE: runAdminCreate,
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Reset a user's password",
	RunE:  runAdminPasswd,
}

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

func init() {
	adminCreateCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	for _, c := range []*cobra.Command{adminCreateCmd, adminPasswdCmd} {
		c.Flags().StringVar(&adminEmail, "email", "", "account email")
		c.Flags().StringVar(&adminPassword, "password", "", fmt.Sprintf("password (at least %d characters)", auth.MinPasswordLength))
		c.MarkFlagRequired("email")
		c.MarkFlagRequired("password")
	}
	adminCmd.AddCommand(adminCreateCmd, adminPasswdCmd)
}

func newAuthService(store storage.PersistentStore) *auth.Service {
	return auth.NewService(store, nil, auth.ServiceConfig{})
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
		u, err := newAuthService(store).CreateUser(ctx, adminName, adminEmail, adminPassword, model.UserRoleAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %s)\n", u.Email, u.ID)
		return nil
	})
}

func runAdminPasswd(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
		u, err := store.GetUserByEmail(ctx, adminEmail)
		if err != nil {
			return fmt.Errorf("user %s: %w", adminEmail, err)
		}
		if err := newAuthService(store).SetPassword(ctx, u.ID, adminPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", u.Email)
		return nil
	})
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"interntech/internal/apiserver/auth"
	"interntech/internal/config"
	"interntech/internal/shared/storage"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue and verify session tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a session token for an admin (for API scripting)",
	RunE:  runTokenIssue,
}

var tokenVerifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify a session token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenVerify,
}

var (
	tokenEmail string
	tokenTTL   time.Duration
)

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "admin email")
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: auth.access_token_ttl)")
	tokenIssueCmd.MarkFlagRequired("email")
	tokenCmd.AddCommand(tokenIssueCmd, tokenVerifyCmd)
}

func tokenConfig(cfg *config.Config) auth.Config {
	return auth.Config{JWTSecret: cfg.Auth.JWTSecret, AccessTokenTTL: cfg.Auth.AccessTokenTTL}
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
		u, err := store.GetUserByEmail(ctx, tokenEmail)
		if err != nil {
			return fmt.Errorf("user %s: %w", tokenEmail, err)
		}
		if !u.IsAdmin() {
			return fmt.Errorf("user %s is not an admin", u.Email)
		}

		tc := tokenConfig(cfg)
		if tokenTTL > 0 {
			tc.AccessTokenTTL = tokenTTL
		}
		token, claims, err := auth.GenerateAccessToken(tc, time.Now(), u.ID, u.Email, string(u.Role))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
		return nil
	})
}

func runTokenVerify(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	claims, err := auth.ParseToken(tokenConfig(cfg), args[0], time.Now())
	if err != nil {
		return err
	}
	id := claims.Identity()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "subject: %s\n", id.UserID)
	fmt.Fprintf(out, "email:   %s\n", id.Email)
	fmt.Fprintf(out, "role:    %s\n", id.Role)
	fmt.Fprintf(out, "jti:     %s\n", id.TokenID)
	fmt.Fprintf(out, "expires: %s\n", id.ExpiresAt.Format(time.RFC3339))
	return nil
}

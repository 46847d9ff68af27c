package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"interntech/internal/config"
	"interntech/internal/shared/model"
	"interntech/internal/shared/storage"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect and manage users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userStatusCmd = &cobra.Command{
	Use:   "status <email> <active|blocked>",
	Short: "Block or unblock a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserStatus,
}

var (
	listRole   string
	listStatus string
	listSearch string
)

func init() {
	userListCmd.Flags().StringVar(&listRole, "role", "", "filter by role (student, admin, instructor)")
	userListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (active, blocked)")
	userListCmd.Flags().StringVarP(&listSearch, "query", "q", "", "search name or email")
	userCmd.AddCommand(userListCmd, userStatusCmd)
}

func runUserList(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
		users, err := store.ListUsers(ctx, storage.UserFilter{
			ListOptions: storage.ListOptions{Search: listSearch},
			Role:        model.UserRole(listRole),
			Status:      model.UserStatus(listStatus),
		})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMAIL\tNAME\tROLE\tSTATUS\tSUBSCRIPTION\tJOINED")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.Email, u.Name, u.Role, u.Status, u.Subscription, u.JoinedDate)
		}
		return tw.Flush()
	})
}

func runUserStatus(cmd *cobra.Command, args []string) error {
	status, ok := model.ParseUserStatus(args[1])
	if !ok {
		return fmt.Errorf("invalid status %q: must be active or blocked", args[1])
	}
	return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
		u, err := store.GetUserByEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("user %s: %w", args[0], err)
		}
		if _, err := store.UpdateUserStatus(ctx, u.ID, status); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, status)
		return nil
	})
}

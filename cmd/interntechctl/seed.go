package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"interntech/internal/config"
	"interntech/internal/seed"
	"interntech/internal/shared/storage"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalogue",
	Long: `Load demo courses, internships, student accounts and a welcome post.

Does nothing when the store already has courses unless --force is given.
Student accounts get random passwords and cannot sign in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, cfg *config.Config, store storage.PersistentStore) error {
			res, err := seed.Run(ctx, store, seed.Options{Force: seedForce})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even if courses already exist")
}

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"aiteam/internal/services"
)

func init() {
	teamCmd := &cobra.Command{Use: "team", Short: "AI team roster"}

	teamCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				return printJSON(os.Stdout, svc.Team.List())
			})
		},
	})

	teamCmd.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List completion models by provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				return printJSON(os.Stdout, svc.Models.ListModelGroups())
			})
		},
	})

	rootCmd.AddCommand(teamCmd)
}

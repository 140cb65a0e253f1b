package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"aiteam/internal/services"
)

func init() {
	memoryCmd := &cobra.Command{Use: "memory", Short: "Navigation memory"}

	memoryCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the navigation memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				return printJSON(os.Stdout, svc.Memory.Get())
			})
		},
	})

	memoryCmd.AddCommand(&cobra.Command{
		Use:   "page PATH",
		Short: "Set the current page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				m, err := svc.Memory.UpdateCurrentPage(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, m)
			})
		},
	})

	memoryCmd.AddCommand(&cobra.Command{
		Use:   "recent PROJECT_ID",
		Short: "Record a recently opened project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				m, err := svc.Memory.AddRecentProject(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, m.RecentProjects)
			})
		},
	})

	memoryCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all navigation memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				m, err := svc.Memory.Clear(ctx)
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, m)
			})
		},
	})

	rootCmd.AddCommand(memoryCmd)
}

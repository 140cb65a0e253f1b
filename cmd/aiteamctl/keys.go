package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aiteam/internal/services"
)

func init() {
	keysCmd := &cobra.Command{Use: "keys", Short: "Completion API keys"}

	keysCmd.AddCommand(&cobra.Command{
		Use:   "set SERVICE KEY",
		Short: "Store an API key (e.g. openai, anthropic, gemini)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				if err := svc.Credentials.Save(ctx, currentUserID(svc), args[0], args[1]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(os.Stdout, "%s key saved\n", args[0])
				return nil
			})
		},
	})

	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				return printJSON(os.Stdout, svc.Credentials.List())
			})
		},
	})

	keysCmd.AddCommand(&cobra.Command{
		Use:   "remove SERVICE",
		Short: "Remove an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				if err := svc.Credentials.Remove(ctx, currentUserID(svc), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(os.Stdout, "%s key removed\n", args[0])
				return nil
			})
		},
	})

	rootCmd.AddCommand(keysCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aiteam/internal/models"
	"aiteam/internal/services"
)

func init() {
	chatCmd := &cobra.Command{Use: "chat", Short: "Team chat"}

	sendCmd := &cobra.Command{
		Use:   "send MESSAGE...",
		Short: "Send a message as the user and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				sent, err := svc.Chat.SendMessage(ctx, strings.Join(args, " "), models.UserSenderID, models.TextBody{})
				if err != nil {
					return err
				}
				for _, m := range svc.Chat.Messages() {
					if m.ID == sent.ID || m.FromUser() {
						continue
					}
					name := m.SenderID
					for _, member := range svc.Team.List() {
						if member.ID == m.SenderID {
							name = member.Name
						}
					}
					_, _ = fmt.Fprintf(os.Stdout, "%s: %s\n", name, m.Content)
				}
				return nil
			})
		},
	}
	chatCmd.AddCommand(sendCmd)

	var language string
	codeCmd := &cobra.Command{
		Use:   "code PROMPT...",
		Short: "Generate code with the configured completion provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				code, err := svc.Chat.GenerateCode(ctx, strings.Join(args, " "), language)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(os.Stdout, code)
				return nil
			})
		},
	}
	codeCmd.Flags().StringVarP(&language, "language", "l", "javascript", "Target language")
	rootCmd.AddCommand(codeCmd)

	researchCmd := &cobra.Command{
		Use:   "research QUERY...",
		Short: "Run a research query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				res, err := svc.Chat.PerformResearch(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, res)
			})
		},
	}
	chatCmd.AddCommand(researchCmd)

	rootCmd.AddCommand(chatCmd)
}

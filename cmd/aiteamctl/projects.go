package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aiteam/internal/services"
)

func init() {
	projectsCmd := &cobra.Command{Use: "projects", Short: "Project list"}

	projectsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				return printJSON(os.Stdout, svc.Projects.List())
			})
		},
	})

	var description, deadline string
	var members []string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.NewProject{
				Name:        args[0],
				Description: description,
				TeamMembers: members,
			}
			if deadline != "" {
				d, err := time.Parse(time.DateOnly, deadline)
				if err != nil {
					return fmt.Errorf("--deadline must be YYYY-MM-DD: %w", err)
				}
				in.Deadline = d
			}
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				p, err := svc.Projects.Create(ctx, in)
				if err != nil {
					return err
				}
				if _, err := svc.Memory.AddRecentProject(ctx, p.ID); err != nil {
					return err
				}
				return printJSON(os.Stdout, p)
			})
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	createCmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	createCmd.Flags().StringSliceVarP(&members, "member", "m", nil, "Team member ID (repeatable)")
	projectsCmd.AddCommand(createCmd)

	rootCmd.AddCommand(projectsCmd)
}

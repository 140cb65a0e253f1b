package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aiteam/internal/services"
)

func init() {
	settingsCmd := &cobra.Command{Use: "settings", Short: "User settings"}

	getCmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print all settings or a single key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				if len(args) == 0 {
					return printJSON(os.Stdout, svc.Settings.Get())
				}
				data, err := json.Marshal(svc.Settings.Get())
				if err != nil {
					return err
				}
				var fields map[string]any
				if err := json.Unmarshal(data, &fields); err != nil {
					return err
				}
				v, ok := fields[args[0]]
				if !ok {
					return fmt.Errorf("unknown setting %q", args[0])
				}
				return printJSON(os.Stdout, v)
			})
		},
	}
	settingsCmd.AddCommand(getCmd)

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Update one setting; VALUE is parsed as JSON when possible",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				settings, err := svc.Settings.Update(ctx, args[0], parseValue(args[1]))
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, settings)
			})
		},
	}
	settingsCmd.AddCommand(setCmd)

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				settings, err := svc.Settings.Reset(ctx)
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, settings)
			})
		},
	}
	settingsCmd.AddCommand(resetCmd)

	exportCmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write settings as JSON to FILE or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				if len(args) == 0 {
					if err := svc.Settings.Export(os.Stdout); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(os.Stdout)
					return nil
				}
				return svc.Settings.ExportFile(args[0])
			})
		},
	}
	settingsCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a previously exported settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svc *services.Services) error {
				settings, err := svc.Settings.ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(os.Stdout, settings)
			})
		},
	}
	settingsCmd.AddCommand(importCmd)

	rootCmd.AddCommand(settingsCmd)
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

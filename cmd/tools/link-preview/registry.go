// cmd/tools/link-preview/registry.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bankimport-workers/pkg/registry"
)

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.AddCommand(registryValidateCmd())
	cmd.AddCommand(registryListCmd())
	return cmd
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func registryValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a registry file (the built-in registry when --path is empty)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Path to registry file")
	return cmd
}

func registryListCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(path)
			if err != nil {
				return err
			}
			for _, a := range reg.Activities {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-30s timeout=%s retries=%d\n", a.ID, a.TaskType, a.Timeout, a.Retries); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Path to registry file")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage promptdeck configuration",
		Long: `Configuration is resolved from built-in defaults, the global config file,
promptdeck.toml in the working directory, PROMPTDECK_* environment
variables and command line flags, later sources winning.`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default global configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the global and local config file paths",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	loader := configLoader(cmd)
	path := loader.GetGlobalPath()

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if err := newConfigService(cmd).CreateGlobalConfig(cmd.Context()); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	enc := toml.NewEncoder(cmd.OutOrStdout())
	enc.Indent = "  "
	return enc.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	loader := configLoader(cmd)
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "global: %s\n", loader.GetGlobalPath())
	_, _ = fmt.Fprintf(out, "local:  %s\n", loader.GetLocalPath(wd))
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/config"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
)

var configForce bool

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file commands",
	Long: `Manage the syscerts configuration file.

Commands:
  init - Write a configuration file listing the effective certificate paths

Examples:
  syscerts config init
  syscerts config init --force --cert-path /etc/pki/corp`,
}

// configInitCmd represents the config init command.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file",
	Long: `Write a configuration file to ~/.syscerts/config.toml (or --config).

The [certificates] paths list is seeded with the effective paths: --cert-path
flags when given, otherwise the current configuration or the platform
default list.

An existing file is left untouched unless --force is set.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	paths, _ := s.agg.ConfiguredPaths()
	if err := config.WriteTemplate(s.configPath, paths, configForce); err != nil {
		if errors.Is(err, syserrors.ErrConfigExists) {
			return withExitCode(syserrors.ExitConfigError, fmt.Errorf("%w (use --force to overwrite)", err))
		}
		return withExitCode(syserrors.ExitGeneralError, err)
	}
	s.logger.Info("config written", "path", s.configPath, "paths", len(paths))

	Success("Wrote %s", s.configPath)
	if len(paths) == 0 {
		Info("No certificate paths listed. Edit the file to add some.")
		return nil
	}
	Section("Certificate paths")
	for _, p := range paths {
		Info("  • %s", p)
	}
	return nil
}

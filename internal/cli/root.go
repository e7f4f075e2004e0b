// Package cli provides the command-line interface for syscerts.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	"github.com/princespaghetti/syscerts/internal/config"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/logging"
	"github.com/princespaghetti/syscerts/internal/telemetry"
)

// Version information (will be set by build flags in production).
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var (
	configFile string
	verbose    bool
	certPaths  []string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "syscerts",
	Short: "Collect trusted TLS certificates from the OS and configured paths",
	Long: `syscerts gathers trusted certificate material from the operating system
trust store and from the files and directories listed in its configuration,
and merges them into one list usable as a custom CA bundle for HTTPS clients.

Configured paths are read from ~/.syscerts/config.toml ([certificates] paths)
or the SYSCERTS_CERTIFICATES_PATHS environment variable. When nothing is
configured, Linux falls back to the well-known distribution bundle locations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		Info("syscerts version %s", Version)
		Info("  commit: %s", GitCommit)
		Info("  built:  %s", BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.syscerts/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "mirror log output to stderr")
	rootCmd.PersistentFlags().StringSliceVar(&certPaths, "cert-path", nil, "certificate file or directory, replaces configured paths (repeatable)")

	rootCmd.AddCommand(versionCmd)
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode returns the exit code carried by err, ExitGeneralError otherwise.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return syserrors.ExitGeneralError
}

// session holds what a command needs to query certificates.
type session struct {
	baseDir    string
	configPath string
	settings   *config.Settings
	logger     *slog.Logger
	closer     io.Closer
	agg        *certstore.Aggregator
}

// openSession resolves configuration, opens the log file and builds the
// aggregator. Callers must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	baseDir, err := config.DefaultDir()
	if err != nil {
		return nil, withExitCode(syserrors.ExitConfigError, err)
	}

	configPath := configFile
	if configPath == "" {
		configPath = config.FilePath(baseDir)
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return nil, withExitCode(syserrors.ExitConfigError, err)
	}
	if cmd.Flags().Changed("cert-path") {
		settings.OverridePaths(certPaths)
	}

	logger, closer, err := logging.Setup(config.LogFilePath(baseDir), verbose)
	if err != nil {
		Warning("logging disabled: %v", err)
		logger, closer = logging.Nop(), nil
	}
	logger.Debug("session opened",
		"command", cmd.CommandPath(),
		"config", configPath,
		"version", Version,
	)

	s := &session{
		baseDir:    baseDir,
		configPath: configPath,
		settings:   settings,
		logger:     logger,
		closer:     closer,
	}
	s.agg = certstore.NewAggregator(settings,
		certstore.WithLogger(logger),
		certstore.WithReporter(telemetry.NewSlogReporter(logger)),
		certstore.WithWarner(certstore.WarnFunc(func(err error) {
			logger.Warn("invalid certificate path", "error", err)
			Warning("%v", err)
		})),
	)
	return s, nil
}

// Close releases the log file.
func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// Execute runs the root command and handles errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		Error("%v", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// usageError reports a bad flag combination.
func usageError(format string, args ...interface{}) error {
	return withExitCode(syserrors.ExitConfigError, fmt.Errorf(format, args...))
}

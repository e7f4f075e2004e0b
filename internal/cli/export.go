package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	"github.com/princespaghetti/syscerts/internal/config"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
)

var (
	exportOutput string
	exportJSON   bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the aggregated certificates to a PEM bundle",
	Long: `Write every CERTIFICATE block from the aggregated entries into a single
PEM file, suitable for SSL_CERT_FILE, NODE_EXTRA_CA_CERTS, REQUESTS_CA_BUNDLE
and similar settings.

The bundle is written atomically. Entries without certificate material are
skipped and listed. Concurrent exports to the same file are serialized.

Examples:
  syscerts export -o ~/.syscerts/bundle.pem
  syscerts export -o bundle.pem --json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Bundle file to write (required)")
	exportCmd.Flags().BoolVar(&exportJSON, "json", false, "Output in JSON format")
	_ = exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	dest, err := filepath.Abs(exportOutput)
	if err != nil {
		return usageError("invalid output path %q: %v", exportOutput, err)
	}

	info, err := exportBundle(cmd.Context(), s.agg, &certstore.OSFileSystem{}, dest, config.LockDir(s.baseDir))
	if err != nil {
		s.logger.Error("export failed", "path", dest, "error", err)
		return err
	}
	s.logger.Info("bundle exported",
		"path", info.Path,
		"blocks", info.Blocks,
		"skipped", len(info.Skipped),
		"sha256", info.SHA256,
	)

	if exportJSON {
		if err := JSON(info); err != nil {
			return withExitCode(syserrors.ExitGeneralError, err)
		}
		return nil
	}

	Success("Wrote %s", certstore.BundleSummary(info))
	Field("Path", info.Path)
	Field("Certificates", strconv.Itoa(info.Blocks))
	Field("Size", FormatBytes(info.SizeBytes))
	Field("SHA256", info.SHA256)
	for _, skipped := range info.Skipped {
		Warning("skipped %s: no certificate material", skipped)
	}
	return nil
}

// exportBundle aggregates certificates and writes them to dest.
func exportBundle(ctx context.Context, agg *certstore.Aggregator, fsys certstore.FileSystem, dest, lockDir string) (*certstore.BundleInfo, error) {
	entries := agg.Certificates(ctx)

	info, err := certstore.WriteBundle(ctx, fsys, dest, lockDir, entries)
	if err != nil {
		if errors.Is(err, syserrors.ErrEmptyBundle) {
			return nil, withExitCode(syserrors.ExitCertError, err)
		}
		return nil, withExitCode(syserrors.ExitGeneralError, err)
	}
	return info, nil
}

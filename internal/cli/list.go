package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
)

var listJSON bool

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List aggregated certificate entries",
	Long: `List every certificate entry syscerts would hand to an HTTPS client.

System trust store entries come first, followed by the files found under
the configured paths. For each entry the first certificate's subject and
expiry are shown along with the number of certificates it holds.

Examples:
  syscerts list
  syscerts list --json
  syscerts list --cert-path /etc/pki/corp`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

// ListOutput represents the structured output of the list command.
type ListOutput struct {
	Platform string      `json:"platform"`
	System   int         `json:"system"`
	Paths    int         `json:"paths"`
	Entries  []ListEntry `json:"entries"`
}

// ListEntry is one aggregated entry with its provenance.
type ListEntry struct {
	Source string `json:"source"`
	certstore.EntryInfo
}

const (
	sourceSystem = "system"
	sourcePath   = "path"
)

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := gatherList(cmd.Context(), s.agg, &certstore.OSFileSystem{})

	if listJSON {
		if err := JSON(out); err != nil {
			return withExitCode(syserrors.ExitGeneralError, err)
		}
		return nil
	}

	printListHuman(out)
	return nil
}

// gatherList collects the aggregated entries and labels each with its source.
func gatherList(ctx context.Context, agg *certstore.Aggregator, fsys certstore.FileSystem) ListOutput {
	if ctx == nil {
		ctx = context.Background()
	}

	// The system read is memoized, so this fixes the boundary between the
	// two groups in the list Certificates returns.
	system := len(agg.SystemCertificates(ctx))
	entries := agg.Certificates(ctx)

	out := ListOutput{
		Platform: agg.Family().String(),
		System:   system,
		Paths:    len(entries) - system,
		Entries:  make([]ListEntry, 0, len(entries)),
	}
	for i, e := range entries {
		source := sourcePath
		if i < system {
			source = sourceSystem
		}
		out.Entries = append(out.Entries, ListEntry{
			Source:    source,
			EntryInfo: certstore.Describe(fsys, e),
		})
	}
	return out
}

// printListHuman prints the entries in a human-readable format.
func printListHuman(out ListOutput) {
	Header("Certificate Entries")
	Field("Platform", out.Platform)
	Field("System", strconv.Itoa(out.System))
	Field("From paths", strconv.Itoa(out.Paths))

	if len(out.Entries) == 0 {
		Info("")
		Info("No certificate entries found. Configure paths with 'syscerts config init'.")
		return
	}

	Info("")
	table := NewTable("SOURCE", "LOCATION", "CERTS", "SUBJECT", "EXPIRES")
	for _, e := range out.Entries {
		location := e.Path
		if location == "" {
			location = "(inline)"
		}
		subject := TruncateString(e.Subject, 60)
		if e.Error != "" {
			subject = colorize(TruncateString(e.Error, 60), warningStyle)
		}
		expires := "-"
		if !e.NotAfter.IsZero() {
			expires = e.NotAfter.Format("2006-01-02")
		}
		table.AddRow(e.Source, TruncateString(location, 60), strconv.Itoa(e.Certificates), subject, expires)
	}
	table.Print()
}

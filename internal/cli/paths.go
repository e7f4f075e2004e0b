package cli

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
)

var pathsJSON bool

// pathsCmd represents the paths command.
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the certificate paths that will be scanned",
	Long: `Show the effective list of certificate paths and what each one is.

Paths come from, in order of precedence:
  1. --cert-path flags
  2. SYSCERTS_CERTIFICATES_PATHS (whitespace separated)
  3. [certificates] paths in the config file
  4. The platform default list (Linux only)

Relative paths are reported but never scanned.

Examples:
  syscerts paths
  syscerts paths --json`,
	RunE: runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "Output in JSON format")
}

// PathsOutput represents the structured output of the paths command.
type PathsOutput struct {
	Platform   string       `json:"platform"`
	ConfigFile string       `json:"config_file,omitempty"`
	Defaulted  bool         `json:"defaulted"`
	Paths      []PathStatus `json:"paths"`
}

// PathStatus describes one configured path.
type PathStatus struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Path kinds reported by the paths command.
const (
	kindFile      = "file"
	kindDirectory = "directory"
	kindMissing   = "missing"
	kindRelative  = "relative"
	kindOther     = "other"
)

func runPaths(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := gatherPaths(s.agg, &certstore.OSFileSystem{})
	out.ConfigFile = s.settings.FileUsed()

	if pathsJSON {
		if err := JSON(out); err != nil {
			return withExitCode(syserrors.ExitGeneralError, err)
		}
		return nil
	}

	printPathsHuman(out)
	return nil
}

// gatherPaths classifies each effective configured path.
func gatherPaths(agg *certstore.Aggregator, fsys certstore.FileSystem) PathsOutput {
	paths, defaulted := agg.ConfiguredPaths()

	out := PathsOutput{
		Platform:  agg.Family().String(),
		Defaulted: defaulted,
		Paths:     make([]PathStatus, 0, len(paths)),
	}
	for _, p := range paths {
		out.Paths = append(out.Paths, PathStatus{Path: p, Kind: classifyPath(fsys, p)})
	}
	return out
}

func classifyPath(fsys certstore.FileSystem, p string) string {
	if !filepath.IsAbs(p) {
		return kindRelative
	}
	info, err := fsys.Stat(p)
	switch {
	case err != nil:
		return kindMissing
	case info.IsDir():
		return kindDirectory
	case info.Mode().IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

// printPathsHuman prints the paths in a human-readable format.
func printPathsHuman(out PathsOutput) {
	Header("Certificate Paths")
	Field("Platform", out.Platform)
	if out.ConfigFile != "" {
		Field("Config file", out.ConfigFile)
	}
	Field("Defaulted", strconv.FormatBool(out.Defaulted))

	if len(out.Paths) == 0 {
		Info("")
		Info("No certificate paths configured.")
		return
	}

	Info("")
	table := NewTable("PATH", "KIND")
	for _, p := range out.Paths {
		kind := p.Kind
		switch kind {
		case kindMissing, kindOther:
			kind = colorize(kind, mutedStyle)
		case kindRelative:
			kind = colorize(kind, warningStyle)
		}
		table.AddRow(p.Path, kind)
	}
	table.Print()
}

package cli

import (
	"bytes"
	"context"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/platform"
	"github.com/princespaghetti/syscerts/internal/testutil"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// captureOutput redirects the output helpers into buffers for the test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr, prevColors := stdout, stderr, colorsEnabled
	stdout, stderr = out, errOut
	DisableColors()
	t.Cleanup(func() {
		stdout, stderr, colorsEnabled = prevOut, prevErr, prevColors
	})
	return out, errOut
}

// newTestAggregator returns an aggregator on the Mac family whose system
// trust store holds system and whose configured paths are paths.
func newTestAggregator(t *testing.T, paths []string, system ...trust.Entry) *certstore.Aggregator {
	t.Helper()
	reader := platform.ReaderFunc(func(_ context.Context, slot *trust.Slot) error {
		slot.Store(system)
		return nil
	})
	agg := certstore.NewAggregator(
		certstore.PathsFunc(func() ([]string, bool) { return paths, true }),
		certstore.WithFamily(platform.FamilyMac),
		certstore.WithReaders(map[platform.Family]platform.Reader{platform.FamilyMac: reader}),
		certstore.WithSlot(&trust.Slot{}),
		certstore.WithWarner(certstore.WarnFunc(func(error) {})),
	)
	t.Cleanup(agg.Reset)
	return agg
}

func TestCommands_Registered(t *testing.T) {
	want := []string{"list", "paths", "export", "verify", "config", "version", "completion"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}

	cmd, _, err := rootCmd.Find([]string{"config", "init"})
	if err != nil || cmd != configInitCmd {
		t.Errorf("config init not registered")
	}
}

func TestCommands_Flags(t *testing.T) {
	tests := []struct {
		cmdName  string
		flag     string
		defValue string
	}{
		{"list", "json", "false"},
		{"paths", "json", "false"},
		{"export", "output", ""},
		{"export", "json", "false"},
		{"verify", "url", ""},
		{"verify", "timeout", "30s"},
		{"init", "force", "false"},
	}

	cmds := map[string]*cobra.Command{
		"list":   listCmd,
		"paths":  pathsCmd,
		"export": exportCmd,
		"verify": verifyCmd,
		"init":   configInitCmd,
	}

	for _, tt := range tests {
		flag := cmds[tt.cmdName].Flags().Lookup(tt.flag)
		if flag == nil {
			t.Errorf("%s: --%s flag not found", tt.cmdName, tt.flag)
			continue
		}
		if flag.DefValue != tt.defValue {
			t.Errorf("%s: --%s default = %q, want %q", tt.cmdName, tt.flag, flag.DefValue, tt.defValue)
		}
	}

	for _, name := range []string{"config", "verbose", "cert-path"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent --%s flag not found", name)
		}
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(errors.New("plain")); got != syserrors.ExitGeneralError {
		t.Errorf("exitCode(plain) = %d, want %d", got, syserrors.ExitGeneralError)
	}

	wrapped := withExitCode(syserrors.ExitNetworkError, errors.New("dial failed"))
	if got := exitCode(wrapped); got != syserrors.ExitNetworkError {
		t.Errorf("exitCode(wrapped) = %d, want %d", got, syserrors.ExitNetworkError)
	}
	if wrapped.Error() != "dial failed" {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), "dial failed")
	}
}

func TestGatherList(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.pem", testutil.GenerateCAPEM(t, "Path Root A"))
	testutil.WriteFile(t, dir, "b.txt", []byte("not a certificate"))

	agg := newTestAggregator(t, []string{dir}, trust.FromPEM(testutil.GenerateCAPEM(t, "System Root")))

	out := gatherList(context.Background(), agg, &certstore.OSFileSystem{})

	if out.Platform != "mac" {
		t.Errorf("Platform = %q, want %q", out.Platform, "mac")
	}
	if out.System != 1 || out.Paths != 2 {
		t.Fatalf("System/Paths = %d/%d, want 1/2", out.System, out.Paths)
	}
	if len(out.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(out.Entries))
	}

	if out.Entries[0].Source != sourceSystem || out.Entries[0].Subject != "CN=System Root" {
		t.Errorf("Entries[0] = %+v, want system entry for System Root", out.Entries[0])
	}
	if out.Entries[1].Source != sourcePath || out.Entries[1].Path != filepath.Join(dir, "a.pem") {
		t.Errorf("Entries[1] = %+v, want path entry for a.pem", out.Entries[1])
	}
	if out.Entries[2].Error == "" {
		t.Errorf("Entries[2] should report missing certificate material")
	}
}

func TestPrintListHuman(t *testing.T) {
	out, _ := captureOutput(t)

	printListHuman(ListOutput{
		Platform: "linux",
		System:   1,
		Entries: []ListEntry{
			{Source: sourceSystem, EntryInfo: certstore.EntryInfo{Certificates: 1, Subject: "CN=Root", NotAfter: time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)}},
		},
	})

	text := out.String()
	for _, want := range []string{"Certificate Entries", "(inline)", "CN=Root", "2030-01-02"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestGatherPaths(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "root.pem", testutil.GenerateCAPEM(t, "Root"))
	missing := filepath.Join(dir, "missing.pem")

	agg := newTestAggregator(t, []string{file, dir, missing, "relative/ca.pem"})
	out := gatherPaths(agg, &certstore.OSFileSystem{})

	if out.Defaulted {
		t.Error("Defaulted should be false for configured paths")
	}

	want := []PathStatus{
		{Path: file, Kind: kindFile},
		{Path: dir, Kind: kindDirectory},
		{Path: missing, Kind: kindMissing},
		{Path: "relative/ca.pem", Kind: kindRelative},
	}
	if len(out.Paths) != len(want) {
		t.Fatalf("len(Paths) = %d, want %d", len(out.Paths), len(want))
	}
	for i := range want {
		if out.Paths[i] != want[i] {
			t.Errorf("Paths[%d] = %+v, want %+v", i, out.Paths[i], want[i])
		}
	}
}

func TestGatherPaths_LinuxDefaults(t *testing.T) {
	agg := certstore.NewAggregator(nil,
		certstore.WithFamily(platform.FamilyLinux),
		certstore.WithReaders(nil),
	)

	out := gatherPaths(agg, &certstore.OSFileSystem{})

	if !out.Defaulted {
		t.Error("Defaulted should be true when nothing is configured")
	}
	if len(out.Paths) != len(platform.DefaultCertPaths(platform.FamilyLinux)) {
		t.Errorf("len(Paths) = %d, want the Linux default list", len(out.Paths))
	}
}

func TestExportBundle(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "corp.pem", testutil.GenerateCAPEM(t, "Corp Root"))
	dest := filepath.Join(t.TempDir(), "bundle.pem")

	agg := newTestAggregator(t, []string{dir}, trust.FromPEM(testutil.GenerateCAPEM(t, "System Root")))
	info, err := exportBundle(context.Background(), agg, &certstore.OSFileSystem{}, dest, t.TempDir())
	if err != nil {
		t.Fatalf("exportBundle() failed: %v", err)
	}
	if info.Blocks != 2 {
		t.Errorf("Blocks = %d, want 2", info.Blocks)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("bundle not written: %v", err)
	}
}

func TestExportBundle_Empty(t *testing.T) {
	agg := newTestAggregator(t, []string{})
	_, err := exportBundle(context.Background(), agg, &certstore.OSFileSystem{}, filepath.Join(t.TempDir(), "bundle.pem"), t.TempDir())
	if err == nil {
		t.Fatal("exportBundle() should fail with nothing to write")
	}
	if got := exitCode(err); got != syserrors.ExitCertError {
		t.Errorf("exitCode = %d, want %d", got, syserrors.ExitCertError)
	}
	if !errors.Is(err, syserrors.ErrEmptyBundle) {
		t.Errorf("error should wrap ErrEmptyBundle, got %v", err)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	serverPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	certFile := testutil.WriteFile(t, t.TempDir(), "server.pem", serverPEM)

	t.Run("trusted through configured path", func(t *testing.T) {
		agg := newTestAggregator(t, []string{certFile})
		out, err := verifyEndpoint(context.Background(), agg, server.URL, 5*time.Second)
		if err != nil {
			t.Fatalf("verifyEndpoint() failed: %v", err)
		}
		if out.Status != http.StatusNoContent {
			t.Errorf("Status = %d, want %d", out.Status, http.StatusNoContent)
		}
		if out.EntriesAdded != 1 {
			t.Errorf("EntriesAdded = %d, want 1", out.EntriesAdded)
		}
		if out.ChainLength == 0 || out.TLSVersion == "" {
			t.Errorf("connection details missing: %+v", out)
		}
	})

	t.Run("trusted through system entries", func(t *testing.T) {
		agg := newTestAggregator(t, []string{}, trust.FromPEM(serverPEM))
		if _, err := verifyEndpoint(context.Background(), agg, server.URL, 5*time.Second); err != nil {
			t.Fatalf("verifyEndpoint() failed: %v", err)
		}
	})

	t.Run("untrusted", func(t *testing.T) {
		agg := newTestAggregator(t, []string{})
		_, err := verifyEndpoint(context.Background(), agg, server.URL, 5*time.Second)
		if err == nil {
			t.Fatal("verifyEndpoint() should fail without the server certificate")
		}
		if got := exitCode(err); got != syserrors.ExitNetworkError {
			t.Errorf("exitCode = %d, want %d", got, syserrors.ExitNetworkError)
		}
	})

	t.Run("plain http rejected", func(t *testing.T) {
		agg := newTestAggregator(t, []string{})
		_, err := verifyEndpoint(context.Background(), agg, "http://example.com", time.Second)
		if got := exitCode(err); got != syserrors.ExitConfigError {
			t.Errorf("exitCode = %d, want %d", got, syserrors.ExitConfigError)
		}
	})
}

func TestTable_Print(t *testing.T) {
	out, _ := captureOutput(t)

	table := NewTable("PATH", "KIND")
	table.AddRow("/etc/ssl/certs", "directory")
	table.AddRow("/a", "file")
	table.Print()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out.String())
	}
	if lines[0] != "PATH            KIND" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[3] != "/a              file" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWarningGoesToStderr(t *testing.T) {
	out, errOut := captureOutput(t)

	Warning("%s is not absolute", "certs")
	Success("done")

	if !strings.Contains(errOut.String(), "Warning: certs is not absolute") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if !strings.Contains(out.String(), "✓ done") {
		t.Errorf("stdout = %q", out.String())
	}
}

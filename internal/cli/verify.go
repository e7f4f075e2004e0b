package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/princespaghetti/syscerts/internal/certstore"
	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/trust"
)

var (
	verifyURL     string
	verifyTimeout time.Duration
	verifyJSON    bool
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Make an HTTPS request trusting the aggregated certificates",
	Long: `Make an HTTPS GET request to URL with a client whose root pool is the
system pool plus every aggregated certificate entry.

A successful handshake shows the aggregated bundle is enough to reach the
server, for example through a TLS-intercepting corporate proxy.

Examples:
  syscerts verify --url https://registry.npmjs.org
  syscerts verify --url https://internal.example.com --cert-path /etc/pki/corp-root.pem`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "HTTPS URL to request (required)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 30*time.Second, "Request timeout")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Output in JSON format")
	_ = verifyCmd.MarkFlagRequired("url")
}

// VerifyOutput represents the structured output of the verify command.
type VerifyOutput struct {
	URL          string   `json:"url"`
	Status       int      `json:"status"`
	TLSVersion   string   `json:"tls_version"`
	PeerSubject  string   `json:"peer_subject"`
	Issuer       string   `json:"issuer"`
	ChainLength  int      `json:"chain_length"`
	EntriesAdded int      `json:"entries_added"`
	Skipped      []string `json:"skipped,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := verifyEndpoint(cmd.Context(), s.agg, verifyURL, verifyTimeout)
	if err != nil {
		s.logger.Error("verify failed", "url", verifyURL, "error", err)
		return err
	}
	s.logger.Info("verify succeeded", "url", out.URL, "status", out.Status)

	if verifyJSON {
		if err := JSON(out); err != nil {
			return withExitCode(syserrors.ExitGeneralError, err)
		}
		return nil
	}

	Success("TLS handshake with %s succeeded", out.URL)
	Field("HTTP status", strconv.Itoa(out.Status))
	Field("TLS version", out.TLSVersion)
	Field("Server", out.PeerSubject)
	Field("Issuer", out.Issuer)
	Field("Chain length", strconv.Itoa(out.ChainLength))
	Field("Entries added", strconv.Itoa(out.EntriesAdded))
	for _, skipped := range out.Skipped {
		Warning("skipped %s: no certificate material", skipped)
	}
	return nil
}

// verifyEndpoint requests url through a transport trusting the aggregated
// certificates and reports the negotiated connection.
func verifyEndpoint(ctx context.Context, agg *certstore.Aggregator, url string, timeout time.Duration) (*VerifyOutput, error) {
	entries := agg.Certificates(ctx)

	tr, pool, err := trust.NewTransport(entries, nil)
	if err != nil {
		return nil, withExitCode(syserrors.ExitGeneralError, err)
	}
	defer tr.CloseIdleConnections()

	client := &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, usageError("invalid url %q: %v", url, err)
	}
	if req.URL.Scheme != "https" {
		return nil, usageError("url must use https, got %q", req.URL.Scheme)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, withExitCode(syserrors.ExitNetworkError, fmt.Errorf("request %s: %w", url, err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	// Extract certificates from TLS connection state
	if resp.TLS == nil || len(resp.TLS.PeerCertificates) == 0 {
		return nil, withExitCode(syserrors.ExitNetworkError, fmt.Errorf("no TLS connection established"))
	}

	leaf := resp.TLS.PeerCertificates[0]
	return &VerifyOutput{
		URL:          url,
		Status:       resp.StatusCode,
		TLSVersion:   tls.VersionName(resp.TLS.Version),
		PeerSubject:  leaf.Subject.String(),
		Issuer:       leaf.Issuer.String(),
		ChainLength:  len(resp.TLS.PeerCertificates),
		EntriesAdded: pool.Added,
		Skipped:      pool.Skipped,
	}, nil
}

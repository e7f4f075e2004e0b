package trust

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// ReadFileFunc reads the file behind a path entry.
type ReadFileFunc func(path string) ([]byte, error)

// PoolResult describes how the entries handed to Pool were consumed.
type PoolResult struct {
	Added   int      // entries that contributed at least one certificate
	Skipped []string // path entries (or "inline") that contributed nothing
}

// Pool builds a root pool from the host's system pool plus the given entries.
// Unreadable or non-PEM entries are skipped and reported in the result; they
// never fail the call. If readFile is nil, os.ReadFile is used.
func Pool(entries []Entry, readFile ReadFileFunc) (*x509.CertPool, PoolResult) {
	if readFile == nil {
		readFile = os.ReadFile
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	var result PoolResult
	for _, e := range entries {
		data := e.PEM
		label := "inline"
		if e.IsPath() {
			label = e.Path
			data, err = readFile(e.Path)
			if err != nil {
				result.Skipped = append(result.Skipped, label)
				continue
			}
		}
		if !pool.AppendCertsFromPEM(data) {
			result.Skipped = append(result.Skipped, label)
			continue
		}
		result.Added++
	}

	return pool, result
}

// NewTransport returns a clone of http.DefaultTransport that trusts the
// system pool, the current contents of the Default slot, and entries.
func NewTransport(entries []Entry, readFile ReadFileFunc) (*http.Transport, PoolResult, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, PoolResult{}, fmt.Errorf("default transport is %T, not *http.Transport", http.DefaultTransport)
	}

	all := append(Default.Entries(), entries...)
	pool, result := Pool(all, readFile)

	tr := base.Clone()
	tr.TLSClientConfig = &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}
	return tr, result, nil
}

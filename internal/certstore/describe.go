package certstore

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"time"

	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// EntryInfo summarizes the certificate material behind an entry.
type EntryInfo struct {
	Path         string    `json:"path,omitempty"`
	Certificates int       `json:"certificates"`
	Subject      string    `json:"subject,omitempty"`
	NotAfter     time.Time `json:"not_after,omitzero"`
	Fingerprint  string    `json:"sha256,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Describe reads e and reports how many certificates it holds along with the
// subject, expiry and SHA-256 fingerprint of the first one. Problems are
// recorded in Error rather than returned.
func Describe(fsys FileSystem, e trust.Entry) EntryInfo {
	info := EntryInfo{Path: e.Path}

	data := e.PEM
	if e.IsPath() {
		var err error
		data, err = fsys.ReadFile(e.Path)
		if err != nil {
			info.Error = err.Error()
			return info
		}
	}

	blocks := certificateBlocks(data)
	info.Certificates = len(blocks)
	if len(blocks) == 0 {
		info.Error = syserrors.ErrNoPEM.Error()
		return info
	}

	cert, err := x509.ParseCertificate(blocks[0].Bytes)
	if err != nil {
		info.Error = fmt.Sprintf("parse certificate: %v", err)
		return info
	}

	sum := sha256.Sum256(cert.Raw)
	info.Subject = cert.Subject.String()
	info.NotAfter = cert.NotAfter
	info.Fingerprint = hex.EncodeToString(sum[:])
	return info
}

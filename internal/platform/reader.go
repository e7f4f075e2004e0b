package platform

import (
	"context"
	"crypto/sha256"
	"encoding/pem"

	"github.com/princespaghetti/syscerts/internal/trust"
)

// Reader discovers the host's trust anchors. Its only output channel is the
// slot it is given: a successful Install leaves the discovered certificates
// there, replacing whatever the slot held.
type Reader interface {
	Install(ctx context.Context, slot *trust.Slot) error
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, slot *trust.Slot) error

// Install calls f(ctx, slot).
func (f ReaderFunc) Install(ctx context.Context, slot *trust.Slot) error {
	return f(ctx, slot)
}

// SystemReaders returns the trust store readers available in this build,
// keyed by the family they serve. Families without an entry have no reader.
func SystemReaders() map[Family]Reader {
	return systemReaders()
}

// splitPEM re-encodes each CERTIFICATE block in data as its own PEM entry,
// dropping exact duplicates already recorded in seen.
func splitPEM(data []byte, seen map[[sha256.Size]byte]struct{}) []trust.Entry {
	var entries []trust.Entry
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		if e, ok := derEntry(block.Bytes, seen); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// derEntry wraps DER bytes in a PEM entry unless an identical certificate was
// already seen.
func derEntry(der []byte, seen map[[sha256.Size]byte]struct{}) (trust.Entry, bool) {
	fp := sha256.Sum256(der)
	if _, dup := seen[fp]; dup {
		return trust.Entry{}, false
	}
	seen[fp] = struct{}{}
	return trust.FromPEM(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})), true
}

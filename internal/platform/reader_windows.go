//go:build windows

package platform

import (
	"context"
	"crypto/sha256"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/princespaghetti/syscerts/internal/trust"
)

// windowsStores are the system certificate stores enumerated on Windows.
var windowsStores = []string{"ROOT", "CA"}

type windowsReader struct{}

func systemReaders() map[Family]Reader {
	return map[Family]Reader{FamilyWindows: windowsReader{}}
}

func (windowsReader) Install(ctx context.Context, slot *trust.Slot) error {
	seen := make(map[[sha256.Size]byte]struct{})
	var entries []trust.Entry

	for _, name := range windowsStores {
		if err := ctx.Err(); err != nil {
			return err
		}
		found, err := enumStore(name, seen)
		if err != nil {
			continue
		}
		entries = append(entries, found...)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no certificates found in Windows certificate stores")
	}

	slot.Store(entries)
	return nil
}

func enumStore(name string, seen map[[sha256.Size]byte]struct{}) ([]trust.Entry, error) {
	store, err := syscall.CertOpenSystemStore(0, syscall.StringToUTF16Ptr(name))
	if err != nil {
		return nil, err
	}
	defer syscall.CertCloseStore(store, 0)

	var entries []trust.Entry
	var cctx *syscall.CertContext
	for {
		cctx, err = syscall.CertEnumCertificatesInStore(store, cctx)
		if err != nil {
			break
		}

		// The context owns the encoded bytes; copy before the next call frees them.
		der := unsafe.Slice(cctx.EncodedCert, cctx.Length)
		buf := make([]byte, len(der))
		copy(buf, der)

		if e, ok := derEntry(buf, seen); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

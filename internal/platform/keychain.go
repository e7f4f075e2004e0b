package platform

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os/exec"

	"github.com/princespaghetti/syscerts/internal/trust"
)

// systemKeychains are exported with `security find-certificate` on macOS.
var systemKeychains = []string{
	"/System/Library/Keychains/SystemRootCertificates.keychain",
	"/Library/Keychains/System.keychain",
}

// commandRunner runs a command and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// keychainReader exports certificates from macOS keychains via the security tool.
type keychainReader struct {
	keychains []string
	run       commandRunner
}

func newKeychainReader() *keychainReader {
	return &keychainReader{
		keychains: systemKeychains,
		run:       execRunner,
	}
}

func (k *keychainReader) Install(ctx context.Context, slot *trust.Slot) error {
	seen := make(map[[sha256.Size]byte]struct{})
	var entries []trust.Entry
	var lastErr error

	for _, kc := range k.keychains {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := k.run(ctx, "security", "find-certificate", "-a", "-p", kc)
		if err != nil {
			// Keychain may not exist; keep going.
			lastErr = err
			continue
		}
		entries = append(entries, splitPEM(out, seen)...)
	}

	if len(entries) == 0 {
		if lastErr != nil {
			return fmt.Errorf("export keychain certificates: %w", lastErr)
		}
		return fmt.Errorf("no certificates found in system keychains")
	}

	slot.Store(entries)
	return nil
}

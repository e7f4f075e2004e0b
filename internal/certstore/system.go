package certstore

import (
	"context"
	"fmt"
	"sync"

	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// Extraction swaps the slot it reads through, so it is serialized across
// every Aggregator in the process and its result is kept per slot.
var (
	systemMu   sync.Mutex
	systemMemo = map[*trust.Slot][]trust.Entry{}
)

// SystemCertificates returns the host trust store entries. The first call
// for a slot runs the platform reader; the result, empty on failure, is kept
// for the life of the process and shared by every Aggregator using that
// slot. Only one extraction runs at a time. A read cut short by ctx is not
// kept.
func (a *Aggregator) SystemCertificates(ctx context.Context) []trust.Entry {
	systemMu.Lock()
	defer systemMu.Unlock()

	if cached, ok := systemMemo[a.slot]; ok {
		return cloneEntries(cached)
	}

	entries, err := a.readSystem(ctx)
	if err != nil {
		a.logger.Debug("system trust store unavailable",
			"family", a.family.String(),
			"error", err,
		)
		if ctx.Err() != nil {
			return []trust.Entry{}
		}
	}

	systemMemo[a.slot] = entries
	return cloneEntries(entries)
}

// readSystem runs the family's reader against the shared slot. The slot is
// cleared before the reader runs so only what it installs is read back, and
// the prior value is put back on every exit path, including a panic.
func (a *Aggregator) readSystem(ctx context.Context) (entries []trust.Entry, err error) {
	reader, ok := a.readers[a.family]
	if !ok || reader == nil {
		return []trust.Entry{}, &syserrors.OpError{
			Op:  "read system trust store",
			Err: syserrors.ErrNoReader,
		}
	}

	prior := a.slot.Swap(nil)
	defer a.slot.Store(prior)

	defer func() {
		if p := recover(); p != nil {
			entries = []trust.Entry{}
			err = &syserrors.OpError{
				Op:  "read system trust store",
				Err: fmt.Errorf("%w: %v", syserrors.ErrReaderPanicked, p),
			}
		}
	}()

	if err := reader.Install(ctx, a.slot); err != nil {
		return []trust.Entry{}, &syserrors.OpError{
			Op:  "read system trust store",
			Err: err,
		}
	}

	return trust.Normalize(a.slot.Load()), nil
}

func cloneEntries(entries []trust.Entry) []trust.Entry {
	out := make([]trust.Entry, len(entries))
	copy(out, entries)
	return out
}

// Package trust holds the certificate entry type, the process-wide default CA
// slot, and helpers that turn gathered entries into HTTPS client configuration.
package trust

// Entry is one piece of candidate certificate material. Exactly one of PEM or
// Path is set: trust store readers produce inline PEM, path expansion produces
// file paths. The contents are never parsed here.
type Entry struct {
	PEM  []byte `json:"-"`
	Path string `json:"path,omitempty"`
}

// FromPEM returns an inline entry.
func FromPEM(data []byte) Entry {
	return Entry{PEM: data}
}

// FromPath returns a path reference entry.
func FromPath(path string) Entry {
	return Entry{Path: path}
}

// IsPath reports whether the entry references a file on disk.
func (e Entry) IsPath() bool {
	return e.Path != ""
}

// Normalize converts a slot value into a slice of entries. A nil value yields
// an empty slice, a single entry (or raw []byte / string) is wrapped, and an
// entry slice is copied so later slot writes cannot alias the result.
func Normalize(v any) []Entry {
	switch val := v.(type) {
	case nil:
		return []Entry{}
	case Entry:
		return []Entry{val}
	case []byte:
		if val == nil {
			return []Entry{}
		}
		return []Entry{FromPEM(val)}
	case string:
		if val == "" {
			return []Entry{}
		}
		return []Entry{FromPath(val)}
	case []Entry:
		out := make([]Entry, len(val))
		copy(out, val)
		return out
	case [][]byte:
		out := make([]Entry, 0, len(val))
		for _, data := range val {
			out = append(out, FromPEM(data))
		}
		return out
	default:
		return []Entry{}
	}
}

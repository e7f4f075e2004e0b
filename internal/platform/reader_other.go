//go:build !windows && !darwin

package platform

// Linux and the remaining families have no native reader.
func systemReaders() map[Family]Reader {
	return map[Family]Reader{}
}

//go:build darwin

package platform

func systemReaders() map[Family]Reader {
	return map[Family]Reader{FamilyMac: newKeychainReader()}
}

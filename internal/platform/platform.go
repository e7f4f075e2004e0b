// Package platform identifies the host operating system family and provides
// the per-family trust store readers and default certificate locations.
package platform

import "runtime"

// Family is the closed set of operating system families syscerts branches on.
type Family int

const (
	FamilyOther Family = iota
	FamilyWindows
	FamilyMac
	FamilyLinux
)

func (f Family) String() string {
	switch f {
	case FamilyWindows:
		return "windows"
	case FamilyMac:
		return "mac"
	case FamilyLinux:
		return "linux"
	default:
		return "other"
	}
}

// FamilyOf maps a GOOS value to its family.
func FamilyOf(goos string) Family {
	switch goos {
	case "windows":
		return FamilyWindows
	case "darwin", "ios":
		return FamilyMac
	case "linux", "android":
		return FamilyLinux
	default:
		return FamilyOther
	}
}

// Current returns the family of the running host.
func Current() Family {
	return FamilyOf(runtime.GOOS)
}

func IsWindows() bool   { return Current() == FamilyWindows }
func IsMacintosh() bool { return Current() == FamilyMac }
func IsLinux() bool     { return Current() == FamilyLinux }

// linuxCertPaths are searched when no certificate paths are configured on
// Linux hosts.
var linuxCertPaths = []string{
	"/etc/ssl/certs/ca-certificates",
	"/etc/openssl/certs",
	"/etc/pki/tls/certs",
	"/usr/local/share/certs",
}

// DefaultCertPaths returns the certificate paths used when none are configured.
// Only Linux has defaults; every other family gets an empty list.
func DefaultCertPaths(f Family) []string {
	if f != FamilyLinux {
		return []string{}
	}
	out := make([]string, len(linuxCertPaths))
	copy(out, linuxCertPaths)
	return out
}

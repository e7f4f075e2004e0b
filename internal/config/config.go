// Package config resolves syscerts settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	syserrors "github.com/princespaghetti/syscerts/internal/errors"
)

const (
	// PathsKey is the setting holding the list of certificate paths.
	PathsKey = "certificates.paths"

	// EnvPrefix prefixes environment overrides, e.g. SYSCERTS_CERTIFICATES_PATHS.
	EnvPrefix = "SYSCERTS"

	fileName = "config.toml"
)

// DefaultDir returns ~/.syscerts.
func DefaultDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	return filepath.Join(usr.HomeDir, ".syscerts"), nil
}

// FilePath returns the config file location inside baseDir.
func FilePath(baseDir string) string {
	return filepath.Join(baseDir, fileName)
}

// LogFilePath returns the log file location inside baseDir.
func LogFilePath(baseDir string) string {
	return filepath.Join(baseDir, "logs", "syscerts.log")
}

// LockDir returns the directory holding syscerts' file locks.
func LockDir(baseDir string) string {
	return filepath.Join(baseDir, "locks")
}

// Settings exposes the values syscerts reads at call time.
type Settings struct {
	v *viper.Viper
}

// Load reads the TOML file at path, if it exists, and layers environment
// overrides on top. A missing file is not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, &syserrors.OpError{
					Op:   "read config",
					Path: path,
					Err:  err,
				}
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, &syserrors.OpError{
				Op:   "stat config",
				Path: path,
				Err:  err,
			}
		}
	}

	return &Settings{v: v}, nil
}

// CertificatePaths returns the configured certificate paths. The boolean is
// false when the setting is absent, which callers treat as "use the platform
// default"; an explicitly empty list is returned as present.
func (s *Settings) CertificatePaths() ([]string, bool) {
	if !s.v.IsSet(PathsKey) {
		return nil, false
	}
	paths := s.v.GetStringSlice(PathsKey)
	if paths == nil {
		paths = []string{}
	}
	return paths, true
}

// OverridePaths replaces the configured paths for the life of s.
func (s *Settings) OverridePaths(paths []string) {
	s.v.Set(PathsKey, paths)
}

// FileUsed returns the config file path, or "" if none was configured.
func (s *Settings) FileUsed() string {
	return s.v.ConfigFileUsed()
}

// File is the on-disk layout of config.toml.
type File struct {
	Certificates Certificates `toml:"certificates"`
}

// Certificates is the [certificates] table.
type Certificates struct {
	Paths []string `toml:"paths" comment:"Absolute files or directories whose certificates are trusted in addition to the OS trust store"`
}

const templateHeader = "# syscerts configuration\n\n"

// WriteTemplate writes a config file listing paths. An existing file is only
// replaced when force is set.
func WriteTemplate(path string, paths []string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &syserrors.OpError{
				Op:   "write config",
				Path: path,
				Err:  syserrors.ErrConfigExists,
			}
		}
	}

	if paths == nil {
		paths = []string{}
	}
	body, err := toml.Marshal(File{Certificates: Certificates{Paths: paths}})
	if err != nil {
		return &syserrors.OpError{Op: "marshal config", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &syserrors.OpError{Op: "create config directory", Path: filepath.Dir(path), Err: err}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, append([]byte(templateHeader), body...), 0644); err != nil {
		return &syserrors.OpError{Op: "write temp config", Path: tempPath, Err: err}
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return &syserrors.OpError{Op: "rename config", Path: path, Err: err}
	}

	return nil
}

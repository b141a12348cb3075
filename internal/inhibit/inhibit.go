// Package inhibit checks and records user suppression of power warnings
// via marker files under the XDG configuration directories.
package inhibit

import (
	"os"
	"path/filepath"
	"strings"
)

// Warning suppression marker names, one per warning class.
const (
	Brownout    = "brownout.inhibit"
	MaxCurrent  = "max_current.inhibit"
	Undervolt   = "undervolt.inhibit"
	Overcurrent = "overcurrent.inhibit"
)

const appDir = "pemmican"

// ConfigDirs returns the XDG configuration directories in precedence
// order: XDG_CONFIG_HOME (default ~/.config) followed by the entries of
// XDG_CONFIG_DIRS (default "<config-home>:/etc/xdg").
func ConfigDirs() []string {
	home := os.Getenv("XDG_CONFIG_HOME")
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".config")
		}
	}
	dirsVar := os.Getenv("XDG_CONFIG_DIRS")
	if dirsVar == "" {
		dirsVar = home + ":/etc/xdg"
	}
	dirs := []string{home}
	for _, d := range strings.Split(dirsVar, ":") {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Inhibited reports whether the named warning has been suppressed in any
// configuration directory.
func Inhibited(name string) bool {
	for _, dir := range ConfigDirs() {
		if _, err := os.Stat(filepath.Join(dir, appDir, name)); err == nil {
			return true
		}
	}
	return false
}

// Suppress records suppression of the named warning by touching its
// marker file under the user's configuration directory.
func Suppress(name string) error {
	path := filepath.Join(ConfigDirs()[0], appDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

//go:build linux

// Package login registers murmur to start at login.
package login

import (
	"fmt"
	"os"
	"path/filepath"
)

const desktopName = "murmur.desktop"

func autostartPath() string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(config, "autostart", desktopName)
}

func Enabled() bool {
	_, err := os.Stat(autostartPath())
	return err == nil
}

// Enable writes an XDG autostart entry. API keys are not embedded;
// desktop sessions inherit the login environment, so keys belong in
// ~/.profile or a systemd user environment.
func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=murmur
Comment=Voice dictation with live correction
Exec=%s -tui=false
X-GNOME-Autostart-enabled=true
`, exe)

	path := autostartPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	if err := os.Remove(autostartPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

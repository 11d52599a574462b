package config

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the user config directory.
const ConfigDirEnv = "ENVLOAD_CONFIG_DIR"

// ConfigSubdir is the directory created under the platform config root.
const ConfigSubdir = "envload"

// ConfigDir returns $ENVLOAD_CONFIG_DIR, or the envload directory under the
// platform config root. Without a config root it is relative to the working
// directory.
func ConfigDir() string {
	if d := os.Getenv(ConfigDirEnv); d != "" {
		return d
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return ConfigSubdir
	}
	return filepath.Join(root, ConfigSubdir)
}

package config

import (
	"path/filepath"

	"github.com/nexus-ai/nexus/internal/store"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, store.ConfigFileName)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, ".nexus")
}

// ConfigPath returns the absolute config.toml path.
func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}

// ProfilePath returns the absolute profile.json path.
func (c *Config) ProfilePath() string {
	return filepath.Join(c.HomeDir, store.ProfileFileName)
}

// HistoryDir returns the chat transcript directory.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.HomeDir, store.HistoryDirName)
}

// RecentPath returns the recent-chats index path.
func (c *Config) RecentPath() string {
	return filepath.Join(c.HistoryDir(), store.RecentFileName)
}

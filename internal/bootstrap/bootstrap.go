// Package bootstrap creates the on-disk layout Nexus expects under its home
// directory on first run.
package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/nexus-ai/nexus/internal/config"
	"github.com/nexus-ai/nexus/internal/profile"
)

// Initialize creates the expected Nexus data tree if missing.
func Initialize(cfg *config.Config) error {
	dirs := []string{
		cfg.HomeDir,
		cfg.HistoryDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	if err := writeConfigIfMissing(cfg.ConfigPath()); err != nil {
		return err
	}
	return writeProfileIfMissing(cfg)
}

func writeConfigIfMissing(path string) error {
	exists, err := fileExists(path)
	if err != nil || exists {
		return err
	}

	content, err := config.DefaultTOML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config file %q: %w", path, err)
	}
	return nil
}

func writeProfileIfMissing(cfg *config.Config) error {
	path := cfg.ProfilePath()
	exists, err := fileExists(path)
	if err != nil || exists {
		return err
	}

	skeleton := profile.New(
		path,
		cfg.Identity.UserName,
		cfg.Identity.BotName,
		cfg.System.Volume,
		cfg.System.Brightness,
	)
	if err := skeleton.Save(); err != nil {
		return fmt.Errorf("write profile skeleton %q: %w", path, err)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %q: %w", path, err)
}

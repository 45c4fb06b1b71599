// Package system implements the OS capability surface with best-effort
// helpers: sysfs battery readings on Linux, amixer for volume, brightnessctl
// for brightness, and the platform opener for URLs, folders, and music URIs.
package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/nexus-ai/nexus/internal/capability"
	"github.com/nexus-ai/nexus/internal/logging"
)

var _ capability.System = (*Control)(nil)

// Control is the production capability.System implementation.
type Control struct{}

// New creates a Control.
func New() *Control {
	return &Control{}
}

// ReadBattery reads the primary battery, when the platform exposes one.
func (c *Control) ReadBattery(ctx context.Context) (capability.Battery, error) {
	return readBattery(ctx)
}

var amixerVolumePattern = regexp.MustCompile(`\[(\d+)%\]`)

// ReadVolume reads the master volume through amixer.
func (c *Control) ReadVolume(ctx context.Context) (int, error) {
	out, err := runCommand(ctx, "amixer", "get", "Master")
	if err != nil {
		return 0, capability.ErrUnavailable
	}
	match := amixerVolumePattern.FindStringSubmatch(out)
	if match == nil {
		return 0, capability.ErrUnavailable
	}
	percent, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, capability.ErrUnavailable
	}
	return percent, nil
}

// SetVolume sets the master volume through amixer.
func (c *Control) SetVolume(ctx context.Context, percent int) error {
	if _, err := runCommand(ctx, "amixer", "set", "Master", fmt.Sprintf("%d%%", percent)); err != nil {
		return capability.ErrUnavailable
	}
	return nil
}

// ReadBrightness reads the display brightness through brightnessctl.
func (c *Control) ReadBrightness(ctx context.Context) (int, error) {
	out, err := runCommand(ctx, "brightnessctl", "-m")
	if err != nil {
		return 0, capability.ErrUnavailable
	}
	percent, err := parseBrightnessctl(out)
	if err != nil {
		return 0, capability.ErrUnavailable
	}
	return percent, nil
}

// SetBrightness sets the display brightness through brightnessctl.
func (c *Control) SetBrightness(ctx context.Context, percent int) error {
	if _, err := runCommand(ctx, "brightnessctl", "set", fmt.Sprintf("%d%%", percent)); err != nil {
		return capability.ErrUnavailable
	}
	return nil
}

// OpenTarget hands a URL, folder path, or music search URI to the platform
// opener.
func (c *Control) OpenTarget(ctx context.Context, kind capability.TargetKind, value string) error {
	value = strings.TrimSpace(value)
	switch kind {
	case capability.TargetURL:
		if value == "" {
			return capability.ErrUnavailable
		}
	case capability.TargetMusic:
		if value == "" {
			return capability.ErrUnavailable
		}
		value = "spotify:search:" + value
	case capability.TargetFolder:
		if value == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return capability.ErrUnavailable
			}
			value = home
		}
	default:
		return fmt.Errorf("unsupported target kind %q", kind)
	}

	name, args := openerCommand(value)
	if name == "" {
		return capability.ErrUnavailable
	}
	if _, err := runCommand(ctx, name, args...); err != nil {
		return capability.ErrUnavailable
	}
	return nil
}

// parseBrightnessctl extracts the percentage column from `brightnessctl -m`
// output, e.g. "intel_backlight,backlight,48000,80%,60000".
func parseBrightnessctl(out string) (int, error) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	for _, field := range fields {
		if strings.HasSuffix(field, "%") {
			return strconv.Atoi(strings.TrimSuffix(field, "%"))
		}
	}
	return 0, fmt.Errorf("no percentage in brightnessctl output %q", out)
}

func openerCommand(value string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{value}
	case "windows":
		return "cmd", []string{"/c", "start", "", value}
	case "linux":
		return "xdg-open", []string{value}
	default:
		return "", nil
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		logging.Logger().Debug("system command failed", "cmd", name, "err", err)
		return "", err
	}
	return string(out), nil
}

//go:build linux

package system

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nexus-ai/nexus/internal/capability"
)

const powerSupplyDir = "/sys/class/power_supply"

// readBattery scans sysfs for the first supply of type Battery.
func readBattery(ctx context.Context) (capability.Battery, error) {
	entries, err := os.ReadDir(powerSupplyDir)
	if err != nil {
		return capability.Battery{}, capability.ErrUnavailable
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return capability.Battery{}, err
		}
		dir := filepath.Join(powerSupplyDir, entry.Name())
		if readSysfs(dir, "type") != "Battery" {
			continue
		}
		percent, err := strconv.Atoi(readSysfs(dir, "capacity"))
		if err != nil {
			continue
		}
		status := readSysfs(dir, "status")
		return capability.Battery{
			Percent:  percent,
			Charging: status == "Charging" || status == "Full",
		}, nil
	}
	return capability.Battery{}, capability.ErrUnavailable
}

func readSysfs(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

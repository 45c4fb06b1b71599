//go:build !linux

package system

import (
	"context"

	"github.com/nexus-ai/nexus/internal/capability"
)

func readBattery(ctx context.Context) (capability.Battery, error) {
	return capability.Battery{}, capability.ErrUnavailable
}

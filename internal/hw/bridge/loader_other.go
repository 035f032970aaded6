//go:build !darwin && !linux

package bridge

import (
	"fmt"
	"runtime"
)

func openLibrary(paths []string) (*symbols, string, error) {
	return nil, "", fmt.Errorf("native camera library not supported on %s", runtime.GOOS)
}

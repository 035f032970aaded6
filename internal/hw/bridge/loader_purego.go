//go:build darwin || linux

package bridge

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"

	"github.com/cjeanneret/PreviewGo/internal/debug"
)

// openLibrary returns the symbols of the first candidate that opens and
// resolves, along with its path.
func openLibrary(paths []string) (*symbols, string, error) {
	var lastErr error
	for _, path := range paths {
		debug.Trace("bridge: trying %s", path)
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		syms, err := resolveSymbols(handle)
		if err != nil {
			_ = purego.Dlclose(handle)
			lastErr = err
			continue
		}
		return syms, path, nil
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("load lib%s: %w", DefaultLibraryName, lastErr)
	}
	return nil, "", errors.New("native camera library not found in any location")
}

// resolveSymbols binds the C entry points. RegisterLibFunc panics on a
// missing symbol, so each name is checked with Dlsym first.
func resolveSymbols(handle uintptr) (*symbols, error) {
	s := &symbols{}
	bindings := []struct {
		name string
		fn   interface{}
	}{
		{"camera_engine_create", &s.create},
		{"camera_engine_compatible_width", &s.compatibleWidth},
		{"camera_engine_compatible_height", &s.compatibleHeight},
		{"camera_engine_sensor_orientation", &s.sensorOrientation},
		{"camera_engine_surface_created", &s.surfaceCreated},
		{"camera_engine_surface_destroyed", &s.surfaceDestroyed},
	}
	for _, b := range bindings {
		if _, err := purego.Dlsym(handle, b.name); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", b.name, err)
		}
		purego.RegisterLibFunc(b.fn, handle, b.name)
	}
	return s, nil
}

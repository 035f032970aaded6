package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cjeanneret/PreviewGo/internal/debug"
)

// DefaultLibraryName is the base name of the native camera library.
const DefaultLibraryName = "camera_textureview"

// LibraryPathEnv overrides the library location when set.
const LibraryPathEnv = "PREVIEWGO_ENGINE_LIB"

// symbols holds the native entry points resolved by Load.
type symbols struct {
	create            func(width, height, rotation int32) int64
	compatibleWidth   func() int32
	compatibleHeight  func() int32
	sensorOrientation func() int32
	surfaceCreated    func(window uintptr)
	surfaceDestroyed  func(window uintptr)
}

var (
	loadMu   sync.Mutex
	loadOnce sync.Once
	loadDone bool
	loadReq  string // path given to the first Load
	loadPath string // the file that opened; empty until one did
	loadErr  error
	native   *symbols

	// open is swapped in tests.
	open = openLibrary
)

// Load loads the native camera library and resolves its entry points.
// It runs once per process: later calls with an empty path, the first
// requested path or the path that opened return the first result, any
// other path returns ErrAlreadyLoaded. An empty path searches the usual locations (see
// LibraryPaths).
func Load(path string) error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loadDone && path != "" && path != loadReq && path != loadPath {
		loaded := loadPath
		if loaded == "" {
			loaded = "nothing"
		}
		return fmt.Errorf("%w: %s (requested %s)", ErrAlreadyLoaded, loaded, path)
	}

	loadOnce.Do(func() {
		loadDone = true
		loadReq = path
		var opened string
		native, opened, loadErr = open(LibraryPaths(path))
		if loadErr != nil {
			return
		}
		loadPath = opened
		debug.Info("Native camera library loaded (%s)", loadPath)
	})
	return loadErr
}

// LoadedPath returns the file Load opened, or "" if none did.
func LoadedPath() string {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadPath
}

// Loaded reports whether Load succeeded.
func Loaded() bool {
	loadMu.Lock()
	defer loadMu.Unlock()
	return native != nil
}

// LibraryPaths returns the candidate library locations, in search order.
// An explicit path is the only candidate.
func LibraryPaths(path string) []string {
	if path != "" {
		return []string{path}
	}

	libName := "lib" + DefaultLibraryName + ".so"
	if runtime.GOOS == "darwin" {
		libName = "lib" + DefaultLibraryName + ".dylib"
	}

	var paths []string
	if env := os.Getenv(LibraryPathEnv); env != "" {
		paths = append(paths, env)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, "build", libName))
	}
	// Bare name: let the dynamic loader search its own paths.
	paths = append(paths, libName)
	return paths
}

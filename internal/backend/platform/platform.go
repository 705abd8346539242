// Package platform picks the engine a Factory builds for the running OS.
package platform

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/backend/hunspell"
	"github.com/sagerenn/spelld/internal/backend/system"
)

type Options struct {
	// DictDirs are extra directories holding Hunspell .aff/.dic pairs.
	DictDirs []string
	// SystemDirs overrides DefaultSystemDirs when non-nil.
	SystemDirs []string
	// PreferHunspell skips the native engine even when system
	// dictionaries are installed.
	PreferHunspell bool
}

// NewConstructor returns the backend.Constructor for opts. The native engine
// is primary when the machine has any system dictionary; forceAlternate
// always yields a Hunspell engine.
func NewConstructor(opts Options) backend.Constructor {
	sysDirs := opts.SystemDirs
	if sysDirs == nil {
		sysDirs = DefaultSystemDirs(runtime.GOOS)
	}
	hunDirs := append(append([]string(nil), opts.DictDirs...), sysDirs...)
	return func(forceAlternate bool) backend.Engine {
		if forceAlternate || opts.PreferHunspell || len(system.Available(sysDirs...)) == 0 {
			return hunspell.New(hunDirs...)
		}
		return system.New(sysDirs...)
	}
}

// DefaultSystemDirs lists where goos keeps installed dictionaries. Entries
// that cannot be expanded are dropped; missing directories are kept since
// they may be created later.
func DefaultSystemDirs(goos string) []string {
	var raw []string
	switch goos {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			raw = append(raw, filepath.Join(local, "Microsoft", "Spelling"))
		}
		raw = append(raw, "~/AppData/Roaming/Microsoft/Spelling")
	case "darwin":
		raw = []string{"~/Library/Spelling", "/Library/Spelling"}
	default:
		raw = []string{"/usr/share/hunspell", "/usr/share/myspell", "/usr/share/myspell/dicts", "/usr/share/dict", "~/.local/share/hunspell"}
	}
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		expanded, err := homedir.Expand(p)
		if err != nil {
			continue
		}
		out = append(out, filepath.Clean(expanded))
	}
	return out
}

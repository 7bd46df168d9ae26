package fsys

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Exists splits paths (relative to cwd) into the ones present on fsys and
// the ones missing.
func Exists(fsys afero.Fs, cwd string, paths []string) (exists, missing []string) {
	for _, p := range paths {
		ok, err := afero.Exists(fsys, resolve(cwd, p))
		if err == nil && ok {
			exists = append(exists, p)
		} else {
			missing = append(missing, p)
		}
	}
	return exists, missing
}

// Remove deletes each path (relative to cwd) recursively. Missing paths are
// ignored.
func Remove(fsys afero.Fs, cwd string, paths []string) error {
	for _, p := range paths {
		if err := fsys.RemoveAll(resolve(cwd, p)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// ReadDirNames lists the entry names of dir, sorted. A missing or
// unreadable directory yields nil.
func ReadDirNames(fsys afero.Fs, dir string) []string {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func resolve(cwd, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cwd, filepath.FromSlash(p))
}

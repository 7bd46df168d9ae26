package pkgmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileName is the metadata file read from the project root.
const FileName = "package.json"

// Load reads and decodes cwd/package.json. A missing file yields an empty
// map so projects without one still run.
func Load(fsys afero.Fs, cwd string) (map[string]any, error) {
	path := filepath.Join(cwd, FileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// This file implements the "walkable-mask" artifact: a flat JSON array of
// the quantized keys New would otherwise recompute from raw points,
// following the same write-sorted/read-tolerant contract as
// routing.Graph's Save/Load.
package walkmask

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const maskFilename = "walkable-mask"

// ErrDataUnavailable is returned by Load when the artifact file is
// missing.
var ErrDataUnavailable = errors.New("walkmask: artifact data unavailable")

// Save writes the mask's cell keys to dir/walkable-mask as a sorted JSON
// array, so two builds over identical walkable points produce
// byte-identical output.
func (m *Mask) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("walkmask: creating artifact dir %s: %w", dir, err)
	}

	keys := make([]string, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("walkmask: encoding mask: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, maskFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("walkmask: writing %s: %w", path, err)
	}

	return nil
}

// Load reads the walkable-mask artifact from dir. Returns
// ErrDataUnavailable if the file does not exist.
func Load(dir string) (*Mask, error) {
	path := filepath.Join(dir, maskFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, path)
		}

		return nil, fmt.Errorf("walkmask: reading %s: %w", path, err)
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("walkmask: %s is not valid: %w", path, err)
	}

	cells := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		cells[k] = struct{}{}
	}

	return &Mask{cells: cells}, nil
}

package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shardtable/shardtable/internal/util"
)

// spillCounter is the process-global monotonic counter spill filenames
// are drawn from (spec.md §4.B: "never reused").
var spillCounter util.PaddedAtomicUint64

// spillPath returns a fresh, never-reused path under dataDir, creating
// dataDir on first use.
func spillPath(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("engine: create data dir %q: %w", dataDir, err)
	}
	n := spillCounter.Add(1)
	return filepath.Join(dataDir, fmt.Sprintf("tabledata_%d", n)), nil
}

// writeSpillFile serializes rows as a JSON object mapping stringified
// row-id to Row, per spec.md §6's spill file format.
func writeSpillFile(path string, rows map[int64]Row) error {
	encoded := make(map[string]Row, len(rows))
	for id, row := range rows {
		encoded[strconv.FormatInt(id, 10)] = row
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: create spill file %q: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(encoded); err != nil {
		return fmt.Errorf("engine: encode spill file %q: %w", path, err)
	}
	return nil
}

// readSpillFile deserializes a spill file written by writeSpillFile.
func readSpillFile(path string) (map[int64]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("engine: open spill file %q: %w", path, err)
	}
	defer f.Close()
	var encoded map[string]Row
	if err := json.NewDecoder(f).Decode(&encoded); err != nil {
		return nil, fmt.Errorf("engine: decode spill file %q: %w", path, err)
	}
	rows := make(map[int64]Row, len(encoded))
	for idStr, row := range encoded {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("engine: corrupt spill file %q: bad row id %q: %w", path, idStr, err)
		}
		rows[id] = row
	}
	return rows, nil
}

// removeSpillFile deletes the backing file for an evicted shard.
func removeSpillFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("engine: remove spill file %q: %w", path, err)
	}
	return nil
}

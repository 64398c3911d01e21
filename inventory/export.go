// Package inventory handles one-shot hardware inventory export: JSON file
// output and a console summary.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/tinyland/lab/hwpulse/metrics"
)

// WriteFile exports the inventory as indented JSON with an atomic write
// (write to temp file, then rename). A crashed export never leaves a
// half-written file at path.
func WriteFile(path string, inv metrics.Inventory) error {
	encoded, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("inventory: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("inventory: create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-inventory-*.json")
	if err != nil {
		return fmt.Errorf("inventory: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any failure path.
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("inventory: write temp: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("inventory: close temp: %w", err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("inventory: chmod temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("inventory: rename temp: %w", err)
	}

	success = true
	return nil
}

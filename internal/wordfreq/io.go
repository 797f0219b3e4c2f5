package wordfreq

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Save writes d to path as a JSON object, atomically (write to a
// temporary file, then rename into place).
func Save(d Dict, path string) error {
	data, err := sonic.Marshal(d)
	if err != nil {
		return fmt.Errorf("wordfreq: marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("wordfreq: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("wordfreq: publish: %w", err)
	}
	return nil
}

// Load reads a Dict previously written by Save.
func Load(path string) (Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordfreq: read: %w", err)
	}
	var d Dict
	if err := sonic.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("wordfreq: unmarshal: %w", err)
	}
	return d, nil
}

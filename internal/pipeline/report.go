package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// WriteReport serializes the summary as a compact JSON object (country
// name to count, keys sorted) and writes it to path, overwriting any
// prior content.
//
// The write is atomic: content goes to a uniquely named temporary file
// in the destination directory, which is then renamed into place. A
// crashed or failed run can never leave a truncated file that looks
// like valid output.
func WriteReport(summary popstat.Summary, path string) error {
	if summary == nil {
		summary = popstat.Summary{}
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", popstat.ErrWriteFailure, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", popstat.ErrWriteFailure, path, err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, popstat.DefaultReportFileMode); err != nil {
		return fmt.Errorf("%w: %s: %w", popstat.ErrWriteFailure, path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %w", popstat.ErrWriteFailure, path, err)
	}

	return nil
}

package dataset

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avelar/pillreminder-api/logging"
)

// Download fetches the reference dataset from url and writes it to path,
// creating parent directories as needed. Used at startup when no local
// copy exists yet; encoding is handled at load time.
func Download(path, url string) error {
	client := &http.Client{
		Timeout: 5 * time.Minute,
	}

	response, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: unexpected status %d", url, response.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close dataset file", "error", err)
		}
	}()

	written, err := io.Copy(file, response.Body)
	if err != nil {
		return fmt.Errorf("failed to write dataset file %s: %w", path, err)
	}

	logging.Info("Downloaded reference dataset", "url", url, "path", path, "bytes", written)

	return nil
}

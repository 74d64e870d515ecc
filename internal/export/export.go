package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MIMEType is the media type of exported rosters.
const MIMEType = "text/csv"

// FileName derives the download name for an organization, e.g. "yw.csv".
func FileName(orgCode string) string {
	return "y" + strings.ToLower(strings.TrimSpace(orgCode)) + ".csv"
}

// WriteFile writes data into dir under the organization's file name and returns
// the path written. The file is replaced atomically so a failed run never leaves
// a truncated roster behind.
func WriteFile(dir, orgCode, data string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(orgCode))

	tmp, err := os.CreateTemp(dir, ".roster-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after rename

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close roster: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to set roster permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move roster into place: %w", err)
	}

	return path, nil
}

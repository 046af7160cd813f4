package util

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteToFile writes the lines to savePath, one per line, creating the parent directory
func WriteToFile(savePath string, lines ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return os.WriteFile(savePath, []byte(content), 0o644)
}

package utils

import (
	"os"
	"path/filepath"
)

// EnsureExportDir creates the exports directory if it doesn't exist
func EnsureExportDir() error {
	return os.MkdirAll("exports", os.ModePerm)
}

// ExportPath returns the full path for a file inside the exports directory
func ExportPath(filename string) string {
	return filepath.Join("exports", filename)
}

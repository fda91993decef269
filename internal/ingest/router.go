package ingest

import (
	"path/filepath"
	"strings"
)

// DetectType classifies an upload by file name.
func DetectType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".drawio", ".dio":
		return "drawio"
	case ".xml":
		return "xml"
	case ".svg", ".png", ".jpg", ".jpeg", ".pdf":
		return "export"
	default:
		return "unknown"
	}
}

// Supported reports whether name looks like a diagram this package parses.
// Files without an extension are accepted and left to the parser.
func Supported(name string) bool {
	switch DetectType(name) {
	case "drawio", "xml":
		return true
	case "unknown":
		return filepath.Ext(name) == ""
	}
	return false
}

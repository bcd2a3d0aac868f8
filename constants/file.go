package constants

import "strings"

// AllowedExtensions holds the OCR output file extensions picked up by directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"txt": {},
	"md":  {},
	"mmd": {},
}

// TablesSuffix marks a sidecar file holding isolated table HTML fragments for a
// document, e.g. "scan-01.tables.html" next to "scan-01.txt".
const TablesSuffix = ".tables.html"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

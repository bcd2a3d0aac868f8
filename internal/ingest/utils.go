package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docsense/constants"
)

// AllowedExt checks if a file extension is in the allowed set (txt/md/mmd).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// IsTablesSidecar reports whether path is a "<name>.tables.html" fragment file.
func IsTablesSidecar(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), constants.TablesSuffix)
}

// TablesPathFor returns the sidecar path for a document, "scan.txt" → "scan.tables.html".
func TablesPathFor(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + constants.TablesSuffix
}

// DocumentPathFor finds the document a sidecar belongs to. It returns "" when no
// document with an allowed extension sits next to the sidecar.
func DocumentPathFor(sidecar string) string {
	base := sidecar[:len(sidecar)-len(constants.TablesSuffix)]
	for _, ext := range []string{"txt", "md", "mmd"} {
		candidate := base + "." + ext
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

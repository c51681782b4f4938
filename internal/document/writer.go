package document

import (
	"os"

	"github.com/temirov/contextbuilder/internal/manifest"
)

const outputFilePermissions = 0o644

// WriteFile stores the document at path. Failures are reported as *manifest.WriteError.
//
// #nosec G306
func WriteFile(path string, content string) error {
	if writeError := os.WriteFile(path, []byte(content), outputFilePermissions); writeError != nil {
		return &manifest.WriteError{Path: path, Err: writeError}
	}
	return nil
}

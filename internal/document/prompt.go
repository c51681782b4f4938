package document

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed prompt.md
var defaultPrompt string

const readPromptErrorFormat = "read prompt %s: %w"

// DefaultPrompt returns the built-in instructional preamble.
func DefaultPrompt() string {
	return defaultPrompt
}

// LoadPrompt returns the contents of promptPath, or the built-in preamble when
// promptPath is empty.
//
// #nosec G304
func LoadPrompt(promptPath string) (string, error) {
	if strings.TrimSpace(promptPath) == "" {
		return defaultPrompt, nil
	}
	promptData, readError := os.ReadFile(promptPath)
	if readError != nil {
		return "", fmt.Errorf(readPromptErrorFormat, promptPath, readError)
	}
	return string(promptData), nil
}

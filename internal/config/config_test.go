package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/temirov/contextbuilder/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatternsSkipsCommentsAndNegations verifies line filtering.
func TestLoadIgnoreFilePatternsSkipsCommentsAndNegations(testingHandle *testing.T) {
	ignoreFilePath := filepath.Join(testingHandle.TempDir(), utils.GitIgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# comment\n\n*.log\n!keep.log\n  build/  \n")

	patternList, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expected := []string{"*.log", "build/"}
	if !reflect.DeepEqual(patternList, expected) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patternList, expected)
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies that a missing file yields no patterns.
func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patternList, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), "absent"))
	if loadError != nil || len(patternList) != 0 {
		testingHandle.Fatalf("expected no patterns and no error, got %v, %v", patternList, loadError)
	}
}

// TestLoadRecursiveIgnorePatterns verifies aggregation across nested ignore files.
func TestLoadRecursiveIgnorePatterns(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		options  IgnoreOptions
		expected []string
	}{
		{
			name:     "gitignore_only",
			options:  IgnoreOptions{UseGitignore: true},
			expected: []string{gitDirectoryPattern, "root.md", "deep/nested.md"},
		},
		{
			name:     "ignore_file_only",
			options:  IgnoreOptions{UseIgnoreFile: true},
			expected: []string{gitDirectoryPattern, "root.txt", "deep/nested.txt"},
		},
		{
			name:     "include_git_with_exclusions",
			options:  IgnoreOptions{IncludeGit: true, ExclusionPatterns: []string{" vendor/ ", ""}},
			expected: []string{"vendor/"},
		},
	}

	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "root.md\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "root.txt\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "deep", utils.GitIgnoreFileName), "/nested.md\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "deep", utils.IgnoreFileName), "nested.txt\n")

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			patternList, loadError := LoadRecursiveIgnorePatterns(rootDirectory, testCase.options)
			if loadError != nil {
				testingHandle.Fatalf("LoadRecursiveIgnorePatterns failed: %v", loadError)
			}
			sort.Strings(patternList)
			expected := append([]string{}, testCase.expected...)
			sort.Strings(expected)
			if !reflect.DeepEqual(patternList, expected) {
				testingHandle.Fatalf("unexpected patterns: got %v want %v", patternList, expected)
			}
		})
	}
}

// TestLoadRecursiveIgnorePatternsSkipsIgnoredDirectories verifies that ignore files inside excluded directories are not read.
func TestLoadRecursiveIgnorePatternsSkipsIgnoredDirectories(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "node_modules/\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "pkg", utils.GitIgnoreFileName), "*.js\n")

	patternList, loadError := LoadRecursiveIgnorePatterns(rootDirectory, IgnoreOptions{UseGitignore: true})
	if loadError != nil {
		testingHandle.Fatalf("LoadRecursiveIgnorePatterns failed: %v", loadError)
	}
	for _, pattern := range patternList {
		if pattern == "node_modules/pkg/*.js" {
			testingHandle.Fatalf("patterns from an ignored directory were loaded: %v", patternList)
		}
	}
}

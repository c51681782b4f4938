// Package config loads contextbuilder settings and ignore-file patterns.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/contextbuilder/internal/utils"
)

const (
	// gitDirectoryPattern matches the Git directory and everything below it.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	commentPrefix       = "#"
	negationPrefix      = "!"

	loadIgnoreFileErrorFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// A missing file yields no patterns. Blank lines, comments and negated
// patterns are skipped.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (patterns []string, err error) {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, openError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) || strings.HasPrefix(trimmedLine, negationPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}

// IgnoreOptions selects which ignore sources apply below a root directory.
type IgnoreOptions struct {
	ExclusionPatterns []string
	UseGitignore      bool
	UseIgnoreFile     bool
	IncludeGit        bool
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates patterns
// from every .ignore and .gitignore file it finds. Patterns from a nested
// directory are prefixed with that directory's path relative to the root.
// Directories already excluded by the patterns gathered so far are not entered.
// The .git directory is excluded unless IncludeGit is set, and the explicit
// exclusion patterns are appended last.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, options IgnoreOptions) ([]string, error) {
	var aggregatedPatterns []string
	if !options.IncludeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}
	for _, exclusionPattern := range options.ExclusionPatterns {
		if trimmedPattern := strings.TrimSpace(exclusionPattern); trimmedPattern != "" {
			aggregatedPatterns = append(aggregatedPatterns, trimmedPattern)
		}
	}

	ignoreFileNames := make([]string, 0, 2)
	if options.UseIgnoreFile {
		ignoreFileNames = append(ignoreFileNames, utils.IgnoreFileName)
	}
	if options.UseGitignore {
		ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
	}

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		prefix := ""
		if relativeDirectory != "." {
			if utils.ShouldIgnoreByPath(relativeDirectory+"/", aggregatedPatterns) {
				return filepath.SkipDir
			}
			prefix = relativeDirectory + "/"
		}
		for _, ignoreFileName := range ignoreFileNames {
			filePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(currentDirectoryPath, ignoreFileName))
			if loadError != nil {
				return fmt.Errorf(loadIgnoreFileErrorFormat, ignoreFileName, currentDirectoryPath, loadError)
			}
			for _, pattern := range filePatterns {
				aggregatedPatterns = append(aggregatedPatterns, prefix+strings.TrimPrefix(pattern, "/"))
			}
		}
		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return nil, walkError
	}
	return utils.DeduplicatePatterns(aggregatedPatterns), nil
}

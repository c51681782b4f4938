// Package utils contains helpers shared across contextbuilder packages.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used when selecting files.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	pathSegmentSeparator = "/"
	parentDirectoryToken = ".."
)

// DeduplicatePatterns removes duplicate patterns while keeping the first occurrence of each.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; exists {
			continue
		}
		encounteredPatterns[pattern] = struct{}{}
		result = append(result, pattern)
	}
	return result
}

// RelativePathOrSelf returns fullPath relative to root in forward-slash form.
// It returns "." when both resolve to the same location and the cleaned
// fullPath when no relative form exists.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanPath
	}
	cleanRoot := filepath.Clean(absoluteRoot)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsWithinDirectory reports whether absolutePath lies inside directory.
func IsWithinDirectory(absolutePath, directory string) bool {
	relativePath, relativeError := filepath.Rel(filepath.Clean(directory), filepath.Clean(absolutePath))
	if relativeError != nil {
		return false
	}
	if relativePath == "." {
		return true
	}
	return relativePath != parentDirectoryToken && !strings.HasPrefix(relativePath, parentDirectoryToken+string(filepath.Separator))
}

// ShouldIgnoreByPath reports whether a path relative to the selection root is
// excluded by ignorePatterns. Paths and patterns are compared in forward-slash
// form, segment by segment, with filepath.Match semantics. A pattern with a
// trailing slash excludes the directory and everything below it. A single
// segment pattern matches any segment of the path, so "build" excludes both a
// file and a directory of that name.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(strings.TrimPrefix(patternValue, pathSegmentSeparator), "\\", pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		patternSegments := strings.Split(strings.TrimSuffix(normalizedPattern, pathSegmentSeparator), pathSegmentSeparator)

		if isDirectoryPattern {
			if len(patternSegments) == 1 {
				for _, segment := range pathSegments[:len(pathSegments)-1] {
					if matched, matchError := filepath.Match(patternSegments[0], segment); matchError == nil && matched {
						return true
					}
				}
			}
			if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
				return true
			}
			continue
		}

		if len(patternSegments) == 1 {
			for _, segment := range pathSegments {
				if matched, matchError := filepath.Match(patternSegments[0], segment); matchError == nil && matched {
					return true
				}
			}
			continue
		}

		if len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments) {
			return true
		}
	}
	return false
}

func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		matched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !matched {
			return false
		}
	}
	return true
}

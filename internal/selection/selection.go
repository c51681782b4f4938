// Package selection expands user supplied path patterns into the files to include.
package selection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/contextbuilder/internal/config"
	"github.com/temirov/contextbuilder/internal/utils"
)

const (
	parentDirectoryPrefix = "../"

	invalidPatternErrorFormat   = "invalid pattern %q: %w"
	expandPatternErrorFormat    = "expand pattern %q: %w"
	loadIgnoreErrorFormat       = "load ignore patterns for %s: %w"
	walkDirectoryErrorFormat    = "walk %s: %w"
	workingDirectoryErrorFormat = "determine working directory: %w"
)

// Options describes which patterns to expand and which files to leave out.
type Options struct {
	WorkingDirectory string
	Patterns         []string
	Ignore           config.IgnoreOptions
}

// Result lists the selected files as absolute, sorted, unique paths together
// with the patterns that matched nothing.
type Result struct {
	Paths     []string
	Unmatched []string
}

// Expand resolves every pattern relative to the working directory using
// doublestar semantics. A matched directory contributes every regular file
// below it. Files reached through a glob or a directory pass through ignore
// filtering; a literal file path is always kept.
func Expand(options Options) (Result, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Result{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}
	workingDirectory = filepath.Clean(workingDirectory)

	for _, pattern := range options.Patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return Result{}, fmt.Errorf(invalidPatternErrorFormat, pattern, doublestar.ErrBadPattern)
		}
	}

	ignorePatterns, loadError := config.LoadRecursiveIgnorePatterns(workingDirectory, options.Ignore)
	if loadError != nil {
		return Result{}, fmt.Errorf(loadIgnoreErrorFormat, workingDirectory, loadError)
	}

	expander := &patternExpander{
		workingDirectory: workingDirectory,
		ignorePatterns:   ignorePatterns,
		selected:         make(map[string]struct{}),
	}
	var result Result
	for _, pattern := range options.Patterns {
		matchedCount, expandError := expander.expand(pattern)
		if expandError != nil {
			return Result{}, expandError
		}
		if matchedCount == 0 {
			result.Unmatched = append(result.Unmatched, pattern)
		}
	}

	result.Paths = make([]string, 0, len(expander.selected))
	for selectedPath := range expander.selected {
		result.Paths = append(result.Paths, selectedPath)
	}
	sort.Strings(result.Paths)
	return result, nil
}

type patternExpander struct {
	workingDirectory string
	ignorePatterns   []string
	selected         map[string]struct{}
}

// expand adds the files matched by pattern and returns how many files it contributed.
func (expander *patternExpander) expand(pattern string) (int, error) {
	matches, globError := expander.glob(pattern)
	if globError != nil {
		return 0, fmt.Errorf(expandPatternErrorFormat, pattern, globError)
	}
	isLiteral := !hasGlobMeta(pattern)
	contributed := 0
	for _, absoluteMatch := range matches {
		fileStatus, statError := os.Stat(absoluteMatch)
		if statError != nil {
			continue
		}
		if fileStatus.IsDir() {
			walked, walkError := expander.addDirectory(absoluteMatch)
			if walkError != nil {
				return contributed, walkError
			}
			contributed += walked
			continue
		}
		if !fileStatus.Mode().IsRegular() {
			continue
		}
		if !isLiteral && expander.isIgnored(absoluteMatch) {
			continue
		}
		expander.selected[absoluteMatch] = struct{}{}
		contributed++
	}
	return contributed, nil
}

// glob returns absolute matches for pattern. Patterns that stay inside the
// working directory are evaluated against it as a file system root so that
// metacharacters in the working directory path itself are never interpreted.
func (expander *patternExpander) glob(pattern string) ([]string, error) {
	slashPattern := path.Clean(filepath.ToSlash(pattern))
	if filepath.IsAbs(pattern) || slashPattern == ".." || strings.HasPrefix(slashPattern, parentDirectoryPrefix) {
		absolutePattern := pattern
		if !filepath.IsAbs(pattern) {
			absolutePattern = filepath.Join(expander.workingDirectory, pattern)
		}
		return doublestar.FilepathGlob(absolutePattern)
	}
	relativeMatches, globError := doublestar.Glob(os.DirFS(expander.workingDirectory), slashPattern)
	if globError != nil {
		return nil, globError
	}
	absoluteMatches := make([]string, 0, len(relativeMatches))
	for _, relativeMatch := range relativeMatches {
		absoluteMatches = append(absoluteMatches, filepath.Join(expander.workingDirectory, filepath.FromSlash(relativeMatch)))
	}
	return absoluteMatches, nil
}

// addDirectory selects every regular, non-ignored file below directory.
func (expander *patternExpander) addDirectory(directory string) (int, error) {
	contributed := 0
	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if errors.Is(walkError, fs.ErrPermission) {
				return nil
			}
			return walkError
		}
		if currentPath != directory && expander.isIgnored(currentPath) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() || !directoryEntry.Type().IsRegular() {
			return nil
		}
		expander.selected[currentPath] = struct{}{}
		contributed++
		return nil
	}
	if walkError := filepath.WalkDir(directory, walkFunction); walkError != nil {
		return contributed, fmt.Errorf(walkDirectoryErrorFormat, directory, walkError)
	}
	return contributed, nil
}

// isIgnored applies the ignore patterns to paths inside the working directory.
func (expander *patternExpander) isIgnored(absolutePath string) bool {
	if !utils.IsWithinDirectory(absolutePath, expander.workingDirectory) {
		return false
	}
	relativePath := utils.RelativePathOrSelf(absolutePath, expander.workingDirectory)
	if relativePath == "." {
		return false
	}
	return utils.ShouldIgnoreByPath(relativePath, expander.ignorePatterns)
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

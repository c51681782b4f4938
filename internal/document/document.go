// Package document assembles the Markdown context document from a list of files.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/contextbuilder/internal/manifest"
	"github.com/temirov/contextbuilder/internal/tokenizer"
	"github.com/temirov/contextbuilder/internal/utils"
)

const (
	sectionSeparator = "\n\n"
	lineSeparator    = "\n"
	horizontalRule   = "---"
	minimumFence     = 3
	fenceCharacter   = "`"

	generatedHeaderFormat   = "# Context Generated: %s"
	totalFilesFormat        = "Total files processed: %d"
	directoryHeading        = "## Directory Structure"
	manifestHeading         = "## File Manifest"
	readErrorsHeading       = "## Read Errors"
	readErrorEntryFormat    = "- `%s`: %v"
	fileHeadingFormat       = "### File %d: `%s`"
	skippedFileLogMessage   = "skipping unreadable file"
	tokenCountLogMessage    = "failed to count tokens"
	documentBuiltLogMessage = "context document built"
)

// Builder turns file paths into a context document. The zero value is usable:
// it uses the built-in prompt, the current time, no token counting and a no-op logger.
type Builder struct {
	// Prompt replaces the built-in preamble when non-empty.
	Prompt string
	// BaseDirectory is the directory display paths are made relative to.
	BaseDirectory string
	// Now supplies the generation timestamp.
	Now func() time.Time
	// TokenCounter enables per-file token counts in the manifest when set.
	TokenCounter tokenizer.Counter
	Logger       *zap.Logger
}

// Result is the outcome of Build.
type Result struct {
	Content     string
	Files       []manifest.FileInfo
	Entries     []manifest.Entry
	Errors      []*manifest.ReadError
	TotalBytes  int64
	TotalTokens int

	// TokensCounted reports whether token counting was enabled for the build.
	TokensCounted bool
}

// Build reads every path in order and renders the document. Files that cannot
// be read are skipped and reported in Result.Errors. Build returns
// manifest.ErrNoInput when paths is empty or none of the files could be read.
func (builder *Builder) Build(paths []string) (Result, error) {
	logger := builder.logger()
	var result Result
	if len(paths) == 0 {
		return result, manifest.ErrNoInput
	}

	for _, path := range paths {
		displayPath := DisplayPath(path, builder.BaseDirectory)
		fileInfo, inspectError := manifest.Inspect(path, displayPath)
		if inspectError != nil {
			var readError *manifest.ReadError
			if !errors.As(inspectError, &readError) {
				readError = &manifest.ReadError{Path: displayPath, Err: inspectError}
			}
			logger.Warn(skippedFileLogMessage, zap.String("path", displayPath), zap.Error(readError.Err))
			result.Errors = append(result.Errors, readError)
			continue
		}
		tokens, counted := builder.countTokens(fileInfo)
		entry := manifest.Entry{
			Path:          displayPath,
			Category:      fileInfo.Category,
			Lines:         fileInfo.Lines,
			Tokens:        tokens,
			TokensCounted: counted,
		}
		result.Files = append(result.Files, fileInfo)
		result.Entries = append(result.Entries, entry)
		result.TotalBytes += fileInfo.SizeBytes
		result.TotalTokens += entry.Tokens
	}

	if len(result.Files) == 0 {
		return result, manifest.ErrNoInput
	}
	result.TokensCounted = builder.TokenCounter != nil

	result.Content = builder.render(len(paths), result)
	logger.Debug(documentBuiltLogMessage,
		zap.Int("files", len(result.Files)),
		zap.Int("errors", len(result.Errors)),
		zap.String("size", utils.FormatFileSize(result.TotalBytes)),
		zap.Int("tokens", result.TotalTokens),
	)
	return result, nil
}

func (builder *Builder) render(totalInputs int, result Result) string {
	prompt := builder.Prompt
	if prompt == "" {
		prompt = DefaultPrompt()
	}
	now := time.Now
	if builder.Now != nil {
		now = builder.Now
	}

	displayPaths := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		displayPaths = append(displayPaths, entry.Path)
	}
	treeLines := manifest.RenderTree(manifest.BuildTree(displayPaths))

	sections := []string{
		strings.TrimRight(prompt, " \t\r\n"),
		fmt.Sprintf(generatedHeaderFormat, utils.FormatGeneratedTimestamp(now())),
		fmt.Sprintf(totalFilesFormat, totalInputs),
		horizontalRule,
		directoryHeading,
		fencedBlock("", strings.Join(treeLines, lineSeparator)),
		manifestHeading,
	}
	sections = append(sections, manifest.BuildManifest(result.Entries).Blocks()...)

	if len(result.Errors) > 0 {
		errorLines := make([]string, 0, len(result.Errors))
		for _, readError := range result.Errors {
			errorLines = append(errorLines, fmt.Sprintf(readErrorEntryFormat, readError.Path, readError.Err))
		}
		sections = append(sections, readErrorsHeading, strings.Join(errorLines, lineSeparator))
	}

	for index, fileInfo := range result.Files {
		heading := horizontalRule + lineSeparator + fmt.Sprintf(fileHeadingFormat, index+1, fileInfo.DisplayPath)
		sections = append(sections, heading+sectionSeparator+fencedBlock(fileInfo.Language(), fileInfo.Content))
	}
	return strings.Join(sections, sectionSeparator)
}

// countTokens returns the token count of the file and whether it was measured.
func (builder *Builder) countTokens(fileInfo manifest.FileInfo) (int, bool) {
	if builder.TokenCounter == nil {
		return 0, false
	}
	countResult, countError := tokenizer.CountText(builder.TokenCounter, fileInfo.Content)
	if countError != nil {
		builder.logger().Warn(tokenCountLogMessage, zap.String("path", fileInfo.DisplayPath), zap.Error(countError))
		return 0, false
	}
	return countResult.Tokens, countResult.Counted
}

func (builder *Builder) logger() *zap.Logger {
	if builder.Logger == nil {
		return zap.NewNop()
	}
	return builder.Logger
}

// DisplayPath returns path relative to baseDirectory when it is an absolute
// path inside that directory, otherwise the cleaned path as given. The result
// always uses forward slashes.
func DisplayPath(path string, baseDirectory string) string {
	if baseDirectory != "" && filepath.IsAbs(path) && utils.IsWithinDirectory(path, baseDirectory) {
		return utils.RelativePathOrSelf(path, baseDirectory)
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// fencedBlock wraps content in a code fence longer than any backtick run inside it.
// The closing fence always starts on its own line.
func fencedBlock(language string, content string) string {
	fence := strings.Repeat(fenceCharacter, longestBacktickRun(content)+1)
	if len(fence) < minimumFence {
		fence = strings.Repeat(fenceCharacter, minimumFence)
	}
	body := content
	if !strings.HasSuffix(body, lineSeparator) {
		body += lineSeparator
	}
	return fence + language + lineSeparator + body + fence
}

func longestBacktickRun(content string) int {
	longest, current := 0, 0
	for _, character := range content {
		if character == '`' {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

// FormatSummary describes a built document in one line for status output.
func FormatSummary(result Result) string {
	var builder strings.Builder
	builder.WriteString(strconv.Itoa(len(result.Files)))
	if len(result.Files) == 1 {
		builder.WriteString(" file, ")
	} else {
		builder.WriteString(" files, ")
	}
	builder.WriteString(utils.FormatFileSize(result.TotalBytes))
	if result.TokensCounted {
		builder.WriteString(", ")
		builder.WriteString(strconv.Itoa(result.TotalTokens))
		builder.WriteString(" tokens")
	}
	if len(result.Errors) > 0 {
		builder.WriteString(", ")
		builder.WriteString(strconv.Itoa(len(result.Errors)))
		builder.WriteString(" skipped")
	}
	return builder.String()
}

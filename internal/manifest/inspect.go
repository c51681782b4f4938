package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/contextbuilder/internal/utils"
)

const (
	lineBreak          = "\n"
	extensionPrefix    = "."
	closeFailureFormat = "close failed: %w"
)

var (
	errDirectoryInput     = errors.New("is a directory")
	errUndecodableContent = errors.New("content is not valid UTF-8 text")
)

// FileInfo carries the metadata and content of a successfully read file.
type FileInfo struct {
	Path         string
	DisplayPath  string
	Name         string
	Extension    string
	Category     Category
	Content      string
	Lines        int
	SizeBytes    int64
	LastModified time.Time
}

// Language returns the code fence tag for the file: its extension without the dot.
func (info FileInfo) Language() string {
	return strings.TrimPrefix(info.Extension, extensionPrefix)
}

// Inspect reads the file at path fully and returns its metadata. The file is
// closed before Inspect returns. Failures are reported as *ReadError.
//
// #nosec G304
func Inspect(path string, displayPath string) (info FileInfo, err error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return FileInfo{}, &ReadError{Path: displayPath, Err: openError}
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			info = FileInfo{}
			err = &ReadError{Path: displayPath, Err: fmt.Errorf(closeFailureFormat, closeError)}
		}
	}()

	fileStatus, statError := fileHandle.Stat()
	if statError != nil {
		return FileInfo{}, &ReadError{Path: displayPath, Err: statError}
	}
	if fileStatus.IsDir() {
		return FileInfo{}, &ReadError{Path: displayPath, Err: errDirectoryInput}
	}

	data, readError := io.ReadAll(fileHandle)
	if readError != nil {
		return FileInfo{}, &ReadError{Path: displayPath, Err: readError}
	}
	if utils.IsBinary(data) {
		return FileInfo{}, &ReadError{Path: displayPath, Err: errUndecodableContent}
	}

	content := string(data)
	extension := Extension(path)
	return FileInfo{
		Path:         path,
		DisplayPath:  displayPath,
		Name:         filepath.Base(path),
		Extension:    extension,
		Category:     CategoryForExtension(extension),
		Content:      content,
		Lines:        CountLines(content),
		SizeBytes:    fileStatus.Size(),
		LastModified: fileStatus.ModTime(),
	}, nil
}

// CountLines counts lines the way a line splitter would: a trailing line break
// does not open a new line and empty content has no lines. "\r\n" is a single
// break; a lone "\r" and the Unicode line and paragraph separators break too.
func CountLines(content string) int {
	lineCount := 0
	endsWithBreak := false
	for index, character := range content {
		endsWithBreak = false
		switch character {
		case '\r':
			if index+1 < len(content) && content[index+1] == '\n' {
				continue
			}
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		default:
			continue
		}
		lineCount++
		endsWithBreak = true
	}
	if content != "" && !endsWithBreak {
		lineCount++
	}
	return lineCount
}

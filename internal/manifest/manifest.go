package manifest

import (
	"fmt"
	"strings"
)

const (
	categoryHeadingFormat = "### %s"
	entryFormat           = "- `%s` (%d lines)"
	entryWithTokensFormat = "- `%s` (%d lines, %d tokens)"
)

// Entry is one processed file listed in the manifest.
type Entry struct {
	Path     string
	Category Category
	Lines    int
	Tokens   int

	// TokensCounted marks Tokens as a measured value, so zero is still shown.
	TokensCounted bool
}

// Group holds the entries of one category in input order.
type Group struct {
	Category Category
	Entries  []Entry
}

// Manifest lists entries grouped by category, groups in first-seen order.
type Manifest struct {
	Groups []Group
}

// BuildManifest groups entries by category preserving the order in which
// categories and entries were first encountered.
func BuildManifest(entries []Entry) Manifest {
	groupIndex := make(map[Category]int)
	var result Manifest
	for _, entry := range entries {
		index, seen := groupIndex[entry.Category]
		if !seen {
			index = len(result.Groups)
			groupIndex[entry.Category] = index
			result.Groups = append(result.Groups, Group{Category: entry.Category})
		}
		result.Groups[index].Entries = append(result.Groups[index].Entries, entry)
	}
	return result
}

// Lines renders the manifest body, one heading per category followed by its entries.
func (manifest Manifest) Lines() []string {
	var lines []string
	for _, group := range manifest.Groups {
		lines = append(lines, fmt.Sprintf(categoryHeadingFormat, group.Category))
		for _, entry := range group.Entries {
			lines = append(lines, FormatEntry(entry))
		}
	}
	return lines
}

// Blocks renders each category as its heading followed by its entries, one
// string per category.
func (manifest Manifest) Blocks() []string {
	blocks := make([]string, 0, len(manifest.Groups))
	for _, group := range manifest.Groups {
		lines := make([]string, 0, len(group.Entries)+1)
		lines = append(lines, fmt.Sprintf(categoryHeadingFormat, group.Category))
		for _, entry := range group.Entries {
			lines = append(lines, FormatEntry(entry))
		}
		blocks = append(blocks, strings.Join(lines, lineBreak))
	}
	return blocks
}

// FormatEntry renders a single manifest line.
func FormatEntry(entry Entry) string {
	if entry.TokensCounted {
		return fmt.Sprintf(entryWithTokensFormat, entry.Path, entry.Lines, entry.Tokens)
	}
	return fmt.Sprintf(entryFormat, entry.Path, entry.Lines)
}

package manifest

import (
	"path/filepath"
	"strings"
)

// Category labels a file for manifest grouping.
type Category string

const (
	CategorySourceCode    Category = "Source Code"
	CategoryDocumentation Category = "Documentation"
	CategoryConfiguration Category = "Configuration"
	CategoryDatabase      Category = "Database"
	CategoryOther         Category = "Other"
)

var extensionCategories = map[string]Category{
	".py":   CategorySourceCode,
	".js":   CategorySourceCode,
	".ts":   CategorySourceCode,
	".java": CategorySourceCode,
	".cpp":  CategorySourceCode,
	".c":    CategorySourceCode,
	".go":   CategorySourceCode,
	".rs":   CategorySourceCode,
	".md":   CategoryDocumentation,
	".txt":  CategoryDocumentation,
	".rst":  CategoryDocumentation,
	".json": CategoryConfiguration,
	".yaml": CategoryConfiguration,
	".yml":  CategoryConfiguration,
	".toml": CategoryConfiguration,
	".ini":  CategoryConfiguration,
	".sql":  CategoryDatabase,
}

// Extension returns the lower-cased final suffix of path including the dot.
// Dot files without a further suffix, such as ".gitignore", have no extension.
func Extension(path string) string {
	baseName := filepath.Base(filepath.FromSlash(path))
	extension := filepath.Ext(baseName)
	if extension == baseName || extension == "." {
		return ""
	}
	return strings.ToLower(extension)
}

// CategoryForExtension maps a dotted extension to its category.
func CategoryForExtension(extension string) Category {
	if category, known := extensionCategories[strings.ToLower(extension)]; known {
		return category
	}
	return CategoryOther
}

// Categorize returns the category of path based on its extension.
func Categorize(path string) Category {
	return CategoryForExtension(Extension(path))
}

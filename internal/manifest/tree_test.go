package manifest

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestRenderTree(t *testing.T) {
	testCases := []struct {
		name     string
		paths    []string
		expected []string
	}{
		{
			// Top-level entries keep their connectors; only a lone root directory renders bare.
			name:  "mixed_top_level",
			paths: []string{"a/b.py", "a/c.md", "d.txt"},
			expected: []string{
				"├── a/",
				"│   ├── b.py",
				"│   └── c.md",
				"└── d.txt",
			},
		},
		{
			name:  "single_directory_becomes_label",
			paths: []string{"project/src/main.go", "project/README.md", "project/go.mod"},
			expected: []string{
				"project/",
				"├── src/",
				"│   └── main.go",
				"├── README.md",
				"└── go.mod",
			},
		},
		{
			name:  "directories_before_files",
			paths: []string{"z.txt", "b/x.go", "a.txt", "c/d/e.go"},
			expected: []string{
				"├── b/",
				"│   └── x.go",
				"├── c/",
				"│   └── d/",
				"│       └── e.go",
				"├── a.txt",
				"└── z.txt",
			},
		},
		{
			name:     "single_file",
			paths:    []string{"only.md"},
			expected: []string{"└── only.md"},
		},
		{
			name:     "empty",
			paths:    nil,
			expected: []string{"No files found"},
		},
		{
			name:     "dot_segments_ignored",
			paths:    []string{"./docs/./guide.md", "docs/guide.md"},
			expected: []string{"docs/", "└── guide.md"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := RenderTree(BuildTree(testCase.paths))
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("unexpected tree:\n%s\n--- want ---\n%s", strings.Join(actual, "\n"), strings.Join(testCase.expected, "\n"))
			}
		})
	}
}

func TestBuildTreeLeavesMatchInputs(t *testing.T) {
	paths := []string{"cmd/tool/main.go", "internal/a/a.go", "internal/a/a_test.go", "internal/b.go", "README.md", "docs/x/y/z.md"}
	leaves := BuildTree(paths).Leaves()

	sortedInputs := append([]string(nil), paths...)
	sort.Strings(sortedInputs)
	sortedLeaves := append([]string(nil), leaves...)
	sort.Strings(sortedLeaves)
	if !reflect.DeepEqual(sortedLeaves, sortedInputs) {
		t.Fatalf("leaves %v do not match inputs %v", sortedLeaves, sortedInputs)
	}
}

func TestRenderTreeIsOrderIndependent(t *testing.T) {
	forward := []string{"b/2.go", "a/1.go", "c.txt", "a/sub/3.go", "b/1.go"}
	reversed := make([]string, len(forward))
	for index, path := range forward {
		reversed[len(forward)-1-index] = path
	}
	if first, second := RenderTree(BuildTree(forward)), RenderTree(BuildTree(reversed)); !reflect.DeepEqual(first, second) {
		t.Fatalf("render depends on input order:\n%v\n%v", first, second)
	}
}

func TestBuildTreeDirectoryWinsOverFile(t *testing.T) {
	for _, paths := range [][]string{{"a", "a/b.go"}, {"a/b.go", "a"}} {
		root := BuildTree(paths)
		if root.Children["a"].IsLeaf() {
			t.Fatalf("expected a to be a directory for %v", paths)
		}
		if leaves := root.Leaves(); !reflect.DeepEqual(leaves, []string{"a/b.go"}) {
			t.Fatalf("unexpected leaves %v for %v", leaves, paths)
		}
	}
}

func TestSplitPath(t *testing.T) {
	testCases := map[string][]string{
		"a/b/c.go":   {"a", "b", "c.go"},
		"./a//b.go":  {"a", "b.go"},
		"/abs/x.txt": {"abs", "x.txt"},
		"":           nil,
	}
	for input, expected := range testCases {
		if actual := SplitPath(input); !reflect.DeepEqual(actual, expected) {
			t.Fatalf("SplitPath(%q) = %v, want %v", input, actual, expected)
		}
	}
}

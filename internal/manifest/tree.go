// Package manifest reconstructs the directory hierarchy implied by a list of
// file paths and groups those files into a category manifest.
package manifest

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix   = "/"
	pathSeparator     = "/"
	currentDirSegment = "."
	emptyTreeLine     = "No files found"
)

// TreeNode is either a directory holding named children or a leaf marking a file.
// Leaves have a nil Children map.
type TreeNode struct {
	Children map[string]*TreeNode
}

// IsLeaf reports whether the node represents a file.
func (node *TreeNode) IsLeaf() bool {
	return node == nil || node.Children == nil
}

func newDirectoryNode() *TreeNode {
	return &TreeNode{Children: make(map[string]*TreeNode)}
}

// BuildTree builds the hierarchy implied by paths. Only the supplied paths
// appear; directories are created for every segment except the last.
func BuildTree(paths []string) *TreeNode {
	root := newDirectoryNode()
	for _, path := range paths {
		segments := SplitPath(path)
		if len(segments) == 0 {
			continue
		}
		current := root
		for _, segment := range segments[:len(segments)-1] {
			child, exists := current.Children[segment]
			if !exists || child.IsLeaf() {
				child = newDirectoryNode()
				current.Children[segment] = child
			}
			current = child
		}
		fileName := segments[len(segments)-1]
		if _, exists := current.Children[fileName]; !exists {
			current.Children[fileName] = &TreeNode{}
		}
	}
	return root
}

// SplitPath converts a path into forward-slash segments, dropping empty and "." segments.
func SplitPath(path string) []string {
	normalizedPath := filepath.ToSlash(path)
	var segments []string
	for _, segment := range strings.Split(normalizedPath, pathSeparator) {
		if segment == "" || segment == currentDirSegment {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// Leaves returns the slash-joined path of every leaf below node in render order.
func (node *TreeNode) Leaves() []string {
	var leaves []string
	var walk func(current *TreeNode, prefix string)
	walk = func(current *TreeNode, prefix string) {
		for _, name := range orderedChildNames(current) {
			child := current.Children[name]
			childPath := name
			if prefix != "" {
				childPath = prefix + pathSeparator + name
			}
			if child.IsLeaf() {
				leaves = append(leaves, childPath)
				continue
			}
			walk(child, childPath)
		}
	}
	if !node.IsLeaf() {
		walk(node, "")
	}
	return leaves
}

// RenderTree renders the tree as box-drawing lines. A root holding a single
// directory is printed as a bare label with its children at the first level.
func RenderTree(root *TreeNode) []string {
	if root.IsLeaf() || len(root.Children) == 0 {
		return []string{emptyTreeLine}
	}
	if len(root.Children) == 1 {
		for name, child := range root.Children {
			if !child.IsLeaf() {
				lines := []string{name + directorySuffix}
				return append(lines, renderLevel(child, "")...)
			}
		}
	}
	return renderLevel(root, "")
}

func renderLevel(node *TreeNode, prefix string) []string {
	var lines []string
	names := orderedChildNames(node)
	for index, name := range names {
		child := node.Children[name]
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if index == len(names)-1 {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		if child.IsLeaf() {
			lines = append(lines, prefix+connector+name)
			continue
		}
		lines = append(lines, prefix+connector+name+directorySuffix)
		lines = append(lines, renderLevel(child, childPrefix)...)
	}
	return lines
}

// orderedChildNames lists directories before files, each group sorted by name.
func orderedChildNames(node *TreeNode) []string {
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Slice(names, func(left, right int) bool {
		leftIsFile := node.Children[names[left]].IsLeaf()
		rightIsFile := node.Children[names[right]].IsLeaf()
		if leftIsFile != rightIsFile {
			return !leftIsFile
		}
		return names[left] < names[right]
	})
	return names
}

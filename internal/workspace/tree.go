package workspace

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

type EnvTreeNode struct {
	Name     string
	Children []*EnvTreeNode
	File     string // relative path; empty for directories
}

// BuildEnvTree arranges slash-separated relative paths into a tree.
func BuildEnvTree(paths []string) *EnvTreeNode {
	root := &EnvTreeNode{Name: ".", Children: nil}

	for _, p := range paths {
		parts := strings.Split(filepath.ToSlash(p), "/")
		cur := root
		for i, part := range parts {
			if i == len(parts)-1 {
				cur.Children = append(cur.Children, &EnvTreeNode{Name: part, File: p})
				break
			}
			var next *EnvTreeNode
			for _, ch := range cur.Children {
				if ch.Name == part && ch.File == "" {
					next = ch
					break
				}
			}
			if next == nil {
				next = &EnvTreeNode{Name: part, Children: nil}
				cur.Children = append(cur.Children, next)
			}
			cur = next
		}
	}

	SortEnvTree(root)
	return root
}

// SortEnvTree orders files before directories, each by name.
func SortEnvTree(node *EnvTreeNode) {
	if len(node.Children) == 0 {
		return
	}

	sort.Slice(node.Children, func(i, j int) bool {
		ci, cj := node.Children[i], node.Children[j]
		fileI := ci.File != ""
		fileJ := cj.File != ""
		if fileI != fileJ {
			return fileI
		}
		return ci.Name < cj.Name
	})

	for _, ch := range node.Children {
		SortEnvTree(ch)
	}
}

// PrintEnvTree writes node with box-drawing connectors. label formats
// file leaves; directories print their name.
func PrintEnvTree(w io.Writer, node *EnvTreeNode, label func(*EnvTreeNode) string) {
	printEnvTree(w, node, "", true, label)
}

func printEnvTree(w io.Writer, node *EnvTreeNode, prefix string, last bool, label func(*EnvTreeNode) string) {
	if node.Name != "." {
		conn := "├─ "
		if last {
			conn = "└─ "
		}
		name := node.Name
		if node.File != "" && label != nil {
			name = label(node)
		}
		fmt.Fprintln(w, prefix+conn+name)
	}

	childPrefix := prefix
	if node.Name != "." {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}

	for i, ch := range node.Children {
		printEnvTree(w, ch, childPrefix, i == len(node.Children)-1, label)
	}
}

// IsEnvFilename matches .env and .env.<suffix>, except the .env.example
// template.
func IsEnvFilename(name string) bool {
	if name == ".env" {
		return true
	}
	if name == ".env.example" {
		return false
	}
	return strings.HasPrefix(name, ".env.") && len(name) > 5
}

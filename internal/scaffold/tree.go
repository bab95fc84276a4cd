package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PrintTree writes a directory tree of root to w, directories before
// files. Hidden entries are skipped except .gitignore.
func PrintTree(w io.Writer, root, prefix string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	var visible []os.DirEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") && e.Name() != ".gitignore" {
			continue
		}
		visible = append(visible, e)
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].IsDir() != visible[j].IsDir() {
			return visible[i].IsDir()
		}
		return visible[i].Name() < visible[j].Name()
	})

	for i, e := range visible {
		last := i == len(visible)-1
		connector := "├── "
		if last {
			connector = "└── "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, e.Name())

		if e.IsDir() {
			extension := "│   "
			if last {
				extension = "    "
			}
			if err := PrintTree(w, filepath.Join(root, e.Name()), prefix+extension); err != nil {
				return err
			}
		}
	}
	return nil
}

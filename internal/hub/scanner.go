package hub

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iamdantz/gemini-templates/internal/registry"
)

// DefaultIgnoredDirs are infrastructure directories never descended into
var DefaultIgnoredDirs = []string{"node_modules", ".git", "dist", "build", ".husky", "coverage"}

// Scanner collects content files below a root directory
type Scanner struct {
	ignored map[string]bool
	ext     string
}

// NewScanner creates a Scanner that skips DefaultIgnoredDirs and collects
// markdown files
func NewScanner() *Scanner {
	ignored := make(map[string]bool, len(DefaultIgnoredDirs))
	for _, d := range DefaultIgnoredDirs {
		ignored[d] = true
	}
	return &Scanner{ignored: ignored, ext: ".md"}
}

// Scan walks root and returns content files in lexical depth-first order.
// A file qualifies when it has the markdown extension and the root or one
// of the directories between root and the file is named after a category.
// Directories above root are not considered. Symlinked directories are not
// followed.
func (s *Scanner) Scan(root string) ([]string, error) {
	type entry struct {
		path  string
		isDir bool
	}

	var files []string
	stack := []entry{{path: root, isDir: true}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !cur.isDir {
			if s.matches(root, cur.path) {
				files = append(files, cur.path)
			}
			continue
		}

		entries, err := os.ReadDir(cur.path)
		if err != nil {
			return nil, err
		}

		// push in reverse so entries pop in directory order
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.IsDir() && s.ignored[e.Name()] {
				continue
			}
			stack = append(stack, entry{
				path:  filepath.Join(cur.path, e.Name()),
				isDir: e.IsDir(),
			})
		}
	}

	return files, nil
}

func (s *Scanner) matches(root, path string) bool {
	if !strings.HasSuffix(path, s.ext) {
		return false
	}

	dirs := []string{filepath.Base(root)}
	if rel, err := filepath.Rel(root, filepath.Dir(path)); err == nil && rel != "." {
		dirs = append(dirs, strings.Split(filepath.ToSlash(rel), "/")...)
	}
	for _, d := range dirs {
		if _, ok := registry.ParseCategory(d); ok {
			return true
		}
	}
	return false
}

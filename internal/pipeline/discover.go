package pipeline

import (
	"io/fs"
	"path/filepath"

	"github.com/backmassage/folio/internal/naming"
)

// Discover walks root depth-first in directory-listing (lexical) order and
// collects every file whose extension is .png, .jpg or .jpeg, compared
// case-insensitively. Any read error aborts the walk and is returned.
//
// A symlinked root is followed and the returned paths stay under root as
// given. Symlinked files inside the tree are included; symlinked
// directories are not descended into, so the walk cannot loop.
func Discover(root string) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !naming.IsSource(path) {
			return nil
		}
		if resolved != root {
			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return err
			}
			path = filepath.Join(root, rel)
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

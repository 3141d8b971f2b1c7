// Package confkit carries small configuration helpers shared by the service
// binaries: .env bootstrapping, path resolution relative to the main config
// file, and lazily hydrated config sections that live in their own files.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands environment variables in file and resolves it against
// base when relative. Absolute paths win over base.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// Section points at a config file to be parsed into T. The main config only
// names the file; Hydrate fills Value once the base directory is known.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads the section's file with loader, resolving it against base.
// An empty File leaves Value nil, which callers treat as "use defaults".
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}

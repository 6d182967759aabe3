// ==============================================================================================
// FILE: loader/loader.go
// ==============================================================================================
// PACKAGE: loader
// PURPOSE: SourceLoader is the external-collaborator interface the evaluator calls to resolve
//          an "import" statement's module name to source text. FileSystemLoader is
//          the default implementation: it checks a bundled stdlib directory first, then the
//          working directory, favoring an explicit search path over magic.
// ==============================================================================================

package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceLoader resolves an import name to Pith source text. Embedders
// can supply their own (e.g. backed by an in-memory bundle or a
// network fetch) instead of FileSystemLoader.
type SourceLoader interface {
	// Load returns the source text for name, or an error if no matching
	// source could be found.
	Load(name string) (string, error)
}

// FileSystemLoader looks for "<name>.pith" under a stdlib directory
// first, then under a configured search path of ordinary directories,
// and finally in the working directory.
type FileSystemLoader struct {
	StdlibDir   string
	SearchPaths []string
}

// NewFileSystemLoader builds a loader rooted at stdlibDir, falling back
// to searchPaths in order and then to the working directory.
func NewFileSystemLoader(stdlibDir string, searchPaths ...string) *FileSystemLoader {
	return &FileSystemLoader{StdlibDir: stdlibDir, SearchPaths: searchPaths}
}

func (f *FileSystemLoader) Load(name string) (string, error) {
	candidates := make([]string, 0, len(f.SearchPaths)+1)
	if f.StdlibDir != "" {
		candidates = append(candidates, filepath.Join(f.StdlibDir, name+".pith"))
	}
	for _, dir := range f.SearchPaths {
		candidates = append(candidates, filepath.Join(dir, name+".pith"))
	}
	candidates = append(candidates, name+".pith")

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("loader: reading %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("loader: module %q not found (searched %v)", name, candidates)
}

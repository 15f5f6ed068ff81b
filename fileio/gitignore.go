package fileio

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName lists paths of a metadata tree that are not components, in gitignore syntax
const IgnoreFileName = ".helixignore"

var ignoreDefaults = []string{
	// Defaults (can be overridden with a negating pattern preceded with !)

	// Exclude Git metadata
	".git/**",
	".gitattributes",
	".gitignore",

	// Exclude macOS metadata
	".DS_Store",

	// Exclude helixmeta's own files
	IgnoreFileName,
	"/helixmeta.toml",
	"/index.toml",
}

// readIgnore compiles the defaults plus the patterns of path. A missing file is not an error.
func readIgnore(path string) (*gitignore.GitIgnore, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gitignore.CompileIgnoreLines(ignoreDefaults...), false, nil
		}
		return nil, false, err
	}

	s := strings.Split(string(data), "\n")
	var lines []string
	lines = append(lines, ignoreDefaults...)
	lines = append(lines, s...)
	return gitignore.CompileIgnoreLines(lines...), true, nil
}

package fileio

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/leocov-dev/helixmeta/core"
)

// ScanComponents lists the component files below root as forward slash paths relative
// to root, skipping everything matched by the .helixignore file.
func ScanComponents(root string, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Default()
	}

	ignore, found, err := readIgnore(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	if found {
		logger.Debug("using ignore file", "path", filepath.Join(root, IgnoreFileName))
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignore.MatchesPath(rel + "/") {
				logger.Debug("skipping ignored directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if path.Ext(rel) != ".json" {
			return nil
		}
		if ignore.MatchesPath(rel) {
			logger.Debug("skipping ignored file", "path", rel)
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// BuildIndex loads every component below root into a new index that will be written
// to <root>/index.toml. Two files declaring the same id and version are an error.
func BuildIndex(root string, logger *log.Logger) (core.Index, error) {
	if logger == nil {
		logger = log.Default()
	}

	files, err := ScanComponents(root, logger)
	if err != nil {
		return core.Index{}, err
	}

	index := core.NewIndex()
	index.SetFilePath(filepath.Join(root, core.IndexFileName))

	for _, file := range files {
		c, err := LoadComponent(filepath.Join(root, filepath.FromSlash(file)))
		if err != nil {
			return core.Index{}, err
		}
		if existing, ok := index.Find(c.ID, c.Version); ok {
			return core.Index{}, &DuplicateComponentError{ID: c.ID, Version: c.Version, Files: []string{existing.File, file}}
		}
		if err := index.AddComponent(c, file); err != nil {
			return core.Index{}, err
		}
		logger.Debug("indexed component", "id", c.ID, "version", c.Version, "file", file)
	}

	logger.Info("built index", "components", len(index.IDs()), "files", len(files))
	return index, nil
}

// DuplicateComponentError is returned when two files describe the same component version
type DuplicateComponentError struct {
	ID      string
	Version string
	Files   []string
}

func (e *DuplicateComponentError) Error() string {
	return "component " + e.ID + " " + e.Version + " is defined by both " + e.Files[0] + " and " + e.Files[1]
}

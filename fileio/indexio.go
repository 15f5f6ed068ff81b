package fileio

import (
	"fmt"
	"os"

	"github.com/leocov-dev/helixmeta/core"
)

// LoadIndex reads an index.toml file
func LoadIndex(indexFile string) (core.Index, error) {
	raw, err := os.ReadFile(indexFile)
	if err != nil {
		return core.Index{}, err
	}
	index, err := core.UnmarshalIndex(raw)
	if err != nil {
		return core.Index{}, fmt.Errorf("%s: %w", indexFile, err)
	}
	index.SetFilePath(indexFile)
	return index, nil
}

// WriteIndex writes the index back to the file it was loaded from or built for
func WriteIndex(index *core.Index) (core.MarshalResult, error) {
	if index.GetFilePath() == "" {
		return core.MarshalResult{}, fmt.Errorf("index has no file path")
	}
	return Write(index.GetFilePath(), index)
}

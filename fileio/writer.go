package fileio

import (
	"github.com/leocov-dev/helixmeta/core"
)

// Write stores the canonical form of obj at path, creating parent directories as needed
func Write(path string, obj core.HashableObject) (core.MarshalResult, error) {
	result, err := obj.Marshal()
	if err != nil {
		return result, err
	}

	f, err := CreateFile(path)
	if err != nil {
		return result, err
	}
	defer f.Close()

	if _, err := f.Write(result.Value); err != nil {
		return result, err
	}

	return result, nil
}

package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leocov-dev/helixmeta/core"
)

// ComponentPath is where a component lives inside a metadata tree: <root>/<id>/<version>.json
func ComponentPath(root, id, version string) string {
	return filepath.Join(root, id, version+".json")
}

// LoadComponent reads, decodes and validates a component file
func LoadComponent(path string) (core.Component, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return core.Component{}, err
	}
	c, err := core.UnmarshalComponent(raw)
	if err != nil {
		return core.Component{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return core.Component{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteComponent validates c and writes it to its place under root
func WriteComponent(root string, c core.Component) (string, core.MarshalResult, error) {
	if err := c.Validate(); err != nil {
		return "", core.MarshalResult{}, err
	}
	path := ComponentPath(root, c.ID, c.Version)
	result, err := Write(path, c)
	if err != nil {
		return "", result, fmt.Errorf("failed to write component %s %s: %w", c.ID, c.Version, err)
	}
	return path, result, nil
}

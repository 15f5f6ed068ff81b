package helixmeta

import (
	"fmt"
	"path/filepath"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
)

// Tree is a metadata tree assembled in memory, e.g. by a generator, before it is written out
type Tree struct {
	components map[string]map[string]core.Component
}

func NewTree() *Tree {
	return &Tree{components: make(map[string]map[string]core.Component)}
}

// SetComponent adds c, replacing an earlier component with the same id and version
func (t *Tree) SetComponent(c core.Component) error {
	if err := c.Validate(); err != nil {
		return err
	}
	versions, ok := t.components[c.ID]
	if !ok {
		versions = make(map[string]core.Component)
		t.components[c.ID] = versions
	}
	versions[c.Version] = c
	return nil
}

func (t *Tree) Component(id, version string) (core.Component, bool) {
	c, ok := t.components[id][version]
	return c, ok
}

// AsComponentJSON returns the canonical file content of a component and its hash
func (t *Tree) AsComponentJSON(id, version string) (string, string, error) {
	c, ok := t.Component(id, version)
	if !ok {
		return "", "", fmt.Errorf("component %s %s not found", id, version)
	}
	result, err := c.Marshal()
	if err != nil {
		return "", "", err
	}
	return result.String(), result.Hash, nil
}

// AsIndexToml renders the index the tree would have once written
func (t *Tree) AsIndexToml() (string, string, error) {
	index, err := t.index()
	if err != nil {
		return "", "", err
	}
	result, err := index.Marshal()
	if err != nil {
		return "", "", err
	}
	return result.String(), result.Hash, nil
}

// WriteTo writes every component and the index below root
func (t *Tree) WriteTo(root string) (core.Index, error) {
	for _, versions := range t.components {
		for _, c := range versions {
			if _, _, err := fileio.WriteComponent(root, c); err != nil {
				return core.Index{}, err
			}
		}
	}

	index, err := t.index()
	if err != nil {
		return core.Index{}, err
	}
	index.SetFilePath(filepath.Join(root, core.IndexFileName))
	if _, err := fileio.WriteIndex(&index); err != nil {
		return core.Index{}, err
	}
	return index, nil
}

func (t *Tree) index() (core.Index, error) {
	index := core.NewIndex()
	for id, versions := range t.components {
		for version, c := range versions {
			if err := index.AddComponent(c, id+"/"+version+".json"); err != nil {
				return core.Index{}, err
			}
		}
	}
	return index, nil
}

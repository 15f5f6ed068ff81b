package core

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/unascribed/FlexVer/go/flexver"
)

// IndexFileName is the name of the index written at the root of a metadata tree
const IndexFileName = "index.toml"

// Index lists the component files of a metadata tree, grouped by component id.
// Entries of a component are kept newest first.
type Index struct {
	Components map[string][]IndexEntry `toml:"components"`

	filePath string
}

// IndexEntry points at one component file
type IndexEntry struct {
	Version string `toml:"version"`
	// File is stored in forward slash format relative to the index
	File        string    `toml:"file"`
	HashFormat  string    `toml:"hash-format"`
	Hash        string    `toml:"hash"`
	ReleaseTime time.Time `toml:"release-time"`
}

func NewIndex() Index {
	return Index{Components: make(map[string][]IndexEntry)}
}

// AddComponent records a component stored at file, replacing an existing entry for the same version
func (in *Index) AddComponent(c Component, file string) error {
	result, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to hash component %s %s: %w", c.ID, c.Version, err)
	}
	in.Add(c.ID, IndexEntry{
		Version:     c.Version,
		File:        file,
		HashFormat:  result.HashFormat,
		Hash:        result.Hash,
		ReleaseTime: c.ReleaseTime.UTC(),
	})
	return nil
}

func (in *Index) Add(id string, entry IndexEntry) {
	if in.Components == nil {
		in.Components = make(map[string][]IndexEntry)
	}
	entries := in.Components[id]
	replaced := false
	for i := range entries {
		if entries[i].Version == entry.Version {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	sortEntries(entries)
	in.Components[id] = entries
}

// sortEntries orders by version, newest first, falling back to release time for equal versions
func sortEntries(entries []IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if flexver.Less(b.Version, a.Version) {
			return true
		}
		if flexver.Less(a.Version, b.Version) {
			return false
		}
		return a.ReleaseTime.After(b.ReleaseTime)
	})
}

// IDs returns the component ids in lexical order
func (in *Index) IDs() []string {
	ids := make([]string, 0, len(in.Components))
	for id := range in.Components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Versions returns the known versions of a component, newest first
func (in *Index) Versions(id string) []string {
	entries := in.Components[id]
	versions := make([]string, len(entries))
	for i, e := range entries {
		versions[i] = e.Version
	}
	return versions
}

func (in *Index) Latest(id string) (IndexEntry, bool) {
	entries := in.Components[id]
	if len(entries) == 0 {
		return IndexEntry{}, false
	}
	return entries[0], true
}

func (in *Index) Find(id, version string) (IndexEntry, bool) {
	for _, e := range in.Components[id] {
		if e.Version == version {
			return e, true
		}
	}
	return IndexEntry{}, false
}

func (in *Index) GetFilePath() string {
	return in.filePath
}

func (in *Index) SetFilePath(path string) {
	in.filePath = path
}

func (in *Index) Marshal() (MarshalResult, error) {
	result := MarshalResult{
		HashFormat: string(HashSHA256),
	}

	var err error
	result.Value, err = toml.Marshal(in)
	if err != nil {
		return result, err
	}

	stringer, err := GetHashImpl(result.HashFormat)
	if err != nil {
		return result, err
	}
	if _, err := stringer.Write(result.Value); err != nil {
		return result, err
	}
	result.Hash = stringer.String()

	return result, nil
}

// UnmarshalIndex decodes an index.toml document, rejecting unknown keys
func UnmarshalIndex(data []byte) (Index, error) {
	var in Index
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return Index{}, err
	}
	if in.Components == nil {
		in.Components = make(map[string][]IndexEntry)
	}
	for _, entries := range in.Components {
		sortEntries(entries)
	}
	return in, nil
}

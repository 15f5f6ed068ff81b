package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// VersionManifestURL lists every game version Mojang publishes
const VersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

type versionManifestJson struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []GameVersion `json:"versions"`
}

// GameVersion is one entry of the version manifest. URL points at the version's own
// metadata, the source of a net.minecraft component.
type GameVersion struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	SHA1        string    `json:"sha1,omitempty"`
	ReleaseTime time.Time `json:"releaseTime"`
}

type VersionManifest struct {
	Latest         string
	LatestSnapshot string
	// Versions are newest first, as published
	Versions []GameVersion
}

// Releases drops snapshots and old alpha/beta versions
func (m VersionManifest) Releases() []GameVersion {
	var releases []GameVersion
	for _, v := range m.Versions {
		if v.Type == "release" {
			releases = append(releases, v)
		}
	}
	return releases
}

func (m VersionManifest) Find(id string) (GameVersion, bool) {
	for _, v := range m.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return GameVersion{}, false
}

// FetchVersionManifest reads the game version manifest at url, usually VersionManifestURL
func FetchVersionManifest(ctx context.Context, url string) (VersionManifest, error) {
	resp, err := GetWithUA(ctx, url, "application/json")
	if err != nil {
		return VersionManifest{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return VersionManifest{}, err
	}

	var info versionManifestJson
	if err := json.Unmarshal(body, &info); err != nil {
		return VersionManifest{}, fmt.Errorf("failed to parse version manifest: %w", err)
	}

	return VersionManifest{
		Latest:         info.Latest.Release,
		LatestSnapshot: info.Latest.Snapshot,
		Versions:       info.Versions,
	}, nil
}

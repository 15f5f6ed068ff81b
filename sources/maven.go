package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/unascribed/FlexVer/go/flexver"
	"golang.org/x/sync/errgroup"

	"github.com/leocov-dev/helixmeta/core"
)

// ErrNoContentLength is returned when a repository answers a HEAD request without a Content-Length
var ErrNoContentLength = errors.New("server returned no content length")

// Library is an artifact hosted in a maven repository
type Library struct {
	Name core.GradleSpecifier `json:"name" toml:"name"`
	// URL is the repository base and must end with a slash
	URL string `json:"url" toml:"url"`
}

func (l Library) ArtifactURL() string {
	return l.Name.ToURL(l.URL)
}

// FetchHash reads the sha256 the repository publishes next to the artifact
func FetchHash(ctx context.Context, lib Library) (core.Hash, error) {
	resp, err := GetWithUA(ctx, lib.ArtifactURL()+".sha256", "text/plain")
	if err != nil {
		return core.Hash{}, fmt.Errorf("failed to fetch hash of %s: %w", lib.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Hash{}, fmt.Errorf("failed to read hash of %s: %w", lib.Name, err)
	}

	// some repositories use the sha256sum format: "<hash>  <file name>"
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return core.Hash{}, fmt.Errorf("empty hash file for %s", lib.Name)
	}
	return core.SHA256(strings.ToLower(fields[0])), nil
}

// FetchSize reads the artifact size from the Content-Length of a HEAD request
func FetchSize(ctx context.Context, lib Library) (uint64, error) {
	resp, err := HeadWithUA(ctx, lib.ArtifactURL())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch size of %s: %w", lib.Name, err)
	}
	defer resp.Body.Close()

	length := resp.Header.Get("Content-Length")
	if length == "" {
		return 0, fmt.Errorf("%s: %w", lib.Name, ErrNoContentLength)
	}
	size, err := strconv.ParseUint(length, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid content length %q: %w", lib.Name, length, err)
	}
	return size, nil
}

// FetchDownload builds a download entry from the published hash and the reported size
func FetchDownload(ctx context.Context, lib Library) (core.Download, error) {
	var hash core.Hash
	var size uint64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hash, err = FetchHash(ctx, lib)
		return err
	})
	g.Go(func() (err error) {
		size, err = FetchSize(ctx, lib)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Download{}, err
	}

	return core.Download{
		Name: lib.Name,
		URL:  lib.ArtifactURL(),
		Size: size,
		Hash: hash,
	}, nil
}

// OpenArtifact starts downloading an artifact. total is -1 when the size is unknown.
func OpenArtifact(ctx context.Context, lib Library) (body io.ReadCloser, total int64, err error) {
	resp, err := GetWithUA(ctx, lib.ArtifactURL(), "")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to download %s: %w", lib.Name, err)
	}
	return resp.Body, resp.ContentLength, nil
}

// ProgressFunc wraps an artifact body while it is read, e.g. to drive a progress bar
type ProgressFunc func(name string, total int64, body io.ReadCloser) io.ReadCloser

// ComputeDownload downloads the artifact and builds its download entry from the
// actual bytes, for repositories that publish no .sha256 files.
func ComputeDownload(ctx context.Context, lib Library, progress ProgressFunc) (core.Download, error) {
	body, total, err := OpenArtifact(ctx, lib)
	if err != nil {
		return core.Download{}, err
	}
	if progress != nil {
		body = progress(lib.Name.String(), total, body)
	}
	defer body.Close()

	hasher, err := core.GetHashImpl(string(core.HashSHA256))
	if err != nil {
		return core.Download{}, err
	}
	length := &core.LengthHasher{}
	if _, err := io.Copy(io.MultiWriter(hasher, length), body); err != nil {
		return core.Download{}, fmt.Errorf("failed to download %s: %w", lib.Name, err)
	}

	return core.Download{
		Name: lib.Name,
		URL:  lib.ArtifactURL(),
		Size: length.Length(),
		Hash: core.SHA256(hasher.String()),
	}, nil
}

type mavenXmlMetadata struct {
	Versioning struct {
		Latest   string `xml:"latest"`
		Release  string `xml:"release"`
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}

// MetadataURL is the location of maven-metadata.xml for group:artifact in repo
func MetadataURL(repo, group, artifact string) string {
	return repo + strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/maven-metadata.xml"
}

// FetchMavenVersions lists the versions of group:artifact published in repo, newest first.
// Versions matching exclude (a regexp2 pattern, empty to keep everything) are skipped.
func FetchMavenVersions(ctx context.Context, repo, group, artifact, exclude string) ([]string, error) {
	var expr *regexp2.Regexp
	if exclude != "" {
		var err error
		expr, err = regexp2.Compile(exclude, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
	}

	resp, err := GetWithUA(ctx, MetadataURL(repo, group, artifact), "application/xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var metadata mavenXmlMetadata
	if err := xml.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse maven metadata for %s:%s: %w", group, artifact, err)
	}

	seen := make(map[string]bool)
	var versions []string
	for _, version := range metadata.Versioning.Versions.Version {
		version = strings.TrimSpace(version)
		if version == "" || seen[version] {
			continue
		}
		seen[version] = true
		if expr != nil {
			if excluded, _ := expr.MatchString(version); excluded {
				continue
			}
		}
		versions = append(versions, version)
	}

	SortDescending(versions)
	return versions, nil
}

// SortDescending orders versions newest first using FlexVer
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return flexver.Less(versions[j], versions[i])
	})
}

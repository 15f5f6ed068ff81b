package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/sources"
)

func quiltLoader() core.Component {
	loader := core.MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0")
	natives := core.MustParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1:natives-linux")
	return core.Component{
		FormatVersion: core.CurrentFormatVersion,
		ID:            "org.quiltmc.quilt-loader",
		Version:       "0.20.0",
		Requires:      []core.ComponentDependency{{ID: "net.fabricmc.intermediary"}},
		Traits:        core.NewTraitSet(core.SupportsQuickPlayWorld),
		Downloads: []core.Download{{
			Name: loader,
			URL:  loader.ToURL("https://maven.quiltmc.org/repository/release/"),
			Size: 1234,
			Hash: core.SHA256("abc"),
		}},
		MainClass: "org.quiltmc.loader.impl.launch.knot.KnotClient",
		GameArguments: []core.Argument{
			core.AlwaysArgument("--username"),
			core.ConditionalArgument("--demo", core.FeatureDemo),
		},
		Classpath: []core.ClasspathEntry{
			core.ClasspathAll(loader),
			core.ClasspathPlatform(natives, core.Platform{OS: core.OsList{core.OsLinux}}),
		},
		ReleaseTime: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateFiles(t *testing.T) {
	root := t.TempDir()
	good, _, err := fileio.WriteComponent(root, quiltLoader())
	require.NoError(t, err)

	bad := filepath.Join(root, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"format_version":2}`), 0o644))

	var out bytes.Buffer
	failed := validateFiles(&out, []string{good, bad})
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "ok   "+good+" (org.quiltmc.quilt-loader 0.20.0)")
	assert.Contains(t, out.String(), "FAIL "+bad)
	assert.Contains(t, out.String(), "UnsupportedFormat")
}

func TestPrintCoordinate(t *testing.T) {
	spec := core.MustParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1:natives-linux")

	var out bytes.Buffer
	printCoordinate(&out, spec, spec.ToURL("https://libraries.minecraft.net/"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Group:       org.lwjgl",
		"Artifact:    lwjgl",
		"Version:     3.3.1",
		"Classifier:  natives-linux",
		"Extension:   jar",
		"Notation:    org.lwjgl:lwjgl:3.3.1:natives-linux",
		"URL:         https://libraries.minecraft.net/org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar",
	}, lines)
}

func TestHumanName(t *testing.T) {
	assert.Equal(t, "Supports Quick Play World", humanName(core.SupportsQuickPlayWorld.KebabName()))
	assert.Equal(t, "Custom Resolution", humanName(string(core.FeatureCustomResolution)))
}

func TestDescribeComponent(t *testing.T) {
	c := quiltLoader()

	var linux bytes.Buffer
	describeComponent(&linux, c, core.Host{OS: core.OsLinux, Arch: core.ArchX86_64}, nil)
	assert.Contains(t, linux.String(), "org.quiltmc.quilt-loader 0.20.0")
	assert.Contains(t, linux.String(), "2023-06-01T12:00:00Z")
	assert.Contains(t, linux.String(), "Supports Quick Play World")
	assert.Contains(t, linux.String(), "net.fabricmc.intermediary")
	assert.Contains(t, linux.String(), "org.lwjgl:lwjgl:3.3.1:natives-linux")
	assert.Contains(t, linux.String(), "(1234 bytes)")
	assert.Contains(t, linux.String(), "--demo")

	var mac bytes.Buffer
	describeComponent(&mac, c, core.Host{OS: core.OsOsx, Arch: core.ArchArm64}, []core.ConditionFeature{core.FeatureDemo})
	assert.NotContains(t, mac.String(), "natives-linux")
	assert.Contains(t, mac.String(), "--demo")
	assert.NotContains(t, mac.String(), "Optional arguments")
}

func TestDescribeHost(t *testing.T) {
	host, err := describeHost("windows", "x86")
	require.NoError(t, err)
	assert.Equal(t, core.Host{OS: core.OsWindows, Arch: core.ArchX86}, host)

	_, err = describeHost("beos", "x86")
	assert.Error(t, err)
}

func TestIndexChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), core.IndexFileName)
	built := core.MarshalResult{Value: []byte("[components]\n")}

	changed, err := indexChanged(path, built)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.WriteFile(path, built.Value, 0o644))
	changed, err = indexChanged(path, built)
	require.NoError(t, err)
	assert.False(t, changed)
}

func newArtifactServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ".sha256"):
			_, _ = io.WriteString(w, "916f0027a575074ce72a331777c3478d6513f786a591bd892da1a577bf2335f9")
		case r.Method == http.MethodHead:
			w.Header().Set("Content-Length", "9")
		default:
			_, _ = io.WriteString(w, "test data")
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchDownloads(t *testing.T) {
	server := newArtifactServer(t)
	libs := []sources.Library{
		{Name: core.MustParseGradleSpecifier("a.b:c:1"), URL: server.URL + "/"},
		{Name: core.MustParseGradleSpecifier("a.b:d:2"), URL: server.URL + "/"},
	}

	for _, compute := range []bool{false, true} {
		downloads, err := fetchDownloads(context.Background(), libs, compute, io.Discard)
		require.NoError(t, err)
		require.Len(t, downloads, 2)
		assert.Equal(t, "a.b:c:1", downloads[0].Name.String())
		assert.Equal(t, "a.b:d:2", downloads[1].Name.String())
		for _, dl := range downloads {
			assert.Equal(t, uint64(9), dl.Size)
			assert.Equal(t, core.SHA256("916f0027a575074ce72a331777c3478d6513f786a591bd892da1a577bf2335f9"), dl.Hash)
		}
	}
}

func TestWriteDownloads(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeDownloads(&out, []core.Download{{
		Name: core.MustParseGradleSpecifier("a.b:c:1"),
		URL:  "https://repo/a/b/c/1/c-1.jar?x=1&y=2",
		Size: 9,
		Hash: core.SHA1("abc"),
	}}))

	assert.Contains(t, out.String(), `"url": "https://repo/a/b/c/1/c-1.jar?x=1&y=2"`)
	assert.Contains(t, out.String(), `"sha1": "abc"`)
}

func TestPrintGameVersions(t *testing.T) {
	index := core.NewIndex()
	index.Add(GameComponentID, core.IndexEntry{Version: "1.20"})

	var out bytes.Buffer
	printGameVersions(&out, []sources.GameVersion{
		{ID: "1.20", Type: "release", ReleaseTime: time.Date(2023, 6, 2, 8, 36, 17, 0, time.UTC)},
		{ID: "1.19.4", Type: "release", ReleaseTime: time.Date(2023, 3, 14, 12, 56, 18, 0, time.UTC)},
	}, index)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"1.20    release  2023-06-02  indexed",
		"1.19.4  release  2023-03-14  missing",
	}, lines)
}

func TestLoadSettings(t *testing.T) {
	logger := log.New(io.Discard)
	dir := t.TempDir()

	require.NoError(t, loadSettings(logger, filepath.Join(dir, "missing.toml"), false))
	assert.Error(t, loadSettings(logger, filepath.Join(dir, "missing.toml"), true))

	path := filepath.Join(dir, "helixmeta.toml")
	require.NoError(t, os.WriteFile(path, []byte("default-repository = \"mojang\"\n"), 0o644))
	require.NoError(t, loadSettings(logger, path, true))

	repo, err := settings.Repository("")
	require.NoError(t, err)
	assert.Equal(t, "https://libraries.minecraft.net/", repo.URL)
}

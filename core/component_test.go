package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bradleyjkemp/cupaloy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snapshotter = cupaloy.New(cupaloy.FailOnUpdate(false))

var releaseTime = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleComponent() Component {
	return Component{
		FormatVersion: 1,
		ID:            "org.quiltmc.quilt-loader",
		Version:       "0.20.0",
		Requires: []ComponentDependency{
			{ID: "net.fabricmc.intermediary", Version: "1.19.4"},
		},
		Traits: NewTraitSet(SupportsQuickPlayWorld, MacStartOnFirstThread),
		Downloads: []Download{
			{
				Name: MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0"),
				URL:  "https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-loader/0.20.0/quilt-loader-0.20.0.jar",
				Size: 1234,
				Hash: SHA256("abc"),
			},
		},
		MainClass: "org.quiltmc.loader.impl.launch.knot.KnotClient",
		GameArguments: []Argument{
			AlwaysArgument("--quickPlaySingleplayer"),
			ConditionalArgument("${quickPlaySingleplayer}", FeatureQuickPlayWorld),
		},
		Classpath: []ClasspathEntry{
			ClasspathAll(MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0")),
			ClasspathPlatform(MustParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1:natives-linux"), Platform{OS: OsList{OsLinux}}),
		},
		Natives: []Native{
			{
				Name:       MustParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1:natives-macos"),
				Platform:   Platform{OS: OsList{OsOsx}, Arch: ArchArm64},
				Exclusions: []string{"META-INF/"},
			},
		},
		ReleaseTime: releaseTime,
	}
}

const sampleComponentJSON = `{"format_version":1,"id":"org.quiltmc.quilt-loader","version":"0.20.0",` +
	`"requires":[{"id":"net.fabricmc.intermediary","version":"1.19.4"}],` +
	`"traits":["MacStartOnFirstThread","SupportsQuickPlayWorld"],` +
	`"downloads":[{"name":"org.quiltmc:quilt-loader:0.20.0","url":"https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-loader/0.20.0/quilt-loader-0.20.0.jar","size":1234,"hash":{"sha256":"abc"}}],` +
	`"main_class":"org.quiltmc.loader.impl.launch.knot.KnotClient",` +
	`"game_arguments":["--quickPlaySingleplayer",{"value":"${quickPlaySingleplayer}","feature":"quick_play_world"}],` +
	`"classpath":["org.quiltmc:quilt-loader:0.20.0",{"name":"org.lwjgl:lwjgl:3.3.1:natives-linux","platform":{"os":["linux"]}}],` +
	`"natives":[{"name":"org.lwjgl:lwjgl:3.3.1:natives-macos","platform":{"os":["osx"],"arch":"arm64"},"exclusions":["META-INF/"]}],` +
	`"release_time":"2023-06-01T12:00:00Z"}`

func minimalComponent() Component {
	return Component{
		FormatVersion: 1,
		ID:            "net.minecraft",
		Version:       "1.19.4",
		ReleaseTime:   releaseTime,
	}
}

func requireSchemaError(t *testing.T, err error, kind SchemaErrorKind, path string) *SchemaError {
	t.Helper()
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "expected a SchemaError, got %v", err)
	assert.Equal(t, kind, schemaErr.Kind, schemaErr.Error())
	if path != "" {
		assert.Equal(t, path, schemaErr.Path)
	}
	return schemaErr
}

func TestComponentMarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleComponent())
	require.NoError(t, err)
	assert.Equal(t, sampleComponentJSON, string(data))
}

func TestComponentRoundTrip(t *testing.T) {
	decoded, err := UnmarshalComponent([]byte(sampleComponentJSON))
	require.NoError(t, err)
	assert.Equal(t, sampleComponent(), decoded)

	var viaJSON Component
	require.NoError(t, json.Unmarshal([]byte(sampleComponentJSON), &viaJSON))
	assert.Equal(t, decoded, viaJSON)

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, sampleComponentJSON, string(again))
}

func TestComponentCanonicalSnapshot(t *testing.T) {
	result, err := sampleComponent().Marshal()
	require.NoError(t, err)

	assert.Equal(t, "sha256", result.HashFormat)
	assert.Len(t, result.Hash, 64)
	assert.True(t, strings.HasPrefix(result.String(), "{\n  \"format_version\": 1,\n"))
	assert.True(t, strings.HasSuffix(result.String(), "}\n"))
	assert.JSONEq(t, sampleComponentJSON, result.String())

	snapshotter.SnapshotT(t, result.String(), result.Hash)
}

func TestComponentOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(minimalComponent())
	require.NoError(t, err)
	assert.Equal(t, `{"format_version":1,"id":"net.minecraft","version":"1.19.4","release_time":"2023-06-01T12:00:00Z"}`, string(data))

	withEmptyLists := minimalComponent()
	withEmptyLists.Requires = []ComponentDependency{}
	withEmptyLists.Classpath = []ClasspathEntry{}
	data, err = json.Marshal(withEmptyLists)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "requires")
	assert.NotContains(t, string(data), "classpath")
}

func TestComponentMissingListsDecodeEmpty(t *testing.T) {
	c, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"net.minecraft","version":"1.19.4","release_time":"2023-06-01T12:00:00Z"}`))
	require.NoError(t, err)

	assert.Empty(t, c.Requires)
	assert.Empty(t, c.Conflicts)
	assert.Empty(t, c.Before)
	assert.Empty(t, c.After)
	assert.Empty(t, c.Provides)
	assert.True(t, c.Traits.IsEmpty())
	assert.Nil(t, c.Assets)
	assert.Empty(t, c.Downloads)
	assert.Empty(t, c.JarMods)
	assert.Nil(t, c.GameJar)
	assert.Equal(t, "", c.MainClass)
	assert.Empty(t, c.GameArguments)
	assert.Empty(t, c.Classpath)
	assert.Empty(t, c.Natives)
	assert.Equal(t, minimalComponent(), c)
}

func TestComponentNullOptionalIsAbsent(t *testing.T) {
	c, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","game_jar":null,"assets":null,"release_time":"2023-06-01T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Nil(t, c.GameJar)
	assert.Nil(t, c.Assets)
}

func TestComponentTraitOrderIsStable(t *testing.T) {
	a := minimalComponent()
	a.Traits = NewTraitSet(SupportsQuickPlayWorld, SupportsCustomResolution, MacStartOnFirstThread)
	b := minimalComponent()
	b.Traits = NewTraitSet(MacStartOnFirstThread, SupportsQuickPlayWorld, SupportsCustomResolution)

	ra, err := a.Marshal()
	require.NoError(t, err)
	rb, err := b.Marshal()
	require.NoError(t, err)

	assert.Equal(t, ra.Value, rb.Value)
	assert.Equal(t, ra.Hash, rb.Hash)
}

func TestComponentAssetsAndJarMods(t *testing.T) {
	input := `{"format_version":1,"id":"net.minecraft","version":"1.19.4",` +
		`"assets":{"id":"3","url":"https://piston-meta.mojang.com/v1/packages/x/3.json","sha1":"x","size":412000,"total_size":5000000000},` +
		`"jarmods":["com.example:jarmod:1.0"],"game_jar":"com.mojang:minecraft:1.19.4:client",` +
		`"release_time":"2023-06-01T12:00:00Z"}`

	c, err := UnmarshalComponent([]byte(input))
	require.NoError(t, err)

	require.NotNil(t, c.Assets)
	assert.Equal(t, uint64(5000000000), c.Assets.TotalSize)
	assert.Equal(t, []GradleSpecifier{MustParseGradleSpecifier("com.example:jarmod:1.0")}, c.JarMods)
	require.NotNil(t, c.GameJar)
	assert.Equal(t, "client", c.GameJar.Classifier)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

func TestComponentReleaseTimeIsUTC(t *testing.T) {
	c, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T14:00:00+02:00"}`))
	require.NoError(t, err)
	assert.True(t, releaseTime.Equal(c.ReleaseTime))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"release_time":"2023-06-01T12:00:00Z"`)
}

func TestComponentStrictSchema(t *testing.T) {
	t.Run("Unknown top level field", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","homepage":"x"}`))
		requireSchemaError(t, err, UnknownField, "homepage")
	})

	t.Run("Suggests the closest field", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","mainclass":"x"}`))
		schemaErr := requireSchemaError(t, err, UnknownField, "mainclass")
		assert.Contains(t, schemaErr.Detail, `did you mean "main_class"?`)
	})

	t.Run("Unknown nested field", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","requires":[{"id":"b","versoin":"1"}]}`))
		requireSchemaError(t, err, UnknownField, "requires[0].versoin")
	})

	t.Run("Not an object", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`[1, 2]`))
		requireSchemaError(t, err, InvalidVariant, "")
	})
}

func TestComponentRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"format_version", `{"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z"}`, "format_version"},
		{"id", `{"format_version":1,"version":"1","release_time":"2023-06-01T12:00:00Z"}`, "id"},
		{"version", `{"format_version":1,"id":"a","release_time":"2023-06-01T12:00:00Z"}`, "version"},
		{"release_time", `{"format_version":1,"id":"a","version":"1"}`, "release_time"},
		{"dependency id", `{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","after":[{"version":"1"}]}`, "after[0].id"},
		{"download hash", `{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","downloads":[{"name":"a:b:c","url":"u","size":1}]}`, "downloads[0].hash"},
		{"native platform", `{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","natives":[{"name":"a:b:c"}]}`, "natives[0].platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalComponent([]byte(tt.input))
			requireSchemaError(t, err, MissingField, tt.path)
		})
	}
}

func TestComponentFormatVersion(t *testing.T) {
	for _, version := range []string{"0", "2"} {
		t.Run(version, func(t *testing.T) {
			_, err := UnmarshalComponent([]byte(`{"format_version":` + version + `,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z"}`))
			requireSchemaError(t, err, UnsupportedFormat, "format_version")
		})
	}

	t.Run("Checked before other fields", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":2}`))
		requireSchemaError(t, err, UnsupportedFormat, "format_version")
	})

	t.Run("Wrong type", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":"1","id":"a","version":"1","release_time":"2023-06-01T12:00:00Z"}`))
		requireSchemaError(t, err, InvalidValue, "format_version")
	})
}

func TestClasspathEntryVariants(t *testing.T) {
	var entries []ClasspathEntry
	err := json.Unmarshal([]byte(`["org.ow2.asm:asm:9.4", {"name": "org.lwjgl:lwjgl:3.3.1:natives-macos", "platform": {"os": "osx"}}]`), &entries)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.False(t, entries[0].IsPlatformSpecific())
	assert.Equal(t, "org.ow2.asm:asm:9.4", entries[0].Name.String())

	assert.True(t, entries[1].IsPlatformSpecific())
	assert.Equal(t, OsList{OsOsx}, entries[1].Platform.OS)
	assert.Equal(t, "natives-macos", entries[1].Name.Classifier)
}

func TestClasspathEntryMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  SchemaErrorKind
	}{
		{"Record without platform", `{"name": "a:b:c"}`, InvalidVariant},
		{"Record without name", `{"platform": {}}`, InvalidVariant},
		{"Number", `5`, InvalidVariant},
		{"List", `["a:b:c"]`, InvalidVariant},
		{"Extra key", `{"name": "a:b:c", "platform": {}, "rules": []}`, UnknownField},
		{"Bad coordinate", `"a:b"`, InvalidValue},
		{"Bad platform", `{"name": "a:b:c", "platform": "linux"}`, InvalidVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry ClasspathEntry
			err := json.Unmarshal([]byte(tt.input), &entry)
			requireSchemaError(t, err, tt.kind, "")
		})
	}

	t.Run("Inside a component", func(t *testing.T) {
		_, err := UnmarshalComponent([]byte(`{"format_version":1,"id":"a","version":"1","release_time":"2023-06-01T12:00:00Z","classpath":["a:b:c",{"name":"d:e:f"}]}`))
		requireSchemaError(t, err, InvalidVariant, "classpath[1]")
	})

	t.Run("Parse error is kept", func(t *testing.T) {
		var entry ClasspathEntry
		err := json.Unmarshal([]byte(`"org.quilt"`), &entry)
		var parseErr *GradleParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, ArtifactIdMissing, parseErr.Kind)
	})
}

func TestArgumentVariants(t *testing.T) {
	var args []Argument
	require.NoError(t, json.Unmarshal([]byte(`["--username", {"value": "--demo", "feature": "demo"}]`), &args))
	assert.Equal(t, []Argument{AlwaysArgument("--username"), ConditionalArgument("--demo", FeatureDemo)}, args)

	data, err := json.Marshal(args)
	require.NoError(t, err)
	assert.Equal(t, `["--username",{"value":"--demo","feature":"demo"}]`, string(data))
}

func TestArgumentMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  SchemaErrorKind
	}{
		{"Missing feature", `{"value": "--demo"}`, InvalidVariant},
		{"Missing value", `{"feature": "demo"}`, InvalidVariant},
		{"Unknown feature", `{"value": "--demo", "feature": "vr"}`, InvalidValue},
		{"Extra key", `{"value": "--demo", "feature": "demo", "os": "linux"}`, UnknownField},
		{"Bool", `true`, InvalidVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var arg Argument
			err := json.Unmarshal([]byte(tt.input), &arg)
			requireSchemaError(t, err, tt.kind, "")
		})
	}
}

func TestComponentHostHelpers(t *testing.T) {
	c := sampleComponent()
	gameJar := MustParseGradleSpecifier("com.mojang:minecraft:1.19.4:client")
	c.GameJar = &gameJar
	c.JarMods = []GradleSpecifier{MustParseGradleSpecifier("com.example:jarmod:1.0")}

	linux := Host{OS: OsLinux, Arch: ArchX86_64}
	mac := Host{OS: OsOsx, Arch: ArchArm64}

	assert.Equal(t, []GradleSpecifier{
		MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0"),
		MustParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1:natives-linux"),
	}, c.ClasspathFor(linux))
	assert.Equal(t, []GradleSpecifier{
		MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0"),
	}, c.ClasspathFor(mac))

	assert.Equal(t, []GradleSpecifier{
		MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0"),
		MustParseGradleSpecifier("com.example:jarmod:1.0"),
		gameJar,
	}, c.LaunchClasspath(mac))

	assert.Empty(t, c.NativesFor(linux))
	assert.Len(t, c.NativesFor(mac), 1)
	assert.Empty(t, c.NativesFor(Host{OS: OsOsx, Arch: ArchX86_64}))

	assert.Equal(t, []string{"--quickPlaySingleplayer"}, c.ArgumentsFor())
	assert.Equal(t, []string{"--quickPlaySingleplayer", "${quickPlaySingleplayer}"}, c.ArgumentsFor(FeatureQuickPlayWorld))
	assert.Equal(t, []string{"--quickPlaySingleplayer"}, c.ArgumentsFor(FeatureDemo))

	dl, ok := c.DownloadFor(MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.20.0"))
	assert.True(t, ok)
	assert.Equal(t, uint64(1234), dl.Size)
	_, ok = c.DownloadFor(MustParseGradleSpecifier("org.quiltmc:quilt-loader:0.19.0"))
	assert.False(t, ok)
}

func TestComponentValidate(t *testing.T) {
	assert.NoError(t, sampleComponent().Validate())
	assert.NoError(t, minimalComponent().Validate())

	tests := []struct {
		name   string
		mutate func(c *Component)
	}{
		{"Empty id", func(c *Component) { c.ID = "" }},
		{"Empty version", func(c *Component) { c.Version = "" }},
		{"Unsupported format", func(c *Component) { c.FormatVersion = 7 }},
		{"Empty dependency id", func(c *Component) { c.Provides = []ComponentDependency{{}} }},
		{"Empty hash", func(c *Component) { c.Downloads[0].Hash = SHA1("") }},
		{"Empty jarmod version", func(c *Component) {
			c.JarMods = []GradleSpecifier{{Group: "a", Artifact: "b"}}
		}},
		{"Unknown feature", func(c *Component) {
			c.GameArguments = []Argument{ConditionalArgument("--vr", "vr")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleComponent()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

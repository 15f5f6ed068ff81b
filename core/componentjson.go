package core

import (
	"bytes"
	"encoding/json"
	"time"
)

var componentFields = []string{
	"format_version",
	"id",
	"version",
	"requires",
	"conflicts",
	"before",
	"after",
	"provides",
	"traits",
	"assets",
	"downloads",
	"jarmods",
	"game_jar",
	"main_class",
	"game_arguments",
	"classpath",
	"natives",
	"release_time",
}

type dependencyList struct {
	field string
	deps  []ComponentDependency
}

func (c Component) dependencyLists() []dependencyList {
	return []dependencyList{
		{"requires", c.Requires},
		{"conflicts", c.Conflicts},
		{"before", c.Before},
		{"after", c.After},
		{"provides", c.Provides},
	}
}

// componentJSON fixes the field order of the serialized form
type componentJSON struct {
	FormatVersion uint32                `json:"format_version"`
	ID            string                `json:"id"`
	Version       string                `json:"version"`
	Requires      []ComponentDependency `json:"requires,omitempty"`
	Conflicts     []ComponentDependency `json:"conflicts,omitempty"`
	Before        []ComponentDependency `json:"before,omitempty"`
	After         []ComponentDependency `json:"after,omitempty"`
	Provides      []ComponentDependency `json:"provides,omitempty"`
	Traits        []Trait               `json:"traits,omitempty"`
	Assets        *Assets               `json:"assets,omitempty"`
	Downloads     []Download            `json:"downloads,omitempty"`
	JarMods       []GradleSpecifier     `json:"jarmods,omitempty"`
	GameJar       *GradleSpecifier      `json:"game_jar,omitempty"`
	MainClass     string                `json:"main_class,omitempty"`
	GameArguments []Argument            `json:"game_arguments,omitempty"`
	Classpath     []ClasspathEntry      `json:"classpath,omitempty"`
	Natives       []Native              `json:"natives,omitempty"`
	ReleaseTime   time.Time             `json:"release_time"`
}

// encodeJSON is json.Marshal without HTML escaping, so URLs keep their '&'
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (c Component) MarshalJSON() ([]byte, error) {
	return encodeJSON(componentJSON{
		FormatVersion: c.FormatVersion,
		ID:            c.ID,
		Version:       c.Version,
		Requires:      c.Requires,
		Conflicts:     c.Conflicts,
		Before:        c.Before,
		After:         c.After,
		Provides:      c.Provides,
		Traits:        c.Traits.Slice(),
		Assets:        c.Assets,
		Downloads:     c.Downloads,
		JarMods:       c.JarMods,
		GameJar:       c.GameJar,
		MainClass:     c.MainClass,
		GameArguments: c.GameArguments,
		Classpath:     c.Classpath,
		Natives:       c.Natives,
		ReleaseTime:   c.ReleaseTime.UTC(),
	})
}

// Marshal renders the canonical, indented form of the component together with its
// sha256. Equal components always produce the same bytes, so the hash can be used
// as a cache key.
func (c Component) Marshal() (MarshalResult, error) {
	result := MarshalResult{
		HashFormat: string(HashSHA256),
	}

	compact, err := c.MarshalJSON()
	if err != nil {
		return result, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return result, err
	}
	buf.WriteByte('\n')
	result.Value = buf.Bytes()

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

func (c *Component) UnmarshalJSON(data []byte) error {
	parsed, err := UnmarshalComponent(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalComponent decodes a component document. Unknown fields, missing required
// fields and values matching none of a field's shapes are reported as *SchemaError.
// format_version is checked before anything else is trusted.
func UnmarshalComponent(data []byte) (Component, error) {
	obj, err := decodeObject("", data, componentFields...)
	if err != nil {
		return Component{}, err
	}

	var c Component
	if _, err := obj.value("format_version", true, &c.FormatVersion); err != nil {
		return Component{}, err
	}
	if err := CheckFormatVersion(c.FormatVersion); err != nil {
		return Component{}, err
	}

	if c.ID, err = obj.str("id", true); err != nil {
		return Component{}, err
	}
	if c.Version, err = obj.str("version", true); err != nil {
		return Component{}, err
	}

	for _, target := range []struct {
		field string
		deps  *[]ComponentDependency
	}{
		{"requires", &c.Requires},
		{"conflicts", &c.Conflicts},
		{"before", &c.Before},
		{"after", &c.After},
		{"provides", &c.Provides},
	} {
		deps := target.deps
		err := obj.list(target.field, func(path string, raw json.RawMessage) error {
			dep, err := decodeDependency(path, raw)
			*deps = append(*deps, dep)
			return err
		})
		if err != nil {
			return Component{}, err
		}
	}

	if raw, ok, _ := obj.raw("traits", false); ok {
		if c.Traits, err = decodeTraitSet(obj.fieldPath("traits"), raw); err != nil {
			return Component{}, err
		}
	}

	if raw, ok, _ := obj.raw("assets", false); ok {
		assets, err := decodeAssets(obj.fieldPath("assets"), raw)
		if err != nil {
			return Component{}, err
		}
		c.Assets = &assets
	}

	err = obj.list("downloads", func(path string, raw json.RawMessage) error {
		dl, err := decodeDownload(path, raw)
		c.Downloads = append(c.Downloads, dl)
		return err
	})
	if err != nil {
		return Component{}, err
	}

	err = obj.list("jarmods", func(path string, raw json.RawMessage) error {
		g, err := decodeGradle(path, raw)
		c.JarMods = append(c.JarMods, g)
		return err
	})
	if err != nil {
		return Component{}, err
	}

	gameJar, ok, err := obj.gradle("game_jar", false)
	if err != nil {
		return Component{}, err
	}
	if ok {
		c.GameJar = &gameJar
	}

	if c.MainClass, err = obj.str("main_class", false); err != nil {
		return Component{}, err
	}

	err = obj.list("game_arguments", func(path string, raw json.RawMessage) error {
		arg, err := decodeArgument(path, raw)
		c.GameArguments = append(c.GameArguments, arg)
		return err
	})
	if err != nil {
		return Component{}, err
	}

	err = obj.list("classpath", func(path string, raw json.RawMessage) error {
		entry, err := decodeClasspathEntry(path, raw)
		c.Classpath = append(c.Classpath, entry)
		return err
	})
	if err != nil {
		return Component{}, err
	}

	err = obj.list("natives", func(path string, raw json.RawMessage) error {
		native, err := decodeNative(path, raw)
		c.Natives = append(c.Natives, native)
		return err
	})
	if err != nil {
		return Component{}, err
	}

	if _, err := obj.value("release_time", true, &c.ReleaseTime); err != nil {
		return Component{}, err
	}
	c.ReleaseTime = c.ReleaseTime.UTC()

	return c, nil
}

func (d *ComponentDependency) UnmarshalJSON(data []byte) error {
	parsed, err := decodeDependency("", data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func decodeDependency(path string, data []byte) (ComponentDependency, error) {
	obj, err := decodeObject(path, data, "id", "version")
	if err != nil {
		return ComponentDependency{}, err
	}
	var dep ComponentDependency
	if dep.ID, err = obj.str("id", true); err != nil {
		return ComponentDependency{}, err
	}
	if dep.Version, err = obj.str("version", false); err != nil {
		return ComponentDependency{}, err
	}
	return dep, nil
}

func (d *Download) UnmarshalJSON(data []byte) error {
	parsed, err := decodeDownload("", data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func decodeDownload(path string, data []byte) (Download, error) {
	obj, err := decodeObject(path, data, "name", "url", "size", "hash")
	if err != nil {
		return Download{}, err
	}
	var dl Download
	if dl.Name, _, err = obj.gradle("name", true); err != nil {
		return Download{}, err
	}
	if dl.URL, err = obj.str("url", true); err != nil {
		return Download{}, err
	}
	if _, err := obj.value("size", true, &dl.Size); err != nil {
		return Download{}, err
	}
	raw, _, err := obj.raw("hash", true)
	if err != nil {
		return Download{}, err
	}
	if dl.Hash, err = decodeHash(obj.fieldPath("hash"), raw); err != nil {
		return Download{}, err
	}
	return dl, nil
}

func (a *Assets) UnmarshalJSON(data []byte) error {
	parsed, err := decodeAssets("", data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func decodeAssets(path string, data []byte) (Assets, error) {
	obj, err := decodeObject(path, data, "id", "url", "sha1", "size", "total_size")
	if err != nil {
		return Assets{}, err
	}
	var a Assets
	if a.ID, err = obj.str("id", true); err != nil {
		return Assets{}, err
	}
	if a.URL, err = obj.str("url", true); err != nil {
		return Assets{}, err
	}
	if a.SHA1, err = obj.str("sha1", true); err != nil {
		return Assets{}, err
	}
	if _, err := obj.value("size", true, &a.Size); err != nil {
		return Assets{}, err
	}
	if _, err := obj.value("total_size", true, &a.TotalSize); err != nil {
		return Assets{}, err
	}
	return a, nil
}

func (n *Native) UnmarshalJSON(data []byte) error {
	parsed, err := decodeNative("", data)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func decodeNative(path string, data []byte) (Native, error) {
	obj, err := decodeObject(path, data, "name", "platform", "exclusions")
	if err != nil {
		return Native{}, err
	}
	var n Native
	if n.Name, _, err = obj.gradle("name", true); err != nil {
		return Native{}, err
	}
	raw, _, err := obj.raw("platform", true)
	if err != nil {
		return Native{}, err
	}
	if n.Platform, err = decodePlatform(obj.fieldPath("platform"), raw); err != nil {
		return Native{}, err
	}
	err = obj.list("exclusions", func(path string, raw json.RawMessage) error {
		s, err := decodeString(path, raw)
		n.Exclusions = append(n.Exclusions, s)
		return err
	})
	if err != nil {
		return Native{}, err
	}
	return n, nil
}

type classpathEntryJSON struct {
	Name     GradleSpecifier `json:"name"`
	Platform Platform        `json:"platform"`
}

func (e ClasspathEntry) MarshalJSON() ([]byte, error) {
	if e.Platform == nil {
		return encodeJSON(e.Name)
	}
	return encodeJSON(classpathEntryJSON{Name: e.Name, Platform: *e.Platform})
}

func (e *ClasspathEntry) UnmarshalJSON(data []byte) error {
	parsed, err := decodeClasspathEntry("", data)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// decodeClasspathEntry tries the bare coordinate first, then the platform specific record
func decodeClasspathEntry(path string, data []byte) (ClasspathEntry, error) {
	switch jsonKind(data) {
	case '"':
		name, err := decodeGradle(path, data)
		if err != nil {
			return ClasspathEntry{}, err
		}
		return ClasspathAll(name), nil
	case '{':
		obj, err := decodeObject(path, data, "name", "platform")
		if err != nil {
			return ClasspathEntry{}, err
		}
		if !obj.has("name") || !obj.has("platform") {
			return ClasspathEntry{}, schemaErr(InvalidVariant, path,
				"platform specific classpath entry needs both \"name\" and \"platform\"")
		}
		name, _, err := obj.gradle("name", true)
		if err != nil {
			return ClasspathEntry{}, err
		}
		platform, err := decodePlatform(obj.fieldPath("platform"), obj.fields["platform"])
		if err != nil {
			return ClasspathEntry{}, err
		}
		return ClasspathPlatform(name, platform), nil
	default:
		return ClasspathEntry{}, schemaErr(InvalidVariant, path,
			"classpath entry must be a coordinate string or an object with name and platform")
	}
}

type argumentJSON struct {
	Value   string           `json:"value"`
	Feature ConditionFeature `json:"feature"`
}

func (a Argument) MarshalJSON() ([]byte, error) {
	if !a.IsConditional() {
		return encodeJSON(a.Value)
	}
	return encodeJSON(argumentJSON{Value: a.Value, Feature: a.Feature})
}

func (a *Argument) UnmarshalJSON(data []byte) error {
	parsed, err := decodeArgument("", data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// decodeArgument tries the bare string first, then the feature gated record
func decodeArgument(path string, data []byte) (Argument, error) {
	switch jsonKind(data) {
	case '"':
		value, err := decodeString(path, data)
		if err != nil {
			return Argument{}, err
		}
		return AlwaysArgument(value), nil
	case '{':
		obj, err := decodeObject(path, data, "value", "feature")
		if err != nil {
			return Argument{}, err
		}
		if !obj.has("value") || !obj.has("feature") {
			return Argument{}, schemaErr(InvalidVariant, path,
				"conditional argument needs both \"value\" and \"feature\"")
		}
		value, err := obj.str("value", true)
		if err != nil {
			return Argument{}, err
		}
		feature, err := obj.str("feature", true)
		if err != nil {
			return Argument{}, err
		}
		if !ConditionFeature(feature).Valid() {
			return Argument{}, schemaErr(InvalidValue, obj.fieldPath("feature"), "unknown feature %q", feature)
		}
		return ConditionalArgument(value, ConditionFeature(feature)), nil
	default:
		return Argument{}, schemaErr(InvalidVariant, path,
			"argument must be a string or an object with value and feature")
	}
}

package core

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// ComponentDependency references another component by id, optionally constrained to a version
type ComponentDependency struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}

// Download is a file the launcher fetches before starting a component
type Download struct {
	Name GradleSpecifier `json:"name"`
	URL  string          `json:"url"`
	Size uint64          `json:"size"`
	Hash Hash            `json:"hash"`
}

// Assets describes the asset index a game version uses
type Assets struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SHA1      string `json:"sha1"`
	Size      uint64 `json:"size"`
	TotalSize uint64 `json:"total_size"`
}

// Native is a library containing platform specific binaries that gets extracted before launch
type Native struct {
	Name       GradleSpecifier `json:"name"`
	Platform   Platform        `json:"platform"`
	Exclusions []string        `json:"exclusions,omitempty"`
}

// ClasspathEntry is either an artifact for every platform (Platform is nil)
// or one restricted to a platform.
type ClasspathEntry struct {
	Name     GradleSpecifier
	Platform *Platform
}

func ClasspathAll(name GradleSpecifier) ClasspathEntry {
	return ClasspathEntry{Name: name}
}

func ClasspathPlatform(name GradleSpecifier, platform Platform) ClasspathEntry {
	return ClasspathEntry{Name: name, Platform: &platform}
}

func (e ClasspathEntry) IsPlatformSpecific() bool {
	return e.Platform != nil
}

func (e ClasspathEntry) Matches(host Host) bool {
	return e.Platform == nil || e.Platform.Matches(host)
}

// ConditionFeature gates a launch argument on a launcher feature
type ConditionFeature string

const (
	FeatureDemo                  ConditionFeature = "demo"
	FeatureFullscreen            ConditionFeature = "fullscreen"
	FeatureCustomResolution      ConditionFeature = "custom_resolution"
	FeatureQuickPlayServerLegacy ConditionFeature = "quick_play_server_legacy"
	FeatureQuickPlayServer       ConditionFeature = "quick_play_server"
	FeatureQuickPlayWorld        ConditionFeature = "quick_play_world"
)

var conditionFeatures = []ConditionFeature{
	FeatureDemo,
	FeatureFullscreen,
	FeatureCustomResolution,
	FeatureQuickPlayServerLegacy,
	FeatureQuickPlayServer,
	FeatureQuickPlayWorld,
}

// AllConditionFeatures lists the known features in declaration order
func AllConditionFeatures() []ConditionFeature {
	return slices.Clone(conditionFeatures)
}

func (f ConditionFeature) Valid() bool {
	return slices.Contains(conditionFeatures, f)
}

// Argument is a game argument. An empty Feature means it is always passed.
type Argument struct {
	Value   string
	Feature ConditionFeature
}

func AlwaysArgument(value string) Argument {
	return Argument{Value: value}
}

func ConditionalArgument(value string, feature ConditionFeature) Argument {
	return Argument{Value: value, Feature: feature}
}

func (a Argument) IsConditional() bool {
	return a.Feature != ""
}

// Component is a launchable piece of a game instance: a game version, a mod loader,
// a mapping layer and so on. Components are produced once from upstream metadata
// and only read afterwards.
type Component struct {
	FormatVersion uint32
	ID            string
	Version       string

	Requires  []ComponentDependency
	Conflicts []ComponentDependency
	Before    []ComponentDependency
	After     []ComponentDependency
	Provides  []ComponentDependency

	Traits    TraitSet
	Assets    *Assets
	Downloads []Download
	// JarMods are layered on top of the game jar, in order
	JarMods []GradleSpecifier
	// GameJar is kept apart from Classpath so jar mods can be injected ahead of it
	GameJar       *GradleSpecifier
	MainClass     string
	GameArguments []Argument
	Classpath     []ClasspathEntry
	Natives       []Native
	ReleaseTime   time.Time
}

// ClasspathFor returns the classpath entries that apply to the host, in order
func (c Component) ClasspathFor(host Host) []GradleSpecifier {
	var names []GradleSpecifier
	for _, entry := range c.Classpath {
		if entry.Matches(host) {
			names = append(names, entry.Name)
		}
	}
	return names
}

// LaunchClasspath is the host classpath followed by the jar mods and finally the game jar
func (c Component) LaunchClasspath(host Host) []GradleSpecifier {
	names := c.ClasspathFor(host)
	names = append(names, c.JarMods...)
	if c.GameJar != nil {
		names = append(names, *c.GameJar)
	}
	return names
}

// NativesFor returns the natives whose platform matches the host
func (c Component) NativesFor(host Host) []Native {
	var natives []Native
	for _, native := range c.Natives {
		if native.Platform.Matches(host) {
			natives = append(natives, native)
		}
	}
	return natives
}

// ArgumentsFor returns the game argument values that apply with the given features enabled
func (c Component) ArgumentsFor(enabled ...ConditionFeature) []string {
	var args []string
	for _, arg := range c.GameArguments {
		if !arg.IsConditional() || slices.Contains(enabled, arg.Feature) {
			args = append(args, arg.Value)
		}
	}
	return args
}

// DownloadFor finds the download entry for an artifact
func (c Component) DownloadFor(name GradleSpecifier) (Download, bool) {
	i := slices.IndexFunc(c.Downloads, func(d Download) bool {
		return d.Name == name
	})
	if i < 0 {
		return Download{}, false
	}
	return c.Downloads[i], true
}

// Validate checks the invariants decoding cannot express: non-empty identifiers,
// complete coordinates and hash values.
func (c Component) Validate() error {
	if c.ID == "" {
		return errors.New("component id must not be empty")
	}
	if c.Version == "" {
		return fmt.Errorf("component %s: version must not be empty", c.ID)
	}
	if err := CheckFormatVersion(c.FormatVersion); err != nil {
		return fmt.Errorf("component %s: %w", c.ID, err)
	}

	for _, list := range c.dependencyLists() {
		for _, dep := range list.deps {
			if dep.ID == "" {
				return fmt.Errorf("component %s: %s entry with an empty id", c.ID, list.field)
			}
		}
	}

	for _, dl := range c.Downloads {
		if err := dl.Name.Validate(); err != nil {
			return fmt.Errorf("component %s: download: %w", c.ID, err)
		}
		if dl.Hash.Value == "" {
			return fmt.Errorf("component %s: download %s has an empty hash", c.ID, dl.Name)
		}
	}
	for _, jm := range c.JarMods {
		if err := jm.Validate(); err != nil {
			return fmt.Errorf("component %s: jarmod: %w", c.ID, err)
		}
	}
	if c.GameJar != nil {
		if err := c.GameJar.Validate(); err != nil {
			return fmt.Errorf("component %s: game jar: %w", c.ID, err)
		}
	}
	for _, entry := range c.Classpath {
		if err := entry.Name.Validate(); err != nil {
			return fmt.Errorf("component %s: classpath: %w", c.ID, err)
		}
	}
	for _, native := range c.Natives {
		if err := native.Name.Validate(); err != nil {
			return fmt.Errorf("component %s: native: %w", c.ID, err)
		}
	}
	for _, arg := range c.GameArguments {
		if arg.IsConditional() && !arg.Feature.Valid() {
			return fmt.Errorf("component %s: argument %q has unknown feature %q", c.ID, arg.Value, arg.Feature)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

var Version string

func SetVersion(version string) {
	Version = version
}

// FileName is the settings file looked up in the working directory
const FileName = "helixmeta.toml"

// Repository is a maven repository artifacts are resolved against
type Repository struct {
	URL string `mapstructure:"url"`
	// Exclude hides matching versions from version listings (regexp2 syntax)
	Exclude string `mapstructure:"exclude"`
}

var defaultRepositories = map[string]Repository{
	"mojang": {URL: "https://libraries.minecraft.net/"},
	"fabric": {URL: "https://maven.fabricmc.net/"},
	"quilt":  {URL: "https://maven.quiltmc.org/repository/release/"},
	"forge":  {URL: "https://maven.minecraftforge.net/"},
}

// Config is the content of helixmeta.toml
type Config struct {
	// Root is the metadata tree components are read from and written to
	Root              string `toml:"root"`
	DefaultRepository string `toml:"default-repository"`
	// Options are merged into viper, so they act as defaults for command flags
	Options map[string]interface{} `toml:"options"`

	RawRepositories map[string]interface{} `toml:"repositories"`
	Repositories    map[string]Repository  `toml:"-"`

	filePath string
}

// Default is the configuration used when no settings file exists
func Default() Config {
	c := Config{
		Root:              ".",
		DefaultRepository: "quilt",
		Repositories:      make(map[string]Repository, len(defaultRepositories)),
	}
	for name, repo := range defaultRepositories {
		c.Repositories[name] = repo
	}
	return c
}

// Load reads a settings file on top of the defaults. The returned error wraps
// os.ErrNotExist when the file is missing.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	return Parse(raw, path)
}

func Parse(raw []byte, path string) (Config, error) {
	c := Default()
	if err := toml.Unmarshal(raw, &c); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	c.filePath = path

	for name, table := range c.RawRepositories {
		var repo Repository
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &repo,
		})
		if err != nil {
			return Default(), err
		}
		if err := decoder.Decode(table); err != nil {
			return Default(), fmt.Errorf("%s: repository %s: %w", path, name, err)
		}
		if repo.URL == "" {
			return Default(), fmt.Errorf("%s: repository %s has no url", path, name)
		}
		repo.URL = withTrailingSlash(repo.URL)
		c.Repositories[name] = repo
	}

	if c.Root == "" {
		c.Root = "."
	}
	return c, nil
}

func (c Config) GetFilePath() string {
	return c.filePath
}

// Apply merges the options table into v
func (c Config) Apply(v *viper.Viper) error {
	if c.Options == nil {
		return nil
	}
	return v.MergeConfigMap(c.Options)
}

// Repository resolves a repository name or a literal repository URL.
// An empty argument selects the default repository.
func (c Config) Repository(nameOrURL string) (Repository, error) {
	if nameOrURL == "" {
		nameOrURL = c.DefaultRepository
	}
	if strings.Contains(nameOrURL, "://") {
		return Repository{URL: withTrailingSlash(nameOrURL)}, nil
	}
	repo, ok := c.Repositories[nameOrURL]
	if !ok {
		return Repository{}, fmt.Errorf("unknown repository %q (known: %s)", nameOrURL, strings.Join(c.RepositoryNames(), ", "))
	}
	return repo, nil
}

func (c Config) RepositoryNames() []string {
	names := make([]string, 0, len(c.Repositories))
	for name := range c.Repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withTrailingSlash is applied to configured URLs only; coordinates append paths without a separator
func withTrailingSlash(url string) string {
	if strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}

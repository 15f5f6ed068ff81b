package core

import (
	"errors"
	"strings"
)

// DefaultExtension is used when a specifier does not name one with "@"
const DefaultExtension = "jar"

// GradleSpecifier identifies an artifact in a maven repository, written as
// group:artifact:version[:classifier][@extension]
type GradleSpecifier struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string // empty when absent
	Extension  string // defaults to jar
}

// ParseGradleSpecifier parses the textual coordinate notation
func ParseGradleSpecifier(s string) (GradleSpecifier, error) {
	group, rest, ok := strings.Cut(s, ":")
	if !ok {
		return GradleSpecifier{}, &GradleParseError{Kind: ArtifactIdMissing, Input: s}
	}
	artifact, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return GradleSpecifier{}, &GradleParseError{Kind: VersionMissing, Input: s}
	}

	extension := DefaultExtension
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		if ext := rest[i+1:]; ext != "" {
			extension = ext
		}
		rest = rest[:i]
	}

	version, classifier, _ := strings.Cut(rest, ":")

	return GradleSpecifier{
		Group:      group,
		Artifact:   artifact,
		Version:    version,
		Classifier: classifier,
		Extension:  extension,
	}, nil
}

// MustParseGradleSpecifier is like ParseGradleSpecifier but panics on malformed input.
// Only meant for constants.
func MustParseGradleSpecifier(s string) GradleSpecifier {
	g, err := ParseGradleSpecifier(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GradleSpecifier) ext() string {
	if g.Extension == "" {
		return DefaultExtension
	}
	return g.Extension
}

// WithClassifier returns a copy of the specifier with the classifier replaced
func (g GradleSpecifier) WithClassifier(classifier string) GradleSpecifier {
	g.Classifier = classifier
	return g
}

func (g GradleSpecifier) String() string {
	var b strings.Builder
	b.WriteString(g.Group)
	b.WriteByte(':')
	b.WriteString(g.Artifact)
	b.WriteByte(':')
	b.WriteString(g.Version)
	if g.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(g.Classifier)
	}
	if ext := g.ext(); ext != DefaultExtension {
		b.WriteByte('@')
		b.WriteString(ext)
	}
	return b.String()
}

// ToURL builds the download URL in the standard maven layout. baseRepo is used
// verbatim, so it must end with a slash.
func (g GradleSpecifier) ToURL(baseRepo string) string {
	var b strings.Builder
	b.WriteString(baseRepo)
	b.WriteString(strings.ReplaceAll(g.Group, ".", "/"))
	b.WriteByte('/')
	b.WriteString(g.Artifact)
	b.WriteByte('/')
	b.WriteString(g.Version)
	b.WriteByte('/')
	b.WriteString(g.Artifact)
	b.WriteByte('-')
	b.WriteString(g.Version)
	if g.Classifier != "" {
		b.WriteByte('-')
		b.WriteString(g.Classifier)
	}
	b.WriteByte('.')
	b.WriteString(g.ext())
	return b.String()
}

// Validate reports empty group, artifact or version segments
func (g GradleSpecifier) Validate() error {
	switch {
	case g.Group == "":
		return errors.New("gradle specifier " + g.String() + " has an empty group")
	case g.Artifact == "":
		return errors.New("gradle specifier " + g.String() + " has an empty artifact")
	case g.Version == "":
		return errors.New("gradle specifier " + g.String() + " has an empty version")
	}
	return nil
}

func (g GradleSpecifier) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GradleSpecifier) UnmarshalText(text []byte) error {
	parsed, err := ParseGradleSpecifier(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

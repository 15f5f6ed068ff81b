package core

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// GradleParseErrorKind identifies which part of a coordinate was missing
type GradleParseErrorKind int

const (
	ArtifactIdMissing GradleParseErrorKind = iota
	VersionMissing
)

func (k GradleParseErrorKind) String() string {
	switch k {
	case ArtifactIdMissing:
		return "ArtifactIdMissing"
	case VersionMissing:
		return "VersionMissing"
	default:
		return "Unknown"
	}
}

// GradleParseError is returned when a coordinate string cannot be split into its parts.
// Input holds the text that was being parsed when the separator was not found.
type GradleParseError struct {
	Kind  GradleParseErrorKind
	Input string
}

func (e *GradleParseError) Error() string {
	switch e.Kind {
	case ArtifactIdMissing:
		return fmt.Sprintf("%q does not contain an artifact id", e.Input)
	case VersionMissing:
		return fmt.Sprintf("%q does not contain a version", e.Input)
	default:
		return fmt.Sprintf("%q is not a valid gradle specifier", e.Input)
	}
}

// SchemaErrorKind categorises schema validation failures
type SchemaErrorKind int

const (
	UnknownField SchemaErrorKind = iota
	MissingField
	InvalidVariant
	InvalidValue
	UnsupportedFormat
)

func (k SchemaErrorKind) String() string {
	switch k {
	case UnknownField:
		return "UnknownField"
	case MissingField:
		return "MissingField"
	case InvalidVariant:
		return "InvalidVariant"
	case InvalidValue:
		return "InvalidValue"
	case UnsupportedFormat:
		return "UnsupportedFormat"
	default:
		return "Unknown"
	}
}

// SchemaError reports a component document that does not match the schema.
// Path is a dotted location inside the document, e.g. "classpath[2].platform.os".
type SchemaError struct {
	Kind   SchemaErrorKind
	Path   string
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Kind.String())
	b.WriteString("]")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErr(kind SchemaErrorKind, path, format string, a ...interface{}) *SchemaError {
	return &SchemaError{Kind: kind, Path: path, Detail: fmt.Sprintf(format, a...)}
}

func unknownFieldErr(path, field string, known []string) *SchemaError {
	detail := fmt.Sprintf("unknown field %q", field)
	if matches := fuzzy.Find(field, known); len(matches) > 0 {
		detail += fmt.Sprintf(", did you mean %q?", matches[0].Str)
	}
	return &SchemaError{Kind: UnknownField, Path: joinPath(path, field), Detail: detail}
}

func joinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

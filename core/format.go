package core

import (
	"github.com/Masterminds/semver/v3"
)

// CurrentFormatVersion is the component format written by this version of helixmeta
const CurrentFormatVersion uint32 = 1

// FormatVersionConstraintAccepted covers every format_version this version can read.
// format_version is an integer; it is compared as the major part of a semantic version.
var FormatVersionConstraintAccepted = mustParseConstraint("~1")

func mustParseConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// CheckFormatVersion fails with an UnsupportedFormat SchemaError for format versions
// this version cannot read.
func CheckFormatVersion(formatVersion uint32) error {
	ver := semver.New(uint64(formatVersion), 0, 0, "", "")
	if FormatVersionConstraintAccepted.Check(ver) {
		return nil
	}
	if formatVersion > CurrentFormatVersion {
		return schemaErr(UnsupportedFormat, "format_version",
			"format version %d is newer than the supported version %d; please update", formatVersion, CurrentFormatVersion)
	}
	return schemaErr(UnsupportedFormat, "format_version",
		"format version %d is not supported (expected %s)", formatVersion, FormatVersionConstraintAccepted)
}

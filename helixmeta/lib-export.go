// Package helixmeta is the library entry point for reading and producing launcher
// component metadata without going through the CLI.
package helixmeta

import (
	"github.com/leocov-dev/helixmeta/core"
	"github.com/leocov-dev/helixmeta/fileio"
	"github.com/leocov-dev/helixmeta/sources"
)

type (
	Component           = core.Component
	ComponentDependency = core.ComponentDependency
	GradleSpecifier     = core.GradleSpecifier
	Download            = core.Download
	Hash                = core.Hash
	Platform            = core.Platform
	Host                = core.Host
	Trait               = core.Trait
	TraitSet            = core.TraitSet
	Index               = core.Index
	SchemaError         = core.SchemaError
	GradleParseError    = core.GradleParseError
	Library             = sources.Library
)

var (
	ParseGradleSpecifier = core.ParseGradleSpecifier
	UnmarshalComponent   = core.UnmarshalComponent
	HostPlatform         = core.HostPlatform
	NewTraitSet          = core.NewTraitSet
	LoadComponent        = fileio.LoadComponent
	WriteComponent       = fileio.WriteComponent
	BuildIndex           = fileio.BuildIndex
	FetchDownload        = sources.FetchDownload
	ComputeDownload      = sources.ComputeDownload
	FetchMavenVersions   = sources.FetchMavenVersions
)

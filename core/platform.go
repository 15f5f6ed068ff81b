package core

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"
)

type OsName string

const (
	OsLinux   OsName = "linux"
	OsOsx     OsName = "osx"
	OsWindows OsName = "windows"
)

var osNames = []string{string(OsLinux), string(OsOsx), string(OsWindows)}

func (o OsName) valid() bool {
	return slices.Contains(osNames, string(o))
}

type Arch string

// An empty Arch in a Platform means every architecture
const (
	ArchX86    Arch = "x86"
	ArchX86_64 Arch = "x86_64"
	ArchArm64  Arch = "arm64"
)

var archNames = []string{string(ArchX86), string(ArchX86_64), string(ArchArm64)}

func (a Arch) valid() bool {
	return slices.Contains(archNames, string(a))
}

// ParseHost reads a host given by its serialized os and arch names, e.g. "osx" and "arm64"
func ParseHost(os, arch string) (Host, error) {
	if !OsName(os).valid() {
		return Host{}, fmt.Errorf("unknown operating system %q (expected one of %v)", os, osNames)
	}
	if !Arch(arch).valid() {
		return Host{}, fmt.Errorf("unknown architecture %q (expected one of %v)", arch, archNames)
	}
	return Host{OS: OsName(os), Arch: Arch(arch)}, nil
}

// OsList is the set of operating systems a Platform applies to.
// An empty list means all operating systems, never none.
// In JSON it may be written as a single name or a list of names.
type OsList []OsName

func (l OsList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]OsName(l))
}

func (l *OsList) UnmarshalJSON(data []byte) error {
	parsed, err := decodeOsList("", data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func decodeOsName(path string, data []byte) (OsName, error) {
	s, err := decodeString(path, data)
	if err != nil {
		return "", err
	}
	if !OsName(s).valid() {
		return "", schemaErr(InvalidValue, path, "unknown operating system %q", s)
	}
	return OsName(s), nil
}

func decodeOsList(path string, data []byte) (OsList, error) {
	switch jsonKind(data) {
	case '"':
		os, err := decodeOsName(path, data)
		if err != nil {
			return nil, err
		}
		return OsList{os}, nil
	case '[':
		var list OsList
		err := decodeList(path, data, func(p string, raw json.RawMessage) error {
			os, err := decodeOsName(p, raw)
			if err != nil {
				return err
			}
			list = append(list, os)
			return nil
		})
		return list, err
	default:
		return nil, schemaErr(InvalidVariant, path, "expected an operating system name or a list of them")
	}
}

// Platform scopes a download, native or classpath entry to operating systems and an architecture
type Platform struct {
	OS   OsList
	Arch Arch
}

// Host is a concrete operating system and architecture, usually the machine a launcher runs on
type Host struct {
	OS   OsName
	Arch Arch
}

// HostPlatform maps Go's GOOS/GOARCH names to a Host
func HostPlatform(goos, goarch string) (Host, error) {
	var host Host
	switch goos {
	case "linux":
		host.OS = OsLinux
	case "darwin":
		host.OS = OsOsx
	case "windows":
		host.OS = OsWindows
	default:
		return Host{}, fmt.Errorf("unsupported operating system %s", goos)
	}
	switch goarch {
	case "386":
		host.Arch = ArchX86
	case "amd64":
		host.Arch = ArchX86_64
	case "arm64":
		host.Arch = ArchArm64
	default:
		return Host{}, fmt.Errorf("unsupported CPU architecture %s", goarch)
	}
	return host, nil
}

// Matches reports whether the platform applies to the host
func (p Platform) Matches(host Host) bool {
	if len(p.OS) > 0 && !slices.Contains(p.OS, host.OS) {
		return false
	}
	return p.Arch == "" || p.Arch == host.Arch
}

func (p Platform) Equal(other Platform) bool {
	return p.Arch == other.Arch && slices.Equal(p.OS, other.OS)
}

func (p Platform) String() string {
	os := "any os"
	if len(p.OS) > 0 {
		os = fmt.Sprint([]OsName(p.OS))
	}
	arch := "any arch"
	if p.Arch != "" {
		arch = string(p.Arch)
	}
	return os + "/" + arch
}

type platformJSON struct {
	OS   []OsName `json:"os,omitempty"`
	Arch Arch     `json:"arch,omitempty"`
}

func (p Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(platformJSON{OS: p.OS, Arch: p.Arch})
}

func (p *Platform) UnmarshalJSON(data []byte) error {
	parsed, err := decodePlatform("", data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func decodePlatform(path string, data []byte) (Platform, error) {
	obj, err := decodeObject(path, data, "os", "arch")
	if err != nil {
		return Platform{}, err
	}
	var p Platform
	if raw, ok, _ := obj.raw("os", false); ok {
		if p.OS, err = decodeOsList(obj.fieldPath("os"), raw); err != nil {
			return Platform{}, err
		}
	}
	arch, err := obj.str("arch", false)
	if err != nil {
		return Platform{}, err
	}
	if obj.has("arch") && !Arch(arch).valid() {
		return Platform{}, schemaErr(InvalidValue, obj.fieldPath("arch"), "unknown architecture %q", arch)
	}
	p.Arch = Arch(arch)
	return p, nil
}

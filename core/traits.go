package core

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fatih/camelcase"
	"golang.org/x/exp/slices"
)

// Trait is a capability of a component or instance. The numeric value is the
// canonical rank used to order trait sets.
type Trait int

const (
	// MacStartOnFirstThread means the component needs -XstartOnFirstThread on macOS
	MacStartOnFirstThread Trait = iota
	SupportsCustomResolution
	SupportsQuickPlayServerLegacy
	SupportsQuickPlayServer
	SupportsQuickPlayWorld

	traitCount
)

var traitNames = [traitCount]string{
	"MacStartOnFirstThread",
	"SupportsCustomResolution",
	"SupportsQuickPlayServerLegacy",
	"SupportsQuickPlayServer",
	"SupportsQuickPlayWorld",
}

// AllTraits lists every trait in rank order
func AllTraits() []Trait {
	traits := make([]Trait, traitCount)
	for i := range traits {
		traits[i] = Trait(i)
	}
	return traits
}

func (t Trait) String() string {
	if t >= traitCount {
		return "Trait(" + strconv.Itoa(int(t)) + ")"
	}
	return traitNames[t]
}

// KebabName is the lower-case dashed spelling, e.g. mac-start-on-first-thread
func (t Trait) KebabName() string {
	return strings.ToLower(strings.Join(camelcase.Split(t.String()), "-"))
}

// ParseTrait accepts both the serialized name and the kebab-case spelling
func ParseTrait(s string) (Trait, bool) {
	for _, t := range AllTraits() {
		if s == t.String() || s == t.KebabName() {
			return t, true
		}
	}
	return 0, false
}

func (t Trait) MarshalText() ([]byte, error) {
	if t >= traitCount {
		return nil, schemaErr(InvalidValue, "", "unknown trait %d", t)
	}
	return []byte(t.String()), nil
}

func (t *Trait) UnmarshalText(text []byte) error {
	parsed, ok := ParseTrait(string(text))
	if !ok {
		return schemaErr(InvalidValue, "", "unknown trait %q", string(text))
	}
	*t = parsed
	return nil
}

// TraitSet is a set of traits that always iterates and serializes in rank order,
// so equal sets produce identical bytes no matter how they were built.
type TraitSet struct {
	traits []Trait
}

func NewTraitSet(traits ...Trait) TraitSet {
	var s TraitSet
	for _, t := range traits {
		s = s.With(t)
	}
	return s
}

// With returns a set that also contains t; the receiver is not modified
func (s TraitSet) With(t Trait) TraitSet {
	i, found := slices.BinarySearch(s.traits, t)
	if found {
		return s
	}
	traits := make([]Trait, 0, len(s.traits)+1)
	traits = append(traits, s.traits[:i]...)
	traits = append(traits, t)
	traits = append(traits, s.traits[i:]...)
	return TraitSet{traits: traits}
}

func (s TraitSet) Has(t Trait) bool {
	_, found := slices.BinarySearch(s.traits, t)
	return found
}

func (s TraitSet) Len() int {
	return len(s.traits)
}

func (s TraitSet) IsEmpty() bool {
	return len(s.traits) == 0
}

// Slice returns the traits in rank order
func (s TraitSet) Slice() []Trait {
	return slices.Clone(s.traits)
}

func (s TraitSet) Equal(other TraitSet) bool {
	return slices.Equal(s.traits, other.traits)
}

func (s TraitSet) MarshalJSON() ([]byte, error) {
	if s.traits == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.traits)
}

func (s *TraitSet) UnmarshalJSON(data []byte) error {
	parsed, err := decodeTraitSet("", data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func decodeTraitSet(path string, data []byte) (TraitSet, error) {
	var set TraitSet
	err := decodeList(path, data, func(p string, raw json.RawMessage) error {
		name, err := decodeString(p, raw)
		if err != nil {
			return err
		}
		t, ok := ParseTrait(name)
		if !ok {
			return schemaErr(InvalidValue, p, "unknown trait %q", name)
		}
		set = set.With(t)
		return nil
	})
	return set, err
}

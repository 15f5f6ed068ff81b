package core

// MarshalResult is the canonical serialized form of a value together with its hash
type MarshalResult struct {
	Value      []byte
	HashFormat string
	Hash       string
}

func (m MarshalResult) String() string {
	return string(m.Value)
}

// HashableObject is implemented by documents that are written to disk and referenced by hash
type HashableObject interface {
	Marshal() (MarshalResult, error)
}

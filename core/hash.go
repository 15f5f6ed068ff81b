package core

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"
)

type HashKind string

const (
	HashSHA256 HashKind = "sha256"
	HashSHA1   HashKind = "sha1"
)

// Hash is a content hash tagged with the algorithm that produced it.
// In JSON it is a single-key object: {"sha256": "..."}
type Hash struct {
	Kind  HashKind
	Value string
}

func SHA256(value string) Hash {
	return Hash{Kind: HashSHA256, Value: value}
}

func SHA1(value string) Hash {
	return Hash{Kind: HashSHA1, Value: value}
}

func (h Hash) String() string {
	return strings.ToUpper(string(h.Kind)) + " hash " + h.Value
}

// Verify reads r to the end and checks that its digest equals the hash value
func (h Hash) Verify(r io.Reader) error {
	hasher, err := GetHashImpl(string(h.Kind))
	if err != nil {
		return err
	}
	if _, err := io.Copy(hasher, r); err != nil {
		return err
	}
	if got := hasher.String(); !strings.EqualFold(got, h.Value) {
		return fmt.Errorf("hash mismatch: expected %s, got %s", h, got)
	}
	return nil
}

func (h Hash) MarshalJSON() ([]byte, error) {
	switch h.Kind {
	case HashSHA256, HashSHA1:
	default:
		return nil, fmt.Errorf("cannot marshal hash of unknown kind %q", h.Kind)
	}
	return json.Marshal(map[HashKind]string{h.Kind: h.Value})
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	parsed, err := decodeHash("", data)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func decodeHash(path string, data []byte) (Hash, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Hash{}, schemaErr(InvalidVariant, path, "hash must be an object keyed by sha256 or sha1")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Hash{}, &SchemaError{Kind: InvalidValue, Path: path, Err: err}
	}
	if len(raw) != 1 {
		return Hash{}, schemaErr(InvalidVariant, path, "hash must have exactly one key, found %d", len(raw))
	}
	for key, value := range raw {
		kind := HashKind(key)
		if kind != HashSHA256 && kind != HashSHA1 {
			return Hash{}, unknownFieldErr(path, key, []string{string(HashSHA256), string(HashSHA1)})
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return Hash{}, &SchemaError{Kind: InvalidValue, Path: joinPath(path, key), Err: err}
		}
		return Hash{Kind: kind, Value: s}, nil
	}
	return Hash{}, schemaErr(InvalidVariant, path, "empty hash")
}

// GetHashImpl gets an implementation of hash.Hash for the given hash type string
func GetHashImpl(hashType string) (HashStringer, error) {
	switch strings.ToLower(hashType) {
	case string(HashSHA1):
		return &hexStringer{sha1.New()}, nil
	case string(HashSHA256):
		return &hexStringer{sha256.New()}, nil
	case "length-bytes":
		return &number64Stringer{&LengthHasher{}}, nil
	}
	return nil, fmt.Errorf("hash implementation %s not found", hashType)
}

type HashStringer interface {
	hash.Hash
	String() string
}

type hexStringer struct {
	hash.Hash
}

func (h *hexStringer) String() string {
	return hex.EncodeToString(h.Sum(nil))
}

type number64Stringer struct {
	hash.Hash
}

func (h *number64Stringer) String() string {
	return strconv.FormatUint(binary.BigEndian.Uint64(h.Sum(nil)), 10)
}

// LengthHasher counts the bytes written to it; the sum is the count as a big endian uint64
type LengthHasher struct {
	length uint64
}

func (h *LengthHasher) Write(p []byte) (n int, err error) {
	h.length += uint64(len(p))
	return len(p), nil
}

func (h *LengthHasher) Sum(b []byte) []byte {
	ext := append(b, make([]byte, 8)...)
	binary.BigEndian.PutUint64(ext[len(b):], h.length)
	return ext
}

func (h *LengthHasher) Size() int {
	return 8
}

func (h *LengthHasher) BlockSize() int {
	return 1
}

func (h *LengthHasher) Reset() {
	h.length = 0
}

// Length is the number of bytes written so far
func (h *LengthHasher) Length() uint64 {
	return h.length
}

package core

import (
	"bytes"
	"encoding/json"

	"golang.org/x/exp/slices"
)

// object is a JSON object whose keys have been checked against a closed field list
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func decodeObject(path string, data []byte, known ...string) (*object, error) {
	if jsonKind(data) != '{' {
		return nil, schemaErr(InvalidVariant, path, "expected an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &SchemaError{Kind: InvalidValue, Path: path, Err: err}
	}

	// sorted so the reported field does not depend on map order
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(known, k) {
			return nil, unknownFieldErr(path, k, known)
		}
	}

	return &object{path: path, fields: fields}, nil
}

// jsonKind returns the first significant byte of a JSON value: '{', '[', '"', 'n' for null, etc.
func jsonKind(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

func (o *object) has(name string) bool {
	raw, ok := o.fields[name]
	return ok && jsonKind(raw) != 'n'
}

func (o *object) fieldPath(name string) string {
	return joinPath(o.path, name)
}

func (o *object) raw(name string, required bool) (json.RawMessage, bool, error) {
	if !o.has(name) {
		if required {
			return nil, false, schemaErr(MissingField, o.fieldPath(name), "missing field %q", name)
		}
		return nil, false, nil
	}
	return o.fields[name], true, nil
}

// value decodes a plain (non-union) field with encoding/json
func (o *object) value(name string, required bool, v interface{}) (bool, error) {
	raw, ok, err := o.raw(name, required)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &SchemaError{Kind: InvalidValue, Path: o.fieldPath(name), Err: err}
	}
	return true, nil
}

func (o *object) str(name string, required bool) (string, error) {
	var s string
	_, err := o.value(name, required, &s)
	return s, err
}

func (o *object) gradle(name string, required bool) (GradleSpecifier, bool, error) {
	raw, ok, err := o.raw(name, required)
	if err != nil || !ok {
		return GradleSpecifier{}, ok, err
	}
	g, err := decodeGradle(o.fieldPath(name), raw)
	return g, err == nil, err
}

// list decodes an optional array field, calling fn for each element
func (o *object) list(name string, fn func(path string, raw json.RawMessage) error) error {
	raw, ok, err := o.raw(name, false)
	if err != nil || !ok {
		return err
	}
	return decodeList(o.fieldPath(name), raw, fn)
}

func decodeList(path string, data []byte, fn func(path string, raw json.RawMessage) error) error {
	if jsonKind(data) != '[' {
		return schemaErr(InvalidVariant, path, "expected a list")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return &SchemaError{Kind: InvalidValue, Path: path, Err: err}
	}
	for i, item := range items {
		if err := fn(indexPath(path, i), item); err != nil {
			return err
		}
	}
	return nil
}

func decodeString(path string, data []byte) (string, error) {
	if jsonKind(data) != '"' {
		return "", schemaErr(InvalidVariant, path, "expected a string")
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", &SchemaError{Kind: InvalidValue, Path: path, Err: err}
	}
	return s, nil
}

func decodeGradle(path string, data []byte) (GradleSpecifier, error) {
	s, err := decodeString(path, data)
	if err != nil {
		return GradleSpecifier{}, err
	}
	g, err := ParseGradleSpecifier(s)
	if err != nil {
		return GradleSpecifier{}, &SchemaError{Kind: InvalidValue, Path: path, Err: err}
	}
	return g, nil
}

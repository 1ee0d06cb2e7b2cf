package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/studynotes/internal/errors"
	"github.com/hpungsan/studynotes/internal/note"
)

// ToJSON renders the id -> note mapping with two-space indentation.
func ToJSON(m map[string]note.Note) ([]byte, error) {
	if m == nil {
		m = map[string]note.Note{}
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return b, nil
}

// FromJSON decodes a backup into an id -> note mapping.
// The top-level value must be an object whose values are objects; anything
// else, including arrays and null, fails with FORMAT_ERROR.
func FromJSON(raw []byte) (map[string]note.Note, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.NewFormat("import data is empty", nil)
	}
	if !json.Valid(trimmed) {
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		return nil, errors.NewFormat("import data is not valid JSON", err)
	}
	if trimmed[0] != '{' {
		return nil, errors.NewFormat(fmt.Sprintf("import data must be a JSON object, got %s", jsonKind(trimmed[0])), nil)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, errors.NewFormat("import data must be a JSON object", err)
	}

	out := make(map[string]note.Note, len(entries))
	for id, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			return nil, errors.NewFormat(fmt.Sprintf("note %q must be a JSON object, got %s", id, jsonKind(firstByte(entry))), nil)
		}
		var n note.Note
		if err := json.Unmarshal(entry, &n); err != nil {
			return nil, errors.NewFormat(fmt.Sprintf("note %q is malformed", id), err)
		}
		out[id] = n
	}
	return out, nil
}

func firstByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func jsonKind(c byte) string {
	switch {
	case c == '[':
		return "array"
	case c == 'n':
		return "null"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	default:
		return "unknown"
	}
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entity is a client-supplied JSON object whose fields are kept verbatim so they
// can be echoed back in match results. Field accessors render values leniently.
type Entity map[string]json.RawMessage

// UnmarshalJSON accepts any JSON value. A non-object carries no fields: truthy
// ones decode to an empty Entity, falsy ones to nil.
func (e *Entity) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !truthy(trimmed) {
			*e = nil
			return nil
		}
		*e = Entity{}
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*e = m
	return nil
}

func (e Entity) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(e))
}

// Number reads a numeric field. Numbers sent as strings ("85") are accepted.
func (e Entity) Number(key string) (float64, bool) {
	raw := bytes.TrimSpace(e[key])
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text renders a field for display. Arrays are joined with ", ".
func (e Entity) Text(key string) string {
	raw, ok := e[key]
	if !ok {
		return ""
	}
	return renderValue(raw)
}

// TextOr is Text with a default for missing or empty values.
func (e Entity) TextOr(key, def string) string {
	if s := e.Text(key); s != "" {
		return s
	}
	return def
}

// Truthy follows JavaScript truthiness: null, false, 0 and "" are false.
func (e Entity) Truthy(key string) bool {
	raw, ok := e[key]
	return ok && truthy(raw)
}

// Present reports whether the entity was sent as a truthy value.
func (e Entity) Present() bool {
	return e != nil
}

// IsNonEmptyArray reports whether the field is a JSON array with at least one element.
func (e Entity) IsNonEmptyArray(key string) bool {
	var items []json.RawMessage
	raw, ok := e[key]
	if !ok || !isArray(raw) {
		return false
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}

// List normalises a field that may be an array or a delimited string.
// A string holding a JSON array is decoded; any other string is split on commas.
func (e Entity) List(key string) []string {
	if !e.Truthy(key) {
		return []string{}
	}
	raw := bytes.TrimSpace(e[key])
	switch {
	case isArray(raw):
		return arrayItems(raw)
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return []string{}
		}
		return SplitList(s)
	default:
		return []string{}
	}
}

// Strings decodes an array of strings, ignoring anything else.
func (e Entity) Strings(key string) []string {
	raw, ok := e[key]
	if !ok || !isArray(raw) {
		return []string{}
	}
	return arrayItems(raw)
}

// SplitList turns "a, b,,c" (or `["a","b"]`) into its items.
func SplitList(s string) []string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var parsed []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return arrayItems([]byte(trimmed))
		}
	}

	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func arrayItems(raw []byte) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, renderValue(item))
	}
	return out
}

func renderValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '[':
		return strings.Join(arrayItems(raw), ", ")
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	default:
		return string(raw)
	}
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// mergeFields overlays typed match fields on top of the original entity.
func mergeFields(base Entity, overlay map[string]any) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", k, err)
		}
		out[k] = encoded
	}
	return json.Marshal(out)
}

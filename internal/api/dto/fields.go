package dto

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

// Fields is a flat view of a request body. Nested JSON objects are flattened
// to dotted keys ("opponent.name"); JSON null becomes "".
type Fields map[string]string

// systemKeys are accepted in any body and ignored.
var systemKeys = map[string]struct{}{
	"_id": {}, "id": {}, "__v": {}, "createdAt": {}, "updatedAt": {},
}

// FieldsFromJSON decodes a JSON object body.
func FieldsFromJSON(body []byte) (Fields, error) {
	fields := Fields{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, apperrors.NewValidationError("invalid JSON body", nil)
	}
	if err := flatten(fields, "", raw); err != nil {
		return nil, err
	}
	return fields, nil
}

func flatten(dst Fields, prefix string, raw map[string]any) error {
	for key, val := range raw {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch v := val.(type) {
		case nil:
			dst[name] = ""
		case string:
			dst[name] = v
		case json.Number:
			dst[name] = v.String()
		case bool:
			dst[name] = strconv.FormatBool(v)
		case map[string]any:
			if prefix != "" {
				return apperrors.NewValidationError("body nested too deeply", map[string]any{name: "unexpected object"})
			}
			if err := flatten(dst, name, v); err != nil {
				return err
			}
		default:
			return apperrors.NewValidationError("invalid field type", map[string]any{name: "must be a scalar"})
		}
	}
	return nil
}

// Schema maps every accepted key (and alias) to a canonical field name.
type Schema struct {
	keys    map[string]string
	ignored map[string]struct{}
	groups  map[string][]string
}

// NewSchema builds a schema. canonical lists each field with its aliases;
// ignored names extra keys that are dropped without error.
func NewSchema(canonical map[string][]string, ignored ...string) Schema {
	s := Schema{keys: map[string]string{}, ignored: map[string]struct{}{}, groups: map[string][]string{}}
	for name, aliases := range canonical {
		s.keys[name] = name
		for _, alias := range aliases {
			s.keys[alias] = name
			if group, _, nested := strings.Cut(alias, "."); nested && !slices.Contains(s.groups[group], name) {
				s.groups[group] = append(s.groups[group], name)
			}
		}
	}
	for _, key := range ignored {
		s.ignored[key] = struct{}{}
	}
	return s
}

// Apply rejects unknown keys and returns the fields under canonical names.
// A nested group sent as null or empty, such as {"score": null}, clears
// every field of the group that is not given explicitly.
func (s Schema) Apply(in Fields) (Fields, error) {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := Fields{}
	var unknown, cleared []string
	for _, key := range keys {
		if _, skip := systemKeys[key]; skip {
			continue
		}
		if _, skip := s.ignored[key]; skip {
			continue
		}
		name, ok := s.keys[key]
		if !ok {
			if _, group := s.groups[key]; group && strings.TrimSpace(in[key]) == "" {
				cleared = append(cleared, key)
				continue
			}
			unknown = append(unknown, key)
			continue
		}
		if prev, dup := out[name]; dup && prev != in[key] {
			return nil, apperrors.NewValidationError("conflicting values", map[string]any{name: "given more than once"})
		}
		out[name] = in[key]
	}
	if len(unknown) > 0 {
		return nil, apperrors.NewValidationError("unknown fields", map[string]any{"unknown": unknown})
	}
	for _, group := range cleared {
		for _, name := range s.groups[group] {
			if _, set := out[name]; !set {
				out[name] = ""
			}
		}
	}
	return out, nil
}

// parser accumulates per-field coercion errors.
type parser struct {
	fields Fields
	errs   map[string]any
}

func newParser(fields Fields) *parser {
	return &parser{fields: fields, errs: map[string]any{}}
}

func (p *parser) fail(field, message string) {
	p.errs[field] = message
}

func (p *parser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", p.errs)
}

// str returns the raw value and whether the key was sent.
func (p *parser) str(key string) (string, bool) {
	v, ok := p.fields[key]
	return v, ok
}

func (p *parser) strPtr(key string) *string {
	v, ok := p.fields[key]
	if !ok {
		return nil
	}
	return &v
}

// intPtr parses a whole number. Empty and missing both yield nil.
func (p *parser) intPtr(key string) *int {
	v := strings.TrimSpace(p.fields[key])
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, "must be an integer")
		return nil
	}
	return &n
}

// requiredInt parses an integer that must not be cleared once sent.
func (p *parser) requiredInt(key string) *int {
	v, ok := p.fields[key]
	if !ok {
		return nil
	}
	if strings.TrimSpace(v) == "" {
		p.fail(key, "must not be empty")
		return nil
	}
	return p.intPtr(key)
}

func (p *parser) timePtr(key string) *time.Time {
	v := strings.TrimSpace(p.fields[key])
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	p.fail(key, "must be YYYY-MM-DD or RFC 3339")
	return nil
}

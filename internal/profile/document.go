package profile

import (
	"fmt"
	"strconv"
)

// Document is one person's profile: the five canonical sections, each a
// mapping of fields to string scalars, Records or []Record sequences.
// Documents are values: no operation ever mutates its receiver, and
// returned inner structures are always copies.
type Document map[Section]map[string]any

// DefaultDocument returns a fresh document populated with the canonical
// defaults of every section and field.
func DefaultDocument() Document {
	doc := make(Document, len(canonical))
	for sec, fields := range canonical {
		values := make(map[string]any, len(fields))
		for name, spec := range fields {
			values[name] = copyValue(spec.Default)
		}
		doc[sec] = values
	}
	return doc
}

// Load merges persisted section data over canonical defaults: a missing
// section or field is back-filled from the schema, a persisted record
// field merges key-by-key over the default record, and persisted sequence
// elements are normalized to their closed key set. Keys unknown to the
// schema are dropped.
func Load(raw map[Section]map[string]any) Document {
	doc := DefaultDocument()
	for sec, fields := range canonical {
		persisted, ok := raw[sec]
		if !ok || persisted == nil {
			continue
		}
		for name, spec := range fields {
			value, ok := persisted[name]
			if !ok || value == nil {
				continue
			}
			switch spec.Kind {
			case KindScalar:
				doc[sec][name] = toString(value)
			case KindRecord:
				// One level deep: persisted keys win, defaults
				// keep keys the stored record lacks.
				merged := copyValue(spec.Default).(Record)
				for k, v := range toRecord(value, spec) {
					merged[k] = v
				}
				doc[sec][name] = merged
			case KindList:
				items := toList(value, spec)
				if items != nil {
					doc[sec][name] = items
				}
			}
		}
	}
	return doc
}

// Sections returns a deep copy of the document keyed by plain strings,
// ready to be placed into a remote store row.
func (d Document) Sections() map[string]map[string]any {
	out := make(map[string]map[string]any, len(d))
	for sec, fields := range d {
		values := make(map[string]any, len(fields))
		for name, v := range fields {
			values[name] = copyValue(v)
		}
		out[string(sec)] = values
	}
	return out
}

// Get returns the value addressed by p: a string for scalar paths and
// element subfields, a Record copy for record fields and whole elements,
// and a []Record copy for sequence fields.
func (d Document) Get(p Path) (any, error) {
	if _, err := p.validate(); err != nil {
		return nil, err
	}

	value := d[p.Section][p.Field]

	if p.Index < 0 {
		return copyValue(value), nil
	}

	items, _ := value.([]Record)
	if p.Index >= len(items) {
		return nil, fmt.Errorf("%w: %s has %d elements", ErrPath, p, len(items))
	}

	if p.Subfield == "" {
		return copyRecord(items[p.Index]), nil
	}
	return items[p.Index][p.Subfield], nil
}

// Set writes v at the addressed path and returns the updated document.
// Scalar fields take a string. Record fields take a partial Record that is
// shallow-merged over the existing value, leaving sibling keys untouched.
// Element paths with a subfield take a string; element paths without one
// replace the whole element.
func (d Document) Set(p Path, v any) (Document, error) {
	spec, err := p.validate()
	if err != nil {
		return nil, err
	}

	out := d.clone()

	if p.Index < 0 {
		switch spec.Kind {
		case KindScalar:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s takes a string, got %T", ErrSchema, p, v)
			}
			out[p.Section][p.Field] = s
		case KindRecord:
			partial, ok := v.(Record)
			if !ok {
				return nil, fmt.Errorf("%w: %s takes a partial record, got %T", ErrSchema, p, v)
			}
			merged := out[p.Section][p.Field].(Record)
			for k, val := range partial {
				if !spec.hasItemKey(k) {
					return nil, fmt.Errorf("%w: unknown key %q for %s", ErrSchema, k, p)
				}
				merged[k] = val
			}
		case KindList:
			return nil, fmt.Errorf("%w: %s is a sequence field and requires an index", ErrSchema, p)
		}
		return out, nil
	}

	items := out[p.Section][p.Field].([]Record)
	if p.Index >= len(items) {
		return nil, fmt.Errorf("%w: %s has %d elements", ErrPath, p, len(items))
	}

	if p.Subfield != "" {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s takes a string, got %T", ErrSchema, p, v)
		}
		items[p.Index][p.Subfield] = s
		return out, nil
	}

	item, ok := v.(Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s takes a record, got %T", ErrSchema, p, v)
	}
	normalized, err := normalizeItem(item, spec, p)
	if err != nil {
		return nil, err
	}
	items[p.Index] = normalized
	return out, nil
}

// AppendItem appends item to the sequence field. Keys absent from the item
// are filled with empty strings; keys outside the field's closed set are
// rejected.
func (d Document) AppendItem(sec Section, field string, item Record) (Document, error) {
	p := FieldPath(sec, field)
	spec, err := p.validate()
	if err != nil {
		return nil, err
	}
	if spec.Kind != KindList {
		return nil, fmt.Errorf("%w: %s is not a sequence field", ErrSchema, p)
	}

	normalized, err := normalizeItem(item, spec, p)
	if err != nil {
		return nil, err
	}

	out := d.clone()
	items := out[sec][field].([]Record)
	out[sec][field] = append(items, normalized)
	return out, nil
}

// RemoveItem removes the element at index, preserving the relative order
// of the remaining elements.
func (d Document) RemoveItem(sec Section, field string, index int) (Document, error) {
	p := FieldPath(sec, field)
	spec, err := p.validate()
	if err != nil {
		return nil, err
	}
	if spec.Kind != KindList {
		return nil, fmt.Errorf("%w: %s is not a sequence field", ErrSchema, p)
	}

	out := d.clone()
	items := out[sec][field].([]Record)
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d of %d in %s", ErrIndex, index, len(items), p)
	}
	out[sec][field] = append(items[:index], items[index+1:]...)
	return out, nil
}

func normalizeItem(item Record, spec FieldSpec, p Path) (Record, error) {
	out := make(Record, len(spec.ItemKeys))
	for _, k := range spec.ItemKeys {
		out[k] = ""
	}
	for k, v := range item {
		if !spec.hasItemKey(k) {
			return nil, fmt.Errorf("%w: unknown key %q for %s", ErrSchema, k, p)
		}
		out[k] = v
	}
	return out, nil
}

// Copy returns a deep copy of the document.
func (d Document) Copy() Document { return d.clone() }

func (d Document) clone() Document {
	out := make(Document, len(d))
	for sec, fields := range d {
		values := make(map[string]any, len(fields))
		for name, v := range fields {
			values[name] = copyValue(v)
		}
		out[sec] = values
	}
	return out
}

func copyValue(v any) any {
	switch value := v.(type) {
	case Record:
		return copyRecord(value)
	case []Record:
		out := make([]Record, len(value))
		for i, r := range value {
			out[i] = copyRecord(r)
		}
		return out
	default:
		return v
	}
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// toString flattens scalar JSON values to their string form.
func toString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// toRecord coerces a decoded JSON object into a Record limited to the
// field's key set.
func toRecord(v any, spec FieldSpec) Record {
	out := Record{}
	switch value := v.(type) {
	case Record:
		for k, s := range value {
			if spec.hasItemKey(k) {
				out[k] = s
			}
		}
	case map[string]any:
		for k, raw := range value {
			if spec.hasItemKey(k) {
				out[k] = toString(raw)
			}
		}
	}
	return out
}

// toList coerces a decoded JSON array into []Record. Returns nil when the
// value does not look like a sequence at all, so the default is kept.
func toList(v any, spec FieldSpec) []Record {
	switch value := v.(type) {
	case []Record:
		out := make([]Record, 0, len(value))
		for _, item := range value {
			normalized, err := normalizeItem(filterKeys(item, spec), spec, Path{})
			if err != nil {
				continue
			}
			out = append(out, normalized)
		}
		return out
	case []any:
		out := make([]Record, 0, len(value))
		for _, raw := range value {
			item := toRecord(raw, spec)
			normalized, _ := normalizeItem(item, spec, Path{})
			out = append(out, normalized)
		}
		return out
	default:
		return nil
	}
}

func filterKeys(r Record, spec FieldSpec) Record {
	out := Record{}
	for k, v := range r {
		if spec.hasItemKey(k) {
			out[k] = v
		}
	}
	return out
}

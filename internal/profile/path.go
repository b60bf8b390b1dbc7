package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPath marks addresses outside the canonical schema, and reads
	// past the end of a sequence.
	ErrPath = errors.New("unknown path")

	// ErrSchema marks operations whose value shape does not match the
	// addressed field's kind.
	ErrSchema = errors.New("schema violation")

	// ErrIndex marks removals with an out-of-range index.
	ErrIndex = errors.New("index out of range")
)

// Path addresses a value inside a document: a field of a section, an
// element of a sequence field, or a single key of such an element.
// Index is negative when the path does not address a sequence element.
type Path struct {
	Section  Section
	Field    string
	Index    int
	Subfield string
}

// FieldPath addresses a section field directly.
func FieldPath(sec Section, field string) Path {
	return Path{Section: sec, Field: field, Index: -1}
}

// ItemPath addresses one key of a sequence element.
func ItemPath(sec Section, field string, index int, subfield string) Path {
	return Path{Section: sec, Field: field, Index: index, Subfield: subfield}
}

func (p Path) String() string {
	s := fmt.Sprintf("%s.%s", p.Section, p.Field)
	if p.Index >= 0 {
		s += fmt.Sprintf("[%d]", p.Index)
		if p.Subfield != "" {
			s += "." + p.Subfield
		}
	}
	return s
}

// ParsePath parses a dotted address of the form
// "section.field", "section.field.index" or "section.field.index.subfield".
// Fields containing dots (the application questions) are matched greedily
// against the schema before the index segment is considered.
func ParsePath(s string) (Path, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return Path{}, fmt.Errorf("%w: %q", ErrPath, s)
	}

	sec := Section(parts[0])
	if _, ok := canonical[sec]; !ok {
		return Path{}, fmt.Errorf("%w: unknown section %q", ErrPath, parts[0])
	}

	rest := parts[1]

	// Exact field match first: question fields contain spaces but may in
	// principle contain dots as well.
	if _, ok := canonical[sec][rest]; ok {
		return FieldPath(sec, rest), nil
	}

	segs := strings.Split(rest, ".")
	if len(segs) < 2 {
		return Path{}, fmt.Errorf("%w: unknown field %q in %q", ErrPath, rest, sec)
	}

	// field.index or field.index.subfield
	for cut := len(segs) - 1; cut >= 1; cut-- {
		field := strings.Join(segs[:cut], ".")
		if _, ok := canonical[sec][field]; !ok {
			continue
		}
		idx, err := strconv.Atoi(segs[cut])
		if err != nil {
			return Path{}, fmt.Errorf("%w: bad index %q in %q", ErrPath, segs[cut], s)
		}
		sub := ""
		if cut+1 < len(segs) {
			sub = strings.Join(segs[cut+1:], ".")
		}
		return ItemPath(sec, field, idx, sub), nil
	}

	return Path{}, fmt.Errorf("%w: unknown field in %q", ErrPath, s)
}

// validate checks the path against the canonical schema, without touching
// any document: unknown sections and fields are rejected at the boundary,
// and subfields must belong to the addressed field's closed key set.
func (p Path) validate() (FieldSpec, error) {
	spec, ok := Spec(p.Section, p.Field)
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %s", ErrPath, p)
	}

	if p.Index >= 0 && spec.Kind != KindList {
		return FieldSpec{}, fmt.Errorf("%w: %s is not a sequence field", ErrSchema, p)
	}

	if p.Subfield != "" {
		if p.Index < 0 {
			return FieldSpec{}, fmt.Errorf("%w: subfield without index in %s", ErrPath, p)
		}
		if !spec.hasItemKey(p.Subfield) {
			return FieldSpec{}, fmt.Errorf("%w: unknown subfield %q in %s", ErrPath, p.Subfield, p)
		}
	}

	return spec, nil
}

package toon

import (
	"sort"
	"strings"
)

// Encode renders v as TOON text using DefaultEncodeOptions.
func Encode(v *Value) (string, error) {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions renders v as TOON text.
func EncodeWithOptions(v *Value, opts EncodeOptions) (string, error) {
	r := newRenderer(opts)
	r.value(v, 0, false)
	return r.b.String(), nil
}

type renderer struct {
	b      strings.Builder
	indent int
}

func newRenderer(opts EncodeOptions) *renderer {
	indent := opts.Indent
	if indent < 0 {
		indent = 0
	}
	return &renderer{indent: indent}
}

func (r *renderer) pad(level int) {
	r.b.WriteString(strings.Repeat(" ", level*r.indent))
}

func (r *renderer) value(v *Value, level int, inArray bool) {
	switch v.Kind() {
	case KindNull:
		r.b.WriteString("null")
	case KindBool:
		if v.boolVal {
			r.b.WriteString("true")
		} else {
			r.b.WriteString("false")
		}
	case KindNumber:
		r.b.WriteString(FormatNumber(v.numVal))
	case KindString:
		r.str(v.strVal)
	case KindArray:
		r.array(v.arrVal, level, inArray)
	case KindObject:
		r.object(v.objVal, level, inArray)
	}
}

// str writes s bare when it is a safe identifier, quoted otherwise.
func (r *renderer) str(s string) {
	if !NeedsQuotes(s) {
		r.b.WriteString(s)
		return
	}
	r.b.WriteByte('"')
	r.b.WriteString(EscapeString(s))
	r.b.WriteByte('"')
}

func (r *renderer) array(items []*Value, level int, inArray bool) {
	if len(items) == 0 {
		r.b.WriteString("[]")
		return
	}

	if fields := tableFields(items); fields != nil {
		r.table(items, fields, level)
		return
	}

	if allPrimitive(items) || inArray || level > 0 {
		r.b.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				r.b.WriteString(", ")
			}
			r.value(item, level+1, true)
		}
		r.b.WriteByte(']')
		return
	}

	r.b.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			r.b.WriteString(",\n")
		}
		r.pad(level + 1)
		r.value(item, level+1, true)
	}
	r.b.WriteByte('\n')
	r.pad(level)
	r.b.WriteByte(']')
}

func (r *renderer) object(o *Object, level int, inArray bool) {
	if o.Len() == 0 {
		r.b.WriteString("{}")
		return
	}

	if inArray || level > 0 {
		r.b.WriteByte('{')
		for i, m := range o.Members() {
			if i > 0 {
				r.b.WriteString(", ")
			}
			r.str(m.Key)
			r.b.WriteString(": ")
			r.value(m.Value, level+1, false)
		}
		r.b.WriteByte('}')
		return
	}

	for i, m := range o.Members() {
		if i > 0 {
			r.b.WriteByte('\n')
		}
		r.pad(level)
		r.str(m.Key)
		r.b.WriteString(": ")
		r.value(m.Value, level+1, false)
	}
}

// table writes a header line of field names followed by one line per
// record. The last row has no line terminator.
func (r *renderer) table(items []*Value, fields []string, level int) {
	r.b.WriteByte('[')
	for i, f := range fields {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.str(f)
	}
	r.b.WriteString("]\n")

	for i, item := range items {
		obj, _ := item.AsObject()
		for j, f := range fields {
			if j > 0 {
				r.b.WriteString(", ")
			}
			if v, ok := obj.Get(f); ok {
				r.value(v, level+1, true)
			} else {
				r.b.WriteString("null")
			}
		}
		if i < len(items)-1 {
			r.b.WriteByte('\n')
		}
	}
}

// tableFields returns the sorted header of items when every element is an
// object with the same non-empty set of keys, all holding primitives.
// It returns nil when the array does not qualify. A nested field on any
// element, the first included, disqualifies the array, so no field is
// left out of the table.
func tableFields(items []*Value) []string {
	first, ok := items[0].AsObject()
	if !ok || first.Len() == 0 {
		return nil
	}

	fields := make([]string, 0, first.Len())
	for _, m := range first.Members() {
		if !m.Value.IsPrimitive() {
			return nil
		}
		fields = append(fields, m.Key)
	}
	sort.Strings(fields)

	for _, item := range items[1:] {
		obj, ok := item.AsObject()
		if !ok || obj.Len() != len(fields) {
			return nil
		}
		for _, f := range fields {
			v, ok := obj.Get(f)
			if !ok || !v.IsPrimitive() {
				return nil
			}
		}
	}
	return fields
}

func allPrimitive(items []*Value) bool {
	for _, item := range items {
		if !item.IsPrimitive() {
			return false
		}
	}
	return true
}

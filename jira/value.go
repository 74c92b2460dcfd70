package jira

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Presence tells whether a JSON pointer resolved to a usable value.
type Presence int

const (
	// Missing means the pointer does not resolve, or resolves to null.
	Missing Presence = iota
	// Present means the pointer resolves to a value of the requested type.
	Present
	// WrongType means the pointer resolves to a value of another type.
	WrongType
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case WrongType:
		return "wrong type"
	default:
		return "missing"
	}
}

// Value is the result of a JSON pointer lookup on an issue.
type Value struct {
	result gjson.Result
}

// lookup resolves an RFC 6901 style pointer ("/fields/summary") against raw JSON.
func lookup(raw []byte, pointer string) Value {
	return Value{result: gjson.GetBytes(raw, pointerPath(pointer))}
}

// Exists reports whether the pointer resolved to a non-null value.
func (v Value) Exists() bool {
	return v.result.Exists() && v.result.Type != gjson.Null
}

// Raw returns the raw JSON text of the value.
func (v Value) Raw() string { return v.result.Raw }

// String returns the value when it is a JSON string.
func (v Value) String() (string, Presence) {
	switch {
	case !v.Exists():
		return "", Missing
	case v.result.Type != gjson.String:
		return "", WrongType
	default:
		return v.result.Str, Present
	}
}

// Int returns the value when it is a JSON number.
func (v Value) Int() (int64, Presence) {
	switch {
	case !v.Exists():
		return 0, Missing
	case v.result.Type != gjson.Number:
		return 0, WrongType
	default:
		return v.result.Int(), Present
	}
}

// Bool returns the value when it is a JSON boolean.
func (v Value) Bool() (bool, Presence) {
	switch {
	case !v.Exists():
		return false, Missing
	case v.result.Type != gjson.True && v.result.Type != gjson.False:
		return false, WrongType
	default:
		return v.result.Bool(), Present
	}
}

// Array returns the elements when the value is a JSON array.
func (v Value) Array() ([]Value, Presence) {
	switch {
	case !v.Exists():
		return nil, Missing
	case !v.result.IsArray():
		return nil, WrongType
	}
	items := v.result.Array()
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Value{result: item}
	}
	return out, Present
}

// Get resolves a pointer relative to this value.
func (v Value) Get(pointer string) Value {
	if !v.Exists() {
		return Value{}
	}
	return Value{result: v.result.Get(pointerPath(pointer))}
}

// pointerPath converts "/fields/customfield_10055/name" into a gjson path.
func pointerPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return "@this"
	}
	segs := strings.Split(pointer, "/")
	for i, seg := range segs {
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")
		segs[i] = escapeSegment(seg)
	}
	return strings.Join(segs, ".")
}

// escapeSegment escapes gjson path syntax inside one key.
func escapeSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

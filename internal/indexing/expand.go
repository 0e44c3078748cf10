package indexing

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Document is the engine-facing representation of one indexed unit: a flat
// mapping from field name to a JSON-compatible value.
type Document map[string]any

// Expand builds the Document for record, which must be a struct or a pointer
// to one. Field names come from the json tag (falling back to the Go field
// name). A field tagged `expand:"sfx1,sfx2"` is emitted under its base name
// plus one duplicate per suffix as base__sfx, each carrying the identical
// value; the base field is never dropped. time.Time values are normalized to
// a UTC datetime string at second precision with a trailing Z.
//
// The suffix list is a static property of the record type, so a non-struct
// argument is a programming error and Expand panics on one.
func Expand(record any) Document {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("indexing: Expand called with %s, want struct", v.Kind()))
	}

	t := v.Type()
	doc := make(Document, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		value := normalizeValue(v.Field(i))
		doc[name] = value
		for _, suffix := range suffixes(field) {
			doc[name+"__"+suffix] = value
		}
	}
	return doc
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func suffixes(field reflect.StructField) []string {
	tag := field.Tag.Get("expand")
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeValue converts datetime values to the engine's wire format and
// passes everything else through untouched.
func normalizeValue(v reflect.Value) any {
	switch value := v.Interface().(type) {
	case time.Time:
		return formatDateTime(value)
	case *time.Time:
		if value == nil {
			return nil
		}
		return formatDateTime(*value)
	default:
		return value
	}
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// Package city defines the record shown on the city list and the helpers used
// to move it to and from remote documents.
package city

import (
	"fmt"
	"strings"
)

// Document field names.
const (
	FieldName     = "name"
	FieldProvince = "province"
)

// City is a name/province pair. Name doubles as the document key.
type City struct {
	Name     string
	Province string
}

// New returns a City with the given fields.
func New(name, province string) City {
	return City{Name: name, Province: province}
}

// Trimmed returns a copy with surrounding whitespace removed from both fields.
func (c City) Trimmed() City {
	return City{Name: strings.TrimSpace(c.Name), Province: strings.TrimSpace(c.Province)}
}

// Key returns the document key for the city.
func (c City) Key() string {
	return strings.TrimSpace(c.Name)
}

// Label renders "name (province)".
func (c City) Label() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Province)
}

// Fields returns the document body written to the store.
func (c City) Fields() map[string]any {
	return map[string]any{
		FieldName:     c.Name,
		FieldProvince: c.Province,
	}
}

// FromFields builds a City from a document body. Missing or non-string
// fields become empty strings.
func FromFields(fields map[string]any) City {
	return City{
		Name:     stringField(fields, FieldName),
		Province: stringField(fields, FieldProvince),
	}
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	v, ok := fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

package events

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Descriptor identifies one event handler.
type Descriptor struct {
	// From is the absolute path of the file declaring the handler.
	From string `json:"from"`

	// Name is the logical event name.
	Name string `json:"name"`

	// As overrides Name in generated code and on the wire.
	As string `json:"as,omitempty"`

	// DefaultExport reports whether the handler is the file's default export
	// (the function named after the file) rather than the function called Name.
	// Nil means true.
	DefaultExport *bool `json:"default_export,omitempty"`
}

// Descriptors is an ordered descriptor sequence.
type Descriptors []Descriptor

// EffectiveName returns As if set, else Name.
func (d Descriptor) EffectiveName() string {
	if d.As != "" {
		return d.As
	}
	return d.Name
}

// IsDefaultExport reports whether the handler is the file's default export.
func (d Descriptor) IsDefaultExport() bool {
	return d.DefaultExport == nil || *d.DefaultExport
}

// ExportName returns the Go function name implementing the handler.
func (d Descriptor) ExportName() string {
	if d.IsDefaultExport() {
		return DefaultExportName(d.From)
	}
	return d.Name
}

// Names returns the effective names in order.
func (ds Descriptors) Names() []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.EffectiveName()
	}
	return names
}

// Bool returns a pointer to v, for DefaultExport literals.
func Bool(v bool) *bool {
	return &v
}

// DefaultExportName returns the name of a file's default export: the base
// name without extension in PascalCase. Underscores, dashes, dots and spaces
// separate words.
//
//	send.go       → Send
//	user_join.go  → UserJoin
//	user-left.go  → UserLeft
func DefaultExportName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})

	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// Package i18n resolves localized error messages for API responses.
package i18n

import (
	_ "embed"
	"fmt"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var bundled []byte

// Messages is a key -> locale -> format table.
type Messages struct {
	table map[string]map[string]string
}

// Load parses a YAML message table.
func Load(data []byte) (*Messages, error) {
	table := map[string]map[string]string{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return &Messages{table: table}, nil
}

// Default returns the table compiled into the binary.
func Default() *Messages {
	m, err := Load(bundled)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the message for key in the locale of tag, formatted with args.
// A missing key or locale yields the key itself.
func (m *Messages) Get(key string, args []any, tag language.Tag) string {
	locales, ok := m.table[key]
	if !ok {
		return key
	}
	base, _ := tag.Base()
	format, ok := locales[base.String()]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

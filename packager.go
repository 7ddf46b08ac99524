package iso8583

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Packager is the field specification table: one FieldDefinition per field
// number 1..128. A Packager is never modified after construction and is safe
// for concurrent use.
type Packager struct {
	name   string
	fields [MaxFieldNumber + 1]FieldDefinition
}

var defaultPackager = &Packager{name: "iso8583:1987", fields: defaultFields}

// DefaultPackager returns the shared ISO 8583:1987 table.
func DefaultPackager() *Packager {
	return defaultPackager
}

// Name identifies the table in logs.
func (p *Packager) Name() string {
	return p.name
}

// Lookup returns the definition of a field. Numbers outside 1..128 and
// numbers without a definition yield ErrUndefinedField.
func (p *Packager) Lookup(fieldNum int) (FieldDefinition, error) {
	if fieldNum < 1 || fieldNum > MaxFieldNumber || !p.fields[fieldNum].defined() {
		return FieldDefinition{}, &FieldError{Field: fieldNum, Err: ErrUndefinedField}
	}
	return p.fields[fieldNum], nil
}

// Defined reports whether the table has an entry for fieldNum.
func (p *Packager) Defined(fieldNum int) bool {
	return fieldNum >= 1 && fieldNum <= MaxFieldNumber && p.fields[fieldNum].defined()
}

// Without returns a copy of the table with the given fields undefined.
func (p *Packager) Without(fields ...int) *Packager {
	cp := &Packager{name: p.name, fields: p.fields}
	for _, f := range fields {
		if f >= 1 && f <= MaxFieldNumber {
			cp.fields[f] = FieldDefinition{}
		}
	}
	return cp
}

// FieldConfig is the serialized form of a FieldDefinition.
type FieldConfig struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string `json:"type" yaml:"type"`
	Length    string `json:"length" yaml:"length"`
	MaxLength int    `json:"max_length" yaml:"max_length"`
}

// PackagerConfig describes a custom field table. With Base "default" (or
// empty) the listed fields overlay the ISO 8583:1987 table; with Base "empty"
// only the listed fields are defined.
type PackagerConfig struct {
	Name   string                 `json:"name" yaml:"name"`
	Base   string                 `json:"base,omitempty" yaml:"base,omitempty"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
}

// LoadPackagerJSON builds a Packager from a JSON PackagerConfig document.
func LoadPackagerJSON(data []byte) (*Packager, error) {
	var config PackagerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse packager config: %v", ErrInvalidPackager, err)
	}
	return NewPackager(&config)
}

// LoadPackagerYAML builds a Packager from a YAML PackagerConfig document.
func LoadPackagerYAML(data []byte) (*Packager, error) {
	var config PackagerConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse packager config: %v", ErrInvalidPackager, err)
	}
	return NewPackager(&config)
}

// NewPackager compiles a PackagerConfig into an immutable Packager.
func NewPackager(config *PackagerConfig) (*Packager, error) {
	p := &Packager{name: config.Name}
	switch config.Base {
	case "", "default":
		p.fields = defaultFields
	case "empty":
		p.fields[1] = defaultFields[1]
	default:
		return nil, fmt.Errorf("%w: unknown base %q", ErrInvalidPackager, config.Base)
	}
	if p.name == "" {
		p.name = "custom"
	}

	for key, fc := range config.Fields {
		num, err := strconv.Atoi(key)
		if err != nil || num < 2 || num > MaxFieldNumber {
			return nil, fmt.Errorf("%w: field key %q must be a number between 2 and %d", ErrInvalidPackager, key, MaxFieldNumber)
		}
		def, err := fc.definition(num)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", num, err)
		}
		p.fields[num] = def
	}
	return p, nil
}

func (fc FieldConfig) definition(num int) (FieldDefinition, error) {
	dt, err := parseDataType(fc.Type)
	if err != nil {
		return FieldDefinition{}, err
	}
	lt, err := parseLengthType(fc.Length)
	if err != nil {
		return FieldDefinition{}, err
	}

	limit := 0
	switch lt {
	case LengthLLVAR:
		limit = 99
	case LengthLLLVAR:
		limit = 999
	}
	if fc.MaxLength < 1 || (limit > 0 && fc.MaxLength > limit) {
		return FieldDefinition{}, fmt.Errorf("%w: max_length %d invalid for %s", ErrInvalidPackager, fc.MaxLength, lt)
	}

	name := fc.Name
	if name == "" {
		name = defaultFields[num].Name
	}
	return FieldDefinition{Number: num, Name: name, Type: dt, Length: lt, MaxLength: fc.MaxLength}, nil
}

package iso8583

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseLengthPrefix reads an ASCII decimal length prefix.
func parseLengthPrefix(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// appendLengthPrefix appends n as a zero-padded decimal of the given width.
func appendLengthPrefix(dst []byte, n, digits int) []byte {
	var buf [4]byte
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, buf[:digits]...)
}

// checkContent enforces the data type of a field over its raw content.
func checkContent(def FieldDefinition, content []byte) error {
	var valid func(byte) bool
	switch def.Type {
	case DataTypeNumeric:
		valid = isDigit
	case DataTypeAlpha:
		valid = isAlphaOrSpace
	case DataTypeAlphaNumeric:
		valid = isAlphaNumericOrSpace
	case DataTypeAlphaNumericSpecial:
		valid = isPrintable
	default:
		return nil
	}
	for i, c := range content {
		if !valid(c) {
			return &FieldTypeError{Field: def.Number, Expected: def.Type, Position: i}
		}
	}
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isAlphaOrSpace(c byte) bool {
	return isLetter(c) || c == ' '
}

func isAlphaNumericOrSpace(c byte) bool {
	return isLetter(c) || isDigit(c) || c == ' '
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

// SubfieldSpec describes a positional sub-element carried inside a field,
// such as the pieces of a private-use field 48 or the POS data in field 61.
type SubfieldSpec struct {
	Field       int    `json:"field" yaml:"field"`
	DataType    string `json:"data_type" yaml:"data_type"` // "n", "a", "an", "ans", "hex" or "" for any
	Length      int    `json:"length" yaml:"length"`
	Padding     string `json:"padding" yaml:"padding"` // "left", "right", "none"
	PadChar     string `json:"pad_char" yaml:"pad_char"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	From        int    `json:"from,omitempty" yaml:"from,omitempty"`
	Until       int    `json:"until,omitempty" yaml:"until,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	TrimPadding bool   `json:"trim_padding" yaml:"trim_padding"`
}

// Padding values for SubfieldSpec.
const (
	PaddingLeft  = "left"
	PaddingRight = "right"
	PaddingNone  = "none"
)

// Format values for SubfieldSpec.
const (
	FormatYYYYMMDD = "YYYYMMDD"
	FormatYYMMDD   = "YYMMDD"
	FormatMMDD     = "MMDD"
	FormatHHMMSS   = "HHMMSS"
	FormatYYMM     = "YYMM"

	FormatMMDDhhmmss = "MMDDhhmmss"
)

// SubfieldResult is the outcome of extracting one SubfieldSpec.
type SubfieldResult struct {
	Value   string `json:"value"`
	Field   int    `json:"field"`
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// ExtractSubfields cuts the configured sub-elements out of m. Every spec is
// evaluated; the returned error joins all failures, and the result map still
// holds a SubfieldResult for each failing spec.
func ExtractSubfields(m *Message, specs map[string]SubfieldSpec) (map[string]SubfieldResult, error) {
	results := make(map[string]SubfieldResult, len(specs))
	var failures []string

	fail := func(key string, result SubfieldResult, err error) {
		msg := fmt.Sprintf("field %d (%s): %v", result.Field, key, err)
		failures = append(failures, msg)
		result.IsValid = false
		result.Error = msg
		results[key] = result
	}

	for key, spec := range specs {
		result := SubfieldResult{Field: spec.Field, IsValid: true}

		fv, ok := m.Field(spec.Field)
		if !ok {
			if spec.Required {
				fail(key, result, ErrMissingField)
			}
			continue
		}

		value := fv.String()
		if spec.From > 0 && spec.Until > 0 {
			cut, err := substring(value, spec.From, spec.Until)
			if err != nil {
				fail(key, result, err)
				continue
			}
			value = cut
		}
		if spec.TrimPadding {
			value = trimPadding(value, spec.Padding, spec.PadChar)
		}
		result.Value = value

		if spec.Format != "" {
			if err := checkFormat(value, spec.Format); err != nil {
				fail(key, result, err)
				continue
			}
		}
		if err := checkSubfieldType(value, spec.DataType); err != nil {
			fail(key, result, err)
			continue
		}
		if spec.Length > 0 && !spec.TrimPadding && len(value) != spec.Length {
			fail(key, result, fmt.Errorf("expected length %d, got %d", spec.Length, len(value)))
			continue
		}

		results[key] = result
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(failures, "; "))
	}
	return results, nil
}

// trimPadding strips padding. Left-justified values carry their padding on
// the right and vice versa.
func trimPadding(value, padding, padChar string) string {
	if padChar == "" {
		return value
	}
	switch padding {
	case PaddingLeft:
		return strings.TrimRight(value, padChar)
	case PaddingRight:
		return strings.TrimLeft(value, padChar)
	default:
		return value
	}
}

func checkFormat(value, format string) error {
	layouts := map[string]string{
		FormatYYYYMMDD: "20060102",
		FormatYYMMDD:   "060102",
		FormatMMDD:     "0102",
		FormatHHMMSS:   "150405",
		FormatYYMM:     "0601",

		FormatMMDDhhmmss: "0102150405",
	}
	layout, ok := layouts[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	if len(value) != len(layout) {
		return fmt.Errorf("invalid %s value %q: expected %d digits", format, value, len(layout))
	}
	if _, err := time.Parse(layout, value); err != nil {
		return fmt.Errorf("invalid %s value %q", format, value)
	}
	return nil
}

// substring cuts the 1-based inclusive range [from, until].
func substring(value string, from, until int) (string, error) {
	if from < 1 || until < 1 {
		return "", fmt.Errorf("invalid indices: from=%d, until=%d (must be >= 1)", from, until)
	}
	if from > until {
		return "", fmt.Errorf("invalid range: from=%d > until=%d", from, until)
	}
	if from > len(value) {
		return "", fmt.Errorf("start index %d exceeds value length %d", from, len(value))
	}
	if until > len(value) {
		return "", fmt.Errorf("end index %d exceeds value length %d", until, len(value))
	}
	return value[from-1 : until], nil
}

func checkSubfieldType(value, dataType string) error {
	var valid func(byte) bool
	switch strings.ToLower(dataType) {
	case "", "any":
		return nil
	case "hex":
		valid = isHex
	default:
		dt, err := parseDataType(dataType)
		if err != nil {
			return fmt.Errorf("unknown data type %q", dataType)
		}
		return checkContent(FieldDefinition{Type: dt}, []byte(value))
	}
	for i := 0; i < len(value); i++ {
		if !valid(value[i]) {
			return fmt.Errorf("invalid hex character %q at position %d", value[i], i)
		}
	}
	return nil
}

// atoiDigits parses an all-digit string; anything else reports false.
func atoiDigits(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil && s != ""
}

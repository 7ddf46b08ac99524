package iso8583

import (
	"bytes"
	"strconv"
)

// FieldValue is the raw content of one field, tagged with its number. The
// content is always an owned copy: it never aliases a parse buffer or a
// caller's slice.
type FieldValue struct {
	field int
	data  []byte
}

func newFieldValue(field int, content []byte) FieldValue {
	data := make([]byte, len(content))
	copy(data, content)
	return FieldValue{field: field, data: data}
}

// Field returns the field number the value belongs to.
func (fv FieldValue) Field() int {
	return fv.field
}

// String returns the content as text.
func (fv FieldValue) String() string {
	return string(fv.data)
}

// Bytes returns a copy of the content.
func (fv FieldValue) Bytes() []byte {
	if fv.data == nil {
		return nil
	}
	out := make([]byte, len(fv.data))
	copy(out, fv.data)
	return out
}

// Len returns the content length in bytes.
func (fv FieldValue) Len() int {
	return len(fv.data)
}

// IsPresent reports whether the value holds a field.
func (fv FieldValue) IsPresent() bool {
	return fv.field != 0
}

// Int64 parses the content as a decimal integer.
func (fv FieldValue) Int64() (int64, error) {
	if !fv.IsPresent() {
		return 0, ErrMissingField
	}
	return strconv.ParseInt(string(fv.data), 10, 64)
}

// Int parses the content as a decimal integer.
func (fv FieldValue) Int() (int, error) {
	n, err := fv.Int64()
	return int(n), err
}

// Equal reports whether both values carry the same field and content.
func (fv FieldValue) Equal(other FieldValue) bool {
	return fv.field == other.field && bytes.Equal(fv.data, other.data)
}

// padByte is the filler used to bring a short fixed-length value to size.
func padByte(dt DataType) byte {
	switch dt {
	case DataTypeNumeric:
		return '0'
	case DataTypeBinary:
		return 0x00
	default:
		return ' '
	}
}

// NormalizeField returns the exact content that goes on the wire for value:
// fixed-length values are padded (numeric on the left with '0', binary on
// the right with 0x00, everything else on the right with spaces), lengths
// are checked against the definition and the content against its data type.
// Values are never truncated.
func NormalizeField(def FieldDefinition, value []byte) ([]byte, error) {
	limit := def.maxContent()
	if len(value) > limit {
		return nil, &FieldLengthError{Field: def.Number, Max: limit, Length: len(value)}
	}

	content := value
	if def.Length == LengthFixed && len(value) < def.MaxLength {
		content = make([]byte, def.MaxLength)
		pad := padByte(def.Type)
		short := def.MaxLength - len(value)
		if def.Type == DataTypeNumeric {
			fill(content[:short], pad)
			copy(content[short:], value)
		} else {
			copy(content, value)
			fill(content[len(value):], pad)
		}
	} else {
		content = make([]byte, len(value))
		copy(content, value)
	}

	if err := checkContent(def, content); err != nil {
		return nil, err
	}
	return content, nil
}

func fill(b []byte, c byte) {
	for i := range b {
		b[i] = c
	}
}

// EncodeField returns the wire form of one field: an optional ASCII length
// prefix followed by the normalized content.
func EncodeField(def FieldDefinition, value []byte) ([]byte, error) {
	return AppendField(make([]byte, 0, encodedLen(def, len(value))), def, value)
}

// AppendField appends the wire form of one field to dst. On error dst is
// returned unchanged.
func AppendField(dst []byte, def FieldDefinition, value []byte) ([]byte, error) {
	content, err := NormalizeField(def, value)
	if err != nil {
		return dst, err
	}
	if digits := def.Length.prefixDigits(); digits > 0 {
		dst = appendLengthPrefix(dst, len(content), digits)
	}
	return append(dst, content...), nil
}

// encodedLen is the wire size of a field with n content bytes.
func encodedLen(def FieldDefinition, n int) int {
	if def.Length == LengthFixed {
		return max(n, def.MaxLength)
	}
	return def.Length.prefixDigits() + n
}

// DecodeField reads one field from the start of data and returns its value
// together with the number of bytes consumed. The declared length of a
// variable field is checked against the bytes actually available before
// anything is allocated.
func DecodeField(def FieldDefinition, data []byte) (FieldValue, int, error) {
	if def.Length == LengthFixed {
		if len(data) < def.MaxLength {
			return FieldValue{}, 0, &FieldError{Field: def.Number, Err: ErrTruncatedField}
		}
		content := data[:def.MaxLength]
		if err := checkContent(def, content); err != nil {
			return FieldValue{}, 0, err
		}
		return newFieldValue(def.Number, content), def.MaxLength, nil
	}

	digits := def.Length.prefixDigits()
	if len(data) < digits {
		return FieldValue{}, 0, &FieldError{Field: def.Number, Err: ErrTruncatedField}
	}
	declared, ok := parseLengthPrefix(data[:digits])
	if !ok {
		return FieldValue{}, 0, &FieldError{Field: def.Number, Err: ErrInvalidLengthPrefix}
	}
	if declared > len(data)-digits {
		return FieldValue{}, 0, &FieldError{Field: def.Number, Err: ErrTruncatedField}
	}
	if limit := def.maxContent(); declared > limit {
		return FieldValue{}, 0, &FieldLengthError{Field: def.Number, Max: limit, Length: declared}
	}

	content := data[digits : digits+declared]
	if err := checkContent(def, content); err != nil {
		return FieldValue{}, 0, err
	}
	return newFieldValue(def.Number, content), digits + declared, nil
}

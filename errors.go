package iso8583

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the codec matches exactly one of
// these with errors.Is; the typed errors below carry the details.
var (
	ErrInvalidMTI          = errors.New("invalid MTI")
	ErrMessageTooShort     = errors.New("message too short")
	ErrTruncatedBitmap     = errors.New("truncated bitmap")
	ErrTruncatedField      = errors.New("truncated field")
	ErrInvalidLengthPrefix = errors.New("invalid length prefix")
	ErrFieldTooLong        = errors.New("field too long")
	ErrFieldTypeMismatch   = errors.New("field type mismatch")
	ErrUndefinedField      = errors.New("undefined field")
	ErrTrailingData        = errors.New("trailing data")
	ErrOutOfRange          = errors.New("field number out of range")

	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrInvalidPackager  = errors.New("invalid packager")
	ErrValidationFailed = errors.New("validation failed")
	ErrMissingField     = errors.New("field not present")
	ErrInvalidLength    = errors.New("invalid length indicator")
	ErrBufferTooSmall   = errors.New("buffer too small")
	ErrInvalidTLV       = errors.New("invalid TLV structure")
)

// FieldError attaches a field number to an error kind.
type FieldError struct {
	Field int
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", fe.Field, fe.Err)
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}

// FieldLengthError reports content longer than a field allows.
type FieldLengthError struct {
	Field  int
	Max    int
	Length int
}

func (e *FieldLengthError) Error() string {
	return fmt.Sprintf("field %d: %v: length %d exceeds maximum %d", e.Field, ErrFieldTooLong, e.Length, e.Max)
}

func (e *FieldLengthError) Unwrap() error {
	return ErrFieldTooLong
}

// FieldTypeError reports content that does not match the field's data type.
type FieldTypeError struct {
	Field    int
	Expected DataType
	Position int
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %d: %v: expected %s, bad character at position %d", e.Field, ErrFieldTypeMismatch, e.Expected, e.Position)
}

func (e *FieldTypeError) Unwrap() error {
	return ErrFieldTypeMismatch
}

// ShortMessageError reports a buffer that ended before a mandatory part of
// the message. Cause, when set, is the lower-level error (for instance a
// TruncatedBitmapError) and is reachable through errors.Is/As as well.
type ShortMessageError struct {
	Expected int
	Actual   int
	Cause    error
}

func (e *ShortMessageError) Error() string {
	return fmt.Sprintf("%v: expected %d bytes, got %d", ErrMessageTooShort, e.Expected, e.Actual)
}

func (e *ShortMessageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMessageTooShort}
	}
	return []error{ErrMessageTooShort, e.Cause}
}

// TruncatedBitmapError is returned by BitmapFromBytes.
type TruncatedBitmapError struct {
	Expected int
	Actual   int
}

func (e *TruncatedBitmapError) Error() string {
	return fmt.Sprintf("%v: need %d bytes, have %d", ErrTruncatedBitmap, e.Expected, e.Actual)
}

func (e *TruncatedBitmapError) Unwrap() error {
	return ErrTruncatedBitmap
}

// MTIError carries the offending raw MTI bytes.
type MTIError struct {
	Raw    string
	Reason string
}

func (e *MTIError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidMTI, e.Raw, e.Reason)
}

func (e *MTIError) Unwrap() error {
	return ErrInvalidMTI
}

// TrailingDataError reports bytes left over after the last field.
type TrailingDataError struct {
	Count int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%v: %d unconsumed bytes", ErrTrailingData, e.Count)
}

func (e *TrailingDataError) Unwrap() error {
	return ErrTrailingData
}

// ValidationError is returned by Validator when a rule rejects a field.
type ValidationError struct {
	Field   int
	Rule    string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %d (%s): %s", ve.Field, ve.Rule, ve.Message)
}

func (ve *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// withField wraps err with the field number unless it already carries one.
func withField(field int, err error) error {
	var fe *FieldError
	var le *FieldLengthError
	var te *FieldTypeError
	if errors.As(err, &fe) || errors.As(err, &le) || errors.As(err, &te) {
		return err
	}
	return &FieldError{Field: field, Err: err}
}

package iso8583

import (
	"fmt"
	"strings"
)

// DataType is the semantic content type of a field.
type DataType int

const (
	DataTypeNumeric DataType = iota
	DataTypeAlpha
	DataTypeAlphaNumeric
	DataTypeAlphaNumericSpecial
	DataTypeBinary
	DataTypeTrack2
	DataTypeTrack3
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNumeric:
		return "n"
	case DataTypeAlpha:
		return "a"
	case DataTypeAlphaNumeric:
		return "an"
	case DataTypeAlphaNumericSpecial:
		return "ans"
	case DataTypeBinary:
		return "b"
	case DataTypeTrack2:
		return "z"
	case DataTypeTrack3:
		return "track3"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

func parseDataType(s string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NUMERIC":
		return DataTypeNumeric, nil
	case "A", "ALPHA":
		return DataTypeAlpha, nil
	case "AN", "ALPHANUMERIC":
		return DataTypeAlphaNumeric, nil
	case "ANS", "ALPHANUMERIC_SPECIAL":
		return DataTypeAlphaNumericSpecial, nil
	case "B", "BINARY":
		return DataTypeBinary, nil
	case "Z", "TRACK2":
		return DataTypeTrack2, nil
	case "TRACK3":
		return DataTypeTrack3, nil
	}
	return 0, fmt.Errorf("%w: unknown data type %q", ErrInvalidPackager, s)
}

// LengthType is the length class of a field on the wire.
type LengthType int

const (
	LengthFixed LengthType = iota
	LengthLLVAR
	LengthLLLVAR
)

func (lt LengthType) String() string {
	switch lt {
	case LengthFixed:
		return "FIXED"
	case LengthLLVAR:
		return "LLVAR"
	case LengthLLLVAR:
		return "LLLVAR"
	default:
		return fmt.Sprintf("LengthType(%d)", int(lt))
	}
}

// prefixDigits is the number of ASCII length digits in front of the content.
func (lt LengthType) prefixDigits() int {
	switch lt {
	case LengthLLVAR:
		return 2
	case LengthLLLVAR:
		return 3
	default:
		return 0
	}
}

func parseLengthType(s string) (LengthType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIXED", "":
		return LengthFixed, nil
	case "LLVAR":
		return LengthLLVAR, nil
	case "LLLVAR":
		return LengthLLLVAR, nil
	}
	return 0, fmt.Errorf("%w: unknown length type %q", ErrInvalidPackager, s)
}

// FieldDefinition describes one data element. For LengthFixed, MaxLength
// is the exact wire length.
type FieldDefinition struct {
	Number    int
	Name      string
	Type      DataType
	Length    LengthType
	MaxLength int
}

// maxContent is the longest content the definition can carry on the wire.
func (fd FieldDefinition) maxContent() int {
	switch fd.Length {
	case LengthLLVAR:
		return min(99, fd.MaxLength)
	case LengthLLLVAR:
		return min(999, fd.MaxLength)
	default:
		return fd.MaxLength
	}
}

func (fd FieldDefinition) defined() bool {
	return fd.Number != 0
}

func (fd FieldDefinition) String() string {
	if fd.Length == LengthFixed {
		return fmt.Sprintf("DE%d %s %s%d", fd.Number, fd.Name, fd.Type, fd.MaxLength)
	}
	return fmt.Sprintf("DE%d %s %s..%d %s", fd.Number, fd.Name, fd.Type, fd.MaxLength, fd.Length)
}

const (
	MaxFieldNumber      = 128
	BitmapSize          = 8
	SecondaryBitmapSize = 8
	MTILength           = 4
)

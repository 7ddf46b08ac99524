package iso8583

import (
	"encoding/binary"
	"fmt"
)

// LengthIndicatorType selects the encoding of the message length prefix that
// TCP links put in front of every ISO 8583 message.
type LengthIndicatorType int

const (
	LengthIndicatorNone   LengthIndicatorType = iota
	LengthIndicatorBinary                     // 2 or 4 bytes, big-endian
	LengthIndicatorASCII                      // 4 decimal digits, e.g. "0200"
	LengthIndicatorHex                        // 4 hex characters, e.g. "00C8"
)

// LengthIndicatorConfig describes a length prefix. Length is the prefix
// size in bytes.
type LengthIndicatorConfig struct {
	Type   LengthIndicatorType `json:"type" yaml:"type"`
	Length int                 `json:"length" yaml:"length"`
}

// Common prefixes.
var (
	NoLengthIndicator      = LengthIndicatorConfig{Type: LengthIndicatorNone}
	Binary2LengthIndicator = LengthIndicatorConfig{Type: LengthIndicatorBinary, Length: 2}
	Binary4LengthIndicator = LengthIndicatorConfig{Type: LengthIndicatorBinary, Length: 4}
	ASCIILengthIndicator   = LengthIndicatorConfig{Type: LengthIndicatorASCII, Length: 4}
	HexLengthIndicator     = LengthIndicatorConfig{Type: LengthIndicatorHex, Length: 4}
)

// WriteLengthIndicator writes the prefix for a message of msgLen bytes into
// buf and returns the number of bytes written.
func WriteLengthIndicator(msgLen int, buf []byte, config LengthIndicatorConfig) (int, error) {
	if config.Type == LengthIndicatorNone {
		return 0, nil
	}
	if msgLen < 0 {
		return 0, fmt.Errorf("%w: negative message length %d", ErrInvalidLength, msgLen)
	}
	if len(buf) < config.Length {
		return 0, ErrBufferTooSmall
	}

	switch config.Type {
	case LengthIndicatorBinary:
		return writeBinaryLengthIndicator(msgLen, buf, config)
	case LengthIndicatorASCII:
		return writeASCIILengthIndicator(msgLen, buf, config)
	case LengthIndicatorHex:
		return writeHexLengthIndicator(msgLen, buf, config)
	default:
		return 0, fmt.Errorf("%w: unsupported length indicator type %d", ErrInvalidLength, config.Type)
	}
}

// ReadLengthIndicator reads a prefix from the start of buf. It returns the
// announced message length and the number of prefix bytes consumed.
func ReadLengthIndicator(buf []byte, config LengthIndicatorConfig) (int, int, error) {
	if config.Type == LengthIndicatorNone {
		return len(buf), 0, nil
	}
	if len(buf) < config.Length {
		return 0, 0, fmt.Errorf("%w: need %d prefix bytes, have %d", ErrInvalidLength, config.Length, len(buf))
	}

	switch config.Type {
	case LengthIndicatorBinary:
		return readBinaryLengthIndicator(buf, config)
	case LengthIndicatorASCII:
		return readASCIILengthIndicator(buf, config)
	case LengthIndicatorHex:
		return readHexLengthIndicator(buf, config)
	default:
		return 0, 0, fmt.Errorf("%w: unsupported length indicator type %d", ErrInvalidLength, config.Type)
	}
}

// Frame returns msg preceded by its length prefix.
func Frame(msg []byte, config LengthIndicatorConfig) ([]byte, error) {
	if config.Length < 0 {
		return nil, fmt.Errorf("%w: negative prefix size %d", ErrInvalidLength, config.Length)
	}
	out := make([]byte, config.Length+len(msg))
	n, err := WriteLengthIndicator(len(msg), out, config)
	if err != nil {
		return nil, err
	}
	copy(out[n:], msg)
	return out[:n+len(msg)], nil
}

// Unframe splits one length-prefixed message off the front of data. It
// returns the message and the bytes that follow it; the message aliases
// data.
func Unframe(data []byte, config LengthIndicatorConfig) (msg, rest []byte, err error) {
	msgLen, n, err := ReadLengthIndicator(data, config)
	if err != nil {
		return nil, data, err
	}
	if msgLen > len(data)-n {
		return nil, data, fmt.Errorf("%w: prefix announces %d bytes, have %d", ErrInvalidLength, msgLen, len(data)-n)
	}
	return data[n : n+msgLen], data[n+msgLen:], nil
}

// writeBinaryLengthIndicator writes a 2 or 4 byte big-endian length.
func writeBinaryLengthIndicator(msgLen int, buf []byte, config LengthIndicatorConfig) (int, error) {
	switch config.Length {
	case 2:
		if msgLen > 0xFFFF {
			return 0, fmt.Errorf("%w: message length %d exceeds 2-byte maximum", ErrInvalidLength, msgLen)
		}
		binary.BigEndian.PutUint16(buf, uint16(msgLen))
		return 2, nil
	case 4:
		if msgLen > 0x7FFFFFFF {
			return 0, fmt.Errorf("%w: message length %d exceeds 4-byte maximum", ErrInvalidLength, msgLen)
		}
		binary.BigEndian.PutUint32(buf, uint32(msgLen))
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: binary length indicator size %d (must be 2 or 4)", ErrInvalidLength, config.Length)
	}
}

func readBinaryLengthIndicator(buf []byte, config LengthIndicatorConfig) (int, int, error) {
	switch config.Length {
	case 2:
		return int(binary.BigEndian.Uint16(buf)), 2, nil
	case 4:
		n := binary.BigEndian.Uint32(buf)
		if n > 0x7FFFFFFF {
			return 0, 0, fmt.Errorf("%w: length %d out of range", ErrInvalidLength, n)
		}
		return int(n), 4, nil
	default:
		return 0, 0, fmt.Errorf("%w: binary length indicator size %d (must be 2 or 4)", ErrInvalidLength, config.Length)
	}
}

// writeASCIILengthIndicator writes a 4-digit decimal length, e.g. "0200".
func writeASCIILengthIndicator(msgLen int, buf []byte, config LengthIndicatorConfig) (int, error) {
	if config.Length != 4 {
		return 0, fmt.Errorf("%w: ASCII length indicator must be 4 characters, got %d", ErrInvalidLength, config.Length)
	}
	if msgLen > 9999 {
		return 0, fmt.Errorf("%w: message length %d exceeds 4-digit ASCII maximum", ErrInvalidLength, msgLen)
	}
	appendLengthPrefix(buf[:0], msgLen, 4)
	return 4, nil
}

func readASCIILengthIndicator(buf []byte, config LengthIndicatorConfig) (int, int, error) {
	if config.Length != 4 {
		return 0, 0, fmt.Errorf("%w: ASCII length indicator must be 4 characters, got %d", ErrInvalidLength, config.Length)
	}
	msgLen, ok := parseLengthPrefix(buf[:4])
	if !ok {
		return 0, 0, fmt.Errorf("%w: ASCII length indicator %q is not numeric", ErrInvalidLength, buf[:4])
	}
	return msgLen, 4, nil
}

// writeHexLengthIndicator writes a 4-character hex length, e.g. "00C8".
func writeHexLengthIndicator(msgLen int, buf []byte, config LengthIndicatorConfig) (int, error) {
	if config.Length != 4 {
		return 0, fmt.Errorf("%w: hex length indicator must be 4 characters, got %d", ErrInvalidLength, config.Length)
	}
	if msgLen > 0xFFFF {
		return 0, fmt.Errorf("%w: message length %d exceeds 4-char hex maximum", ErrInvalidLength, msgLen)
	}
	encodeHexUpper(buf[:4], []byte{byte(msgLen >> 8), byte(msgLen)})
	return 4, nil
}

func readHexLengthIndicator(buf []byte, config LengthIndicatorConfig) (int, int, error) {
	if config.Length != 4 {
		return 0, 0, fmt.Errorf("%w: hex length indicator must be 4 characters, got %d", ErrInvalidLength, config.Length)
	}
	n := 0
	for _, c := range buf[:4] {
		d, ok := hexDigit(c)
		if !ok {
			return 0, 0, fmt.Errorf("%w: hex length indicator %q", ErrInvalidLength, buf[:4])
		}
		n = n<<4 | d
	}
	return n, 4, nil
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	}
	return 0, false
}

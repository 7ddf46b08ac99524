package iso8583

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// TLV is one tag-length-value element. For EMV data the tag is the upper
// case hex form of the tag bytes ("9F02"); for ASCII TLV it is the literal
// tag ("AL").
type TLV struct {
	Tag   string
	Value []byte
}

// ParseEMV decodes BER-TLV data such as the ICC data of field 55. Tags may
// span several bytes and lengths use the short or the 0x81/0x82 long form.
// Constructed tags are returned as single elements; callers can parse their
// value again. Values are copied out of data.
func ParseEMV(data []byte) ([]TLV, error) {
	var tlvs []TLV
	offset := 0
	for offset < len(data) {
		// 0x00 and 0xFF are padding between elements.
		if data[offset] == 0x00 || data[offset] == 0xFF {
			offset++
			continue
		}

		tagStart := offset
		offset++
		if data[tagStart]&0x1F == 0x1F {
			for offset < len(data) && data[offset]&0x80 != 0 {
				offset++
			}
			if offset >= len(data) {
				return nil, fmt.Errorf("%w: truncated tag at offset %d", ErrInvalidTLV, tagStart)
			}
			offset++
		}
		tag := strings.ToUpper(hex.EncodeToString(data[tagStart:offset]))

		if offset >= len(data) {
			return nil, fmt.Errorf("%w: missing length for tag %s", ErrInvalidTLV, tag)
		}
		length := int(data[offset])
		offset++
		if length&0x80 != 0 {
			n := length & 0x7F
			if n == 0 || n > 2 || offset+n > len(data) {
				return nil, fmt.Errorf("%w: bad length for tag %s", ErrInvalidTLV, tag)
			}
			length = 0
			for _, b := range data[offset : offset+n] {
				length = length<<8 | int(b)
			}
			offset += n
		}

		if length > len(data)-offset {
			return nil, fmt.Errorf("%w: tag %s announces %d bytes, have %d", ErrInvalidTLV, tag, length, len(data)-offset)
		}
		value := make([]byte, length)
		copy(value, data[offset:offset+length])
		offset += length

		tlvs = append(tlvs, TLV{Tag: tag, Value: value})
	}
	return tlvs, nil
}

// PackEMV encodes tlvs as BER-TLV.
func PackEMV(tlvs []TLV) ([]byte, error) {
	var out []byte
	for _, t := range tlvs {
		tag, err := hex.DecodeString(t.Tag)
		if err != nil || len(tag) == 0 {
			return nil, fmt.Errorf("%w: tag %q is not hex", ErrInvalidTLV, t.Tag)
		}
		out = append(out, tag...)

		switch n := len(t.Value); {
		case n < 0x80:
			out = append(out, byte(n))
		case n <= 0xFF:
			out = append(out, 0x81, byte(n))
		case n <= 0xFFFF:
			out = append(out, 0x82, byte(n>>8), byte(n))
		default:
			return nil, fmt.Errorf("%w: value of tag %s too long (%d bytes)", ErrInvalidTLV, t.Tag, n)
		}
		out = append(out, t.Value...)
	}
	return out, nil
}

// ASCIITLV is a private-field TLV layout with fixed-width ASCII tags and
// lengths, e.g. "AL04Data" with TagLen 2 and LenLen 2.
type ASCIITLV struct {
	TagLen int
	LenLen int
	Base   int // 10 for decimal lengths, 16 for hex; 0 means 10
}

func (a ASCIITLV) base() int {
	if a.Base == 0 {
		return 10
	}
	return a.Base
}

func (a ASCIITLV) check() error {
	if a.TagLen <= 0 || a.LenLen <= 0 {
		return fmt.Errorf("%w: tag and length widths must be positive", ErrInvalidTLV)
	}
	if b := a.base(); b < 2 || b > 36 {
		return fmt.Errorf("%w: unsupported length base %d", ErrInvalidTLV, b)
	}
	return nil
}

// Parse decodes data into elements.
func (a ASCIITLV) Parse(data []byte) ([]TLV, error) {
	if err := a.check(); err != nil {
		return nil, err
	}

	var tlvs []TLV
	offset := 0
	for offset < len(data) {
		if offset+a.TagLen+a.LenLen > len(data) {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrInvalidTLV, offset)
		}
		tag := string(data[offset : offset+a.TagLen])
		offset += a.TagLen

		lengthStr := string(data[offset : offset+a.LenLen])
		length, err := strconv.ParseUint(lengthStr, a.base(), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid length %q for tag %s", ErrInvalidTLV, lengthStr, tag)
		}
		offset += a.LenLen

		if int(length) > len(data)-offset {
			return nil, fmt.Errorf("%w: tag %s announces %d bytes, have %d", ErrInvalidTLV, tag, length, len(data)-offset)
		}
		value := make([]byte, length)
		copy(value, data[offset:offset+int(length)])
		offset += int(length)

		tlvs = append(tlvs, TLV{Tag: tag, Value: value})
	}
	return tlvs, nil
}

// Pack encodes tlvs.
func (a ASCIITLV) Pack(tlvs []TLV) ([]byte, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	var out []byte
	for _, t := range tlvs {
		if len(t.Tag) != a.TagLen {
			return nil, fmt.Errorf("%w: tag %q must be %d characters", ErrInvalidTLV, t.Tag, a.TagLen)
		}
		length := strings.ToUpper(strconv.FormatInt(int64(len(t.Value)), a.base()))
		if len(length) > a.LenLen {
			return nil, fmt.Errorf("%w: value of tag %s too long (%d bytes)", ErrInvalidTLV, t.Tag, len(t.Value))
		}
		out = append(out, t.Tag...)
		out = append(out, strings.Repeat("0", a.LenLen-len(length))...)
		out = append(out, length...)
		out = append(out, t.Value...)
	}
	return out, nil
}

// FindTLV returns the first element with the given tag. EMV tags compare
// case-insensitively.
func FindTLV(tlvs []TLV, tag string) (TLV, bool) {
	for _, t := range tlvs {
		if strings.EqualFold(t.Tag, tag) {
			return t, true
		}
	}
	return TLV{}, false
}

// TLVToMap indexes elements by tag. Later duplicates win.
func TLVToMap(tlvs []TLV) map[string][]byte {
	m := make(map[string][]byte, len(tlvs))
	for _, t := range tlvs {
		m[t.Tag] = t.Value
	}
	return m
}

// ICCData decodes field 55 as EMV TLV.
func (m *Message) ICCData() ([]TLV, error) {
	fv, ok := m.Field(55)
	if !ok {
		return nil, &FieldError{Field: 55, Err: ErrMissingField}
	}
	tlvs, err := ParseEMV(fv.data)
	if err != nil {
		return nil, withField(55, err)
	}
	return tlvs, nil
}

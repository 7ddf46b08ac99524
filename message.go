package iso8583

import (
	"errors"
	"log/slog"
	"strconv"
)

// Message is an immutable ISO 8583 message: an MTI plus the values of the
// present fields. The bitmap is derived from the values when the message is
// constructed and can never disagree with them. Messages are only created by
// Unpack and Builder.Build and are safe for concurrent reads.
type Message struct {
	mti      MTI
	values   [MaxFieldNumber + 1]FieldValue
	bitmap   Bitmap
	packager *Packager
}

// newMessage takes ownership of values and derives the bitmap from them.
func newMessage(mti MTI, values *[MaxFieldNumber + 1]FieldValue, packager *Packager) *Message {
	m := &Message{mti: mti, values: *values, packager: packager}
	for n := 2; n <= MaxFieldNumber; n++ {
		if m.values[n].IsPresent() {
			_ = m.bitmap.Set(n)
		}
	}
	return m
}

// Unpack parses a complete wire message. Parsing is all-or-nothing: on any
// error the returned message is nil. Every read is bounds checked against
// the bytes remaining, and no allocation is sized from an unchecked length.
func Unpack(data []byte, opts ...Option) (*Message, error) {
	o := newOptions(opts)

	if len(data) < MTILength {
		return nil, &ShortMessageError{Expected: MTILength, Actual: len(data)}
	}
	mti, err := parseMTIBytes(data[:MTILength])
	if err != nil {
		return nil, err
	}

	bm, n, err := BitmapFromBytes(data[MTILength:])
	if err != nil {
		var tb *TruncatedBitmapError
		if errors.As(err, &tb) {
			return nil, &ShortMessageError{Expected: tb.Expected, Actual: tb.Actual, Cause: err}
		}
		return nil, err
	}
	offset := MTILength + n

	var values [MaxFieldNumber + 1]FieldValue
	for _, f := range bm.Fields() {
		def, err := o.packager.Lookup(f)
		if err != nil {
			return nil, err
		}
		fv, used, err := DecodeField(def, data[offset:])
		if err != nil {
			return nil, withField(f, err)
		}
		values[f] = fv
		offset += used
	}

	if rest := len(data) - offset; rest > 0 && !o.allowTrailing {
		return nil, &TrailingDataError{Count: rest}
	}
	return newMessage(mti, &values, o.packager), nil
}

// MTI returns the message type indicator.
func (m *Message) MTI() MTI {
	return m.mti
}

// Packager returns the field table the message was built or parsed with.
func (m *Message) Packager() *Packager {
	return m.packager
}

// Bitmap returns the presence bitmap derived from the fields.
func (m *Message) Bitmap() Bitmap {
	return m.bitmap
}

// Fields returns the present field numbers in ascending order.
func (m *Message) Fields() []int {
	return m.bitmap.Fields()
}

// HasField reports whether fieldNum is present.
func (m *Message) HasField(fieldNum int) bool {
	return fieldNum >= 2 && fieldNum <= MaxFieldNumber && m.values[fieldNum].IsPresent()
}

// Field returns the value of fieldNum and whether it is present.
func (m *Message) Field(fieldNum int) (FieldValue, bool) {
	if !m.HasField(fieldNum) {
		return FieldValue{}, false
	}
	return m.values[fieldNum], true
}

// GetString returns the content of a field as text.
func (m *Message) GetString(fieldNum int) (string, error) {
	fv, ok := m.Field(fieldNum)
	if !ok {
		return "", &FieldError{Field: fieldNum, Err: ErrMissingField}
	}
	return fv.String(), nil
}

// GetBytes returns a copy of the content of a field.
func (m *Message) GetBytes(fieldNum int) ([]byte, error) {
	fv, ok := m.Field(fieldNum)
	if !ok {
		return nil, &FieldError{Field: fieldNum, Err: ErrMissingField}
	}
	return fv.Bytes(), nil
}

// GetInt parses the content of a numeric field.
func (m *Message) GetInt(fieldNum int) (int, error) {
	fv, ok := m.Field(fieldNum)
	if !ok {
		return 0, &FieldError{Field: fieldNum, Err: ErrMissingField}
	}
	return fv.Int()
}

// PackedLen returns the exact wire size of the message.
func (m *Message) PackedLen() int {
	n := MTILength + m.bitmap.Size()
	for _, f := range m.bitmap.Fields() {
		def, err := m.packager.Lookup(f)
		if err != nil {
			continue
		}
		n += encodedLen(def, m.values[f].Len())
	}
	return n
}

// Pack returns the wire form of the message: MTI, bitmap, then every present
// field in ascending order.
func (m *Message) Pack() ([]byte, error) {
	return m.AppendPack(make([]byte, 0, m.PackedLen()))
}

// AppendPack appends the wire form of the message to dst. On error dst is
// returned unchanged.
func (m *Message) AppendPack(dst []byte) ([]byte, error) {
	if !m.mti.valid() {
		return dst, &MTIError{Raw: m.mti.String(), Reason: "component out of range"}
	}
	start := len(dst)
	out := m.mti.appendTo(dst)
	out = m.bitmap.AppendBytes(out)

	for _, f := range m.bitmap.Fields() {
		def, err := m.packager.Lookup(f)
		if err != nil {
			return dst[:start], err
		}
		out, err = AppendField(out, def, m.values[f].data)
		if err != nil {
			return dst[:start], withField(f, err)
		}
	}
	return out, nil
}

// Equal reports whether both messages carry the same MTI and the same
// field values.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.mti != other.mti || !m.bitmap.Equal(other.bitmap) {
		return false
	}
	for _, f := range m.bitmap.Fields() {
		if !m.values[f].Equal(other.values[f]) {
			return false
		}
	}
	return true
}

// ToBuilder returns a Builder seeded with the MTI, fields and packager of m.
func (m *Message) ToBuilder() *Builder {
	b := NewBuilder(WithPackager(m.packager))
	b.MTI(m.mti.String())
	for _, f := range m.bitmap.Fields() {
		b.Field(f, m.values[f].data)
	}
	return b
}

// CreateResponse builds the answer to a request or advice: the MTI function
// is flipped (0100 -> 0110, 0120 -> 0130), every field is carried over and
// field 39 is set to responseCode.
func (m *Message) CreateResponse(responseCode string) (*Message, error) {
	mti, err := m.mti.Response()
	if err != nil {
		return nil, err
	}
	return m.ToBuilder().
		MTI(mti.String()).
		Field(39, responseCode).
		Build()
}

// sensitiveFields never reach logs: track data, PIN block and MACs.
var sensitiveFields = map[int]bool{35: true, 36: true, 45: true, 52: true, 64: true, 96: true, 128: true}

// LogValue implements slog.LogValuer. The PAN is masked, sensitive fields
// are redacted and binary fields are rendered as hex.
func (m *Message) LogValue() slog.Value {
	fields := m.bitmap.Fields()
	fieldArgs := make([]any, 0, len(fields))
	for _, f := range fields {
		key := strconv.Itoa(f)
		fv := m.values[f]
		switch {
		case sensitiveFields[f]:
			fieldArgs = append(fieldArgs, slog.String(key, "[REDACTED]"))
		case f == 2:
			fieldArgs = append(fieldArgs, slog.String(key, MaskPAN(fv.String())))
		case m.isBinary(f):
			fieldArgs = append(fieldArgs, slog.String(key, hexUpper(fv.data)))
		default:
			fieldArgs = append(fieldArgs, slog.String(key, fv.String()))
		}
	}

	return slog.GroupValue(
		slog.String("mti", m.mti.String()),
		slog.String("bitmap", m.bitmap.Hex()),
		slog.Group("fields", fieldArgs...),
	)
}

func (m *Message) isBinary(fieldNum int) bool {
	def, err := m.packager.Lookup(fieldNum)
	return err == nil && def.Type == DataTypeBinary
}

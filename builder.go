package iso8583

import (
	"fmt"
	"strconv"
)

// Builder accumulates an MTI and field values and turns them into a
// validated Message. Field only performs structural checks; type and length
// validation happen in Build.
//
// Setting the same field twice keeps the last value. This supports the
// "set defaults, then override" style of call site; callers that want to
// reject duplicates must track assignments themselves.
//
// A Builder is not safe for concurrent use. It can be reused after Build:
// the built Message shares no memory with it.
type Builder struct {
	opts    options
	mti     string
	hasMTI  bool
	values  [MaxFieldNumber + 1][]byte
	present Bitmap
	errs    []error
}

// NewBuilder returns an empty Builder. WithPackager selects the field table.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: newOptions(opts)}
}

// MTI sets the message type indicator. The code is checked by Build.
func (b *Builder) MTI(code string) *Builder {
	b.mti = code
	b.hasMTI = true
	return b
}

// Field sets a field value. Accepted value types are string, []byte, int,
// int64, uint64 and fmt.Stringer; integers are written in decimal and left
// padded by Build when the field is fixed-length numeric.
func (b *Builder) Field(fieldNum int, value any) *Builder {
	if fieldNum < 2 || fieldNum > MaxFieldNumber {
		b.errs = append(b.errs, &FieldError{Field: fieldNum, Err: ErrOutOfRange})
		return b
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = append(make([]byte, 0, len(v)), v...)
	case int:
		data = strconv.AppendInt(nil, int64(v), 10)
	case int64:
		data = strconv.AppendInt(nil, v, 10)
	case uint64:
		data = strconv.AppendUint(nil, v, 10)
	case fmt.Stringer:
		data = []byte(v.String())
	default:
		b.errs = append(b.errs, &FieldError{Field: fieldNum, Err: fmt.Errorf("%w: %T", ErrUnsupportedValue, value)})
		return b
	}

	b.values[fieldNum] = data
	_ = b.present.Set(fieldNum)
	return b
}

// Unset removes a field set earlier.
func (b *Builder) Unset(fieldNum int) *Builder {
	if err := b.present.Unset(fieldNum); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.values[fieldNum] = nil
	return b
}

// PAN sets field 2.
func (b *Builder) PAN(pan string) *Builder {
	return b.Field(2, pan)
}

// ProcessingCode sets field 3.
func (b *Builder) ProcessingCode(code string) *Builder {
	return b.Field(3, code)
}

// Amount sets field 4 from an amount in minor units.
func (b *Builder) Amount(minor int64) *Builder {
	return b.Field(4, minor)
}

// STAN sets field 11 from a trace number.
func (b *Builder) STAN(stan uint64) *Builder {
	return b.Field(11, stan)
}

// Build validates the accumulated state and returns the Message. Checks run
// in order: the MTI, then structural errors recorded by Field, then each
// field in ascending order against its definition. The first failure is
// returned and no Message is produced.
func (b *Builder) Build() (*Message, error) {
	if !b.hasMTI {
		return nil, &MTIError{Reason: "not set"}
	}
	mti, err := ParseMTI(b.mti)
	if err != nil {
		return nil, err
	}

	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	var values [MaxFieldNumber + 1]FieldValue
	for _, f := range b.present.Fields() {
		def, err := b.opts.packager.Lookup(f)
		if err != nil {
			return nil, err
		}
		content, err := NormalizeField(def, b.values[f])
		if err != nil {
			return nil, withField(f, err)
		}
		values[f] = FieldValue{field: f, data: content}
	}

	return newMessage(mti, &values, b.opts.packager), nil
}

// MustBuild is like Build but panics on error. It is meant for fixtures and
// static messages.
func (b *Builder) MustBuild() *Message {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

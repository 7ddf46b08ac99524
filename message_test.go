package iso8583

import (
	"bytes"
	"encoding/hex"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRequest(t testing.TB) *Message {
	t.Helper()
	m, err := NewBuilder().
		MTI("0100").
		Field(2, "4111111111111111").
		Field(3, "000000").
		Field(4, "000000010000").
		Field(11, "123456").
		Build()
	require.NoError(t, err)
	return m
}

func fullMessage(t testing.TB) *Message {
	t.Helper()
	m, err := NewBuilder().
		MTI("0200").
		PAN("4111111111111111").
		ProcessingCode("010000").
		Amount(2500).
		Field(7, "1019143015").
		STAN(42).
		Field(12, "143015").
		Field(13, "1019").
		Field(14, "2712").
		Field(22, "051").
		Field(35, "4111111111111111=27121011234500000").
		Field(37, "261019000042").
		Field(41, "TERM0001").
		Field(42, "MERCHANT0000001").
		Field(43, "ACME STORE           JAKARTA       ID").
		Field(48, "PRIVATE DATA; with punctuation!").
		Field(49, "360").
		Field(52, []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}).
		Field(55, []byte{0x9F, 0x02, 0x06, 0x00, 0x00, 0x00, 0x00, 0x25, 0x00}).
		Field(70, 301).
		Field(102, "1234567890").
		Field(128, []byte("MAC2MAC2")).
		Build()
	require.NoError(t, err)
	return m
}

func TestPackMinimalAuthorizationRequest(t *testing.T) {
	m := authRequest(t)

	assert.Equal(t, []int{2, 3, 4, 11}, m.Fields())
	assert.False(t, m.Bitmap().HasSecondary())

	wire, err := m.Pack()
	require.NoError(t, err)

	want, err := hex.DecodeString("30313030" + "7020000000000000")
	require.NoError(t, err)
	want = append(want, "164111111111111111"+"000000"+"000000010000"+"123456"...)
	assert.Equal(t, want, wire)
	assert.Equal(t, len(wire), m.PackedLen())
}

func TestRoundTrip(t *testing.T) {
	for name, m := range map[string]*Message{
		"minimal": authRequest(t),
		"full":    fullMessage(t),
	} {
		t.Run(name, func(t *testing.T) {
			wire, err := m.Pack()
			require.NoError(t, err)
			require.Equal(t, m.PackedLen(), len(wire))

			parsed, err := Unpack(wire)
			require.NoError(t, err)
			assert.True(t, m.Equal(parsed))
			assert.Equal(t, m.MTI(), parsed.MTI())
			assert.Equal(t, m.Fields(), parsed.Fields())
			for _, f := range m.Fields() {
				want, _ := m.Field(f)
				got, ok := parsed.Field(f)
				require.True(t, ok, "field %d", f)
				assert.Equal(t, want.Bytes(), got.Bytes(), "field %d", f)
			}

			again, err := parsed.Pack()
			require.NoError(t, err)
			assert.Equal(t, wire, again)
		})
	}
}

func TestBitmapMatchesFields(t *testing.T) {
	m := fullMessage(t)
	for n := 2; n <= MaxFieldNumber; n++ {
		assert.Equal(t, m.HasField(n), m.Bitmap().IsSet(n), "field %d", n)
	}
	assert.True(t, m.Bitmap().HasSecondary())

	wire, err := m.Pack()
	require.NoError(t, err)
	assert.Equal(t, m.Bitmap().Bytes(), wire[MTILength:MTILength+16])
}

func TestUnpackSecondaryGating(t *testing.T) {
	primaryOnly := authRequest(t)
	wire, err := primaryOnly.Pack()
	require.NoError(t, err)
	assert.Zero(t, wire[MTILength]&0x80)

	m, err := NewBuilder().MTI("0800").Field(11, "000001").Field(70, "301").Build()
	require.NoError(t, err)
	wire, err = m.Pack()
	require.NoError(t, err)
	assert.NotZero(t, wire[MTILength]&0x80)
	assert.Len(t, wire, MTILength+16+6+3)

	parsed, err := Unpack(wire)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 70}, parsed.Fields())
}

func TestUnpackEmptySecondaryHalf(t *testing.T) {
	wire := []byte("0800")
	wire = append(wire, 0xA0, 0, 0, 0, 0, 0, 0, 0)
	wire = append(wire, 0, 0, 0, 0, 0, 0, 0, 0)
	wire = append(wire, "000001"...)

	m, err := Unpack(wire)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, m.Fields())
	assert.False(t, m.Bitmap().HasSecondary())

	repacked, err := m.Pack()
	require.NoError(t, err)
	assert.Len(t, repacked, MTILength+8+6)
}

func TestUnpackTruncatedBitmap(t *testing.T) {
	wire := append([]byte("0100"), 0x70, 0x20, 0x00)

	m, err := Unpack(wire)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMessageTooShort)
	assert.ErrorIs(t, err, ErrTruncatedBitmap)

	var se *ShortMessageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 8, se.Expected)
	assert.Equal(t, 3, se.Actual)
	assert.Equal(t, "truncated_bitmap", ErrorKind(err))
}

func TestUnpackTruncatedSecondaryBitmap(t *testing.T) {
	wire := append([]byte("0100"), 0xF0, 0, 0, 0, 0, 0, 0, 0, 0x80)

	_, err := Unpack(wire)
	var se *ShortMessageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 16, se.Expected)
	assert.Equal(t, 9, se.Actual)
}

func TestUnpackUndefinedField(t *testing.T) {
	m, err := NewBuilder().MTI("0100").Field(3, "000000").Field(128, []byte("MACMACMA")).Build()
	require.NoError(t, err)
	wire, err := m.Pack()
	require.NoError(t, err)

	parsed, err := Unpack(wire, WithPackager(DefaultPackager().Without(128)))
	require.ErrorIs(t, err, ErrUndefinedField)
	assert.Nil(t, parsed)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 128, fe.Field)
}

func TestUnpackErrors(t *testing.T) {
	valid, err := authRequest(t).Pack()
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
		field   int
	}{
		{name: "empty", data: nil, wantErr: ErrMessageTooShort},
		{name: "short mti", data: []byte("01"), wantErr: ErrMessageTooShort},
		{name: "non-digit mti", data: append([]byte("01X0"), valid[4:]...), wantErr: ErrInvalidMTI},
		{name: "cut inside field 2", data: valid[:20], wantErr: ErrTruncatedField, field: 2},
		{name: "cut inside field 11", data: valid[:len(valid)-1], wantErr: ErrTruncatedField, field: 11},
		{name: "trailing byte", data: append(append([]byte{}, valid...), '9'), wantErr: ErrTrailingData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Unpack(tt.data)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, m)
			if tt.field > 0 {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.field, fe.Field)
			}
		})
	}
}

func TestUnpackFieldTypeMismatch(t *testing.T) {
	wire, err := authRequest(t).Pack()
	require.NoError(t, err)
	wire[len(wire)-2] = 'Z'

	_, err = Unpack(wire)
	require.ErrorIs(t, err, ErrFieldTypeMismatch)

	var te *FieldTypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 11, te.Field)
	assert.Equal(t, 4, te.Position)
}

func TestUnpackTrailingDataOption(t *testing.T) {
	wire, err := authRequest(t).Pack()
	require.NoError(t, err)
	wire = append(wire, "EXTRA"...)

	m, err := Unpack(wire, WithTrailingData())
	require.NoError(t, err)
	assert.True(t, authRequest(t).Equal(m))

	_, err = Unpack(wire, WithTrailingData(), WithStrictTrailing())
	var td *TrailingDataError
	require.ErrorAs(t, err, &td)
	assert.Equal(t, 5, td.Count)
}

func TestUnpackDoesNotAliasInput(t *testing.T) {
	wire, err := authRequest(t).Pack()
	require.NoError(t, err)

	m, err := Unpack(wire)
	require.NoError(t, err)
	for i := range wire {
		wire[i] = 'X'
	}
	pan, err := m.GetString(2)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", pan)
}

func TestMessageAccessors(t *testing.T) {
	m := authRequest(t)

	stan, err := m.GetInt(11)
	require.NoError(t, err)
	assert.Equal(t, 123456, stan)

	b, err := m.GetBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("000000"), b)

	_, err = m.GetString(39)
	require.ErrorIs(t, err, ErrMissingField)
	_, err = m.GetBytes(200)
	require.ErrorIs(t, err, ErrMissingField)

	_, ok := m.Field(1)
	assert.False(t, ok)
	assert.Same(t, DefaultPackager(), m.Packager())
}

func TestAppendPack(t *testing.T) {
	m := authRequest(t)
	wire, err := m.Pack()
	require.NoError(t, err)

	out, err := m.AppendPack([]byte("0042"))
	require.NoError(t, err)
	assert.Equal(t, append([]byte("0042"), wire...), out)
}

func TestCreateResponse(t *testing.T) {
	req := authRequest(t)

	resp, err := req.CreateResponse(string(RCApproved))
	require.NoError(t, err)
	assert.Equal(t, "0110", resp.MTI().String())
	assert.Equal(t, []int{2, 3, 4, 11, 39}, resp.Fields())

	code, err := ResponseCodeOf(resp)
	require.NoError(t, err)
	assert.True(t, code.IsApproved())

	assert.False(t, req.HasField(39), "request must not change")

	_, err = resp.CreateResponse("00")
	assert.ErrorIs(t, err, ErrInvalidMTI)
}

func TestToBuilderOverride(t *testing.T) {
	req := authRequest(t)
	m, err := req.ToBuilder().Field(4, 99).Unset(2).Build()
	require.NoError(t, err)

	amount, err := m.GetString(4)
	require.NoError(t, err)
	assert.Equal(t, "000000000099", amount)
	assert.False(t, m.HasField(2))
	assert.True(t, req.HasField(2))
}

func TestMessageLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("outbound", "message", fullMessage(t))

	out := buf.String()
	assert.Contains(t, out, `"mti":"0200"`)
	assert.Contains(t, out, `"2":"411111******1111"`)
	assert.Contains(t, out, `"35":"[REDACTED]"`)
	assert.Contains(t, out, `"52":"[REDACTED]"`)
	assert.Contains(t, out, `"128":"[REDACTED]"`)
	assert.Contains(t, out, `"55":"9F0206000000002500"`)
	assert.Contains(t, out, `"41":"TERM0001"`)
	assert.NotContains(t, out, "4111111111111111")
}

func FuzzUnpack(f *testing.F) {
	for _, m := range []*Message{authRequest(f), fullMessage(f)} {
		wire, err := m.Pack()
		require.NoError(f, err)
		f.Add(wire)
		f.Add(wire[:len(wire)/2])
	}
	f.Add([]byte("0100"))
	f.Add([]byte("0800\xff\xff\xff\xff\xff\xff\xff\xff"))

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := Unpack(data)
		if err != nil {
			require.Nil(t, m)
			require.NotEqual(t, "unknown", ErrorKind(err), "%v", err)
			return
		}
		require.NotNil(t, m)

		wire, err := m.Pack()
		require.NoError(t, err)
		again, err := Unpack(wire)
		require.NoError(t, err)
		require.True(t, m.Equal(again))

		wire2, err := again.Pack()
		require.NoError(t, err)
		require.Equal(t, wire, wire2)
	})
}

func BenchmarkPack(b *testing.B) {
	m := fullMessage(b)
	buf := make([]byte, 0, m.PackedLen())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.AppendPack(buf[:0]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnpack(b *testing.B) {
	wire, err := fullMessage(b).Pack()
	require.NoError(b, err)
	b.ReportAllocs()
	b.SetBytes(int64(len(wire)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Unpack(wire); err != nil {
			b.Fatal(err)
		}
	}
}

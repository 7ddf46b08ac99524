package iso8583

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// icc is a typical field 55 payload: amount, currency, TVR and cryptogram.
var icc = []byte{
	0x9F, 0x02, 0x06, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00,
	0x5F, 0x2A, 0x02, 0x03, 0x60,
	0x95, 0x05, 0x00, 0x00, 0x00, 0x80, 0x00,
	0x9F, 0x26, 0x08, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
}

func TestParseEMV(t *testing.T) {
	tlvs, err := ParseEMV(icc)
	require.NoError(t, err)
	require.Len(t, tlvs, 4)

	assert.Equal(t, "9F02", tlvs[0].Tag)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00}, tlvs[0].Value)
	assert.Equal(t, "5F2A", tlvs[1].Tag)
	assert.Equal(t, "95", tlvs[2].Tag)
	assert.Equal(t, "9F26", tlvs[3].Tag)

	packed, err := PackEMV(tlvs)
	require.NoError(t, err)
	assert.Equal(t, icc, packed)
}

func TestParseEMVLongLengthAndPadding(t *testing.T) {
	long := bytes.Repeat([]byte{0xAB}, 200)
	tlvs := []TLV{{Tag: "9F10", Value: long}, {Tag: "82", Value: []byte{0x19, 0x80}}}

	packed, err := PackEMV(tlvs)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x9F, 0x10, 0x81, 200}, packed[:4])

	padded := append([]byte{0x00, 0xFF}, packed...)
	padded = append(padded, 0x00)
	back, err := ParseEMV(padded)
	require.NoError(t, err)
	assert.Equal(t, tlvs, back)

	huge := []TLV{{Tag: "DF01", Value: make([]byte, 300)}}
	packed, err = PackEMV(huge)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDF, 0x01, 0x82, 0x01, 0x2C}, packed[:5])
}

func TestParseEMVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated multi-byte tag", data: []byte{0x9F}},
		{name: "missing length", data: []byte{0x95}},
		{name: "value overrun", data: []byte{0x95, 0x05, 0x00}},
		{name: "long form without bytes", data: []byte{0x95, 0x81}},
		{name: "long form too wide", data: []byte{0x95, 0x83, 0x00, 0x00, 0x01, 0x00}},
		{name: "indefinite length", data: []byte{0x95, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tlvs, err := ParseEMV(tt.data)
			assert.ErrorIs(t, err, ErrInvalidTLV)
			assert.Nil(t, tlvs)
		})
	}

	_, err := PackEMV([]TLV{{Tag: "XYZ", Value: nil}})
	assert.ErrorIs(t, err, ErrInvalidTLV)
}

func TestParseEMVCopiesValues(t *testing.T) {
	data := append([]byte{}, icc...)
	tlvs, err := ParseEMV(data)
	require.NoError(t, err)

	data[3] = 0xFF
	assert.Equal(t, byte(0x00), tlvs[0].Value[0])
}

func TestASCIITLV(t *testing.T) {
	codec := ASCIITLV{TagLen: 2, LenLen: 2}
	tlvs := []TLV{
		{Tag: "AL", Value: []byte("Data")},
		{Tag: "ZZ", Value: nil},
		{Tag: "01", Value: []byte("JAKARTA")},
	}

	packed, err := codec.Pack(tlvs)
	require.NoError(t, err)
	assert.Equal(t, "AL04DataZZ000107JAKARTA", string(packed))

	back, err := codec.Parse(packed)
	require.NoError(t, err)
	require.Len(t, back, 3)
	assert.Equal(t, "Data", string(back[0].Value))
	assert.Empty(t, back[1].Value)
	assert.Equal(t, "JAKARTA", string(back[2].Value))

	hexCodec := ASCIITLV{TagLen: 3, LenLen: 2, Base: 16}
	packed, err = hexCodec.Pack([]TLV{{Tag: "T01", Value: bytes.Repeat([]byte("x"), 26)}})
	require.NoError(t, err)
	assert.Equal(t, "T011A", string(packed[:5]))
}

func TestASCIITLVErrors(t *testing.T) {
	codec := ASCIITLV{TagLen: 2, LenLen: 2}

	for _, data := range []string{"AL0", "AL4XData", "AL10Data"} {
		_, err := codec.Parse([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidTLV, data)
	}

	_, err := codec.Pack([]TLV{{Tag: "A", Value: nil}})
	assert.ErrorIs(t, err, ErrInvalidTLV)
	_, err = codec.Pack([]TLV{{Tag: "AB", Value: make([]byte, 100)}})
	assert.ErrorIs(t, err, ErrInvalidTLV)
	_, err = ASCIITLV{}.Parse([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidTLV)

	for _, base := range []int{1, 40, -16} {
		badBase := ASCIITLV{TagLen: 2, LenLen: 2, Base: base}
		_, err = badBase.Pack([]TLV{{Tag: "AL", Value: []byte("Data")}})
		assert.ErrorIs(t, err, ErrInvalidTLV, "base %d", base)
		_, err = badBase.Parse([]byte("AL04Data"))
		assert.ErrorIs(t, err, ErrInvalidTLV, "base %d", base)
	}
}

func TestFindTLV(t *testing.T) {
	tlvs, err := ParseEMV(icc)
	require.NoError(t, err)

	tvr, ok := FindTLV(tlvs, "95")
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80, 0x00}, tvr.Value)

	_, ok = FindTLV(tlvs, "9f26")
	assert.True(t, ok)
	_, ok = FindTLV(tlvs, "9F27")
	assert.False(t, ok)

	m := TLVToMap(tlvs)
	assert.Len(t, m, 4)
	assert.Equal(t, []byte{0x03, 0x60}, m["5F2A"])
}

func TestMessageICCData(t *testing.T) {
	m, err := NewBuilder().MTI("0100").Field(55, icc).Build()
	require.NoError(t, err)

	wire, err := m.Pack()
	require.NoError(t, err)
	parsed, err := Unpack(wire)
	require.NoError(t, err)

	tlvs, err := parsed.ICCData()
	require.NoError(t, err)
	amount, ok := FindTLV(tlvs, "9F02")
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00}, amount.Value)

	_, err = authRequest(t).ICCData()
	assert.ErrorIs(t, err, ErrMissingField)

	bad, err := NewBuilder().MTI("0100").Field(55, []byte{0x9F, 0x02, 0x09}).Build()
	require.NoError(t, err)
	_, err = bad.ICCData()
	assert.ErrorIs(t, err, ErrInvalidTLV)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 55, fe.Field)
}

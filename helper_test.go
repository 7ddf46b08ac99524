package iso8583

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskPAN(t *testing.T) {
	tests := []struct {
		pan  string
		want string
	}{
		{"4111111111111111", "411111******1111"},
		{"4111111111111111111", "411111*********1111"},
		{"4111111111", "4111111111"},
		{"411111111", "*********"},
		{"", ""},
	}
	for _, tt := range tests {
		got := MaskPAN(tt.pan)
		assert.Equal(t, tt.want, got, tt.pan)
		assert.Len(t, got, len(tt.pan))
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor    string
		exponent int
		want     string
	}{
		{"000000010050", 2, "100.50"},
		{"000000000005", 2, "0.05"},
		{"000000000000", 2, "0.00"},
		{"000000012345", 0, "12345"},
		{"000000012345", 3, "12.345"},
	}
	for _, tt := range tests {
		got, err := FormatAmount(tt.minor, tt.exponent)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FormatAmount("12a", 2)
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)
	_, err = FormatAmount("", 2)
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)
	_, err = FormatAmount("100", -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAmountFromMinor(t *testing.T) {
	got, err := AmountFromMinor(10050)
	require.NoError(t, err)
	assert.Equal(t, "000000010050", got)

	_, err = AmountFromMinor(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = AmountFromMinor(1_000_000_000_000)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDateTimeFields(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	ts := time.Date(2026, time.October, 19, 21, 4, 5, 0, loc)

	assert.Equal(t, "1019140405", TransmissionDateTime(ts))
	assert.Equal(t, "210405", LocalTime(ts))
	assert.Equal(t, "1019", LocalDate(ts))
	assert.Equal(t, "2712", ExpirationDate(2027, 12))
	assert.Equal(t, "261019000042", RRN(ts, 42))
	assert.Len(t, AuthorizationID(ts), 6)

	parsed, err := ParseTransmissionDateTime("1019140405", 2026)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts), parsed.String())

	_, err = ParseTransmissionDateTime("1319140405", 2026)
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)

	year, month, err := ParseExpirationDate("2712")
	require.NoError(t, err)
	assert.Equal(t, 27, year)
	assert.Equal(t, 12, month)

	_, _, err = ParseExpirationDate("2713")
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = ParseExpirationDate("27-1")
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)
}

func TestTraceNumber(t *testing.T) {
	var tn TraceNumber
	assert.Equal(t, uint64(1), tn.Next())
	assert.Equal(t, "000002", tn.NextString())

	tn.n.Store(999_998)
	assert.Equal(t, uint64(999_999), tn.Next())
	assert.Equal(t, uint64(1), tn.Next())
}

func TestTraceNumberConcurrent(t *testing.T) {
	var tn TraceNumber
	seen := make([]uint64, 0, 1000)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := tn.Next()
				mu.Lock()
				seen = append(seen, n)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	unique := map[uint64]bool{}
	for _, n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, 1000)
}

func TestValidTrack2(t *testing.T) {
	assert.True(t, ValidTrack2("4111111111111111=27121011234500000"))
	assert.False(t, ValidTrack2("4111111111111111D2712"))
	assert.False(t, ValidTrack2("4111111111111111=27"))
	assert.False(t, ValidTrack2("4111111111111111=2712=1"))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "Indonesian Rupiah", CurrencyName("360"))
	assert.Equal(t, "$", CurrencySymbol("840"))
	assert.Equal(t, "Unknown Currency", CurrencyName("000"))
	assert.Empty(t, CurrencySymbol("000"))
}

func TestHexUpper(t *testing.T) {
	assert.Equal(t, "00FF9F", hexUpper([]byte{0x00, 0xFF, 0x9F}))
	assert.Equal(t, "", hexUpper(nil))
}

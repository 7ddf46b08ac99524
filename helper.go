package iso8583

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const hexTableUpper = "0123456789ABCDEF"

// encodeHexUpper converts src to uppercase hex and writes it to dst.
func encodeHexUpper(dst, src []byte) {
	for i, v := range src {
		dst[i*2] = hexTableUpper[v>>4]
		dst[i*2+1] = hexTableUpper[v&0x0f]
	}
}

func hexUpper(src []byte) string {
	dst := make([]byte, len(src)*2)
	encodeHexUpper(dst, src)
	return string(dst)
}

// MaskPAN keeps the first six and last four digits of a PAN. PANs shorter
// than ten characters are masked entirely.
func MaskPAN(pan string) string {
	if len(pan) < 10 {
		return strings.Repeat("*", len(pan))
	}
	return pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:]
}

// FormatAmount renders an amount in minor units (field 4, 5 or 6) as a
// decimal string with the given currency exponent: "000000010050" with
// exponent 2 becomes "100.50".
func FormatAmount(minor string, exponent int) (string, error) {
	if exponent < 0 || exponent > 9 {
		return "", fmt.Errorf("%w: currency exponent %d", ErrOutOfRange, exponent)
	}
	if _, ok := atoiDigits(minor); !ok {
		return "", fmt.Errorf("%w: amount %q is not numeric", ErrFieldTypeMismatch, minor)
	}

	digits := strings.TrimLeft(minor, "0")
	if len(digits) <= exponent {
		digits = strings.Repeat("0", exponent-len(digits)+1) + digits
	}
	if exponent == 0 {
		return digits, nil
	}
	cut := len(digits) - exponent
	return digits[:cut] + "." + digits[cut:], nil
}

// AmountFromMinor renders an amount in minor units as the 12-digit field 4
// value.
func AmountFromMinor(minor int64) (string, error) {
	if minor < 0 || minor > 999_999_999_999 {
		return "", fmt.Errorf("%w: amount %d does not fit 12 digits", ErrOutOfRange, minor)
	}
	return fmt.Sprintf("%012d", minor), nil
}

// TransmissionDateTime formats t as field 7 (MMDDhhmmss), in UTC.
func TransmissionDateTime(t time.Time) string {
	return t.UTC().Format("0102150405")
}

// ParseTransmissionDateTime reads a field 7 value. The field carries no year,
// so the caller supplies it.
func ParseTransmissionDateTime(s string, year int) (time.Time, error) {
	if len(s) != 10 {
		return time.Time{}, fmt.Errorf("%w: transmission date time must be 10 digits (MMDDhhmmss)", ErrFieldTypeMismatch)
	}
	t, err := time.Parse("0102150405", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: transmission date time %q: %v", ErrFieldTypeMismatch, s, err)
	}
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// LocalTime formats t as field 12 (hhmmss).
func LocalTime(t time.Time) string {
	return t.Format("150405")
}

// LocalDate formats t as field 13 (MMDD).
func LocalDate(t time.Time) string {
	return t.Format("0102")
}

// ExpirationDate formats field 14 (YYMM).
func ExpirationDate(year, month int) string {
	return fmt.Sprintf("%02d%02d", year%100, month)
}

// ParseExpirationDate reads a field 14 value into a two-digit year and month.
func ParseExpirationDate(s string) (year, month int, err error) {
	if len(s) != 4 {
		return 0, 0, fmt.Errorf("%w: expiration date must be 4 digits (YYMM)", ErrFieldTypeMismatch)
	}
	year, okY := atoiDigits(s[:2])
	month, okM := atoiDigits(s[2:])
	if !okY || !okM {
		return 0, 0, fmt.Errorf("%w: expiration date %q is not numeric", ErrFieldTypeMismatch, s)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: expiration month %d", ErrOutOfRange, month)
	}
	return year, month, nil
}

// TraceNumber generates system trace audit numbers (field 11). Numbers run
// from 1 to 999999 and wrap back to 1. The zero value is ready to use and
// safe for concurrent use.
type TraceNumber struct {
	n atomic.Uint64
}

// Next returns the next trace number.
func (tn *TraceNumber) Next() uint64 {
	return (tn.n.Add(1)-1)%999_999 + 1
}

// NextString returns the next trace number as a 6-digit string.
func (tn *TraceNumber) NextString() string {
	return fmt.Sprintf("%06d", tn.Next())
}

// RRN builds a 12-character retrieval reference number (field 37) from the
// date of t and a trace number.
func RRN(t time.Time, stan uint64) string {
	return t.Format("060102") + fmt.Sprintf("%06d", stan%1_000_000)
}

// AuthorizationID derives a 6-character identification response (field 38)
// from t.
func AuthorizationID(t time.Time) string {
	return fmt.Sprintf("%06X", t.Unix()%16_777_216)
}

// ValidTrack2 performs a structural check of track 2 data: a 13 to 19 digit
// PAN, a '=' separator, then at least the four expiry digits.
func ValidTrack2(track2 string) bool {
	pan, rest, ok := strings.Cut(track2, "=")
	if !ok || strings.Contains(rest, "=") {
		return false
	}
	if len(pan) < 13 || len(pan) > 19 {
		return false
	}
	return len(rest) >= 4
}

var currencies = map[string]struct{ name, symbol string }{
	"840": {"US Dollar", "$"},
	"566": {"Nigerian Naira", "₦"},
	"978": {"Euro", "€"},
	"826": {"British Pound", "£"},
	"392": {"Japanese Yen", "¥"},
	"356": {"Indian Rupee", "₹"},
	"710": {"South African Rand", "R"},
	"360": {"Indonesian Rupiah", "Rp"},
}

// CurrencyName returns the name of an ISO 4217 numeric currency code.
func CurrencyName(code string) string {
	if c, ok := currencies[code]; ok {
		return c.name
	}
	return "Unknown Currency"
}

// CurrencySymbol returns the symbol of an ISO 4217 numeric currency code, or
// an empty string.
func CurrencySymbol(code string) string {
	return currencies[code].symbol
}

// knownCurrency reports whether CurrencyName knows code.
func knownCurrency(code string) bool {
	_, ok := currencies[code]
	return ok
}

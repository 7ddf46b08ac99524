package iso8583

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ValidationRule checks the content of a single field.
type ValidationRule interface {
	Validate(fv FieldValue) error
	Name() string
}

// Validator checks business rules on top of the codec: required fields and
// per-field rules. Configure it once, then use it from any number of
// goroutines.
type Validator struct {
	required    Bitmap
	fieldRules  [MaxFieldNumber + 1][]ValidationRule
	globalRules []ValidationRule
	mu          sync.RWMutex
}

// NewValidator returns a Validator with no requirements.
func NewValidator() *Validator {
	return &Validator{}
}

// Require marks fields as mandatory.
func (v *Validator) Require(fields ...int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range fields {
		if err := v.required.Set(f); err != nil {
			return err
		}
	}
	return nil
}

// RequireAll marks every field of bm as mandatory.
func (v *Validator) RequireAll(bm Bitmap) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.required = v.required.Union(bm)
}

// AddRule attaches rules to one field.
func (v *Validator) AddRule(fieldNum int, rules ...ValidationRule) error {
	if fieldNum < 2 || fieldNum > MaxFieldNumber {
		return &FieldError{Field: fieldNum, Err: ErrOutOfRange}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fieldRules[fieldNum] = append(v.fieldRules[fieldNum], rules...)
	return nil
}

// AddGlobalRule adds a rule applied to every present field.
func (v *Validator) AddGlobalRule(rule ValidationRule) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.globalRules = append(v.globalRules, rule)
}

// Missing returns the required fields absent from m.
func (v *Validator) Missing(m *Message) []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.required.Missing(m.Bitmap()).Fields()
}

// ValidateMessage checks required fields first, then runs the rules of every
// present field in ascending order. The first failure is returned as a
// *ValidationError.
func (v *Validator) ValidateMessage(m *Message) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	bm := m.Bitmap()
	if !bm.ContainsAll(v.required) {
		missing := v.required.Missing(bm).Fields()
		return &ValidationError{
			Field:   missing[0],
			Rule:    "required",
			Message: "mandatory field missing",
		}
	}

	for _, f := range bm.Fields() {
		fv, _ := m.Field(f)
		if err := v.validateField(fv); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField runs the rules registered for fv's field.
func (v *Validator) ValidateField(fv FieldValue) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.validateField(fv)
}

func (v *Validator) validateField(fv FieldValue) error {
	f := fv.Field()
	if f < 1 || f > MaxFieldNumber {
		return &FieldError{Field: f, Err: ErrOutOfRange}
	}
	for _, rules := range [][]ValidationRule{v.fieldRules[f], v.globalRules} {
		for _, rule := range rules {
			if err := rule.Validate(fv); err != nil {
				return &ValidationError{Field: f, Rule: rule.Name(), Message: err.Error()}
			}
		}
	}
	return nil
}

// RequiredFieldsFor returns the fields every message of the given type is
// expected to carry: processing code, STAN, local time and date; PAN and
// amount for authorization and financial requests; the response code for
// responses.
func RequiredFieldsFor(mti MTI) Bitmap {
	bm, _ := BitmapOf(3, 11, 12, 13)
	if mti.IsRequest() && (mti.Class == ClassAuthorization || mti.Class == ClassFinancial) {
		_ = bm.Set(2)
		_ = bm.Set(4)
	}
	if mti.IsResponse() {
		_ = bm.Set(39)
	}
	return bm
}

// StandardValidator returns a Validator for mti with RequiredFieldsFor and
// the usual content rules: Luhn on the PAN, non-zero amounts, date and time
// formats and currency codes.
func StandardValidator(mti MTI) *Validator {
	v := NewValidator()
	v.RequireAll(RequiredFieldsFor(mti))
	_ = v.AddRule(2, &LuhnRule{})
	_ = v.AddRule(4, &NumericRule{}, &NonZeroAmountRule{})
	_ = v.AddRule(5, &NumericRule{}, &NonZeroAmountRule{})
	_ = v.AddRule(7, &DateRule{Format: FormatMMDDhhmmss})
	_ = v.AddRule(12, &DateRule{Format: FormatHHMMSS})
	_ = v.AddRule(13, &DateRule{Format: FormatMMDD})
	_ = v.AddRule(14, &DateRule{Format: FormatYYMM})
	_ = v.AddRule(35, &TrackDataRule{})
	_ = v.AddRule(39, &LengthRule{ExactLength: 2})
	_ = v.AddRule(49, &CurrencyCodeRule{})
	_ = v.AddRule(50, &CurrencyCodeRule{})
	return v
}

// LuhnValid reports whether number is all digits and passes the Luhn
// checksum.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if !isDigit(c) {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidPAN reports whether pan holds 13 to 19 digits passing the Luhn check.
// Separators such as spaces and dashes are ignored.
func ValidPAN(pan string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, pan)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	return LuhnValid(digits)
}

// LengthRule validates the field's length.
type LengthRule struct {
	MinLength   int
	MaxLength   int
	ExactLength int
	AllowEmpty  bool
}

func (r *LengthRule) Name() string {
	return "length"
}

func (r *LengthRule) Validate(fv FieldValue) error {
	length := fv.Len()

	if length == 0 && r.AllowEmpty {
		return nil
	}
	if r.ExactLength > 0 && length != r.ExactLength {
		return fmt.Errorf("expected length %d, got %d", r.ExactLength, length)
	}
	if r.MinLength > 0 && length < r.MinLength {
		return fmt.Errorf("length %d below minimum %d", length, r.MinLength)
	}
	if r.MaxLength > 0 && length > r.MaxLength {
		return fmt.Errorf("length %d exceeds maximum %d", length, r.MaxLength)
	}
	return nil
}

// NumericRule validates that the field contains only digits.
type NumericRule struct {
	AllowEmpty         bool
	RejectLeadingZeros bool
}

func (r *NumericRule) Name() string {
	return "numeric"
}

func (r *NumericRule) Validate(fv FieldValue) error {
	data := fv.data

	if len(data) == 0 {
		if r.AllowEmpty {
			return nil
		}
		return fmt.Errorf("empty value")
	}
	for i, b := range data {
		if !isDigit(b) {
			return fmt.Errorf("non-numeric character at position %d", i)
		}
	}
	if r.RejectLeadingZeros && len(data) > 1 && data[0] == '0' {
		return fmt.Errorf("leading zeros not allowed")
	}
	return nil
}

// AlphanumericRule validates alphanumeric content.
type AlphanumericRule struct {
	AllowEmpty        bool
	AllowSpecialChars bool   // any printable ASCII instead of [0-9A-Za-z ]
	CustomCharset     string // overrides both of the above
}

func (r *AlphanumericRule) Name() string {
	return "alphanumeric"
}

func (r *AlphanumericRule) Validate(fv FieldValue) error {
	data := fv.data

	if len(data) == 0 && r.AllowEmpty {
		return nil
	}
	for i, b := range data {
		switch {
		case r.CustomCharset != "":
			if strings.IndexByte(r.CustomCharset, b) < 0 {
				return fmt.Errorf("invalid character at position %d", i)
			}
		case r.AllowSpecialChars:
			if !isPrintable(b) {
				return fmt.Errorf("non-printable character at position %d", i)
			}
		default:
			if !isAlphaNumericOrSpace(b) {
				return fmt.Errorf("special character not allowed at position %d", i)
			}
		}
	}
	return nil
}

// BinaryRule validates binary content.
type BinaryRule struct {
	AllowEmpty        bool
	RequireEvenLength bool
}

func (r *BinaryRule) Name() string {
	return "binary"
}

func (r *BinaryRule) Validate(fv FieldValue) error {
	if fv.Len() == 0 && !r.AllowEmpty {
		return fmt.Errorf("empty value")
	}
	if r.RequireEvenLength && fv.Len()%2 != 0 {
		return fmt.Errorf("binary data must have even length")
	}
	return nil
}

// RegexRule validates the field against a regular expression.
type RegexRule struct {
	AllowEmpty  bool
	Description string
	regex       *regexp.Regexp
}

// NewRegexRule compiles pattern into a RegexRule. description, when set,
// replaces the default error text.
func NewRegexRule(pattern, description string) (*RegexRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &RegexRule{Description: description, regex: re}, nil
}

func (r *RegexRule) Name() string {
	return "regex"
}

func (r *RegexRule) Validate(fv FieldValue) error {
	data := fv.String()

	if len(data) == 0 && r.AllowEmpty {
		return nil
	}
	if !r.regex.MatchString(data) {
		if r.Description != "" {
			return fmt.Errorf("%s", r.Description)
		}
		return fmt.Errorf("does not match pattern %s", r.regex)
	}
	return nil
}

// RangeRule validates that a numeric field's value is within [Min, Max].
type RangeRule struct {
	Min        int64
	Max        int64
	AllowEmpty bool
}

func (r *RangeRule) Name() string {
	return "range"
}

func (r *RangeRule) Validate(fv FieldValue) error {
	if fv.Len() == 0 && r.AllowEmpty {
		return nil
	}
	val, err := fv.Int64()
	if err != nil {
		return fmt.Errorf("cannot parse as integer: %v", err)
	}
	if val < r.Min {
		return fmt.Errorf("value %d below minimum %d", val, r.Min)
	}
	if val > r.Max {
		return fmt.Errorf("value %d exceeds maximum %d", val, r.Max)
	}
	return nil
}

// NonZeroAmountRule rejects amounts made only of zeros.
type NonZeroAmountRule struct{}

func (r *NonZeroAmountRule) Name() string {
	return "non_zero_amount"
}

func (r *NonZeroAmountRule) Validate(fv FieldValue) error {
	if strings.Trim(fv.String(), "0") == "" {
		return fmt.Errorf("amount cannot be zero")
	}
	return nil
}

// LuhnRule validates a card number (13 to 19 digits, Luhn checksum).
type LuhnRule struct{}

func (r *LuhnRule) Name() string {
	return "luhn"
}

func (r *LuhnRule) Validate(fv FieldValue) error {
	pan := fv.String()
	if len(pan) < 13 || len(pan) > 19 {
		return fmt.Errorf("PAN length %d outside 13..19", len(pan))
	}
	if !LuhnValid(pan) {
		return fmt.Errorf("PAN fails the Luhn check")
	}
	return nil
}

// DateRule validates date and time fields. Format is one of FormatMMDD,
// FormatHHMMSS, FormatMMDDhhmmss, FormatYYMM, FormatYYMMDD or
// FormatYYYYMMDD.
type DateRule struct {
	Format string
}

func (r *DateRule) Name() string {
	return "date"
}

func (r *DateRule) Validate(fv FieldValue) error {
	return checkFormat(fv.String(), r.Format)
}

// CurrencyCodeRule validates an ISO 4217 numeric code. With Known set, the
// code must also be one CurrencyName recognizes.
type CurrencyCodeRule struct {
	Known bool
}

func (r *CurrencyCodeRule) Name() string {
	return "currency_code"
}

func (r *CurrencyCodeRule) Validate(fv FieldValue) error {
	code := fv.String()
	if len(code) != 3 {
		return fmt.Errorf("currency code must be 3 digits, got %d characters", len(code))
	}
	if _, ok := atoiDigits(code); !ok {
		return fmt.Errorf("currency code %q is not numeric", code)
	}
	if r.Known && !knownCurrency(code) {
		return fmt.Errorf("unknown currency code %s", code)
	}
	return nil
}

// TrackDataRule performs a structural check of track 2 data.
type TrackDataRule struct {
	AllowEmpty bool
}

func (r *TrackDataRule) Name() string {
	return "track_data"
}

func (r *TrackDataRule) Validate(fv FieldValue) error {
	data := fv.String()

	if len(data) == 0 && r.AllowEmpty {
		return nil
	}
	if !ValidTrack2(data) {
		return fmt.Errorf("malformed track 2 data")
	}
	return nil
}

// CustomRule allows defining an arbitrary validation function.
type CustomRule struct {
	RuleName     string
	ValidateFunc func(FieldValue) error
}

func (r *CustomRule) Name() string {
	return r.RuleName
}

func (r *CustomRule) Validate(fv FieldValue) error {
	return r.ValidateFunc(fv)
}

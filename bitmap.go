package iso8583

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
	"strings"
)

// secondaryIndicator is bit 1 of the primary half: a secondary bitmap follows.
const secondaryIndicator = uint64(1) << 63

// Bitmap is the 128-bit field presence vector, kept as two 64-bit words.
// Bit i of a word is ISO bit i counted from the most significant bit, so
// field n lives in primary at 1<<(64-n) and field 64+n in secondary at
// 1<<(64-n). Bit 1 is maintained automatically: it is set exactly when a
// field in 65..128 is set.
//
// The zero value is an empty bitmap.
type Bitmap struct {
	primary   uint64
	secondary uint64
}

func fieldMask(fieldNum int) (half int, mask uint64) {
	if fieldNum <= 64 {
		return 0, uint64(1) << (64 - fieldNum)
	}
	return 1, uint64(1) << (128 - fieldNum)
}

// Set marks a field present. Field 1 is managed by the bitmap itself and
// cannot be set directly.
func (bm *Bitmap) Set(fieldNum int) error {
	if fieldNum < 2 || fieldNum > MaxFieldNumber {
		return &FieldError{Field: fieldNum, Err: ErrOutOfRange}
	}

	half, mask := fieldMask(fieldNum)
	if half == 0 {
		bm.primary |= mask
		return nil
	}
	bm.secondary |= mask
	bm.primary |= secondaryIndicator
	return nil
}

// Unset clears a field. Clearing the last secondary field also clears bit 1.
func (bm *Bitmap) Unset(fieldNum int) error {
	if fieldNum < 2 || fieldNum > MaxFieldNumber {
		return &FieldError{Field: fieldNum, Err: ErrOutOfRange}
	}

	half, mask := fieldMask(fieldNum)
	if half == 0 {
		bm.primary &^= mask
		return nil
	}
	bm.secondary &^= mask
	if bm.secondary == 0 {
		bm.primary &^= secondaryIndicator
	}
	return nil
}

// IsSet reports whether the bit for fieldNum is set. IsSet(1) reports the
// secondary bitmap indicator.
func (bm Bitmap) IsSet(fieldNum int) bool {
	if fieldNum < 1 || fieldNum > MaxFieldNumber {
		return false
	}
	half, mask := fieldMask(fieldNum)
	if half == 0 {
		return bm.primary&mask != 0
	}
	return bm.HasSecondary() && bm.secondary&mask != 0
}

// HasSecondary reports whether bit 1 is set.
func (bm Bitmap) HasSecondary() bool {
	return bm.primary&secondaryIndicator != 0
}

// Fields returns the present field numbers in ascending order. Bit 1 is not
// a field and is never reported.
func (bm Bitmap) Fields() []int {
	fields := make([]int, 0, bm.Count())
	w := bm.primary &^ secondaryIndicator
	for w != 0 {
		lz := bits.LeadingZeros64(w)
		fields = append(fields, lz+1)
		w &^= uint64(1) << (63 - lz)
	}
	if bm.HasSecondary() {
		w = bm.secondary
		for w != 0 {
			lz := bits.LeadingZeros64(w)
			fields = append(fields, lz+65)
			w &^= uint64(1) << (63 - lz)
		}
	}
	return fields
}

// Count returns the number of present fields, excluding bit 1.
func (bm Bitmap) Count() int {
	n := bits.OnesCount64(bm.primary &^ secondaryIndicator)
	if bm.HasSecondary() {
		n += bits.OnesCount64(bm.secondary)
	}
	return n
}

// Size returns the wire size of the bitmap: 8, or 16 with a secondary half.
func (bm Bitmap) Size() int {
	if bm.HasSecondary() {
		return BitmapSize + SecondaryBitmapSize
	}
	return BitmapSize
}

// Bytes returns the wire form of the bitmap.
func (bm Bitmap) Bytes() []byte {
	return bm.AppendBytes(make([]byte, 0, bm.Size()))
}

// AppendBytes appends the wire form of the bitmap to dst.
func (bm Bitmap) AppendBytes(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint64(dst, bm.primary)
	if bm.HasSecondary() {
		dst = binary.BigEndian.AppendUint64(dst, bm.secondary)
	}
	return dst
}

// Hex returns the upper-case hex form of the wire bitmap.
func (bm Bitmap) Hex() string {
	return strings.ToUpper(hex.EncodeToString(bm.Bytes()))
}

func (bm Bitmap) String() string {
	return bm.Hex()
}

// BitmapFromBytes reads a bitmap from the start of data and returns it with
// the number of bytes consumed (8 or 16).
func BitmapFromBytes(data []byte) (Bitmap, int, error) {
	if len(data) < BitmapSize {
		return Bitmap{}, 0, &TruncatedBitmapError{Expected: BitmapSize, Actual: len(data)}
	}

	bm := Bitmap{primary: binary.BigEndian.Uint64(data)}
	if !bm.HasSecondary() {
		return bm, BitmapSize, nil
	}

	total := BitmapSize + SecondaryBitmapSize
	if len(data) < total {
		return Bitmap{}, 0, &TruncatedBitmapError{Expected: total, Actual: len(data)}
	}
	bm.secondary = binary.BigEndian.Uint64(data[BitmapSize:])
	return bm, total, nil
}

// BitmapOf builds a bitmap from field numbers.
func BitmapOf(fields ...int) (Bitmap, error) {
	var bm Bitmap
	for _, f := range fields {
		if err := bm.Set(f); err != nil {
			return Bitmap{}, err
		}
	}
	return bm, nil
}

// ContainsAll reports whether every field of req is present in bm.
func (bm Bitmap) ContainsAll(req Bitmap) bool {
	return req.Missing(bm).Count() == 0
}

// Missing returns the fields of bm that are absent from have.
func (bm Bitmap) Missing(have Bitmap) Bitmap {
	var out Bitmap
	out.primary = (bm.primary &^ have.primary) &^ secondaryIndicator
	if bm.HasSecondary() {
		if have.HasSecondary() {
			out.secondary = bm.secondary &^ have.secondary
		} else {
			out.secondary = bm.secondary
		}
	}
	if out.secondary != 0 {
		out.primary |= secondaryIndicator
	}
	return out
}

// Intersect returns the fields present in both bitmaps.
func (bm Bitmap) Intersect(other Bitmap) Bitmap {
	out := Bitmap{primary: bm.primary & other.primary &^ secondaryIndicator}
	if bm.HasSecondary() && other.HasSecondary() {
		out.secondary = bm.secondary & other.secondary
	}
	if out.secondary != 0 {
		out.primary |= secondaryIndicator
	}
	return out
}

// Union returns the fields present in either bitmap.
func (bm Bitmap) Union(other Bitmap) Bitmap {
	out := Bitmap{primary: (bm.primary | other.primary) &^ secondaryIndicator}
	if bm.HasSecondary() {
		out.secondary |= bm.secondary
	}
	if other.HasSecondary() {
		out.secondary |= other.secondary
	}
	if out.secondary != 0 {
		out.primary |= secondaryIndicator
	}
	return out
}

// Equal reports whether both bitmaps mark the same fields.
func (bm Bitmap) Equal(other Bitmap) bool {
	return bm.Union(Bitmap{}) == other.Union(Bitmap{})
}

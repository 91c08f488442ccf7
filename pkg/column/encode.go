package column

import (
	"encoding/binary"
	"math"
	"time"

	stringpool "github.com/ajitpratap0/prism/pkg/strings"
)

// Canonical cell encoding used for column hashing and duplicate-row keys.
// Values that are equivalent compare-wise must encode identically, so
// numeric cells are reduced to a common form: integral values (from int,
// bool, or whole floats) encode as tagged int64, everything else keeps
// float64 bits. NA has its own tag so a missing cell never collides with
// any value.
const (
	keyTagNA     = 'n'
	keyTagInt    = 'i'
	keyTagFloat  = 'f'
	keyTagString = 's'
	keyTagTime   = 't'
	keyTagOther  = 'o'
)

// AppendKey appends the canonical encoding of a cell value to buf.
// A nil value is the missing-value marker.
func AppendKey(buf []byte, v interface{}) []byte {
	if v == nil {
		return append(buf, keyTagNA)
	}

	switch x := v.(type) {
	case int64:
		return appendIntKey(buf, x)
	case float64:
		if isIntegralFloat(x) {
			return appendIntKey(buf, int64(x))
		}
		buf = append(buf, keyTagFloat)
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	case bool:
		if x {
			return appendIntKey(buf, 1)
		}
		return appendIntKey(buf, 0)
	case string:
		buf = append(buf, keyTagString)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(x)))
		return append(buf, x...)
	case int:
		return appendIntKey(buf, int64(x))
	case int32:
		return appendIntKey(buf, int64(x))
	case float32:
		return AppendKey(buf, float64(x))
	case time.Time:
		buf = append(buf, keyTagTime)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(x.UnixNano()))
		return buf
	default:
		s := stringpool.ValueToString(v)
		buf = append(buf, keyTagOther)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
		return append(buf, s...)
	}
}

func appendIntKey(buf []byte, n int64) []byte {
	buf = append(buf, keyTagInt)
	return binary.LittleEndian.AppendUint64(buf, uint64(n))
}

// isIntegralFloat reports whether f encodes exactly as int64. Negative zero
// and values outside the 2^53 exact range keep their float encoding.
func isIntegralFloat(f float64) bool {
	if f != math.Trunc(f) {
		return false
	}
	if f == 0 && math.Signbit(f) {
		return false
	}
	return f >= -9007199254740992 && f <= 9007199254740992
}

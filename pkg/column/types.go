package column

import (
	"github.com/cespare/xxhash/v2"

	"github.com/ajitpratap0/prism/pkg/pool"
)

// Dictionary encoding kicks in once a string column is large enough to
// judge its cardinality. Low-cardinality columns store int32 codes into a
// shared value table instead of repeating the strings.
const (
	dictCheckLen = 100
	dictMaxRatio = 0.5
)

// hashCells folds the canonical encoding of every cell into a streaming
// xxhash. Two columns with equivalent cells hash equal even when their
// variants differ (an int column of 1,2 hashes like a float column of
// 1.0,2.0).
func hashCells(c Column) uint64 {
	d := xxhash.New()
	buf := pool.GetByteSlice()
	n := c.Len()
	for i := 0; i < n; i++ {
		buf = AppendKey(buf[:0], c.Get(i))
		_, _ = d.Write(buf)
	}
	pool.PutByteSlice(buf)
	return d.Sum64()
}

// IntColumn stores 64-bit integers with a validity bitmap.
type IntColumn struct {
	data  []int64
	valid bitmap
}

// NewIntColumn returns an empty integer column with room for capacity cells.
func NewIntColumn(capacity int) *IntColumn {
	return &IntColumn{data: make([]int64, 0, capacity)}
}

func (c *IntColumn) Type() Type { return TypeInt }
func (c *IntColumn) Len() int   { return len(c.data) }

func (c *IntColumn) Get(i int) interface{} {
	if !c.valid.get(i) {
		return nil
	}
	return c.data[i]
}

func (c *IntColumn) IsNA(i int) bool { return !c.valid.get(i) }

func (c *IntColumn) Set(i int, value interface{}) {
	if value == nil {
		c.valid.set(i, false)
		c.data[i] = 0
		return
	}
	if x, ok := coerceInt(value); ok {
		c.data[i] = x
		c.valid.set(i, true)
		return
	}
	c.valid.set(i, false)
	c.data[i] = 0
}

func (c *IntColumn) appendValue(x int64) {
	c.valid.appendBit(len(c.data), true)
	c.data = append(c.data, x)
}

func (c *IntColumn) Append(value interface{}) {
	if value == nil {
		c.AppendNA(1)
		return
	}
	if x, ok := coerceInt(value); ok {
		c.appendValue(x)
		return
	}
	c.AppendNA(1)
}

func (c *IntColumn) AppendNA(n int) {
	for k := 0; k < n; k++ {
		c.valid.appendBit(len(c.data), false)
		c.data = append(c.data, 0)
	}
}

func (c *IntColumn) Gather(positions []int) Column {
	out := NewIntColumn(len(positions))
	for _, p := range positions {
		if c.valid.get(p) {
			out.appendValue(c.data[p])
		} else {
			out.AppendNA(1)
		}
	}
	return out
}

func (c *IntColumn) Scatter(positions []int, values []interface{}) {
	for k, p := range positions {
		c.Set(p, values[k])
	}
}

func (c *IntColumn) Copy() Column {
	out := &IntColumn{
		data:  make([]int64, len(c.data)),
		valid: c.valid.clone(),
	}
	copy(out.data, c.data)
	return out
}

func (c *IntColumn) Hash() uint64 { return hashCells(c) }

func (c *IntColumn) MemoryUsage() int64 {
	return int64(len(c.data))*8 + int64(len(c.valid.bits))*8
}

// FloatColumn stores 64-bit floats with a validity bitmap. NaN is a real
// value, distinct from NA.
type FloatColumn struct {
	data  []float64
	valid bitmap
}

// NewFloatColumn returns an empty float column with room for capacity cells.
func NewFloatColumn(capacity int) *FloatColumn {
	return &FloatColumn{data: make([]float64, 0, capacity)}
}

func (c *FloatColumn) Type() Type { return TypeFloat }
func (c *FloatColumn) Len() int   { return len(c.data) }

func (c *FloatColumn) Get(i int) interface{} {
	if !c.valid.get(i) {
		return nil
	}
	return c.data[i]
}

func (c *FloatColumn) IsNA(i int) bool { return !c.valid.get(i) }

func (c *FloatColumn) Set(i int, value interface{}) {
	if value == nil {
		c.valid.set(i, false)
		c.data[i] = 0
		return
	}
	if x, ok := coerceFloat(value); ok {
		c.data[i] = x
		c.valid.set(i, true)
		return
	}
	c.valid.set(i, false)
	c.data[i] = 0
}

func (c *FloatColumn) appendValue(x float64) {
	c.valid.appendBit(len(c.data), true)
	c.data = append(c.data, x)
}

func (c *FloatColumn) Append(value interface{}) {
	if value == nil {
		c.AppendNA(1)
		return
	}
	if x, ok := coerceFloat(value); ok {
		c.appendValue(x)
		return
	}
	c.AppendNA(1)
}

func (c *FloatColumn) AppendNA(n int) {
	for k := 0; k < n; k++ {
		c.valid.appendBit(len(c.data), false)
		c.data = append(c.data, 0)
	}
}

func (c *FloatColumn) Gather(positions []int) Column {
	out := NewFloatColumn(len(positions))
	for _, p := range positions {
		if c.valid.get(p) {
			out.appendValue(c.data[p])
		} else {
			out.AppendNA(1)
		}
	}
	return out
}

func (c *FloatColumn) Scatter(positions []int, values []interface{}) {
	for k, p := range positions {
		c.Set(p, values[k])
	}
}

func (c *FloatColumn) Copy() Column {
	out := &FloatColumn{
		data:  make([]float64, len(c.data)),
		valid: c.valid.clone(),
	}
	copy(out.data, c.data)
	return out
}

func (c *FloatColumn) Hash() uint64 { return hashCells(c) }

func (c *FloatColumn) MemoryUsage() int64 {
	return int64(len(c.data))*8 + int64(len(c.valid.bits))*8
}

// StringColumn stores text either as a plain string slice or, once the
// column is long enough and its cardinality low enough, as int32 codes
// into a dictionary. The dictionary keeps both directions: a map for
// encoding and a value slice for O(1) decoding.
type StringColumn struct {
	data []string

	dictMode   bool
	dict       map[string]int32
	dictValues []string
	codes      []int32

	valid bitmap
}

// NewStringColumn returns an empty string column with room for capacity
// cells. Dictionary encoding is adopted automatically when it pays off.
func NewStringColumn(capacity int) *StringColumn {
	return &StringColumn{data: make([]string, 0, capacity)}
}

// NewDictStringColumn returns an empty string column that dictionary-encodes
// from the first value, skipping the cardinality probe. Sources use this
// when the caller already knows the column repeats heavily.
func NewDictStringColumn(capacity int) *StringColumn {
	c := &StringColumn{}
	c.forceDict(capacity)
	return c
}

func (c *StringColumn) forceDict(capacity int) {
	c.dictMode = true
	c.dict = make(map[string]int32)
	c.dictValues = c.dictValues[:0]
	c.codes = make([]int32, 0, capacity)
	c.data = nil
}

func (c *StringColumn) Type() Type { return TypeString }

func (c *StringColumn) Len() int {
	if c.dictMode {
		return len(c.codes)
	}
	return len(c.data)
}

// lookup returns the dictionary code for s, adding it on first sight.
func (c *StringColumn) lookup(s string) int32 {
	if code, ok := c.dict[s]; ok {
		return code
	}
	code := int32(len(c.dictValues))
	c.dict[s] = code
	c.dictValues = append(c.dictValues, s)
	return code
}

func (c *StringColumn) Get(i int) interface{} {
	if !c.valid.get(i) {
		return nil
	}
	if c.dictMode {
		return c.dictValues[c.codes[i]]
	}
	return c.data[i]
}

func (c *StringColumn) IsNA(i int) bool { return !c.valid.get(i) }

func (c *StringColumn) Set(i int, value interface{}) {
	if value == nil {
		c.setNA(i)
		return
	}
	s, ok := value.(string)
	if !ok {
		c.setNA(i)
		return
	}
	c.valid.set(i, true)
	if c.dictMode {
		c.codes[i] = c.lookup(s)
	} else {
		c.data[i] = s
	}
}

func (c *StringColumn) setNA(i int) {
	c.valid.set(i, false)
	if c.dictMode {
		c.codes[i] = -1
	} else {
		c.data[i] = ""
	}
}

func (c *StringColumn) appendValue(s string) {
	n := c.Len()
	c.valid.appendBit(n, true)
	if c.dictMode {
		c.codes = append(c.codes, c.lookup(s))
		return
	}
	c.data = append(c.data, s)
	c.maybeDictEncode()
}

func (c *StringColumn) Append(value interface{}) {
	if value == nil {
		c.AppendNA(1)
		return
	}
	s, ok := value.(string)
	if !ok {
		c.AppendNA(1)
		return
	}
	c.appendValue(s)
}

func (c *StringColumn) AppendNA(n int) {
	for k := 0; k < n; k++ {
		c.valid.appendBit(c.Len(), false)
		if c.dictMode {
			c.codes = append(c.codes, -1)
		} else {
			c.data = append(c.data, "")
		}
	}
}

// maybeDictEncode probes cardinality once the column reaches dictCheckLen
// values and switches to dictionary storage when fewer than half of them
// are distinct.
func (c *StringColumn) maybeDictEncode() {
	if c.dictMode || len(c.data) != dictCheckLen {
		return
	}
	distinct := make(map[string]struct{}, len(c.data))
	for i, s := range c.data {
		if c.valid.get(i) {
			distinct[s] = struct{}{}
		}
	}
	if float64(len(distinct)) >= dictMaxRatio*float64(len(c.data)) {
		return
	}

	old := c.data
	c.forceDict(len(old))
	for i, s := range old {
		if c.valid.get(i) {
			c.codes = append(c.codes, c.lookup(s))
		} else {
			c.codes = append(c.codes, -1)
		}
	}
}

func (c *StringColumn) Gather(positions []int) Column {
	var out *StringColumn
	if c.dictMode {
		out = NewDictStringColumn(len(positions))
	} else {
		out = NewStringColumn(len(positions))
	}
	for _, p := range positions {
		if c.valid.get(p) {
			out.appendValue(c.Get(p).(string))
		} else {
			out.AppendNA(1)
		}
	}
	return out
}

func (c *StringColumn) Scatter(positions []int, values []interface{}) {
	for k, p := range positions {
		c.Set(p, values[k])
	}
}

func (c *StringColumn) Copy() Column {
	out := &StringColumn{
		dictMode: c.dictMode,
		valid:    c.valid.clone(),
	}
	if c.dictMode {
		out.dict = make(map[string]int32, len(c.dict))
		for s, code := range c.dict {
			out.dict[s] = code
		}
		out.dictValues = make([]string, len(c.dictValues))
		copy(out.dictValues, c.dictValues)
		out.codes = make([]int32, len(c.codes))
		copy(out.codes, c.codes)
	} else {
		out.data = make([]string, len(c.data))
		copy(out.data, c.data)
	}
	return out
}

func (c *StringColumn) Hash() uint64 { return hashCells(c) }

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	if c.dictMode {
		total += int64(len(c.codes)) * 4
		for _, s := range c.dictValues {
			total += int64(len(s)) + 16
		}
		total += int64(len(c.dict)) * 48
	} else {
		for _, s := range c.data {
			total += int64(len(s)) + 16
		}
	}
	return total + int64(len(c.valid.bits))*8
}

// DictStats reports the dictionary state: whether encoding is active and
// how many distinct values the dictionary holds.
func (c *StringColumn) DictStats() (encoded bool, cardinality int) {
	return c.dictMode, len(c.dictValues)
}

// BoolColumn packs values and validity into bitmaps, one bit per cell each.
type BoolColumn struct {
	bits  bitmap
	valid bitmap
	n     int
}

// NewBoolColumn returns an empty boolean column with room for capacity cells.
func NewBoolColumn(capacity int) *BoolColumn {
	return &BoolColumn{
		bits:  newBitmap(capacity, false),
		valid: newBitmap(capacity, false),
		n:     0,
	}
}

func (c *BoolColumn) Type() Type { return TypeBool }
func (c *BoolColumn) Len() int   { return c.n }

func (c *BoolColumn) Get(i int) interface{} {
	if !c.valid.get(i) {
		return nil
	}
	return c.bits.get(i)
}

func (c *BoolColumn) IsNA(i int) bool { return !c.valid.get(i) }

func (c *BoolColumn) Set(i int, value interface{}) {
	if value == nil {
		c.valid.set(i, false)
		c.bits.set(i, false)
		return
	}
	if x, ok := coerceBool(value); ok {
		c.bits.set(i, x)
		c.valid.set(i, true)
		return
	}
	c.valid.set(i, false)
	c.bits.set(i, false)
}

func (c *BoolColumn) appendValue(x bool) {
	c.bits.appendBit(c.n, x)
	c.valid.appendBit(c.n, true)
	c.n++
}

func (c *BoolColumn) Append(value interface{}) {
	if value == nil {
		c.AppendNA(1)
		return
	}
	if x, ok := coerceBool(value); ok {
		c.appendValue(x)
		return
	}
	c.AppendNA(1)
}

func (c *BoolColumn) AppendNA(n int) {
	for k := 0; k < n; k++ {
		c.bits.appendBit(c.n, false)
		c.valid.appendBit(c.n, false)
		c.n++
	}
}

func (c *BoolColumn) Gather(positions []int) Column {
	out := NewBoolColumn(len(positions))
	for _, p := range positions {
		if c.valid.get(p) {
			out.appendValue(c.bits.get(p))
		} else {
			out.AppendNA(1)
		}
	}
	return out
}

func (c *BoolColumn) Scatter(positions []int, values []interface{}) {
	for k, p := range positions {
		c.Set(p, values[k])
	}
}

func (c *BoolColumn) Copy() Column {
	return &BoolColumn{
		bits:  c.bits.clone(),
		valid: c.valid.clone(),
		n:     c.n,
	}
}

func (c *BoolColumn) Hash() uint64 { return hashCells(c) }

func (c *BoolColumn) MemoryUsage() int64 {
	return int64(len(c.bits.bits))*8 + int64(len(c.valid.bits))*8
}

// AnyColumn stores heterogeneous values boxed as interface{}. A nil element
// is the missing value, so no separate validity bitmap is needed. Numeric
// values are normalized to int64 and float64 on the way in.
type AnyColumn struct {
	data []interface{}
}

// NewAnyColumn returns an empty dynamic column with room for capacity cells.
func NewAnyColumn(capacity int) *AnyColumn {
	return &AnyColumn{data: make([]interface{}, 0, capacity)}
}

func (c *AnyColumn) Type() Type { return TypeAny }
func (c *AnyColumn) Len() int   { return len(c.data) }

func (c *AnyColumn) Get(i int) interface{} { return c.data[i] }

func (c *AnyColumn) IsNA(i int) bool { return c.data[i] == nil }

func (c *AnyColumn) Set(i int, value interface{}) {
	c.data[i] = normalize(value)
}

func (c *AnyColumn) Append(value interface{}) {
	c.data = append(c.data, normalize(value))
}

func (c *AnyColumn) AppendNA(n int) {
	for k := 0; k < n; k++ {
		c.data = append(c.data, nil)
	}
}

func (c *AnyColumn) Gather(positions []int) Column {
	out := NewAnyColumn(len(positions))
	for _, p := range positions {
		out.data = append(out.data, c.data[p])
	}
	return out
}

func (c *AnyColumn) Scatter(positions []int, values []interface{}) {
	for k, p := range positions {
		c.Set(p, values[k])
	}
}

func (c *AnyColumn) Copy() Column {
	out := &AnyColumn{data: make([]interface{}, len(c.data))}
	copy(out.data, c.data)
	return out
}

func (c *AnyColumn) Hash() uint64 { return hashCells(c) }

func (c *AnyColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.data {
		total += 16
		if s, ok := v.(string); ok {
			total += int64(len(s))
		}
	}
	return total
}

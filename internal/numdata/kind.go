package numdata

import "fmt"

// Kind is a gnuplot binary sample type.
type Kind int

const (
	Uint8 Kind = iota
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

var kindNames = map[Kind]string{
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
}

var kindSizes = map[Kind]int{
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Uint64:  8,
	Int8:    1,
	Int16:   2,
	Int32:   4,
	Int64:   8,
	Float32: 4,
	Float64: 8,
}

// String returns the gnuplot name of the kind, as used in format options.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size returns the sample width in bytes.
func (k Kind) Size() int {
	return kindSizes[k]
}

// valid reports whether k is a known sample kind.
func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

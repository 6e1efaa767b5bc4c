package numdata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/plotpipego/internal/plot"
)

// ArrayItem returns a plot item in gnuplot's `binary array' format. The
// block must have at least two dimensions; the last one is the per-point
// sample count. coordOptions are gnuplot's coordinate generation options
// (dx, origin, rotate, ...) and using remaps columns with zero-based
// indices.
func ArrayItem(b *Block, options, coordOptions string, using []int) (plot.Item, error) {
	return arrayOrRecord(b, "array", options, coordOptions, using)
}

// RecordItem returns a plot item in gnuplot's `binary record' format, which
// is the array format without implicit coordinate generation.
func RecordItem(b *Block, options string, using []int) (plot.Item, error) {
	return arrayOrRecord(b, "record", options, "", using)
}

func arrayOrRecord(b *Block, formatName, options, coordOptions string, using []int) (plot.Item, error) {
	shape := b.Shape()
	if len(shape) < 2 {
		return plot.Item{}, fmt.Errorf("gnuplot %s data needs at least 2 dimensions, got shape %v", formatName, shape)
	}
	count := shape[len(shape)-1]

	// gnuplot orders dimensions fastest-first, so the shape spec is the
	// reversed logical shape without the sample dimension.
	dims := make([]string, 0, len(shape)-1)
	for i := len(shape) - 2; i >= 0; i-- {
		dims = append(dims, strconv.Itoa(shape[i]))
	}
	dataspec := fmt.Sprintf("%s=(%s)", formatName, strings.Join(dims, ","))

	format := fmt.Sprintf("format='%%%s'", b.Kind())
	if count > 1 {
		format = fmt.Sprintf("format='%%%d%s'", count, b.Kind())
	}

	// Samples are encoded little-endian; 1-byte kinds have no byte order.
	endian := ""
	if b.Kind().Size() > 1 {
		endian = "endian=little"
	}

	usingSpec := ""
	if len(using) > 0 {
		cols := make([]string, len(using))
		for i, u := range using {
			if u < 0 || u >= count {
				return plot.Item{}, fmt.Errorf("`using' index %d out of bounds (block has %d columns)", u, count)
			}
			cols[i] = strconv.Itoa(u + 1)
		}
		usingSpec = "using " + strings.Join(cols, ":")
	}

	opts := joinOptions("binary", dataspec, format, endian, coordOptions, usingSpec, options)
	return plot.DataItem(b.Bytes(), opts), nil
}

// MatrixItem returns a plot item in gnuplot's `binary matrix' format. The
// layout is fixed by gnuplot: float32 samples where the top-left cell is
// the column count, the first row carries the x coordinates and the first
// column the y coordinates. Matrix data always goes through a temporary
// file because gnuplot seeks to its end before reading.
func MatrixItem(vals [][]float64, xcoords, ycoords []float64, options string) (plot.Item, error) {
	rows := len(vals)
	if rows == 0 {
		return plot.Item{}, fmt.Errorf("matrix must not be empty")
	}
	cols := len(vals[0])
	if cols == 0 {
		return plot.Item{}, fmt.Errorf("matrix rows must not be empty")
	}
	for i, row := range vals {
		if len(row) != cols {
			return plot.Item{}, fmt.Errorf("matrix row %d has %d values, want %d", i, len(row), cols)
		}
	}
	if len(xcoords) != cols {
		return plot.Item{}, fmt.Errorf("got %d x coordinates for %d columns", len(xcoords), cols)
	}
	if len(ycoords) != rows {
		return plot.Item{}, fmt.Errorf("got %d y coordinates for %d rows", len(ycoords), rows)
	}

	buf := new(bytes.Buffer)
	buf.Grow(4 * (rows + 1) * (cols + 1))
	write := func(v float64) {
		binary.Write(buf, binary.LittleEndian, float32(v))
	}
	write(float64(cols))
	for _, x := range xcoords {
		write(x)
	}
	for i, row := range vals {
		write(ycoords[i])
		for _, v := range row {
			write(v)
		}
	}

	opts := joinOptions("binary", "matrix", options)
	return plot.FileDataItem(buf.Bytes(), opts), nil
}

// Rows renders points as a whitespace-separated text data block, one point
// per line, for gnuplot's plain datafile format.
func Rows(points [][]float64) []byte {
	var sb strings.Builder
	for _, row := range points {
		for i, v := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if math.IsNaN(v) {
				// gnuplot reads NaN as a missing value marker.
				sb.WriteString("NaN")
				continue
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// joinOptions joins the nonempty option fragments with single spaces.
func joinOptions(parts ...string) string {
	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}

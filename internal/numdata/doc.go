// Package numdata builds plot items that stream numeric arrays to gnuplot
// in its `binary' datafile formats (array, record and matrix), generating
// the matching format, shape and endianness options.
package numdata

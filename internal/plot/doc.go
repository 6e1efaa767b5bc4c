// Package plot maintains an ordered list of plot items bound to a gnuplot
// session and keeps the display in sync with it. List order defines draw
// order. Items are either literal command strings (function expressions,
// quoted filenames) or data blobs streamed to gnuplot with formatting
// options. The package also covers saving and restoring whole sessions,
// curve fitting, axis range manipulation and mouse input capture.
package plot

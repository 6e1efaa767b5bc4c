// Package hclgrid loads declarative plot definitions from HCL files. A
// grid describes one plot session: the plot verb, replayed settings
// commands and the ordered plot items (function expressions, datafile
// references or inline point data).
package hclgrid

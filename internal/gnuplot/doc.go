// Package gnuplot manages a single interactive gnuplot subprocess. It sends
// textual commands over the child's stdin, synchronizes on a printed reply
// sentinel instead of a terminal prompt, and streams data blocks to the
// child through named pipes or temporary files referenced by {{name}}
// placeholders inside commands.
package gnuplot

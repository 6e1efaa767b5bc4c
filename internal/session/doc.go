// Package session defines the on-disk envelope for saved plot sessions: a
// msgpack document holding a magic string, a format version, a free-form
// description, the captured gnuplot settings script, the plot verb and the
// serialized item list.
package session

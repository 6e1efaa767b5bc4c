package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Magic identifies saved session files.
const Magic = "plotpipe-saved-session"

// Version is the envelope format version written by this build. Readers
// reject anything newer.
const Version = 0

// ErrFormat is returned when a file is not a saved session.
var ErrFormat = errors.New("not a plotpipe session file")

// Item is one serialized plot item. Command items carry only Command; data
// items carry Data, Options and ViaFile.
type Item struct {
	Command string `msgpack:"command,omitempty"`
	Data    []byte `msgpack:"data,omitempty"`
	Options string `msgpack:"options,omitempty"`
	ViaFile bool   `msgpack:"via_file,omitempty"`
}

// Envelope is the saved session document.
type Envelope struct {
	Magic       string `msgpack:"magic"`
	Version     int    `msgpack:"version"`
	Description string `msgpack:"description,omitempty"`
	PlotCmd     string `msgpack:"plot"`
	Script      string `msgpack:"script"`
	Items       []Item `msgpack:"items"`
}

// Write encodes the envelope. Magic and Version are stamped here so callers
// only fill the payload fields.
func Write(w io.Writer, env *Envelope) error {
	stamped := *env
	stamped.Magic = Magic
	stamped.Version = Version
	if err := msgpack.NewEncoder(w).Encode(&stamped); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return nil
}

// Read decodes and validates an envelope.
func Read(r io.Reader) (*Envelope, error) {
	var env Envelope
	if err := msgpack.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if env.Magic != Magic {
		return nil, ErrFormat
	}
	if env.Version > Version {
		return nil, fmt.Errorf("session file was saved by a newer version (%d)", env.Version)
	}
	switch env.PlotCmd {
	case "plot", "splot":
	default:
		return nil, fmt.Errorf("unknown plot type %q in session file", env.PlotCmd)
	}
	return &env, nil
}

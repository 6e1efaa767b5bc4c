package gnuplot

import (
	"errors"
	"fmt"
)

// ErrNotRunning is returned when an operation is attempted on a session
// whose gnuplot process has already exited.
var ErrNotRunning = errors.New("gnuplot process is not running")

// ErrTimeout is returned when gnuplot does not produce the reply sentinel
// within the configured timeout. The process is killed before it is returned.
var ErrTimeout = errors.New("timed out waiting for gnuplot reply")

// CommandError reports that gnuplot responded to a command with an error
// message.
type CommandError struct {
	Cmd     string
	Message string
}

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	return fmt.Sprintf("gnuplot command %q returned error: %s", e.Cmd, e.Message)
}

package plot

import (
	"context"
	"regexp"
)

// stubSession is a scripted Session for tests. Commands and their data are
// recorded; GETVAR prints are answered from the vars map and everything else
// from the onExec hook (or silently).
type stubSession struct {
	alive    bool
	vars     map[string]string
	commands []string
	dataLog  []map[string][]byte

	// onExec, when set, supplies the reply for non-GETVAR commands.
	onExec func(command string) string
	// onPause, when set, observes pause commands. It typically mutates vars
	// to stage the next mouse event.
	onPause func(params []string)
}

func newStubSession() *stubSession {
	return &stubSession{alive: true, vars: map[string]string{}}
}

var stubGetVarPattern = regexp.MustCompile(`^print "GETVAR_LEFT ", (.+), " GETVAR_RIGHT"$`)

func (s *stubSession) Exec(ctx context.Context, command string, data map[string][]byte) (string, error) {
	s.commands = append(s.commands, command)
	copied := make(map[string][]byte, len(data))
	for k, v := range data {
		copied[k] = append([]byte(nil), v...)
	}
	s.dataLog = append(s.dataLog, copied)

	if m := stubGetVarPattern.FindStringSubmatch(command); m != nil {
		if value, ok := s.vars[m[1]]; ok {
			return "GETVAR_LEFT " + value + " GETVAR_RIGHT", nil
		}
		return "undefined variable: " + m[1], nil
	}
	if s.onExec != nil {
		return s.onExec(command), nil
	}
	return "", nil
}

func (s *stubSession) Pause(ctx context.Context, params ...string) (string, error) {
	s.commands = append(s.commands, "pause")
	if s.onPause != nil {
		s.onPause(params)
	}
	return "", nil
}

func (s *stubSession) Alive() bool { return s.alive }

// lastCommand returns the most recent command, or "" when none was sent.
func (s *stubSession) lastCommand() string {
	if len(s.commands) == 0 {
		return ""
	}
	return s.commands[len(s.commands)-1]
}

// lastData returns the data map of the most recent command.
func (s *stubSession) lastData() map[string][]byte {
	if len(s.dataLog) == 0 {
		return nil
	}
	return s.dataLog[len(s.dataLog)-1]
}

package gnuplot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/google/uuid"
	"github.com/specialistvlad/plotpipego/internal/ctxlog"
)

// DefaultCommand is the gnuplot invocation used when none is configured.
const DefaultCommand = "gnuplot"

// DefaultTimeout is the per-command reply timeout used when none is
// configured.
const DefaultTimeout = 10 * time.Second

// Options configures a new gnuplot session.
type Options struct {
	// Command is the full gnuplot invocation, split shell-style. Empty
	// means DefaultCommand.
	Command string
	// Persist keeps interactive plot windows open after the process exits.
	Persist bool
	// TempDir is the parent directory for the session's private temp
	// directory. Empty means the system default.
	TempDir string
	// Timeout bounds the wait for each command's reply. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

// Process is a live gnuplot subprocess. All communication is synchronous:
// one command is in flight at a time, and each command's output is read up
// to a printed sentinel before the next command is sent.
type Process struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string
	tempDir string
	timeout time.Duration
	alive   bool
}

// exitQuitPattern matches commands that terminate gnuplot, which never
// produce a reply sentinel.
var exitQuitPattern = regexp.MustCompile(`^\s*(quit|exit)(\W|$)`)

// Spawn starts a gnuplot subprocess and synchronizes with it. The first
// exchange routes gnuplot's `print` output to stdout, which every later
// command relies on for its reply sentinel.
func Spawn(ctx context.Context, opts Options) (*Process, error) {
	logger := ctxlog.FromContext(ctx)

	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to split gnuplot command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("gnuplot command %q is empty", command)
	}
	if opts.Persist {
		argv = append(argv, "-persist")
	}

	tempDir, err := os.MkdirTemp(opts.TempDir, "plotpipe.")
	if err != nil {
		return nil, fmt.Errorf("failed to create session temp directory: %w", err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to open gnuplot stdin: %w", err)
	}

	// stdout and stderr are merged into one stream so error messages and
	// print output arrive in a single ordered sequence of lines.
	pr, pw, err := os.Pipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to start gnuplot (%q): %w", argv[0], err)
	}
	pw.Close()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	p := &Process{
		cmd:     cmd,
		stdin:   stdin,
		lines:   make(chan string, 64),
		tempDir: tempDir,
		timeout: timeout,
		alive:   true,
	}
	go p.readLines(pr)

	if _, err := p.Exec(ctx, `set print "-"`, nil); err != nil {
		p.Close()
		return nil, fmt.Errorf("gnuplot did not respond after startup: %w", err)
	}
	logger.Debug("Gnuplot session started.", "argv", argv, "tempDir", tempDir)
	return p, nil
}

// readLines pumps the merged output stream into the line channel. The
// channel is closed when the process closes its side.
func (p *Process) readLines(r io.ReadCloser) {
	defer r.Close()
	defer close(p.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lines <- strings.TrimSuffix(scanner.Text(), "\r")
	}
}

// Alive reports whether the subprocess is still usable.
func (p *Process) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

// Close force-quits the subprocess and removes the session temp directory.
// It is safe to call more than once.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownLocked()
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
		p.tempDir = ""
	}
	return nil
}

// shutdownLocked kills the child and reaps it. Callers must hold p.mu.
func (p *Process) shutdownLocked() {
	if !p.alive && p.cmd == nil {
		return
	}
	p.alive = false
	if p.stdin != nil {
		p.stdin.Close()
		p.stdin = nil
	}
	if p.cmd != nil {
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
		p.cmd.Wait()
		p.cmd = nil
	}
}

// Exec sends a command (or newline-separated commands) to gnuplot and
// returns its output. Nonempty outputs of multiple lines are joined with
// newlines, so an empty string means every command was silent.
//
// Data is streamed to gnuplot where the command contains placeholders:
// {{name}} (or {{pipe:name}}) substitutes the path of a named pipe carrying
// data["name"], and {{file:name}} uses a temporary file instead, for data
// formats gnuplot needs random access to.
func (p *Process) Exec(ctx context.Context, command string, data map[string][]byte) (string, error) {
	return p.exec(ctx, command, data, p.timeout)
}

// Pause issues a `pause` command with the reply timeout disabled, since
// `pause mouse' style commands block until user interaction.
func (p *Process) Pause(ctx context.Context, params ...string) (string, error) {
	command := strings.Join(append([]string{"pause"}, params...), " ")
	return p.exec(ctx, command, nil, 0)
}

func (p *Process) exec(ctx context.Context, command string, data map[string][]byte, timeout time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.alive {
		return "", ErrNotRunning
	}

	var results []string
	for _, line := range strings.Split(command, "\n") {
		result, terminated, err := p.execLineLocked(ctx, line, data, timeout)
		if err != nil {
			return "", err
		}
		if terminated {
			break
		}
		if result != "" {
			results = append(results, result)
		}
	}
	return strings.Join(results, "\n"), nil
}

// execLineLocked sends one command line and reads its reply. The returned
// bool reports that gnuplot exited normally (quit/exit command).
func (p *Process) execLineLocked(ctx context.Context, line string, data map[string][]byte, timeout time.Duration) (string, bool, error) {
	logger := ctxlog.FromContext(ctx)

	phs, err := findPlaceholders(line, data)
	if err != nil {
		return "", false, err
	}

	// Substitute each placeholder with the quoted path of its data channel.
	if len(phs) > 0 {
		var sb strings.Builder
		channels := make([]outbound, 0, len(phs))
		defer func() {
			for _, ch := range channels {
				ch.Cleanup()
			}
		}()
		next := 0
		for _, ph := range phs {
			ch, err := newOutbound(ctx, p.tempDir, data[ph.name], ph.viaFile)
			if err != nil {
				return "", false, err
			}
			channels = append(channels, ch)
			sb.WriteString(line[next:ph.start])
			sb.WriteString(Quote(ch.Path()))
			next = ph.end
		}
		sb.WriteString(line[next:])
		line = sb.String()
	}

	logger.Debug("Sending gnuplot command.", "command", line)
	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		p.shutdownLocked()
		return "", false, fmt.Errorf("failed to write to gnuplot: %w", err)
	}

	// quit/exit produce no sentinel; wait for the process to go away.
	if exitQuitPattern.MatchString(line) {
		p.drainUntilExitLocked(ctx)
		return "", true, nil
	}

	token := "plotpipe-done-" + uuid.NewString()
	if _, err := io.WriteString(p.stdin, "print \""+token+"\"\n"); err != nil {
		p.shutdownLocked()
		return "", false, fmt.Errorf("failed to write to gnuplot: %w", err)
	}

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	var out []string
	for {
		select {
		case reply, ok := <-p.lines:
			if !ok {
				p.shutdownLocked()
				return "", false, fmt.Errorf("gnuplot exited during command %q: %w", line, ErrNotRunning)
			}
			if reply == token {
				return strings.Join(out, "\n"), false, nil
			}
			if reply != "" {
				out = append(out, reply)
			}
		case <-timer:
			p.shutdownLocked()
			return "", false, fmt.Errorf("command %q: %w", line, ErrTimeout)
		case <-ctx.Done():
			p.shutdownLocked()
			return "", false, ctx.Err()
		}
	}
}

// drainUntilExitLocked consumes remaining output after a quit command and
// reaps the child.
func (p *Process) drainUntilExitLocked(ctx context.Context) {
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-p.lines:
			if !ok {
				p.shutdownLocked()
				return
			}
		case <-timer.C:
			p.shutdownLocked()
			return
		case <-ctx.Done():
			p.shutdownLocked()
			return
		}
	}
}

// Interact bridges the caller's input to the gnuplot session line by line,
// echoing replies, until EOF or a quit command. There is no pty involved,
// so line editing is whatever the caller's terminal provides.
func (p *Process) Interact(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "gnuplot> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		result, err := p.Exec(ctx, line, nil)
		if err != nil {
			return err
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
		if !p.Alive() {
			return nil
		}
	}
}

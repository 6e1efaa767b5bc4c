package gnuplot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"golang.org/x/sys/unix"
)

// outbound is a one-shot data channel from the driver to gnuplot. It is
// either a named pipe fed by a background goroutine or a fully written
// temporary file.
type outbound interface {
	// Path is the filesystem path gnuplot should read the data from.
	Path() string
	// Cleanup releases the channel. For pipes it also unblocks the writer
	// goroutine if gnuplot never opened the read end.
	Cleanup()
}

// newOutbound creates the channel appropriate for the placeholder mode.
func newOutbound(ctx context.Context, dir string, data []byte, viaFile bool) (outbound, error) {
	if viaFile {
		return newOutboundFile(ctx, dir, data)
	}
	return newOutboundPipe(ctx, dir, data)
}

// outboundFile passes data through a regular temporary file. Needed for
// formats gnuplot seeks in, such as `binary matrix'.
type outboundFile struct {
	path string
}

func newOutboundFile(ctx context.Context, dir string, data []byte) (*outboundFile, error) {
	path := filepath.Join(dir, "file."+uuid.NewString())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write data file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote outbound data file.", "path", path, "bytes", len(data))
	return &outboundFile{path: path}, nil
}

func (f *outboundFile) Path() string { return f.path }

func (f *outboundFile) Cleanup() {
	if f.path != "" {
		os.Remove(f.path)
		f.path = ""
	}
}

// outboundPipe passes data through a named pipe (FIFO). The pipe is created
// synchronously so it is ready for the reader by the time the command
// referencing it is sent; the write happens on a background goroutine
// because opening a FIFO for writing blocks until a reader appears.
type outboundPipe struct {
	path string
	done chan struct{}
}

func newOutboundPipe(ctx context.Context, dir string, data []byte) (*outboundPipe, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(dir, "fifo."+uuid.NewString())
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return nil, fmt.Errorf("failed to create named pipe: %w", err)
	}

	p := &outboundPipe{path: path, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			logger.Debug("Pipe writer could not open write end.", "path", path, "error", err)
			return
		}
		defer f.Close()
		if _, err := f.Write(data); err != nil {
			logger.Debug("Pipe write failed.", "path", path, "error", err)
			return
		}
		logger.Debug("Wrote outbound data pipe.", "path", path, "bytes", len(data))
	}()
	return p, nil
}

func (p *outboundPipe) Path() string { return p.path }

// Cleanup removes the pipe. If the writer goroutine is still blocked waiting
// for a reader (gnuplot rejected the command without opening the file), the
// read end is opened and drained here so the goroutine can exit.
func (p *outboundPipe) Cleanup() {
	if p.path == "" {
		return
	}
	select {
	case <-p.done:
	default:
		if r, err := os.OpenFile(p.path, os.O_RDONLY|unix.O_NONBLOCK, 0); err == nil {
			buf := make([]byte, 4096)
			for {
				if _, err := r.Read(buf); err != nil {
					break
				}
			}
			r.Close()
		}
		<-p.done
	}
	os.Remove(p.path)
	p.path = ""
}

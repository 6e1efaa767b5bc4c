package gnuplot

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spawnFake starts the shell-script gnuplot stand-in from testdata.
func spawnFake(t *testing.T, opts Options) *Process {
	t.Helper()
	script, err := filepath.Abs(filepath.Join("testdata", "fakegnuplot.sh"))
	require.NoError(t, err)

	opts.Command = "/bin/sh " + script
	if opts.TempDir == "" {
		opts.TempDir = t.TempDir()
	}
	p, err := Spawn(context.Background(), opts)
	require.NoError(t, err, "fake gnuplot should start")
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSpawn_FailsForMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := Spawn(context.Background(), Options{
		Command: "/definitely/not/there/gnuplot-xyz",
		TempDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start gnuplot")
}

func TestSpawn_FailsForEmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := Spawn(context.Background(), Options{Command: "   "})
	require.Error(t, err)
}

func TestExec_SilentCommandReturnsEmpty(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), "set title 'hi'", nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestExec_ReturnsCommandOutput(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), `print "hello"`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestExec_JoinsMultilineOutput(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), "print \"one\"\nprint \"two\"", nil)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", result)
}

func TestExec_ErrorOutputIsReturnedNotFatal(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), "boom", nil)
	require.NoError(t, err)
	assert.Contains(t, result, "boom: unknown command")
	assert.True(t, p.Alive(), "an error reply must not kill the session")
}

func TestExec_PipePlaceholderStreamsData(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	payload := bytes.Repeat([]byte("x"), 1000)
	result, err := p.Exec(context.Background(), "slurp {{payload}}",
		map[string][]byte{"payload": payload})
	require.NoError(t, err)
	assert.Equal(t, "slurped 1000", result)
}

func TestExec_FilePlaceholderWritesTempFile(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), "slurp {{file:payload}}",
		map[string][]byte{"payload": []byte("12345")})
	require.NoError(t, err)
	assert.Equal(t, "slurped 5", result)
}

func TestExec_MissingPlaceholderDataFails(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	_, err := p.Exec(context.Background(), "slurp {{nope}}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data provided for placeholder")
	assert.True(t, p.Alive(), "a placeholder mistake must not kill the session")
}

func TestExec_DuplicatePlaceholderFails(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	_, err := p.Exec(context.Background(), "plot {{a}}, {{a}}",
		map[string][]byte{"a": []byte("1 1\n")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate data placeholder")
}

func TestExec_QuitTerminatesSession(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	result, err := p.Exec(context.Background(), "quit", nil)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.False(t, p.Alive())

	_, err = p.Exec(context.Background(), `print "late"`, nil)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestExec_TimeoutKillsProcess(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{Timeout: 100 * time.Millisecond})

	_, err := p.Exec(context.Background(), "hang", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, p.Alive())
}

func TestExec_ContextCancelKillsProcess(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := p.Exec(ctx, "hang", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, p.Alive())
}

func TestGetVar(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})
	ctx := context.Background()

	t.Run("string value", func(t *testing.T) {
		value, ok, err := p.GetVar(ctx, "pi")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(value, "3.14159"), "got %q", value)
	})

	t.Run("float value", func(t *testing.T) {
		value, ok, err := p.GetVarFloat(ctx, "pi")
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 3.14159, value, 1e-4)
	})

	t.Run("int value", func(t *testing.T) {
		value, ok, err := p.GetVarInt(ctx, "answer")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("undefined variable", func(t *testing.T) {
		_, ok, err := p.GetVar(ctx, "no_such_var")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInteract(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	in := strings.NewReader("print \"from the prompt\"\nquit\n")
	out := &bytes.Buffer{}
	err := p.Interact(context.Background(), in, out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "gnuplot> ")
	assert.Contains(t, out.String(), "from the prompt")
	assert.False(t, p.Alive(), "quit at the prompt should end the session")
}

func TestClose_IsIdempotent(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, p.Alive())
}

func TestPause_DisablesTimeout(t *testing.T) {
	t.Parallel()
	// A very short session timeout must not apply to pause commands, which
	// legitimately block. The fake treats pause as an unknown (silent)
	// command, so the reply comes straight back.
	p := spawnFake(t, Options{Timeout: 50 * time.Millisecond})

	result, err := p.Pause(context.Background(), "0")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestExec_UnknownErrorKeepsSentinelOrder(t *testing.T) {
	t.Parallel()
	p := spawnFake(t, Options{})

	// Interleave silent and noisy commands to verify replies never bleed
	// into the next command's result.
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		result, err := p.Exec(ctx, `print "ping"`, nil)
		require.NoError(t, err)
		require.Equal(t, "ping", result)

		result, err = p.Exec(ctx, "set key off", nil)
		require.NoError(t, err)
		require.Empty(t, result)
	}
}

package plot

import (
	"context"
	"testing"

	"github.com/specialistvlad/plotpipego/internal/gnuplot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlot_AppendRedraws(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)

	err := p.Append(context.Background(), CommandItem("sin(x)"))
	require.NoError(t, err)
	assert.Equal(t, "plot sin(x)", sess.lastCommand())
	assert.Equal(t, 1, p.Len())
}

func TestPlot_SPlotUsesSplotVerb(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := NewSPlot(sess)

	require.NoError(t, p.Append(context.Background(), CommandItem("x*y")))
	assert.Equal(t, "splot x*y", sess.lastCommand())
}

func TestPlot_BuildCommandMixesItemKinds(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)
	ctx := context.Background()

	p.SetAutoRefresh(false)
	require.NoError(t, p.Append(ctx,
		CommandItem("sin(x) with lines"),
		DataItem([]byte("0 0\n1 1\n"), "with points"),
		FileDataItem([]byte{1, 2, 3}, "binary matrix"),
	))
	p.SetAutoRefresh(true)
	require.NoError(t, p.Refresh(ctx))

	assert.Equal(t,
		"plot sin(x) with lines, {{item001}} volatile with points, {{file:item002}} volatile binary matrix",
		sess.lastCommand())

	data := sess.lastData()
	assert.Equal(t, []byte("0 0\n1 1\n"), data["item001"])
	assert.Equal(t, []byte{1, 2, 3}, data["item002"])
}

func TestPlot_AutoRefreshOffSendsNothing(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)

	p.SetAutoRefresh(false)
	require.NoError(t, p.Append(context.Background(), CommandItem("sin(x)")))
	assert.Empty(t, sess.commands)
}

func TestPlot_ClearIssuesClear(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)
	ctx := context.Background()

	require.NoError(t, p.Append(ctx, CommandItem("sin(x)")))
	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, "clear", sess.lastCommand())
	assert.Zero(t, p.Len())
}

func TestPlot_Mutators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newPlot := func(t *testing.T) (*Plot, *stubSession) {
		t.Helper()
		sess := newStubSession()
		p := New(sess)
		p.SetAutoRefresh(false)
		require.NoError(t, p.Append(ctx,
			CommandItem("a"), CommandItem("b"), CommandItem("c")))
		p.SetAutoRefresh(true)
		return p, sess
	}

	t.Run("insert", func(t *testing.T) {
		t.Parallel()
		p, sess := newPlot(t)
		require.NoError(t, p.Insert(ctx, 1, CommandItem("x")))
		assert.Equal(t, "plot a, x, b, c", sess.lastCommand())
	})

	t.Run("insert out of range", func(t *testing.T) {
		t.Parallel()
		p, _ := newPlot(t)
		assert.Error(t, p.Insert(ctx, 4, CommandItem("x")))
		assert.Error(t, p.Insert(ctx, -1, CommandItem("x")))
	})

	t.Run("set", func(t *testing.T) {
		t.Parallel()
		p, sess := newPlot(t)
		require.NoError(t, p.Set(ctx, 2, CommandItem("x")))
		assert.Equal(t, "plot a, b, x", sess.lastCommand())
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		p, sess := newPlot(t)
		require.NoError(t, p.Remove(ctx, 0))
		assert.Equal(t, "plot b, c", sess.lastCommand())
	})

	t.Run("pop", func(t *testing.T) {
		t.Parallel()
		p, sess := newPlot(t)
		item, err := p.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c", item.Command)
		assert.Equal(t, "plot a, b", sess.lastCommand())
	})

	t.Run("pop empty", func(t *testing.T) {
		t.Parallel()
		p := New(newStubSession())
		_, err := p.Pop(ctx)
		assert.Error(t, err)
	})

	t.Run("keep reorders", func(t *testing.T) {
		t.Parallel()
		p, sess := newPlot(t)
		require.NoError(t, p.Keep(ctx, 2, 0))
		assert.Equal(t, "plot c, a", sess.lastCommand())
	})

	t.Run("keep out of range", func(t *testing.T) {
		t.Parallel()
		p, _ := newPlot(t)
		assert.Error(t, p.Keep(ctx, 0, 3))
	})
}

func TestPlot_ExecRedrawsAfterCommand(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)
	ctx := context.Background()

	require.NoError(t, p.Append(ctx, CommandItem("sin(x)")))
	_, err := p.Exec(ctx, "set title 'hi'", nil)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(sess.commands), 2)
	assert.Equal(t, "set title 'hi'", sess.commands[len(sess.commands)-2])
	assert.Equal(t, "plot sin(x)", sess.lastCommand())
}

func TestPlot_SourcePipesScript(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	p := New(sess)

	require.NoError(t, p.Source(context.Background(), "set key off"))
	assert.Equal(t, "load {{script}}", sess.lastCommand())
	assert.Equal(t, []byte("set key off\n"), sess.lastData()["script"])
}

func TestPlot_RefreshReportsGnuplotError(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	sess.onExec = func(command string) string {
		return "         ^\n\"-\", line 1: undefined function"
	}
	p := New(sess)

	err := p.Append(context.Background(), CommandItem("nope(x)"))
	require.Error(t, err)

	var cmdErr *gnuplot.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "plot", cmdErr.Cmd)
	assert.Contains(t, cmdErr.Message, "undefined function")
}

func TestPlot_RefreshOnDeadSessionIsNoOp(t *testing.T) {
	t.Parallel()
	sess := newStubSession()
	sess.alive = false
	p := New(sess)

	require.NoError(t, p.Append(context.Background(), CommandItem("sin(x)")))
	assert.Empty(t, sess.commands)
}

package pipeline

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/hooks"
)

// sliceSource yields a fixed list of records and logs when each is pulled.
type sliceSource struct {
	recs []*file.Record
	log  *[]string
	err  error
}

func (s *sliceSource) Enumerate(_ context.Context, _ []string, opts SrcOptions) iter.Seq2[*file.Record, error] {
	return func(yield func(*file.Record, error) bool) {
		for _, r := range s.recs {
			r.Render = opts.RenderEnabled()
			if s.log != nil {
				*s.log = append(*s.log, "src:"+r.Basename())
			}
			if !yield(r, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

// memDest records writes instead of touching disk.
type memDest struct {
	written map[string]string
	log     *[]string
	fail    string
}

func newMemDest(log *[]string) *memDest {
	return &memDest{written: make(map[string]string), log: log}
}

func (d *memDest) Write(_ context.Context, rec *file.Record, dir string) error {
	if rec.Basename() == d.fail {
		return errors.New("disk full")
	}
	out := filepath.Join(dir, rec.Relative())
	d.written[out] = rec.Content()
	if d.log != nil {
		*d.log = append(*d.log, "write:"+rec.Basename())
	}
	return nil
}

func records(names ...string) []*file.Record {
	var out []*file.Record
	for _, n := range names {
		out = append(out, file.New(n, "/proj", []byte(n)))
	}
	return out
}

func logStage(log *[]string, name string) Stage {
	return Map(func(_ context.Context, rec *file.Record) error {
		*log = append(*log, name+":"+rec.Basename())
		return nil
	})
}

func TestRunPerRecordPipelining(t *testing.T) {
	var log []string
	src := &sliceSource{recs: records("a", "b"), log: &log}
	dst := newMemDest(&log)

	p := New(src, dst, nil, []string{"*"}, SrcOptions{}).
		Pipe(logStage(&log, "S")).
		Pipe(logStage(&log, "T")).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{
		"src:a", "S:a", "T:a", "write:a",
		"src:b", "S:b", "T:b", "write:b",
	}, log)
	assert.Equal(t, "a", dst.written["/out/a"])
}

func TestRunHookStagesInOrder(t *testing.T) {
	var log []string
	reg := hooks.NewRegistry()
	for _, st := range hooks.AllStages {
		stage := st
		require.NoError(t, reg.On(stage, hooks.Any(), func(_ context.Context, rec *file.Record) error {
			log = append(log, string(stage)+":"+rec.Basename())
			return nil
		}))
	}

	p := New(&sliceSource{recs: records("a")}, newMemDest(&log), reg, nil, SrcOptions{}).
		Pipe(logStage(&log, "S")).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"onLoad:a", "onStream:a", "S:a", "preWrite:a", "write:a", "postWrite:a"}, log)
}

func TestRunPreWriteSkipSuppressesWrite(t *testing.T) {
	var log []string
	reg := hooks.NewRegistry()
	laterRan := false

	require.NoError(t, reg.On(hooks.PreWrite, hooks.MustRegexp(`/b$`), func(_ context.Context, rec *file.Record) error {
		rec.Skip = true
		return nil
	}))
	require.NoError(t, reg.On(hooks.PreWrite, hooks.Any(), func(_ context.Context, rec *file.Record) error {
		if rec.Basename() == "b" {
			laterRan = true
		}
		return nil
	}))
	postWrites := 0
	require.NoError(t, reg.On(hooks.PostWrite, hooks.Any(), func(context.Context, *file.Record) error {
		postWrites++
		return nil
	}))

	dst := newMemDest(&log)
	p := New(&sliceSource{recs: records("a", "b")}, dst, reg, nil, SrcOptions{}).Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.True(t, laterRan, "later preWrite handlers still run")
	assert.Equal(t, []string{"write:a"}, log)
	assert.Equal(t, 1, postWrites)
}

func TestRunOnLoadSkipBypassesStages(t *testing.T) {
	var log []string
	reg := hooks.NewRegistry()
	require.NoError(t, reg.On(hooks.OnLoad, hooks.Any(), func(_ context.Context, rec *file.Record) error {
		rec.Skip = rec.Basename() == "a"
		return nil
	}))

	p := New(&sliceSource{recs: records("a", "b")}, newMemDest(&log), reg, nil, SrcOptions{}).
		Pipe(logStage(&log, "S")).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"S:b", "write:b"}, log)
}

func TestRunDropAndFanOut(t *testing.T) {
	var log []string
	dst := newMemDest(&log)

	split := StageFunc(func(_ context.Context, rec *file.Record, emit Emit) error {
		if rec.Basename() == "drop" {
			return nil
		}
		if err := emit(rec); err != nil {
			return err
		}
		dup := rec.Clone()
		dup.SetPath(rec.Basename() + ".bak")
		return emit(dup)
	})

	p := New(&sliceSource{recs: records("keep", "drop")}, dst, nil, nil, SrcOptions{}).
		Pipe(split).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"write:keep", "write:keep.bak"}, log)
}

func TestRunFilterDropsRejected(t *testing.T) {
	var log []string
	dst := newMemDest(&log)

	p := New(&sliceSource{recs: records("a.js", "a.min.js", "b.js")}, dst, nil, nil, SrcOptions{}).
		Pipe(Filter(func(rec *file.Record) bool { return !strings.HasSuffix(rec.Basename(), ".min.js") })).
		Pipe(logStage(&log, "S")).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"S:a.js", "write:a.js", "S:b.js", "write:b.js"}, log)
}

// collector accumulates records and emits a summary on flush.
type collector struct {
	names []string
}

func (c *collector) Transform(_ context.Context, rec *file.Record, emit Emit) error {
	c.names = append(c.names, rec.Basename())
	return emit(rec)
}

func (c *collector) Flush(_ context.Context, emit Emit) error {
	return emit(file.New("SUMMARY", "/proj", []byte(strings.Join(c.names, ","))))
}

func TestRunFlushEmitsThroughRemainingStages(t *testing.T) {
	var log []string
	dst := newMemDest(&log)

	p := New(&sliceSource{recs: records("a", "b")}, dst, nil, nil, SrcOptions{}).
		Pipe(&collector{}).
		Pipe(logStage(&log, "T")).
		Dest(Dir("/out"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"T:a", "write:a", "T:b", "write:b", "T:SUMMARY", "write:SUMMARY"}, log)
	assert.Equal(t, "a,b", dst.written["/out/SUMMARY"])
}

func TestRunOnEndAfterDrain(t *testing.T) {
	var log []string
	p := New(&sliceSource{recs: records("a")}, newMemDest(&log), nil, nil, SrcOptions{}).
		Dest(Dir("/out")).
		OnEnd(func(context.Context) error {
			log = append(log, "end")
			return nil
		})

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"write:a", "end"}, log)
}

func TestRunStageErrorHaltsEmission(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	failing := StageFunc(func(_ context.Context, rec *file.Record, emit Emit) error {
		if rec.Basename() == "b" {
			return boom
		}
		return emit(rec)
	})

	p := New(&sliceSource{recs: records("a", "b", "c")}, newMemDest(&log), nil, nil, SrcOptions{}).
		Pipe(failing).
		Dest(Dir("/out"))

	err := p.Run(context.Background())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "stage[0]", se.Stage)
	assert.Equal(t, "b", se.Path)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"write:a"}, log)
}

func TestRunWriteErrorIsStageError(t *testing.T) {
	dst := newMemDest(nil)
	dst.fail = "b"

	p := New(&sliceSource{recs: records("a", "b")}, dst, nil, nil, SrcOptions{}).
		Pipe(logStage(new([]string), "S")).
		Dest(Dir("/out"))

	err := p.Run(context.Background())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Stage)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "b", we.Path)
}

func TestRunSourceError(t *testing.T) {
	p := New(&sliceSource{err: errors.New("bad glob")}, nil, nil, nil, SrcOptions{})

	var se *StageError
	require.ErrorAs(t, p.Run(context.Background()), &se)
	assert.Equal(t, "source", se.Stage)
}

func TestRunWithoutDestinationEndsAfterStages(t *testing.T) {
	var log []string
	p := New(&sliceSource{recs: records("a")}, nil, nil, nil, SrcOptions{}).Pipe(logStage(&log, "S"))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"S:a"}, log)
}

func TestRunTargetFuncCanRename(t *testing.T) {
	dst := newMemDest(nil)
	p := New(&sliceSource{recs: records("LICENSE-MIT")}, dst, nil, nil, NoRender()).
		Dest(TargetFunc(func(rec *file.Record) (string, error) {
			rec.SetPath("LICENSE")
			return "/proj", nil
		}))

	require.NoError(t, p.Run(context.Background()))
	assert.Contains(t, dst.written, "/proj/LICENSE")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(&sliceSource{recs: records("a")}, nil, nil, nil, SrcOptions{})
	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
}

func TestSrcOptionsRender(t *testing.T) {
	assert.True(t, SrcOptions{}.RenderEnabled())
	assert.False(t, NoRender().RenderEnabled())
}

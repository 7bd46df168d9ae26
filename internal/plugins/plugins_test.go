package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

const testBase = "/proj"

var testInfo = pkgmeta.Info{
	Name:        "is-number",
	Version:     "0.1.0",
	Description: "Returns true if the value is a number.",
	Author:      pkgmeta.Person{Name: "Jon Schlinkert", URL: "https://github.com/jonschlinkert"},
	License:     "MIT",
	Homepage:    "https://github.com/jonschlinkert/is-number",
	Repository:  "https://github.com/jonschlinkert/is-number",
}

// freezeTime pins the clock used for copyright years.
func freezeTime(t *testing.T, year int) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

// runStage feeds recs through s, flushes it and returns what it emitted.
func runStage(t *testing.T, s pipeline.Stage, recs ...*file.Record) []*file.Record {
	t.Helper()
	ctx := context.Background()
	var out []*file.Record
	emit := func(rec *file.Record) error {
		out = append(out, rec)
		return nil
	}
	for _, rec := range recs {
		require.NoError(t, s.Transform(ctx, rec, emit))
	}
	if f, ok := s.(pipeline.Flusher); ok {
		require.NoError(t, f.Flush(ctx, emit))
	}
	return out
}

func record(path, content string) *file.Record {
	return file.New(path, testBase, []byte(content))
}

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

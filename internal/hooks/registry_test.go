package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/file"
)

func TestOnRejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, *file.Record) error { return nil }

	assert.Error(t, r.On(Stage("onDelete"), Any(), noop))
	assert.Error(t, r.On(OnLoad, nil, noop))
	assert.Error(t, r.On(OnLoad, Any(), nil))
	assert.Zero(t, r.Len(OnLoad))
}

func TestFireRegistrationOrderSeesEarlierMutations(t *testing.T) {
	r := NewRegistry()
	var seen any

	require.NoError(t, r.On(OnLoad, Any(), func(_ context.Context, rec *file.Record) error {
		rec.Data["copyright"] = "2015, Jon"
		return nil
	}))
	require.NoError(t, r.On(OnLoad, MustRegexp(`\.js$`), func(_ context.Context, rec *file.Record) error {
		seen = rec.Data["copyright"]
		return nil
	}))

	rec := file.New("index.js", "/proj", nil)
	require.NoError(t, r.Fire(context.Background(), OnLoad, rec))
	assert.Equal(t, "2015, Jon", seen)
}

func TestFireOnlyMatchingHandlers(t *testing.T) {
	r := NewRegistry()
	var calls []string
	add := func(name string) Handler {
		return func(context.Context, *file.Record) error {
			calls = append(calls, name)
			return nil
		}
	}

	require.NoError(t, r.On(PreWrite, MustRegexp(`\.md$`), add("md")))
	require.NoError(t, r.On(PreWrite, MustRegexp(`\.js$`), add("js")))
	require.NoError(t, r.On(PreWrite, Any(), add("any")))
	require.NoError(t, r.On(PostWrite, Any(), add("post")))

	require.NoError(t, r.Fire(context.Background(), PreWrite, file.New("README.md", "/proj", nil)))
	assert.Equal(t, []string{"md", "any"}, calls)
}

func TestFireSkipDoesNotStopLaterHandlers(t *testing.T) {
	r := NewRegistry()
	later := false

	require.NoError(t, r.On(PreWrite, Any(), func(_ context.Context, rec *file.Record) error {
		rec.Skip = true
		return nil
	}))
	require.NoError(t, r.On(PreWrite, Any(), func(_ context.Context, rec *file.Record) error {
		later = rec.Skip
		return nil
	}))

	rec := file.New("a.txt", "/proj", nil)
	require.NoError(t, r.Fire(context.Background(), PreWrite, rec))
	assert.True(t, later)
}

func TestFireStopsOnError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	called := false

	require.NoError(t, r.On(OnStream, Any(), func(context.Context, *file.Record) error { return boom }))
	require.NoError(t, r.On(OnStream, Any(), func(context.Context, *file.Record) error {
		called = true
		return nil
	}))

	err := r.Fire(context.Background(), OnStream, file.New("a", "/p", nil))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "onStream handler #1")
	assert.False(t, called)
}

func TestNilRegistryFireIsNoop(t *testing.T) {
	var r *Registry
	assert.NoError(t, r.Fire(context.Background(), OnLoad, file.New("a", "/p", nil)))
}

func TestParseStage(t *testing.T) {
	for _, st := range AllStages {
		got, ok := ParseStage(string(st))
		assert.True(t, ok)
		assert.Equal(t, st, got)
	}
	_, ok := ParseStage("postRender")
	assert.False(t, ok)
}

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapp/internal/session"
	"todoapp/internal/source"
	"todoapp/internal/testutil"
	"todoapp/internal/todo"
)

func TestLoadInitializesStore(t *testing.T) {
	src := testutil.NewFakeSource(
		todo.Item{ID: 1, Title: "A"},
		todo.Item{ID: 2, Title: "B", Completed: true},
	)
	sess := session.New(nil, src, nil)

	state, _ := sess.State()
	assert.Equal(t, session.Idle, state)

	require.NoError(t, sess.Load(context.Background()))

	state, err := sess.State()
	assert.Equal(t, session.Loaded, state)
	assert.NoError(t, err)
	assert.Equal(t, src.Items(), sess.Store.Items())
	assert.Equal(t, todo.DefaultSeed, sess.Store.Counter())
}

func TestLoadFailureLeavesStoreUntouched(t *testing.T) {
	src := testutil.NewFakeSource()
	src.FetchErr = errors.New("connection refused")
	sess := session.New(nil, src, nil)
	sess.Store.Add("kept")

	notified := 0
	sess.Store.Subscribe(func() { notified++ })

	err := sess.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrLoad)
	assert.Contains(t, err.Error(), "connection refused")

	state, loadErr := sess.State()
	assert.Equal(t, session.Failed, state)
	assert.Equal(t, err, loadErr)
	assert.Equal(t, 1, sess.Store.Len())
	assert.Equal(t, 0, notified)
}

func TestRetryAfterFailure(t *testing.T) {
	src := testutil.NewFakeSource(todo.Item{ID: 5, Title: "X"})
	src.FetchErr = errors.New("boom")
	sess := session.New(nil, src, nil)

	require.Error(t, sess.Load(context.Background()))

	src.FetchErr = nil
	require.NoError(t, sess.Load(context.Background()))
	assert.Equal(t, []todo.Item{{ID: 5, Title: "X"}}, sess.Store.Items())
	assert.Equal(t, 2, src.Calls())
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	src := testutil.NewFakeSource(todo.Item{ID: 1, Title: "A"})
	sess := session.New(nil, src, nil)

	require.NoError(t, sess.EnsureLoaded(context.Background()))
	sess.Store.Add("local")
	require.NoError(t, sess.EnsureLoaded(context.Background()))

	assert.Equal(t, 1, src.Calls())
	assert.Equal(t, 2, sess.Store.Len())
}

func TestNoSource(t *testing.T) {
	sess := session.New(nil, nil, nil)
	err := sess.Load(context.Background())
	assert.ErrorIs(t, err, source.ErrLoad)
}

func TestFetchThenApplySeparately(t *testing.T) {
	src := testutil.NewFakeSource(todo.Item{ID: 1, Title: "A"})
	sess := session.New(nil, src, nil)

	items, err := sess.Fetch(context.Background())
	require.NoError(t, err)
	state, _ := sess.State()
	assert.Equal(t, session.Loading, state)
	assert.Equal(t, 0, sess.Store.Len())

	sess.Apply(items, nil)
	assert.Equal(t, 1, sess.Store.Len())
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "idle", session.Idle.String())
	assert.Equal(t, "loading", session.Loading.String())
	assert.Equal(t, "loaded", session.Loaded.String())
	assert.Equal(t, "failed", session.Failed.String())
}

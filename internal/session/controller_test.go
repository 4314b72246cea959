package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chardiff/internal/compare"
)

type mapLoader struct {
	content map[string]string
	calls   []string
}

func (l *mapLoader) Load(_ context.Context, id string) (string, error) {
	l.calls = append(l.calls, id)
	c, ok := l.content[id]
	if !ok {
		return "", errors.New("no such source")
	}
	return c, nil
}

func newTestController(t *testing.T, content map[string]string) (*Controller, *mapLoader) {
	t.Helper()
	loader := &mapLoader{content: content}
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	c := NewController(loader, WithClock(func() time.Time {
		at = at.Add(time.Second)
		return at
	}))
	return c, loader
}

func TestLoadReplacesBufferAndSource(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	require.NoError(t, c.LoadLeft(context.Background(), "a.txt"))
	require.NoError(t, c.LoadRight(context.Background(), "b.txt"))

	assert.Equal(t, Buffer{Content: "alpha", SourceID: "a.txt"}, c.Left())
	assert.Equal(t, Buffer{Content: "beta", SourceID: "b.txt"}, c.Right())
}

func TestLoadFailureKeepsPriorBuffer(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a.txt": "alpha"})
	require.NoError(t, c.LoadLeft(context.Background(), "a.txt"))

	err := c.LoadLeft(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnreadable)

	var unreadable *SourceUnreadableError
	require.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "missing.txt", unreadable.SourceID)
	assert.Contains(t, err.Error(), "no such source")

	assert.Equal(t, Buffer{Content: "alpha", SourceID: "a.txt"}, c.Left())
}

func TestAttachSourcesSingleLoadsLeftOnly(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a": "A", "b": "B"})
	c.ReplaceRight("keep", "kept")

	require.NoError(t, c.AttachSources(context.Background(), []string{"a"}))
	assert.Equal(t, Buffer{Content: "A", SourceID: "a"}, c.Left())
	assert.Equal(t, Buffer{Content: "kept", SourceID: "keep"}, c.Right())
}

func TestAttachSourcesIgnoresExtras(t *testing.T) {
	c, loader := newTestController(t, map[string]string{"a": "A", "b": "B", "c": "C"})

	require.NoError(t, c.AttachSources(context.Background(), []string{"a", "b", "c"}))
	assert.Equal(t, "A", c.Left().Content)
	assert.Equal(t, "B", c.Right().Content)
	assert.Equal(t, []string{"a", "b"}, loader.calls)
}

func TestAttachSourcesFailsPerSide(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"b": "B"})
	c.ReplaceLeft("old", "previous")

	err := c.AttachSources(context.Background(), []string{"missing", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.Equal(t, Buffer{Content: "previous", SourceID: "old"}, c.Left())
	assert.Equal(t, Buffer{Content: "B", SourceID: "b"}, c.Right())
}

func TestAttachSourcesEmptyIsNoop(t *testing.T) {
	c, loader := newTestController(t, nil)
	require.NoError(t, c.AttachSources(context.Background(), nil))
	assert.Empty(t, loader.calls)
}

func TestSetOption(t *testing.T) {
	c, _ := newTestController(t, nil)

	require.NoError(t, c.SetOption(OptionIgnoreCase, true))
	require.NoError(t, c.SetOption(OptionIgnoreWhitespace, true))
	assert.Equal(t, compare.Options{IgnoreCase: true, IgnoreWhitespace: true}, c.Options())

	require.NoError(t, c.SetOption(OptionIgnoreCase, false))
	assert.False(t, c.Options().IgnoreCase)

	err := c.SetOption("ignore_everything", true)
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestCompareUsesOptions(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.ReplaceLeft("", "AbC")
	c.ReplaceRight("", "abc")

	assert.False(t, c.Compare().Equal())
	require.NoError(t, c.SetOption(OptionIgnoreCase, true))
	assert.True(t, c.Compare().Equal())
}

func TestCompareAppendsHistoryOnlyWithBothSources(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a": "x", "b": "y"})

	c.Compare()
	assert.Empty(t, c.History())

	require.NoError(t, c.LoadLeft(context.Background(), "a"))
	c.Compare()
	assert.Empty(t, c.History(), "right source unset")

	require.NoError(t, c.LoadRight(context.Background(), "b"))
	c.Compare()
	require.Len(t, c.History(), 1)
	assert.Equal(t, "a", c.History()[0].LeftSource)
	assert.Equal(t, "b", c.History()[0].RightSource)
}

func TestCompareRepeatedAppendsDuplicates(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.ReplaceLeft("l", "same")
	c.ReplaceRight("r", "same")

	first := c.Compare()
	second := c.Compare()
	assert.Equal(t, first.Verdicts(), second.Verdicts())

	h := c.History()
	require.Len(t, h, 2)
	assert.True(t, h[0].Timestamp.Before(h[1].Timestamp))
	assert.Equal(t, "2025-03-14 09:26:54", h[0].FormattedTime())
}

func TestClearKeepsHistory(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.ReplaceLeft("l", "one")
	c.ReplaceRight("r", "two")
	c.Compare()

	c.Clear()
	assert.Equal(t, Buffer{}, c.Left())
	assert.Equal(t, Buffer{}, c.Right())
	assert.Len(t, c.History(), 1)

	c.Compare()
	assert.Len(t, c.History(), 1, "cleared sources must not be recorded")
}

func TestEditKeepsSource(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.ReplaceLeft("a.txt", "before")
	c.Edit(SideLeft, "after")
	assert.Equal(t, Buffer{Content: "after", SourceID: "a.txt"}, c.Left())
}

func TestLoadFromHistory(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a": "A", "b": "B"})
	entry := HistoryEntry{LeftSource: "a", RightSource: "b"}

	require.NoError(t, c.LoadFromHistory(context.Background(), entry))
	assert.Equal(t, Buffer{Content: "A", SourceID: "a"}, c.Left())
	assert.Equal(t, Buffer{Content: "B", SourceID: "b"}, c.Right())
}

func TestLoadFromHistoryFailsPerSide(t *testing.T) {
	c, _ := newTestController(t, map[string]string{"a": "A"})
	c.ReplaceRight("prior", "P")

	err := c.LoadFromHistory(context.Background(), HistoryEntry{LeftSource: "a", RightSource: "gone"})
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.Equal(t, "A", c.Left().Content)
	assert.Equal(t, Buffer{Content: "P", SourceID: "prior"}, c.Right())
}

func TestHistoryReturnsCopy(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.ReplaceLeft("l", "x")
	c.ReplaceRight("r", "x")
	c.Compare()

	h := c.History()
	h[0].LeftSource = "tampered"
	assert.Equal(t, "l", c.History()[0].LeftSource)
}

func TestControllerLogsWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	c := NewController(&mapLoader{}, WithLogger(zerolog.New(&buf)))
	c.Compare()

	assert.NotEmpty(t, c.SessionID())
	assert.Contains(t, buf.String(), c.SessionID())
	assert.Contains(t, buf.String(), "compared buffers")
}

func TestAttachPlan(t *testing.T) {
	c, _ := newTestController(t, nil)

	assert.Nil(t, c.AttachPlan(nil))
	assert.Equal(t, []LoadRequest{{Side: SideLeft, SourceID: "a"}}, c.AttachPlan([]string{"a"}))
	assert.Equal(t, []LoadRequest{
		{Side: SideLeft, SourceID: "a"},
		{Side: SideRight, SourceID: "b"},
	}, c.AttachPlan([]string{"a", "b", "c"}))
	assert.Equal(t, c.AttachPlan([]string{"l", "r"}), c.HistoryPlan(HistoryEntry{LeftSource: "l", RightSource: "r"}))
}

func TestFetchAllLeavesStateUntilApply(t *testing.T) {
	var buf bytes.Buffer
	loader := &mapLoader{content: map[string]string{"a": "A"}}
	c := NewController(loader, WithLogger(zerolog.New(&buf)))
	c.ReplaceRight("prior", "P")

	results := c.FetchAll(context.Background(), c.AttachPlan([]string{"a", "gone"}))
	require.Len(t, results, 2)
	assert.Equal(t, Buffer{}, c.Left())

	err := c.Apply(results)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.Equal(t, Buffer{Content: "A", SourceID: "a"}, c.Left())
	assert.Equal(t, Buffer{Content: "P", SourceID: "prior"}, c.Right())
	assert.Contains(t, buf.String(), "load failed")
	assert.Contains(t, buf.String(), `"source":"gone"`)
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/tokenweave/buffer"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPendingSelectionExpires(t *testing.T) {
	var p pendingSelection
	_, ok := p.get(t0)
	require.False(t, ok)

	p.set(buffer.Caret(4), t0, 100*time.Millisecond)
	r, ok := p.get(t0.Add(100 * time.Millisecond))
	require.True(t, ok)
	require.Equal(t, buffer.Caret(4), r)

	_, ok = p.get(t0.Add(101 * time.Millisecond))
	require.False(t, ok)
}

func TestSwipeMemo(t *testing.T) {
	value := []rune("a hello")
	var s swipeMemo
	s.remember(2, "hello", t0, time.Second)
	require.True(t, s.valid(value, t0))
	require.False(t, s.valid([]rune("a hellx"), t0), "text no longer matches")
	require.False(t, s.valid(value, t0.Add(2*time.Second)))

	r, ok := s.widened(7)
	require.True(t, ok)
	require.Equal(t, buffer.Range{Start: 2, End: 7}, r)
	_, ok = s.widened(6)
	require.False(t, ok)

	s.extend(t0, time.Second)
	require.True(t, s.valid([]rune("a hello "), t0))

	s.remember(1, " hi", t0, time.Second)
	r, ok = s.widened(4)
	require.True(t, ok)
	require.Equal(t, buffer.Range{Start: 2, End: 4}, r, "a single leading space survives")

	s.clear()
	require.False(t, s.valid(value, t0))
}

func TestLoneSpace(t *testing.T) {
	var l loneSpace
	l.remember(0, t0, time.Second)
	require.True(t, l.precedes([]rune(" x"), 1, t0))
	require.False(t, l.precedes([]rune(" x"), 2, t0))
	require.False(t, l.precedes([]rune("xx"), 1, t0))
	require.False(t, l.precedes([]rune(" x"), 1, t0.Add(2*time.Second)))
}

func TestPostCompositionFiresOnce(t *testing.T) {
	var p postComposition
	require.False(t, p.takeInput(t0))

	p.arm(t0, 50*time.Millisecond)
	require.False(t, p.takeKey(KeyEvent{Key: "a"}, t0), "only commit keys")
	require.True(t, p.takeKey(KeyEvent{Key: KeySpace}, t0.Add(10*time.Millisecond)))
	require.False(t, p.takeKey(KeyEvent{Key: KeySpace}, t0.Add(10*time.Millisecond)))
	require.True(t, p.takeInput(t0.Add(50*time.Millisecond)))
	require.False(t, p.takeInput(t0))

	p.arm(t0, 50*time.Millisecond)
	require.True(t, p.takeKey(KeyEvent{Key: KeyEnter, IsComposing: true}, t0.Add(time.Second)))
	require.False(t, p.takeInput(t0.Add(time.Second)))
}

func TestArrowNavDirection(t *testing.T) {
	require.True(t, arrowNav{key: KeyArrowRight}.towardEnd())
	require.True(t, arrowNav{key: KeyArrowDown}.towardEnd())
	require.False(t, arrowNav{key: KeyArrowLeft}.towardEnd())
	require.False(t, arrowNav{key: KeyArrowUp}.towardEnd())
}

package grapheme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	family   = "\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466"
	flag     = "\U0001F1EF\U0001F1F5"
	thumbsUp = "\U0001F44D\U0001F3FD"
	combined = "e\u0301"
)

func TestSplitAndCount_MultiRuneGraphemes(t *testing.T) {
	text := "a" + combined + family + "b"
	got := Split(text)
	require.Len(t, got, 4)
	require.Equal(t, combined, got[1])
	require.Equal(t, family, got[2])
	require.Equal(t, 4, Count(text))
	require.Equal(t, 0, Count(""))
}

func TestBoundaries(t *testing.T) {
	text := "a" + flag + thumbsUp
	require.Equal(t, []int{0, 1, 3, 5}, Boundaries(text))
	require.Equal(t, []int{0}, Boundaries(""))
}

func TestPrevStartAndNextEnd(t *testing.T) {
	text := "x" + family + "y"
	famLen := len([]rune(family))

	require.Equal(t, 1, PrevStart(text, 1+famLen), "caret after family removes whole cluster")
	require.Equal(t, 0, PrevStart(text, 1))
	require.Equal(t, 0, PrevStart(text, 0))
	require.Equal(t, 1+famLen, NextEnd(text, 1))
	require.Equal(t, 2+famLen, NextEnd(text, 1+famLen))
	require.Equal(t, 2+famLen, NextEnd(text, 99))
}

func TestPrevStart_MidCluster(t *testing.T) {
	text := "a" + flag
	require.Equal(t, 1, PrevStart(text, 2))
	require.Equal(t, 3, NextEnd(text, 2))
}

func TestSnap(t *testing.T) {
	text := "a" + combined + "b"
	require.Equal(t, 1, SnapStart(text, 2))
	require.Equal(t, 3, SnapEnd(text, 2))
	require.Equal(t, 1, SnapStart(text, 1))
	require.Equal(t, 1, SnapEnd(text, 1))
	require.Equal(t, 0, SnapStart(text, -4))
	require.Equal(t, 4, SnapEnd(text, 40))
}

func TestClassify(t *testing.T) {
	require.Equal(t, ClassSpace, Classify("\t"))
	require.Equal(t, ClassPunct, Classify("!"))
	require.Equal(t, ClassWord, Classify("a"))
	require.Equal(t, ClassWord, Classify(thumbsUp))
	require.False(t, IsSpace(""))
	require.False(t, IsPunct(""))
}

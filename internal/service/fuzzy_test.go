package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankFind_EmptyQueryKeepsOrder(t *testing.T) {
	ranks := RankFind("", []string{"b", "a"})
	require.Len(t, ranks, 2)
	assert.Equal(t, 0, ranks[0].OriginalIndex)
	assert.Equal(t, 1, ranks[1].OriginalIndex)
}

func TestFilterIndexes(t *testing.T) {
	names := []string{"Engineering", "Sales", "Eng Ops"}
	assert.Equal(t, []int{0, 2}, FilterIndexes("eng", names))
	assert.Empty(t, FilterIndexes("zzz", names))
}

func TestBestMatch(t *testing.T) {
	names := []string{"Acme Corp", "Acme", "Globex"}

	idx, err := BestMatch("ACME", names)
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "exact match wins")

	idx, err = BestMatch("glbx", names)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = BestMatch("initech", names)
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = BestMatch("ab", []string{"ab1", "ab2"})
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	assert.False(t, s.IsLatest(0))

	first := s.Next()
	assert.True(t, s.IsLatest(first))

	second := s.Next()
	assert.False(t, s.IsLatest(first), "older responses are stale")
	assert.True(t, s.IsLatest(second))
}

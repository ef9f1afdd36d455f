package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSimilarIdenticalText(t *testing.T) {
	m := NewMatcher(DefaultThreshold)
	got, ok := m.FindSimilar("how is the weather today", []string{"how is the weather today"})
	assert.True(t, ok)
	assert.Equal(t, "how is the weather today", got)
}

func TestFindSimilarIgnoresCase(t *testing.T) {
	m := NewMatcher(0)
	got, ok := m.FindSimilar("What Is IRIS", []string{"what is iris"})
	assert.True(t, ok)
	assert.Equal(t, "what is iris", got)
}

func TestThresholdIsStrict(t *testing.T) {
	m := NewMatcher(0.8)

	assert.InDelta(t, 0.8, Overlap("a b c d x", "a b c d e"), 1e-12)
	_, ok := m.FindSimilar("a b c d x", []string{"a b c d e"})
	assert.False(t, ok, "overlap of exactly 0.8 must not match")

	assert.InDelta(t, 0.75, Overlap("the cat sat now", "the cat sat"), 1e-12)
	_, ok = m.FindSimilar("the cat sat now", []string{"the cat sat"})
	assert.False(t, ok)
}

func TestFirstMatchWins(t *testing.T) {
	m := NewMatcher(0.5)
	keys := []string{
		"turn on the lamp please",  // 4/5 shared with the query
		"turn on the lamp now",     // identical to the query
		"completely unrelated key", // no overlap
	}
	got, ok := m.FindSimilar("turn on the lamp now", keys)
	assert.True(t, ok)
	assert.Equal(t, "turn on the lamp please", got)
}

func TestEmptyInputsNeverMatch(t *testing.T) {
	m := NewMatcher(0.8)
	assert.Zero(t, Overlap("", ""))
	assert.Zero(t, Overlap("   ", "\t"))
	assert.Zero(t, Overlap("", "hello"))

	_, ok := m.FindSimilar("", []string{"", "hello"})
	assert.False(t, ok)
}

func TestOverlapUsesDistinctWords(t *testing.T) {
	// {hello} vs {hello, world}: 1 / 2
	assert.InDelta(t, 0.5, Overlap("hello hello hello", "hello world"), 1e-12)
	// 多个空白字符视为一个分隔
	assert.InDelta(t, 1.0, Overlap("good   morning\tiris", "good morning iris"), 1e-12)
}

func TestFindSimilarNoKeys(t *testing.T) {
	_, ok := NewMatcher(0.8).FindSimilar("anything", nil)
	assert.False(t, ok)
}

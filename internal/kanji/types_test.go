package kanji

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{url: "https://kanji.jitenon.jp/cat/kyu10", want: "kyu10"},
		{url: "https://kanji.jitenon.jp/cat/kyu0101j", want: "kyu0101j"},
		{url: "https://example.com/a/b?x=1", want: "b?x=1"},
		{url: "https://example.com/cat/", want: ""},
		{url: "no-slash", want: "no-slash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.url), tt.url)
	}
}

func TestChunkDefaultTargets(t *testing.T) {
	t.Parallel()

	groups := Chunk(DefaultTargets, 5)
	sizes := make([]int, 0, len(groups))
	for _, g := range groups {
		sizes = append(sizes, len(g))
	}
	assert.Equal(t, []int{5, 5, 3}, sizes)
	assert.Equal(t, DefaultTargets[0], groups[0][0])
	assert.Equal(t, DefaultTargets[5], groups[1][0])
	assert.Equal(t, DefaultTargets[12], groups[2][2])
}

func TestChunkEdgeCases(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Chunk(nil, 5))
	assert.Equal(t, [][]string{{"a", "b", "c"}}, Chunk([]string{"a", "b", "c"}, 0))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, Chunk([]string{"a", "b"}, 1))
}

func TestChunkGroupsDoNotAlias(t *testing.T) {
	t.Parallel()

	targets := []string{"a", "b", "c"}
	groups := Chunk(targets, 2)
	groups[0] = append(groups[0], "x")
	assert.Equal(t, "c", targets[2])
}

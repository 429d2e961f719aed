package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// mustNote builds a note whose context is exactly the annotated word.
func mustNote(t *testing.T, word, detail string) domain.Note {
	t.Helper()
	n, err := domain.NewNote("测试", word, domain.Span{Start: 0, End: len([]rune(word))}, detail, detail)
	require.NoError(t, err)
	return n
}

func words(notes []domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.OriginalText()
	}
	return out
}

func TestCharIndex_Lookup(t *testing.T) {
	t.Parallel()

	ix := NewCharIndex([]domain.Note{
		mustNote(t, "河", "黄河。"),
		mustNote(t, "河流", "水道。"),
		mustNote(t, "流水", "流动的水。"),
		mustNote(t, "果", "果然。"),
		mustNote(t, "不果", "没有实现。"),
		mustNote(t, "结果", "植物长出果实。"),
	})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "single rune", query: "河", want: []string{"河", "河流"}},
		{name: "all runes required", query: "河流", want: []string{"河流"}},
		{name: "shared rune", query: "流", want: []string{"河流", "流水"}},
		{name: "every note containing rune", query: "果", want: []string{"果", "不果", "结果"}},
		{name: "order independent", query: "果不", want: []string{"不果"}},
		{name: "unindexed rune", query: "山", want: []string{}},
		{name: "one rune missing", query: "河山", want: []string{}},
		{name: "empty query", query: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ix.Lookup(tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, words(got))
		})
	}
}

func TestCharIndex_RepeatedRuneIndexedOnce(t *testing.T) {
	t.Parallel()

	ix := NewCharIndex([]domain.Note{mustNote(t, "迢迢", "遥远的样子。")})

	assert.Len(t, ix.Lookup("迢"), 1)
	assert.Len(t, ix.Lookup("迢迢"), 1)
	assert.Equal(t, 1, ix.Len())
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{2, 5}, intersect([]int{1, 2, 3, 5}, []int{2, 4, 5, 6}))
	assert.Empty(t, intersect([]int{1, 3}, []int{2, 4}))
	assert.Empty(t, intersect([]int{1}, nil))
}

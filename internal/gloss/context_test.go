package gloss

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

func TestContextWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		span        domain.Span
		budget      ClauseBudget
		wantContext string
		wantSpan    domain.Span
	}{
		{
			name:        "single sentence fits",
			content:     "青山一道同云雨，明月何曾是两乡",
			span:        domain.Span{Start: 5, End: 7},
			budget:      DefaultClauseBudget(),
			wantContext: "青山一道同云雨，明月何曾是两乡",
			wantSpan:    domain.Span{Start: 5, End: 7},
		},
		{
			name:        "budget spent on both sides",
			content:     "一二。三四，五六七。八九，十。",
			span:        domain.Span{Start: 6, End: 8},
			budget:      DefaultClauseBudget(),
			wantContext: "三四，五六七。",
			wantSpan:    domain.Span{Start: 3, End: 5},
		},
		{
			name:        "newline on the left",
			content:     "春眠不觉晓\n处处闻啼鸟",
			span:        domain.Span{Start: 8, End: 10},
			budget:      DefaultClauseBudget(),
			wantContext: "处处闻啼鸟",
			wantSpan:    domain.Span{Start: 2, End: 4},
		},
		{
			name:        "newline on the right",
			content:     "春眠不觉晓\n处处闻啼鸟",
			span:        domain.Span{Start: 1, End: 3},
			budget:      DefaultClauseBudget(),
			wantContext: "春眠不觉晓",
			wantSpan:    domain.Span{Start: 1, End: 3},
		},
		{
			name:        "trailing pause trimmed",
			content:     "甲乙，丙丁",
			span:        domain.Span{Start: 0, End: 2},
			budget:      ClauseBudget{Left: 1, Right: 1, StopCost: 2, PauseCost: 1},
			wantContext: "甲乙",
			wantSpan:    domain.Span{Start: 0, End: 2},
		},
		{
			name:        "wider budget crosses a terminator",
			content:     "一二。三四，五六七。八九，十。",
			span:        domain.Span{Start: 6, End: 8},
			budget:      ClauseBudget{Left: 5, Right: 4, StopCost: 2, PauseCost: 1},
			wantContext: "一二。三四，五六七。八九，十。",
			wantSpan:    domain.Span{Start: 6, End: 8},
		},
		{
			name:        "zero budget keeps the span",
			content:     "一二。三四",
			span:        domain.Span{Start: 3, End: 5},
			budget:      ClauseBudget{},
			wantContext: "三四",
			wantSpan:    domain.Span{Start: 0, End: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			context, span := ContextWindow([]rune(tt.content), tt.span, tt.budget)
			assert.Equal(t, tt.wantContext, context)
			assert.Equal(t, tt.wantSpan, span)
		})
	}
}

func TestContextWindow_NeverCrossesNewline(t *testing.T) {
	t.Parallel()

	content := []rune("甲乙丙\n丁戊己\n庚辛壬")
	budget := ClauseBudget{Left: 100, Right: 100, StopCost: 2, PauseCost: 1}

	for start := 0; start < len(content); start++ {
		if content[start] == '\n' {
			continue
		}
		context, span := ContextWindow(content, domain.Span{Start: start, End: start + 1}, budget)
		assert.False(t, strings.Contains(context, "\n"), "context %q for start %d", context, start)
		assert.Equal(t, string(content[start]), domain.SliceRunes(context, span))
	}
}

func TestContextWindow_EmptySpan(t *testing.T) {
	t.Parallel()

	context, span := ContextWindow([]rune("云雨"), domain.Span{Start: 1, End: 1}, DefaultClauseBudget())
	assert.Empty(t, context)
	assert.Equal(t, domain.Span{}, span)
}

package gloss

import "github.com/heartmarshall/wenyan-gloss/internal/domain"

// ClauseBudget bounds how far a context window grows on each side of a span.
// Left and Right are budgets in punctuation units; crossing a strong
// terminator costs StopCost units and crossing a pause mark costs PauseCost.
type ClauseBudget struct {
	Left      int
	Right     int
	StopCost  int
	PauseCost int
}

// Default context window budget: a strong terminator is a full clause (two
// units), a comma half of one.
const (
	DefaultLeftBudget  = 3
	DefaultRightBudget = 2
	DefaultStopCost    = 2
	DefaultPauseCost   = 1
)

// DefaultClauseBudget returns the budget used when nothing is configured.
func DefaultClauseBudget() ClauseBudget {
	return ClauseBudget{
		Left:      DefaultLeftBudget,
		Right:     DefaultRightBudget,
		StopCost:  DefaultStopCost,
		PauseCost: DefaultPauseCost,
	}
}

func (b ClauseBudget) cost(r rune) int {
	if isPause(r) {
		return b.PauseCost
	}
	return b.StopCost
}

// ContextWindow expands span to a clause-level excerpt of content.
//
// Both edges move outward until their budget is spent or a newline is met.
// Leading punctuation is then trimmed from the left edge and trailing pause
// marks from the right edge; trimming never cuts into the span. It returns the
// excerpt and the span relative to it.
func ContextWindow(content []rune, span domain.Span, budget ClauseBudget) (string, domain.Span) {
	start := max(span.Start, 0)
	end := min(span.End, len(content))
	if start >= end {
		return "", domain.Span{}
	}

	left := start
	for units := budget.Left; left > 0 && units > 0; {
		left--
		r := content[left]
		if r == '\n' {
			left++
			break
		}
		if isClausePunct(r) {
			units -= budget.cost(r)
		}
	}
	for left < start && isClausePunct(content[left]) {
		left++
	}

	right := end
	for units := budget.Right; right < len(content) && content[right] != '\n' && units > 0; {
		right++
		if r := content[right-1]; isClausePunct(r) {
			units -= budget.cost(r)
		}
	}
	for right > end && isPause(content[right-1]) {
		right--
	}

	return string(content[left:right]), domain.Span{Start: start - left, End: end - left}
}

// Package gloss extracts structured notes from annotated classical Chinese
// passages: it resolves the annotated span behind a footnote anchor, builds a
// clause-level context window around it and splits compound explanations into
// a primary note plus sub-notes.
//
// All offsets are rune offsets.
package gloss

// Clause punctuation. A strong terminator closes a sentence, a pause mark
// separates clauses inside one.
const (
	pauseMark   = '，'
	semicolon   = '；'
	fullStop    = '。'
	questionMrk = '？'
	exclamation = '！'
)

func isClausePunct(r rune) bool {
	switch r {
	case pauseMark, semicolon, fullStop, questionMrk, exclamation:
		return true
	}
	return false
}

func isPause(r rune) bool { return r == pauseMark }

func isStrongTerminator(r rune) bool {
	return isClausePunct(r) && !isPause(r)
}

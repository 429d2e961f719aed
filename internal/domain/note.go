package domain

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// shortNoteThreshold is the longest original text still treated as a short note.
const shortNoteThreshold = 3

// Span is a half-open range [Start, End) of rune offsets.
// It is serialized as a two-element JSON array.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// ValidIn reports whether the span is non-empty and fits a text of n runes.
func (s Span) ValidIn(n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

func (s *Span) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("span: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("span: want 2 elements, got %d", len(pair))
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Note is a single annotated gloss: a context excerpt, the span of the
// annotated word inside it and the explanation.
//
// A Note is immutable once built by NewNote.
type Note struct {
	SourceID   string `json:"name_passage"`
	Context    string `json:"context"`
	Span       Span   `json:"index_range"`
	Detail     string `json:"detail"`
	CoreDetail string `json:"core_detail"`
}

// NewNote validates the fields and builds a Note. It returns ErrDegenerateNote
// for an empty detail, an empty context or a span that does not select at
// least one rune of the context.
func NewNote(sourceID, context string, span Span, detail, coreDetail string) (Note, error) {
	if detail == "" {
		return Note{}, fmt.Errorf("empty detail: %w", ErrDegenerateNote)
	}
	if context == "" {
		return Note{}, fmt.Errorf("empty context: %w", ErrDegenerateNote)
	}
	if n := utf8.RuneCountInString(context); !span.ValidIn(n) {
		return Note{}, fmt.Errorf("span [%d,%d) in context of %d runes: %w", span.Start, span.End, n, ErrDegenerateNote)
	}
	return Note{
		SourceID:   sourceID,
		Context:    context,
		Span:       span,
		Detail:     detail,
		CoreDetail: coreDetail,
	}, nil
}

// OriginalText returns the annotated word, i.e. the runes of Context covered by Span.
// It returns an empty string for a span that does not fit the context.
func (n Note) OriginalText() string {
	return SliceRunes(n.Context, n.Span)
}

// IsShortNote reports whether the annotated word has at most three runes.
func (n Note) IsShortNote() bool {
	l := utf8.RuneCountInString(n.OriginalText())
	return l > 0 && l <= shortNoteThreshold
}

// IsTitleNote reports whether the note annotates the title of its source passage.
func (n Note) IsTitleNote() bool {
	return n.SourceID != "" && n.OriginalText() == n.SourceID
}

// NoteDraft is a note under construction. The gloss parser fills both the
// full and the canonical detail before the draft is turned into a Note.
type NoteDraft struct {
	SourceID        string
	Context         string
	Span            Span
	FullDetail      string
	CanonicalDetail string
}

// OriginalText returns the runes of the draft context covered by its span.
func (d NoteDraft) OriginalText() string {
	return SliceRunes(d.Context, d.Span)
}

// Note finalizes the draft.
func (d NoteDraft) Note() (Note, error) {
	return NewNote(d.SourceID, d.Context, d.Span, d.FullDetail, d.CanonicalDetail)
}

// SliceRunes returns the runes of s in [span.Start, span.End).
// Out of range spans yield an empty string.
func SliceRunes(s string, span Span) string {
	r := []rune(s)
	if span.Start < 0 || span.End > len(r) || span.Start >= span.End {
		return ""
	}
	return string(r[span.Start:span.End])
}

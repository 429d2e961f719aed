package domain

import (
	"encoding/json"
	"fmt"
)

// Passage is a source text with its footnotes in the textbook format.
// It is only an extraction input.
type Passage struct {
	Title   string        `json:"title"`
	Author  string        `json:"author"`
	Content string        `json:"content"`
	Notes   []FootnoteRef `json:"notes"`
	TextEnd bool          `json:"text_end"`
}

// FootnoteRef is a footnote anchored at a rune offset of the passage content.
// The anchor is the offset right after the annotated word.
// It is serialized as an [offset, text] pair.
type FootnoteRef struct {
	Offset int
	Text   string
}

func (f FootnoteRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Offset, f.Text})
}

func (f *FootnoteRef) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("footnote: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("footnote: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Offset); err != nil {
		return fmt.Errorf("footnote offset: %w", err)
	}
	if err := json.Unmarshal(pair[1], &f.Text); err != nil {
		return fmt.Errorf("footnote text: %w", err)
	}
	return nil
}

// RemarkPassage is a source text from the external classical-text dataset,
// where all glosses live in one free-text remark in the colon form.
type RemarkPassage struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Remark  string `json:"remark"`
}

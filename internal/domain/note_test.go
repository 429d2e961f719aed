package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewNote_Valid(t *testing.T) {
	t.Parallel()

	n, err := NewNote("送别", "青山一道同云雨，明月何曾是两乡", Span{Start: 5, End: 7}, "比喻朋友同经风雨。", "比喻朋友同经风雨。")
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	if got := n.OriginalText(); got != "云雨" {
		t.Errorf("OriginalText() = %q, want %q", got, "云雨")
	}
	if !n.IsShortNote() {
		t.Error("IsShortNote() = false, want true")
	}
	if n.IsTitleNote() {
		t.Error("IsTitleNote() = true, want false")
	}
}

func TestNewNote_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		context string
		span    Span
		detail  string
	}{
		{name: "empty detail", context: "云雨", span: Span{0, 2}, detail: ""},
		{name: "empty context", context: "", span: Span{0, 1}, detail: "x"},
		{name: "zero length span", context: "云雨", span: Span{1, 1}, detail: "x"},
		{name: "inverted span", context: "云雨", span: Span{2, 1}, detail: "x"},
		{name: "negative start", context: "云雨", span: Span{-1, 1}, detail: "x"},
		{name: "end past context", context: "云雨", span: Span{0, 3}, detail: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewNote("s", tt.context, tt.span, tt.detail, tt.detail)
			if !errors.Is(err, ErrDegenerateNote) {
				t.Errorf("NewNote() error = %v, want ErrDegenerateNote", err)
			}
		})
	}
}

func TestNote_IsTitleNote(t *testing.T) {
	t.Parallel()

	n, err := NewNote("送别", "送别", Span{0, 2}, "题目。", "题目。")
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	if !n.IsTitleNote() {
		t.Error("IsTitleNote() = false, want true")
	}
}

func TestNote_IsShortNote_Long(t *testing.T) {
	t.Parallel()

	n, err := NewNote("", "秧根未牢莳未匝", Span{0, 7}, "x", "x")
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	if n.IsShortNote() {
		t.Error("IsShortNote() = true for a 7-rune word")
	}
}

func TestNote_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	in := Note{
		SourceID:   "送别",
		Context:    "青山一道同云雨，明月何曾是两乡",
		Span:       Span{Start: 5, End: 7},
		Detail:     "比喻朋友同经风雨。",
		CoreDetail: "比喻朋友同经风雨。",
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"name_passage":"送别","context":"青山一道同云雨，明月何曾是两乡","index_range":[5,7],"detail":"比喻朋友同经风雨。","core_detail":"比喻朋友同经风雨。"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var out Note
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestSpan_UnmarshalJSON_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`[1]`, `[1,2,3]`, `"1,2"`, `{}`} {
		var s Span
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			t.Errorf("Unmarshal(%s) = nil error, want error", raw)
		}
	}
}

func TestSliceRunes(t *testing.T) {
	t.Parallel()

	if got := SliceRunes("秧根未牢莳未匝", Span{4, 5}); got != "莳" {
		t.Errorf("SliceRunes = %q, want %q", got, "莳")
	}
	if got := SliceRunes("莳", Span{0, 2}); got != "" {
		t.Errorf("SliceRunes out of range = %q, want empty", got)
	}
}

func TestNoteDraft_Note(t *testing.T) {
	t.Parallel()

	d := NoteDraft{
		SourceID:        "插秧歌",
		Context:         "秧根未牢莳未匝",
		Span:            Span{0, 7},
		FullDetail:      "莳未匝意思是还没有栽插完毕。莳，移栽、种植。",
		CanonicalDetail: "莳未匝意思是还没有栽插完毕。",
	}
	n, err := d.Note()
	if err != nil {
		t.Fatalf("Note(): %v", err)
	}
	if n.Detail != d.FullDetail || n.CoreDetail != d.CanonicalDetail {
		t.Errorf("Note() = %+v, details not carried over", n)
	}
	if d.OriginalText() != n.OriginalText() {
		t.Errorf("OriginalText mismatch: %q vs %q", d.OriginalText(), n.OriginalText())
	}
}

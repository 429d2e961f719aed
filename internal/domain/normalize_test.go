package domain

import "testing"

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  云雨  ", want: "云雨"},
		{name: "inner spaces", input: "云 雨", want: "云雨"},
		{name: "ideographic space", input: "云　雨", want: "云雨"},
		{name: "tabs", input: "\t莳\t", want: "莳"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "single char", input: "果", want: "果"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "comma and period", input: "莳,移栽.", want: "莳，移栽。"},
		{name: "colon", input: "云雨:比喻", want: "云雨：比喻"},
		{name: "question and exclamation", input: "乎?哉!", want: "乎？哉！"},
		{name: "semicolon", input: "甲;乙", want: "甲；乙"},
		{name: "parentheses", input: "(一说)", want: "（一说）"},
		{name: "digits untouched", input: "1,2", want: "1，2"},
		{name: "already full width", input: "莳，移栽。", want: "莳，移栽。"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePunctuation(tt.input); got != tt.want {
				t.Errorf("NormalizePunctuation(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRemark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "aside removed", input: "云雨：比喻（一作风雨）朋友。", want: "云雨：比喻朋友。"},
		{name: "ascii aside removed", input: "云雨:比喻(一作风雨)朋友.", want: "云雨：比喻朋友。"},
		{name: "circled markers", input: "①云雨：比喻。②两乡：两地。", want: "云雨：比喻。两乡：两地。"},
		{name: "parenthesized markers", input: "⑴云雨：比喻。", want: "云雨：比喻。"},
		{name: "list markers", input: "1.云雨：比喻。\n2、两乡：两地。", want: "云雨：比喻。\n两乡：两地。"},
		{name: "plain", input: "云雨：比喻。", want: "云雨：比喻。"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeRemark(tt.input); got != tt.want {
				t.Errorf("NormalizeRemark(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

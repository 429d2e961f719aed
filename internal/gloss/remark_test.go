package gloss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		remark string
		want   []RemarkGloss
	}{
		{
			name:   "two glosses",
			remark: "云雨：比喻朋友同经风雨。两乡：两地。",
			want: []RemarkGloss{
				{Headword: "云雨", Detail: "比喻朋友同经风雨。"},
				{Headword: "两乡", Detail: "两地。"},
			},
		},
		{
			name:   "book title colon excluded",
			remark: "曾：《说文》：词之舒也。",
			want: []RemarkGloss{
				{Headword: "曾", Detail: "《说文》：词之舒也。"},
			},
		},
		{
			name:   "colon inside book title excluded",
			remark: "鹿鸣：见《诗经：小雅》。",
			want: []RemarkGloss{
				{Headword: "鹿鸣", Detail: "见《诗经：小雅》。"},
			},
		},
		{
			name:   "ancient and modern sense markers excluded",
			remark: "走：古义：跑。今义：行。",
			want: []RemarkGloss{
				{Headword: "走", Detail: "古义：跑。今义：行。"},
			},
		},
		{
			name:   "glosses joined by a comma",
			remark: "云雨：比喻朋友，两乡：两地。",
			want: []RemarkGloss{
				{Headword: "云雨", Detail: "比喻朋友，"},
				{Headword: "两乡", Detail: "两地。"},
			},
		},
		{
			name:   "glosses on separate lines",
			remark: "云雨：比喻。\n两乡：两地",
			want: []RemarkGloss{
				{Headword: "云雨", Detail: "比喻。"},
				{Headword: "两乡", Detail: "两地"},
			},
		},
		{
			name:   "quoted headword",
			remark: "“云雨”：比喻。",
			want: []RemarkGloss{
				{Headword: "云雨", Detail: "比喻。"},
			},
		},
		{
			name:   "empty detail dropped",
			remark: "云雨：",
			want:   []RemarkGloss{},
		},
		{
			name:   "no separator",
			remark: "此诗作于天宝年间。",
			want:   []RemarkGloss{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseRemark(tt.remark))
		})
	}
}

package csvtab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "simple rows",
			in:   "a,b,c\n1,2,3",
			want: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name: "trailing newline adds no row",
			in:   "a,b\n",
			want: [][]string{{"a", "b"}},
		},
		{
			name: "carriage returns stripped",
			in:   "a,b\r\n1,2\r\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "blank lines dropped",
			in:   "a\n\n\nb\n",
			want: [][]string{{"a"}, {"b"}},
		},
		{
			name: "empty fields kept",
			in:   ",x,\n",
			want: [][]string{{"", "x", ""}},
		},
		{
			name: "trailing comma at end of input",
			in:   "a,",
			want: [][]string{{"a", ""}},
		},
		{
			name: "quoted field with comma",
			in:   `"a,b",c`,
			want: [][]string{{"a,b", "c"}},
		},
		{
			name: "doubled quote inside quoted field",
			in:   `"say ""hi""",x`,
			want: [][]string{{`say "hi"`, "x"}},
		},
		{
			name: "newline inside quoted field",
			in:   "\"line1\nline2\",z\n",
			want: [][]string{{"line1\nline2", "z"}},
		},
		{
			name: "quoted empty field",
			in:   `"",1`,
			want: [][]string{{"", "1"}},
		},
		{
			name: "quote in unquoted field is literal",
			in:   `ab"c,d`,
			want: [][]string{{`ab"c`, "d"}},
		},
		{
			name: "text after closing quote is kept",
			in:   `"ab"c,d`,
			want: [][]string{{"abc", "d"}},
		},
		{
			name: "unterminated quote runs to end",
			in:   `a,"bc`,
			want: [][]string{{"a", "bc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

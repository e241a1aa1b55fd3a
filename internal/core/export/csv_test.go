package export

import (
	"strings"
	"testing"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/core/csvimport"
)

func TestPastureCSV_Empty(t *testing.T) {
	got := PastureCSV(nil)

	want := "Foot Mark,Bare Ground,Grass Height,Grass Type,Litter,Forb/Bush,Weed"
	if got != want {
		t.Errorf("expected header only %q, got %q", want, got)
	}
}

func TestPastureCSV_SortsAndRenders(t *testing.T) {
	got := PastureCSV([]Line{
		{LineNo: 3, Category: cover.Weed()},
		{LineNo: 1, Category: cover.Bare()},
		{LineNo: 2, Category: cover.Grass(cover.Height(6), "WW")},
		{LineNo: 4, Category: cover.Uncategorized()},
	})

	want := strings.Join([]string{
		"Foot Mark,Bare Ground,Grass Height,Grass Type,Litter,Forb/Bush,Weed",
		"1,x,,,,,",
		"2,,6,WW,,,",
		"3,,,,,,x",
		"4,,,,,,",
	}, "\n")
	if got != want {
		t.Errorf("PastureCSV mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("expected no trailing newline")
	}
}

func TestPastureCSV_Deterministic(t *testing.T) {
	lines := []Line{
		{LineNo: 9, Category: cover.Litter()},
		{LineNo: 2, Category: cover.ForbBush()},
	}

	first := PastureCSV(lines)
	second := PastureCSV(lines)
	if first != second {
		t.Error("expected identical output for identical input")
	}
	if lines[0].LineNo != 9 {
		t.Error("expected input slice to be left unsorted")
	}
}

func TestPastureCSV_RoundTripThroughImport(t *testing.T) {
	in := []Line{
		{LineNo: 1, Category: cover.Bare()},
		{LineNo: 5, Category: cover.Grass(cover.Height(12), "SD")},
		{LineNo: 6, Category: cover.Grass(cover.Height(3), "")},
		{LineNo: 7, Category: cover.Litter()},
		{LineNo: 8, Category: cover.ForbBush()},
		{LineNo: 99, Category: cover.Weed()},
	}

	res, err := csvimport.Parse(PastureCSV(in), csvimport.Options{ForbCount: -1})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(res.Rows) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(res.Rows))
	}
	for i, r := range res.Rows {
		if r.LineNo != in[i].LineNo {
			t.Errorf("row %d: lineNo %d, want %d", i, r.LineNo, in[i].LineNo)
		}
		if !r.Category.Equal(in[i].Category) {
			t.Errorf("line %d: got %v, want %v", r.LineNo, r.Category, in[i].Category)
		}
	}
}

func TestCombinedCSV(t *testing.T) {
	got := CombinedCSV([]PastureLines{
		{Index: 2, Name: "North, Upper", Lines: []Line{{LineNo: 1, Category: cover.Litter()}}},
		{Index: 1, Name: "Home", Lines: []Line{
			{LineNo: 2, Category: cover.Bare()},
			{LineNo: 1, Category: cover.Weed()},
		}},
	})

	want := strings.Join([]string{
		"Pasture Index,Pasture Name,Foot Mark,Bare Ground,Grass Height,Grass Type,Litter,Forb/Bush,Weed",
		"1,Home,1,,,,,,x",
		"1,Home,2,x,,,,,",
		`2,"North, Upper",1,,,,x,,`,
	}, "\n")
	if got != want {
		t.Errorf("CombinedCSV mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fall 2025 Survey!", "Fall_2025_Survey"},
		{"  North -- Pasture  ", "North_--_Pasture"},
		{"__keep_inner__", "keep_inner"},
		{"Ünïcode Field", "n_code_Field"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNames(t *testing.T) {
	got := PastureFileName("Fall 2025 Survey!", "abc-123", "North Hill", 3)
	if got != "Fall_2025_Survey_abc-123_North_Hill_3.csv" {
		t.Errorf("unexpected pasture file name %q", got)
	}

	got = ReportFileName("Fall 2025 Survey!", "abc-123", ".zip")
	if got != "Fall_2025_Survey_abc-123.zip" {
		t.Errorf("unexpected report file name %q", got)
	}
}

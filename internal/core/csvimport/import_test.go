package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/pasturize/internal/core/cover"
)

var grassTypes = []string{"GG", "WW", "SD", "LL", "OT"}

func parse(t *testing.T, text string, forbCount int) *Result {
	t.Helper()
	res, err := Parse(text, Options{ForbCount: forbCount, GrassTypes: grassTypes})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return res
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\r\n\n"} {
		_, err := Parse(in, Options{})
		if !errors.Is(err, ErrNoData) {
			t.Errorf("Parse(%q) error = %v, want ErrNoData", in, err)
		}
	}
}

func TestParse_MissingColumns(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantColumn string
	}{
		{"no foot mark", "Bare Ground,Litter", "Foot Mark"},
		{"no bare ground", "Foot Mark,Litter", "Bare Ground"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.header+"\n1,x\n", Options{})
			var missing *MissingColumnError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingColumnError, got %v", err)
			}
			if missing.Column != tt.wantColumn {
				t.Errorf("expected column %q, got %q", tt.wantColumn, missing.Column)
			}
		})
	}
}

func TestParse_HeaderSynonyms(t *testing.T) {
	headers := []string{
		"Foot Mark,Bare Ground",
		"line no,BARE GROUND",
		"Line,bare_ground",
		"  LINE  NO ,Bare   Ground",
	}

	for _, h := range headers {
		res := parse(t, h+"\n3,x\n", -1)
		if len(res.Rows) != 1 || res.Rows[0].LineNo != 3 {
			t.Errorf("header %q: expected one row at line 3, got %+v", h, res.Rows)
		}
	}
}

func TestParse_FootMark(t *testing.T) {
	res := parse(t, "Foot Mark,Bare Ground\n007,x\nabc,x\n0,x\n101,x\n,x\n100,x\n", -1)

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].LineNo != 7 {
		t.Errorf("expected lineNo 7, got %d", res.Rows[0].LineNo)
	}
	if res.Rows[1].LineNo != 100 {
		t.Errorf("expected lineNo 100, got %d", res.Rows[1].LineNo)
	}
	if res.Skipped != 4 {
		t.Errorf("expected 4 skipped rows, got %d", res.Skipped)
	}
}

func TestParse_Cells(t *testing.T) {
	text := strings.Join([]string{
		"Foot Mark,Bare Ground,Grass Height,Grass Type,Litter,Forb/Bush,Weed",
		"1,x,,,,,",
		`2,,"5,4",ww,,,`,
		"3,,6.5,GG,,,",
		"4,,,,YES,,",
		"5,,,,,,Y",
		"6,,,,,true,",
		"7,,3,ZZ,,,",
		"8,no,,,,,",
	}, "\n")

	res := parse(t, text, -1)

	want := map[int]cover.Category{
		1: cover.Bare(),
		2: cover.Grass(cover.Height(5), "WW"),
		3: cover.Grass(cover.Height(7), "GG"),
		4: cover.Litter(),
		5: cover.Weed(),
		6: cover.ForbBush(),
		7: cover.Grass(cover.Height(3), ""),
		8: cover.Uncategorized(),
	}
	if len(res.Rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(res.Rows))
	}
	for _, r := range res.Rows {
		if !r.Category.Equal(want[r.LineNo]) {
			t.Errorf("line %d: got %v, want %v", r.LineNo, r.Category, want[r.LineNo])
		}
	}
}

func TestParse_DuplicateFootMarkLastWins(t *testing.T) {
	res := parse(t, "Foot Mark,Bare Ground,Litter\n5,x,\n2,x,\n5,,x\n", -1)

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].LineNo != 2 || res.Rows[1].LineNo != 5 {
		t.Errorf("expected rows ordered 2,5 got %d,%d", res.Rows[0].LineNo, res.Rows[1].LineNo)
	}
	if res.Rows[1].Category.Kind != cover.KindLitter {
		t.Errorf("expected line 5 litter, got %v", res.Rows[1].Category)
	}
}

func TestParse_ForbSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("Foot Mark,Bare Ground,Forb\n")
	// written out of order to prove sorting by foot mark
	for _, line := range []int{50, 10, 90, 20, 70, 30, 100, 40, 80, 60} {
		fmt.Fprintf(&b, "%d,,x\n", line)
	}

	tests := []struct {
		name       string
		count      int
		wantKept   int
		wantToWeed int
	}{
		{"count 4", 4, 4, 6},
		{"count zero", 0, 0, 10},
		{"count above total clamps", 25, 10, 0},
		{"negative disables split", -1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, b.String(), tt.count)

			if res.ForbKept != tt.wantKept || res.ForbToWeed != tt.wantToWeed {
				t.Errorf("kept/toWeed = %d/%d, want %d/%d", res.ForbKept, res.ForbToWeed, tt.wantKept, tt.wantToWeed)
			}
			for i, r := range res.Rows {
				wantKind := cover.KindWeed
				if i < tt.wantKept {
					wantKind = cover.KindForbBush
				}
				if r.Category.Kind != wantKind {
					t.Errorf("line %d: got %s, want %s", r.LineNo, r.Category.Kind, wantKind)
				}
			}
		})
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	res := parse(t, "Foot Mark,Bare Ground,Grass Height,Grass Type,Litter,Forb/Bush,Weed", -1)

	if len(res.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(res.Rows))
	}
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"abc", nil},
		{"-2", nil},
		{"4", cover.Height(4)},
		{"4.5", cover.Height(5)},
		{"4,49", cover.Height(4)},
		{"0", cover.Height(0)},
	}

	for _, tt := range tests {
		got := parseHeight(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseHeight(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

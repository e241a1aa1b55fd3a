package cover

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	h := Height(6)

	tests := []struct {
		name  string
		flags LegacyFlags
		want  Category
	}{
		{
			name:  "bare ground wins over everything",
			flags: LegacyFlags{BareGround: true, Weed: true, GrassHeight: h},
			want:  Bare(),
		},
		{
			name:  "single weed flag",
			flags: LegacyFlags{Weed: true},
			want:  Weed(),
		},
		{
			name:  "single litter flag",
			flags: LegacyFlags{Litter: true},
			want:  Litter(),
		},
		{
			name:  "single forb flag",
			flags: LegacyFlags{ForbBush: true},
			want:  ForbBush(),
		},
		{
			name:  "explicit grass keeps height and type",
			flags: LegacyFlags{Grass: true, GrassHeight: h, GrassType: "WW"},
			want:  Grass(h, "WW"),
		},
		{
			name:  "grass inferred from height",
			flags: LegacyFlags{GrassHeight: h},
			want:  Grass(h, ""),
		},
		{
			name:  "grass inferred from type",
			flags: LegacyFlags{GrassType: "GG"},
			want:  Grass(nil, "GG"),
		},
		{
			name:  "no flags and no grass fields",
			flags: LegacyFlags{},
			want:  Uncategorized(),
		},
		{
			name:  "conflicting exclusive flags",
			flags: LegacyFlags{Weed: true, Litter: true},
			want:  Uncategorized(),
		},
		{
			name:  "conflicting flags are not rescued by grass fields",
			flags: LegacyFlags{Weed: true, ForbBush: true, GrassType: "SD"},
			want:  Uncategorized(),
		},
		{
			name:  "litter flag ignores stray grass height",
			flags: LegacyFlags{Litter: true, GrassHeight: h},
			want:  Litter(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.flags)
			if !got.Equal(tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlags_RoundTripsThroughClassify(t *testing.T) {
	for _, c := range []Category{
		Bare(),
		Grass(Height(4), "LL"),
		Grass(nil, ""),
		Litter(),
		ForbBush(),
		Weed(),
		Uncategorized(),
	} {
		got := Classify(Flags(c))
		if !got.Equal(c) {
			t.Errorf("Classify(Flags(%v)) = %v", c, got)
		}
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		wantErr bool
	}{
		{"bare", Bare(), false},
		{"grass with height", Grass(Height(3), "GG"), false},
		{"grass negative height", Grass(Height(-1), ""), true},
		{"grass infinite height", Grass(Height(math.Inf(1)), "WW"), true},
		{"grass NaN height", Grass(Height(math.NaN()), "WW"), true},
		{"litter with grass type", Category{Kind: KindLitter, GrassType: "GG"}, true},
		{"weed with height", Category{Kind: KindWeed, GrassHeight: Height(2)}, true},
		{"unknown kind", Category{Kind: "moss"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"bare", KindBare, false},
		{"Forb/Bush", KindForbBush, false},
		{" forb ", KindForbBush, false},
		{"GRASS", KindGrass, false},
		{"", KindUncategorized, false},
		{"moss", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package cover

// LegacyFlags is the flag-per-category shape used by older surveys and by
// the CSV interchange columns. Several flags may be set at once; Classify
// resolves them into a single Category.
type LegacyFlags struct {
	BareGround  bool
	GrassHeight *float64
	GrassType   string
	Litter      bool
	ForbBush    bool
	Weed        bool
	Grass       bool
}

// Classify resolves legacy flags into a Category. Priority:
//  1. bare ground when BareGround is set
//  2. the single exclusive flag (weed, litter, forb/bush, grass) when exactly one is set
//  3. grass when no exclusive flag is set but a grass height or type is present
//  4. uncategorized otherwise, including conflicting exclusive flags
//
// This exists for importing and migrating flag-shaped data only. New writes
// carry an explicit Category.
func Classify(f LegacyFlags) Category {
	if f.BareGround {
		return Bare()
	}

	set := 0
	var only Kind
	for _, c := range []struct {
		on   bool
		kind Kind
	}{
		{f.Weed, KindWeed},
		{f.Litter, KindLitter},
		{f.ForbBush, KindForbBush},
		{f.Grass, KindGrass},
	} {
		if c.on {
			set++
			only = c.kind
		}
	}

	switch {
	case set == 1 && only == KindGrass:
		return Grass(f.GrassHeight, f.GrassType)
	case set == 1:
		return Category{Kind: only}
	case set == 0 && (f.GrassHeight != nil || f.GrassType != ""):
		return Grass(f.GrassHeight, f.GrassType)
	}
	return Uncategorized()
}

// Flags renders a Category back into the legacy flag shape.
func Flags(c Category) LegacyFlags {
	switch c.Kind {
	case KindBare:
		return LegacyFlags{BareGround: true}
	case KindGrass:
		return LegacyFlags{Grass: true, GrassHeight: c.GrassHeight, GrassType: c.GrassType}
	case KindLitter:
		return LegacyFlags{Litter: true}
	case KindForbBush:
		return LegacyFlags{ForbBush: true}
	case KindWeed:
		return LegacyFlags{Weed: true}
	}
	return LegacyFlags{}
}

// Package cover contains the pure ground-cover rules: the tagged category
// recorded at each foot mark, the legacy flag inference used when reading
// older data, and the percentage statistics shown per pasture and per report.
package cover

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies a ground-cover category.
type Kind string

// Category kinds. Exactly one is recorded per foot mark.
const (
	KindBare          Kind = "bare"
	KindGrass         Kind = "grass"
	KindLitter        Kind = "litter"
	KindForbBush      Kind = "forb_bush"
	KindWeed          Kind = "weed"
	KindUncategorized Kind = "uncategorized"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindBare, KindGrass, KindLitter, KindForbBush, KindWeed, KindUncategorized}

// ParseKind converts a stored or user-supplied kind name.
// Accepts a few spellings seen on paper forms ("forb", "forb/bush").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bare", "bare_ground", "bare ground":
		return KindBare, nil
	case "grass":
		return KindGrass, nil
	case "litter":
		return KindLitter, nil
	case "forb_bush", "forb", "forb/bush", "forbbush":
		return KindForbBush, nil
	case "weed":
		return KindWeed, nil
	case "uncategorized", "":
		return KindUncategorized, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns the human readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindBare:
		return "Bare Ground"
	case KindGrass:
		return "Grass"
	case KindLitter:
		return "Litter"
	case KindForbBush:
		return "Forb/Bush"
	case KindWeed:
		return "Weed"
	}
	return "Uncategorized"
}

// Category is the ground cover recorded at one foot mark.
// GrassHeight and GrassType are only meaningful when Kind is KindGrass.
type Category struct {
	Kind        Kind
	GrassHeight *float64 // inches
	GrassType   string   // grass type code, empty when unknown
}

// Bare returns a bare-ground category.
func Bare() Category { return Category{Kind: KindBare} }

// Litter returns a litter category.
func Litter() Category { return Category{Kind: KindLitter} }

// ForbBush returns a forb/bush category.
func ForbBush() Category { return Category{Kind: KindForbBush} }

// Weed returns a weed category.
func Weed() Category { return Category{Kind: KindWeed} }

// Uncategorized returns the empty category.
func Uncategorized() Category { return Category{Kind: KindUncategorized} }

// Grass returns a grass category. A nil height means not measured.
func Grass(height *float64, grassType string) Category {
	return Category{Kind: KindGrass, GrassHeight: height, GrassType: grassType}
}

// Height is a convenience for building *float64 heights.
func Height(v float64) *float64 { return &v }

// Validate checks the variant is well formed.
func (c Category) Validate() error {
	switch c.Kind {
	case KindBare, KindLitter, KindForbBush, KindWeed, KindUncategorized:
		if c.GrassHeight != nil || c.GrassType != "" {
			return fmt.Errorf("grass height and type are only allowed on grass, not %s", c.Kind)
		}
	case KindGrass:
		if c.GrassHeight == nil {
			return nil
		}
		if h := *c.GrassHeight; math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("grass height must be a finite number (got %v)", h)
		}
		if *c.GrassHeight < 0 {
			return fmt.Errorf("grass height must not be negative (got %v)", *c.GrassHeight)
		}
	default:
		return fmt.Errorf("unknown category %q", c.Kind)
	}
	return nil
}

// Equal reports whether two categories hold the same variant and values.
func (c Category) Equal(o Category) bool {
	if c.Kind != o.Kind || c.GrassType != o.GrassType {
		return false
	}
	if (c.GrassHeight == nil) != (o.GrassHeight == nil) {
		return false
	}
	return c.GrassHeight == nil || *c.GrassHeight == *o.GrassHeight
}

// String renders the category for CLI output, e.g. "grass 6in WW".
func (c Category) String() string {
	if c.Kind != KindGrass {
		return string(c.Kind)
	}
	s := string(c.Kind)
	if c.GrassHeight != nil {
		s += fmt.Sprintf(" %gin", *c.GrassHeight)
	}
	if c.GrassType != "" {
		s += " " + c.GrassType
	}
	return s
}

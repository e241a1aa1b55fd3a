package cover

// Stats are the percentage breakdown of a set of foot marks.
type Stats struct {
	Total          int
	BarePct        float64
	GrassPct       float64
	LitterPct      float64
	ForbBushPct    float64
	WeedPct        float64
	Uncategorized  int
	AvgGrassHeight *float64 // nil when no grass entry has a positive height
}

// CalcStats computes Stats over the given categories.
// Percentages are 0 for an empty set.
func CalcStats(cats []Category) Stats {
	var (
		counts    = make(map[Kind]int, len(Kinds))
		heightSum float64
		heightN   int
	)
	for _, c := range cats {
		counts[c.Kind]++
		if c.Kind == KindGrass && c.GrassHeight != nil && *c.GrassHeight > 0 {
			heightSum += *c.GrassHeight
			heightN++
		}
	}

	total := len(cats)
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return 100 * float64(n) / float64(total)
	}

	stats := Stats{
		Total:         total,
		BarePct:       pct(counts[KindBare]),
		GrassPct:      pct(counts[KindGrass]),
		LitterPct:     pct(counts[KindLitter]),
		ForbBushPct:   pct(counts[KindForbBush]),
		WeedPct:       pct(counts[KindWeed]),
		Uncategorized: counts[KindUncategorized],
	}
	if heightN > 0 {
		avg := heightSum / float64(heightN)
		stats.AvgGrassHeight = &avg
	}
	return stats
}

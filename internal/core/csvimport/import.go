// Package csvimport turns a pasture CSV sheet into foot-mark entries.
// It owns the header matching, the cell parsing rules, and the forb/weed
// split. Tokenizing is done by csvtab.
package csvimport

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/core/csvtab"
)

// MinLine and MaxLine bound the foot marks of a transect.
const (
	MinLine = 1
	MaxLine = 100
)

// ErrNoData is returned for empty input.
var ErrNoData = errors.New("no data: CSV is empty")

// MissingColumnError reports a mandatory column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q in CSV header", e.Column)
}

// Options tune a single import.
type Options struct {
	// ForbCount is the number of forb/bush rows counted on paper. The rest of
	// the forb-flagged rows become weed. Negative disables the split.
	ForbCount int
	// GrassTypes lists the accepted grass type codes. Unknown codes are
	// dropped. Empty accepts any code.
	GrassTypes []string
}

// Row is one parsed foot mark.
type Row struct {
	LineNo   int
	Category cover.Category
}

// Result is the outcome of Parse.
type Result struct {
	Rows       []Row // ordered by LineNo
	Skipped    int   // rows without a usable foot mark
	ForbKept   int
	ForbToWeed int
}

type column int

const (
	colFootMark column = iota
	colBare
	colHeight
	colType
	colLitter
	colForb
	colWeed
	colGrass
	numColumns
)

var aliases = map[string]column{
	"foot mark":   colFootMark,
	"footmark":    colFootMark,
	"line no":     colFootMark,
	"line no.":    colFootMark,
	"line":        colFootMark,
	"line number": colFootMark,

	"bare ground": colBare,
	"bareground":  colBare,
	"bare":        colBare,

	"grass height": colHeight,
	"height":       colHeight,

	"grass type": colType,
	"type":       colType,

	"litter": colLitter,

	"forb/bush": colForb,
	"forb bush": colForb,
	"forbbush":  colForb,
	"forb":      colForb,
	"forbs":     colForb,

	"weed":  colWeed,
	"weeds": colWeed,

	"grass": colGrass,
}

var truthy = map[string]bool{"x": true, "true": true, "1": true, "yes": true, "y": true}

// Parse reads a pasture sheet. The first row is the header.
func Parse(text string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoData
	}
	table := csvtab.Parse(text)
	if len(table) == 0 {
		return nil, ErrNoData
	}

	cols := mapHeader(table[0])
	if cols[colFootMark] < 0 {
		return nil, &MissingColumnError{Column: "Foot Mark"}
	}
	if cols[colBare] < 0 {
		return nil, &MissingColumnError{Column: "Bare Ground"}
	}

	known := make(map[string]bool, len(opts.GrassTypes))
	for _, code := range opts.GrassTypes {
		known[strings.ToUpper(code)] = true
	}

	res := &Result{}
	byLine := make(map[int]int)
	for _, rec := range table[1:] {
		cell := func(c column) string {
			i := cols[c]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		lineNo, err := strconv.Atoi(cell(colFootMark))
		if err != nil || lineNo < MinLine || lineNo > MaxLine {
			res.Skipped++
			continue
		}

		flags := cover.LegacyFlags{
			BareGround:  isTruthy(cell(colBare)),
			GrassHeight: parseHeight(cell(colHeight)),
			GrassType:   parseGrassType(cell(colType), known),
			Litter:      isTruthy(cell(colLitter)),
			ForbBush:    isTruthy(cell(colForb)),
			Weed:        isTruthy(cell(colWeed)),
			Grass:       isTruthy(cell(colGrass)),
		}
		row := Row{LineNo: lineNo, Category: cover.Classify(flags)}

		// a later row for the same foot mark replaces the earlier one
		if i, ok := byLine[lineNo]; ok {
			res.Rows[i] = row
			continue
		}
		byLine[lineNo] = len(res.Rows)
		res.Rows = append(res.Rows, row)
	}

	sort.Slice(res.Rows, func(i, j int) bool { return res.Rows[i].LineNo < res.Rows[j].LineNo })
	res.ForbKept, res.ForbToWeed = SplitForb(res.Rows, opts.ForbCount)

	return res, nil
}

// SplitForb keeps the first n forb/bush rows (by ascending foot mark) and
// reclassifies the rest as weed. rows must already be ordered by LineNo.
// n is clamped to the number of forb rows; a negative n leaves rows untouched.
func SplitForb(rows []Row, n int) (kept, toWeed int) {
	var forb []int
	for i, r := range rows {
		if r.Category.Kind == cover.KindForbBush {
			forb = append(forb, i)
		}
	}
	if n < 0 || n > len(forb) {
		return len(forb), 0
	}
	for _, i := range forb[n:] {
		rows[i].Category = cover.Weed()
	}
	return n, len(forb) - n
}

func mapHeader(header []string) [numColumns]int {
	var cols [numColumns]int
	for i := range cols {
		cols[i] = -1
	}
	for i, h := range header {
		c, ok := aliases[normalizeHeader(h)]
		if ok && cols[c] < 0 {
			cols[c] = i
		}
	}
	return cols
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.ReplaceAll(h, "_", " "))
	return strings.Join(strings.Fields(h), " ")
}

func isTruthy(s string) bool {
	return truthy[strings.ToLower(s)]
}

// parseHeight accepts "5", "5.4" and "5,4", rounding to whole inches.
func parseHeight(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	v = math.Round(v)
	return &v
}

func parseGrassType(s string, known map[string]bool) string {
	code := strings.ToUpper(s)
	if code == "" {
		return ""
	}
	if len(known) > 0 && !known[code] {
		return ""
	}
	return code
}

// Package export renders survey entries as CSV text and builds the file
// names used for exported sheets and archives.
package export

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/example/pasturize/internal/core/cover"
)

// PastureHeader is the header row of a single-pasture sheet.
var PastureHeader = []string{
	"Foot Mark",
	"Bare Ground",
	"Grass Height",
	"Grass Type",
	"Litter",
	"Forb/Bush",
	"Weed",
}

// CombinedHeader is the header row of the whole-report sheet.
var CombinedHeader = append([]string{"Pasture Index", "Pasture Name"}, PastureHeader...)

// Line is one foot mark to render.
type Line struct {
	LineNo   int
	Category cover.Category
}

// PastureLines is a pasture with its recorded foot marks.
type PastureLines struct {
	Index int
	Name  string
	Lines []Line
}

// PastureCSV renders one pasture sheet ordered by foot mark.
// Rows are joined by "\n" with no trailing newline.
func PastureCSV(lines []Line) string {
	rows := [][]string{PastureHeader}
	for _, l := range sortedLines(lines) {
		rows = append(rows, Cells(l))
	}
	return joinRows(rows)
}

// CombinedCSV renders every pasture in one sheet ordered by pasture index
// then foot mark.
func CombinedCSV(pastures []PastureLines) string {
	ps := make([]PastureLines, len(pastures))
	copy(ps, pastures)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Index < ps[j].Index })

	rows := [][]string{CombinedHeader}
	for _, p := range ps {
		for _, l := range sortedLines(p.Lines) {
			rows = append(rows, append([]string{strconv.Itoa(p.Index), p.Name}, Cells(l)...))
		}
	}
	return joinRows(rows)
}

// Cells returns the unescaped cell values of one foot mark in PastureHeader order.
func Cells(l Line) []string {
	f := cover.Flags(l.Category)

	height := ""
	if f.GrassHeight != nil {
		height = strconv.FormatFloat(*f.GrassHeight, 'f', -1, 64)
	}

	return []string{
		strconv.Itoa(l.LineNo),
		mark(f.BareGround),
		height,
		f.GrassType,
		mark(f.Litter),
		mark(f.ForbBush),
		mark(f.Weed),
	}
}

// Escape quotes a value only when it holds a comma, quote or newline.
func Escape(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

var invalidName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeFilename replaces each run of characters outside [A-Za-z0-9_-]
// with one underscore and trims underscores from both ends.
func SanitizeFilename(name string) string {
	return strings.Trim(invalidName.ReplaceAllString(name, "_"), "_")
}

// PastureFileName names a pasture sheet inside the report archive.
func PastureFileName(reportName, reportID, pastureName string, index int) string {
	return strings.Join([]string{
		SanitizeFilename(reportName),
		reportID,
		SanitizeFilename(pastureName),
		strconv.Itoa(index),
	}, "_") + ".csv"
}

// ReportFileName names a whole-report file with the given extension, e.g. ".zip".
func ReportFileName(reportName, reportID, ext string) string {
	return SanitizeFilename(reportName) + "_" + reportID + ext
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func sortedLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out
}

func joinRows(rows [][]string) string {
	out := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = Escape(v)
		}
		out[i] = strings.Join(cells, ",")
	}
	return strings.Join(out, "\n")
}

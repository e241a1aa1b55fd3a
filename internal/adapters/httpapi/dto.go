package httpapi

import (
	"time"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/ports/primary"
)

type reportJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
}

type pastureJSON struct {
	ID       string     `json:"id"`
	ReportID string     `json:"reportId"`
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	Recorded int        `json:"recorded"`
	Stats    *statsJSON `json:"stats,omitempty"`
}

type categoryJSON struct {
	Kind        cover.Kind `json:"kind"`
	GrassHeight *float64   `json:"grassHeight,omitempty"`
	GrassType   string     `json:"grassType,omitempty"`
}

type entryJSON struct {
	ID        string       `json:"id"`
	LineNo    int          `json:"lineNo"`
	Category  categoryJSON `json:"category"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type statsJSON struct {
	Total          int      `json:"total"`
	BarePct        float64  `json:"barePct"`
	GrassPct       float64  `json:"grassPct"`
	LitterPct      float64  `json:"litterPct"`
	ForbBushPct    float64  `json:"forbBushPct"`
	WeedPct        float64  `json:"weedPct"`
	Uncategorized  int      `json:"uncategorized"`
	AvgGrassHeight *float64 `json:"avgGrassHeight"`
}

type progressJSON struct {
	Report   reportJSON    `json:"report"`
	Pastures []pastureJSON `json:"pastures"`
	Complete int           `json:"complete"`
	Full     int           `json:"full"`
}

type importJSON struct {
	PastureID  string `json:"pastureId"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	ForbKept   int    `json:"forbKept"`
	ForbToWeed int    `json:"forbToWeed"`
}

type createReportRequest struct {
	Name string `json:"name"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type entryRequest struct {
	Category    string   `json:"category"`
	GrassHeight *float64 `json:"grassHeight"`
	GrassType   string   `json:"grassType"`
}

func toReportJSON(r *primary.Report) reportJSON {
	return reportJSON{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, Status: r.Status}
}

func toPastureJSON(p *primary.Pasture, recorded int) pastureJSON {
	return pastureJSON{
		ID:       p.ID,
		ReportID: p.ReportID,
		Index:    p.Index,
		Name:     p.Name,
		Status:   p.Status,
		Recorded: recorded,
	}
}

func toEntryJSON(e *primary.Entry) entryJSON {
	return entryJSON{
		ID:     e.ID,
		LineNo: e.LineNo,
		Category: categoryJSON{
			Kind:        e.Category.Kind,
			GrassHeight: e.Category.GrassHeight,
			GrassType:   e.Category.GrassType,
		},
		UpdatedAt: e.UpdatedAt,
	}
}

func toStatsJSON(st cover.Stats) statsJSON {
	return statsJSON{
		Total:          st.Total,
		BarePct:        st.BarePct,
		GrassPct:       st.GrassPct,
		LitterPct:      st.LitterPct,
		ForbBushPct:    st.ForbBushPct,
		WeedPct:        st.WeedPct,
		Uncategorized:  st.Uncategorized,
		AvgGrassHeight: st.AvgGrassHeight,
	}
}

func toImportJSON(r *primary.ImportResult) importJSON {
	return importJSON{
		PastureID:  r.PastureID,
		Imported:   r.Imported,
		Skipped:    r.Skipped,
		ForbKept:   r.ForbKept,
		ForbToWeed: r.ForbToWeed,
	}
}

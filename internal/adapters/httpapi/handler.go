package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/example/pasturize/internal/core/cover"
	"github.com/example/pasturize/internal/ports/primary"
)

// maxImportBytes bounds an uploaded CSV sheet.
const maxImportBytes = 1 << 20

// Handler translates HTTP requests to service calls. populate may be nil,
// in which case the populate routes are not registered.
type Handler struct {
	survey   primary.SurveyService
	importer primary.ImportService
	exporter primary.ExportService
	populate primary.PopulateService
	logger   *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(survey primary.SurveyService, importer primary.ImportService, exporter primary.ExportService, populate primary.PopulateService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		survey:   survey,
		importer: importer,
		exporter: exporter,
		populate: populate,
		logger:   logger,
	}
}

// Register adds the API routes to g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/reports", h.listReports)
	g.POST("/reports", h.createReport)
	g.DELETE("/reports", h.wipeReports)
	g.GET("/reports/latest", h.latestReport)
	g.GET("/reports/:reportID", h.getReport)
	g.PATCH("/reports/:reportID", h.setReportStatus)
	g.DELETE("/reports/:reportID", h.deleteReport)
	g.GET("/reports/:reportID/progress", h.reportProgress)
	g.GET("/reports/:reportID/stats", h.reportStats)
	g.GET("/reports/:reportID/export", h.export)

	g.GET("/reports/:reportID/pastures", h.listPastures)
	g.GET("/reports/:reportID/pastures/:index", h.getPasture)
	g.POST("/reports/:reportID/pastures/:index/complete", h.completePasture)
	g.POST("/reports/:reportID/pastures/:index/reopen", h.reopenPasture)
	g.POST("/reports/:reportID/pastures/:index/import", h.importPasture)

	g.GET("/reports/:reportID/pastures/:index/entries", h.listEntries)
	g.GET("/reports/:reportID/pastures/:index/entries/:line", h.getEntry)
	g.PUT("/reports/:reportID/pastures/:index/entries/:line", h.putEntry)

	if h.populate != nil {
		g.POST("/reports/:reportID/populate", h.populateReport)
		g.POST("/reports/:reportID/pastures/:index/populate", h.populatePasture)
	}
}

func (h *Handler) listReports(c echo.Context) error {
	reports, err := h.survey.ListReports(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]reportJSON, len(reports))
	for i, r := range reports {
		out[i] = toReportJSON(r)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) createReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	report, err := h.survey.CreateReport(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReportJSON(report))
}

func (h *Handler) latestReport(c echo.Context) error {
	report, err := h.survey.LatestReport(c.Request().Context())
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("%w: no reports yet", primary.ErrReportNotFound)
	}
	return c.JSON(http.StatusOK, toReportJSON(report))
}

func (h *Handler) getReport(c echo.Context) error {
	report, err := h.requireReport(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportJSON(report))
}

func (h *Handler) setReportStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.survey.SetReportStatus(c.Request().Context(), c.Param("reportID"), req.Status); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) deleteReport(c echo.Context) error {
	if err := h.survey.DeleteReport(c.Request().Context(), c.Param("reportID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) wipeReports(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return fmt.Errorf("%w: deleting every report requires confirm=true", primary.ErrInvalidInput)
	}
	if err := h.survey.WipeAll(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) reportProgress(c echo.Context) error {
	progress, err := h.survey.ReportProgress(c.Request().Context(), c.Param("reportID"))
	if err != nil {
		return err
	}
	out := progressJSON{
		Report:   toReportJSON(progress.Report),
		Pastures: make([]pastureJSON, len(progress.Pastures)),
		Complete: progress.Complete,
		Full:     progress.Full,
	}
	for i, pp := range progress.Pastures {
		out.Pastures[i] = toPastureJSON(pp.Pasture, pp.Recorded)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) reportStats(c echo.Context) error {
	report, err := h.requireReport(c)
	if err != nil {
		return err
	}
	stats, err := h.survey.ReportStats(c.Request().Context(), report.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsJSON(stats))
}

func (h *Handler) listPastures(c echo.Context) error {
	progress, err := h.survey.ReportProgress(c.Request().Context(), c.Param("reportID"))
	if err != nil {
		return err
	}
	out := make([]pastureJSON, len(progress.Pastures))
	for i, pp := range progress.Pastures {
		out[i] = toPastureJSON(pp.Pasture, pp.Recorded)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) getPasture(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	recorded, err := h.survey.CountEntriesForPasture(ctx, p.ReportID, p.ID)
	if err != nil {
		return err
	}
	stats, err := h.survey.PastureStats(ctx, p.ReportID, p.ID)
	if err != nil {
		return err
	}
	out := toPastureJSON(p, recorded)
	st := toStatsJSON(stats)
	out.Stats = &st
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) completePasture(c echo.Context) error {
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	if err := h.survey.CompletePasture(c.Request().Context(), p.ID, force); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) reopenPasture(c echo.Context) error {
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	if err := h.survey.ReopenPasture(c.Request().Context(), p.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) importPasture(c echo.Context) error {
	index, err := intParam(c, "index")
	if err != nil {
		return err
	}
	forbCount := -1
	if v := c.QueryParam("forbCount"); v != "" {
		if forbCount, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%w: forbCount must be a number", primary.ErrInvalidInput)
		}
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxImportBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "CSV sheet too large")
	}

	result, err := h.importer.ImportPastureCSV(c.Request().Context(), primary.ImportRequest{
		ReportID:     c.Param("reportID"),
		PastureIndex: index,
		CSV:          string(body),
		ForbCount:    forbCount,
	})
	if err != nil {
		return err
	}
	h.logger.Info("pasture imported",
		zap.String("pasture_id", result.PastureID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return c.JSON(http.StatusOK, toImportJSON(result))
}

func (h *Handler) listEntries(c echo.Context) error {
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	entries, err := h.survey.ListEntriesForPasture(c.Request().Context(), p.ReportID, p.ID)
	if err != nil {
		return err
	}
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) getEntry(c echo.Context) error {
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	line, err := intParam(c, "line")
	if err != nil {
		return err
	}
	entry, err := h.survey.GetEntryByLine(c.Request().Context(), p.ReportID, p.ID, line)
	if err != nil {
		return err
	}
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("nothing recorded at foot mark %d", line))
	}
	return c.JSON(http.StatusOK, toEntryJSON(entry))
}

func (h *Handler) putEntry(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	line, err := intParam(c, "line")
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	kind, err := cover.ParseKind(req.Category)
	if err != nil {
		return fmt.Errorf("%w: %v", primary.ErrInvalidInput, err)
	}

	if _, err := h.survey.SaveEntry(ctx, primary.SaveEntryRequest{
		ReportID:  p.ReportID,
		PastureID: p.ID,
		LineNo:    line,
		Category: cover.Category{
			Kind:        kind,
			GrassHeight: req.GrassHeight,
			GrassType:   strings.ToUpper(strings.TrimSpace(req.GrassType)),
		},
	}); err != nil {
		return err
	}

	entry, err := h.survey.GetEntryByLine(ctx, p.ReportID, p.ID, line)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryJSON(entry))
}

func (h *Handler) export(c echo.Context) error {
	ctx := c.Request().Context()
	reportID := c.Param("reportID")

	pastureIndex := 0
	if v := c.QueryParam("pasture"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: pasture must be an index", primary.ErrInvalidInput)
		}
		pastureIndex = n
	}

	var (
		file *primary.ExportFile
		err  error
	)
	switch format := c.QueryParam("format"); format {
	case "", "zip":
		file, err = h.exporter.ExportArchive(ctx, reportID)
	case "csv":
		if pastureIndex > 0 {
			file, err = h.exporter.ExportPastureCSV(ctx, reportID, pastureIndex)
		} else {
			file, err = h.exporter.ExportCombinedCSV(ctx, reportID)
		}
	case "xlsx":
		file, err = h.exporter.ExportWorkbook(ctx, reportID)
	case "pdf":
		file, err = h.exporter.ExportSummaryPDF(ctx, reportID)
	default:
		return fmt.Errorf("%w: unknown export format %q", primary.ErrInvalidInput, format)
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (h *Handler) populateReport(c echo.Context) error {
	if err := h.populate.PopulateReport(c.Request().Context(), c.Param("reportID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) populatePasture(c echo.Context) error {
	p, err := h.requirePasture(c)
	if err != nil {
		return err
	}
	if err := h.populate.PopulatePasture(c.Request().Context(), p.ReportID, p.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) requireReport(c echo.Context) (*primary.Report, error) {
	id := c.Param("reportID")
	report, err := h.survey.GetReport(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", primary.ErrReportNotFound, id)
	}
	return report, nil
}

func (h *Handler) requirePasture(c echo.Context) (*primary.Pasture, error) {
	report, err := h.requireReport(c)
	if err != nil {
		return nil, err
	}
	index, err := intParam(c, "index")
	if err != nil {
		return nil, err
	}
	p, err := h.survey.GetPastureByIndex(c.Request().Context(), report.ID, index)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no pasture %d in report %s", primary.ErrPastureNotFound, index, report.ID)
	}
	return p, nil
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", primary.ErrInvalidInput, name, c.Param(name))
	}
	return n, nil
}

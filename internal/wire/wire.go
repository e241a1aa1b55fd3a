// Package wire builds the pasturize application graph: database, repositories,
// services and adapters.
package wire

import (
	"context"
	"database/sql"
	"io"

	"go.uber.org/zap"

	cliadapter "github.com/example/pasturize/internal/adapters/cli"
	"github.com/example/pasturize/internal/adapters/httpapi"
	logadapter "github.com/example/pasturize/internal/adapters/logging"
	"github.com/example/pasturize/internal/adapters/sqlite"
	"github.com/example/pasturize/internal/app"
	"github.com/example/pasturize/internal/config"
	"github.com/example/pasturize/internal/db"
	"github.com/example/pasturize/internal/ports/primary"
)

// App holds the wired services for one process. Close releases the database.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Survey   primary.SurveyService
	Import   primary.ImportService
	Export   primary.ExportService
	Populate primary.PopulateService // nil unless testing is enabled

	db *sql.DB
}

// New opens the database at cfg.DBPath and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	database, err := db.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	return newApp(database, cfg, logger), nil
}

// NewWithDB wires services over an already open database. The App takes
// ownership of database.
func NewWithDB(database *sql.DB, cfg *config.Config, logger *zap.Logger) *App {
	return newApp(database, cfg, logger)
}

func newApp(database *sql.DB, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Repositories (secondary ports) over the shared handle
	reportRepo := sqlite.NewReportRepository(database)
	pastureRepo := sqlite.NewPastureRepository(database)
	entryRepo := sqlite.NewEntryRepository(database)
	transactor := sqlite.NewTransactor(database)
	logWriter := logadapter.NewLogWriterAdapter(logger)

	templates := make([]app.PastureTemplate, len(cfg.Pastures))
	for i, p := range cfg.Pastures {
		templates[i] = app.PastureTemplate{Index: p.Index, Name: p.Name}
	}
	grassCodes := cfg.GrassCodes()

	a := &App{
		Config: cfg,
		Logger: logger,
		Survey: app.NewSurveyService(reportRepo, pastureRepo, entryRepo, transactor, logWriter, templates, grassCodes),
		Import: app.NewImportService(reportRepo, pastureRepo, entryRepo, transactor, logWriter, grassCodes),
		Export: app.NewExportService(reportRepo, pastureRepo, entryRepo),
		db:     database,
	}
	if cfg.Testing {
		a.Populate = app.NewPopulateService(reportRepo, pastureRepo, entryRepo, transactor, logWriter, grassCodes, nil)
	}
	return a
}

// Close closes the database.
func (a *App) Close() error {
	return a.db.Close()
}

// ReportAdapter returns a new ReportAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func (a *App) ReportAdapter(out io.Writer) *cliadapter.ReportAdapter {
	return cliadapter.NewReportAdapter(a.Survey, out)
}

// PastureAdapter returns a new PastureAdapter writing to out.
func (a *App) PastureAdapter(out io.Writer) *cliadapter.PastureAdapter {
	return cliadapter.NewPastureAdapter(a.Survey, a.Populate, out)
}

// EntryAdapter returns a new EntryAdapter writing to out.
func (a *App) EntryAdapter(out io.Writer) *cliadapter.EntryAdapter {
	return cliadapter.NewEntryAdapter(a.Survey, out)
}

// TransferAdapter returns a new TransferAdapter writing to out.
func (a *App) TransferAdapter(out io.Writer) *cliadapter.TransferAdapter {
	return cliadapter.NewTransferAdapter(a.Survey, a.Import, a.Export, out)
}

// HTTPServer returns the echo server exposing the JSON API.
func (a *App) HTTPServer() *httpapi.Server {
	h := httpapi.NewHandler(a.Survey, a.Import, a.Export, a.Populate, a.Logger)
	return httpapi.NewServer(h, a.Logger)
}

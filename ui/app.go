package ui

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chartsense/adapters/excel"
	"chartsense/app"
	"chartsense/domain/outlier"
	"chartsense/internal"
	"chartsense/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxUploadBytes bounds a report upload
const MaxUploadBytes = 32 << 20

// App serves the browser-facing report pages: an upload form and the
// rendered HTML report for an uploaded CSV or XLSX file.
type App struct {
	router  *chi.Mux
	service *app.AnalysisService
	options Options
	logger  *internal.Logger
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>chartsense</title></head>
<body>
<h1>chartsense</h1>
<form method="post" action="report" enctype="multipart/form-data">
  <p><input type="file" name="file" accept=".csv,.xlsx"></p>
  <p><label>Columns <input type="text" name="columns" placeholder="region,sales"></label></p>
  <p><label>Outlier column <input type="text" name="target"></label></p>
  <p><label>Method <select name="method">{{range .Methods}}<option>{{.}}</option>{{end}}</select></label>
     <label>Sensitivity <input type="text" name="sensitivity" value="{{.Sensitivity}}"></label></p>
  <p><button type="submit">Analyze</button></p>
</form>
</body>
</html>
`))

// NewApp creates the report pages
func NewApp(service *app.AnalysisService, options Options, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		options: options,
		logger:  logger.WithComponent("pages"),
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/report", a.handleUpload)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]interface{}{
		"Methods":     []outlier.Method{outlier.MethodIQR, outlier.MethodZScore, outlier.MethodIsolation},
		"Sensitivity": outlier.DefaultSensitivity,
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		a.logger.Error("Template error: %v", err)
	}
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		http.Error(w, "only .csv and .xlsx files are supported", http.StatusBadRequest)
		return
	}

	path, err := spool(file, ext)
	if err != nil {
		a.logger.Error("spooling upload: %v", err)
		http.Error(w, "could not store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(path)

	table, err := excel.NewDataReaderWithConfig(excel.ReaderConfig{FilePath: path, MaxRows: a.options.MaxRows}).Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	detection, err := formDetection(r, a.options.Detection)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	columns := splitColumns(r.FormValue("columns"))
	if len(columns) == 0 {
		columns = table.Columns
	}

	result, err := a.service.Analyze(r.Context(), app.AnalysisRequest{
		Rows:         table.Rows,
		Columns:      columns,
		TargetColumn: strings.TrimSpace(r.FormValue("target")),
		Detection:    detection,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	title := header.Filename
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(title, report.Markdown(title, result)))
}

// spool copies an upload into a temp file so the file readers can open it
func spool(src io.Reader, ext string) (string, error) {
	dst, err := os.CreateTemp("", "chartsense-*"+ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func formDetection(r *http.Request, defaults outlier.DetectionConfig) (outlier.DetectionConfig, error) {
	cfg := defaults
	if m := r.FormValue("method"); m != "" {
		method, err := outlier.ParseMethod(m)
		if err != nil {
			return cfg, err
		}
		cfg.Method = method
	}
	if s := strings.TrimSpace(r.FormValue("sensitivity")); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid sensitivity %q", s)
		}
		cfg.Sensitivity = v
	}
	return cfg, nil
}

func splitColumns(s string) []string {
	var columns []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

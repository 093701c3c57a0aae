package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	mw "github.com/tomtap1997/dashbord-tr/internal/middleware"
	"github.com/tomtap1997/dashbord-tr/internal/services"
	"github.com/tomtap1997/dashbord-tr/internal/storage"
	api "github.com/tomtap1997/dashbord-tr/pkg/contracts/api/v1"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

const (
	contentTypeCSV      = "text/csv; charset=utf-8"
	contentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	contentTypeHTML     = "text/html; charset=utf-8"

	// multipartOverhead leaves room for the form boundary and part headers
	// around the file itself.
	multipartOverhead = 1 << 20

	reportFormatMarkdown = "markdown"
	reportFormatHTML     = "html"
)

// DatasetHandler serves the dataset, analysis and export endpoints
type DatasetHandler struct {
	service        DatasetServiceInterface
	validation     *mw.ValidationMiddleware
	queryValidator *mw.QueryParamValidator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		service:        service,
		validation:     mw.NewValidationMiddleware(logger, errorHandler),
		queryValidator: mw.NewQueryParamValidator(errorHandler),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "dataset_handler")),
	}
}

// Routes returns the API routes, to be mounted under /api
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the API routes to an existing router
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	jsonOnly := mw.ContentTypeValidator(h.errorHandler, "application/json")

	r.Route("/datasets", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.With(jsonOnly).Post("/demo", h.Demo)
		r.With(jsonOnly).Post("/sheets", h.ImportSheets)
		r.Get("/current", h.Current)
	})

	r.Get("/transformers", h.Transformers)
	r.Get("/summary", h.Summary)
	r.Get("/brief", h.Brief)
	r.Get("/diagnostics", h.Diagnostics)

	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportXLSX)

	r.Get("/report", h.Report)
	r.Get("/report.html", h.ReportHTML)
}

// Upload handles POST /api/datasets/upload with a multipart "file" field
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "upload received",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	ds, err := h.service.LoadUpload(r.Context(), file, header.Filename, header.Size)
	h.respondLoaded(w, r, ds, err)
}

// uploadError keeps body-size failures distinct from malformed forms.
func uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}

// Demo handles POST /api/datasets/demo
func (h *DatasetHandler) Demo(w http.ResponseWriter, r *http.Request) {
	var req api.DemoRequest
	if err := h.validation.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ds, err := h.service.LoadDemo(r.Context(), req.Count, req.Seed)
	h.respondLoaded(w, r, ds, err)
}

// ImportSheets handles POST /api/datasets/sheets
func (h *DatasetHandler) ImportSheets(w http.ResponseWriter, r *http.Request) {
	var req api.SheetsImportRequest
	if err := h.validation.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ds, err := h.service.LoadSheets(r.Context(), req.SpreadsheetID, req.Range)
	h.respondLoaded(w, r, ds, err)
}

func (h *DatasetHandler) respondLoaded(w http.ResponseWriter, r *http.Request, ds *storage.Dataset, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, services.DatasetResponse(ds))
}

// Current handles GET /api/datasets/current
func (h *DatasetHandler) Current(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DatasetInfo(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// Transformers handles GET /api/transformers?status=&q=
func (h *DatasetHandler) Transformers(w http.ResponseWriter, r *http.Request) {
	criteria := domain.FilterCriteria{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}

	resp, err := h.service.Transformers(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// Summary handles GET /api/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// Brief handles GET /api/brief
func (h *DatasetHandler) Brief(w http.ResponseWriter, r *http.Request) {
	brief, err := h.service.Brief(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, brief)
}

// Diagnostics handles GET /api/diagnostics
func (h *DatasetHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Diagnostics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// ExportCSV handles GET /api/export/csv
func (h *DatasetHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	ds, err := h.service.ExportCSV(r.Context(), &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeAttachment(w, r, contentTypeCSV, exportFilename(ds, "csv"), buf.Bytes())
}

// ExportXLSX handles GET /api/export/xlsx
func (h *DatasetHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	ds, err := h.service.ExportXLSX(r.Context(), &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeAttachment(w, r, contentTypeXLSX, exportFilename(ds, "xlsx"), buf.Bytes())
}

// Report handles GET /api/report?format=markdown|html
func (h *DatasetHandler) Report(w http.ResponseWriter, r *http.Request) {
	format, ok := h.queryValidator.ValidateEnum(w, r, "format",
		[]string{reportFormatMarkdown, reportFormatHTML}, reportFormatMarkdown)
	if !ok {
		return
	}
	if format == reportFormatHTML {
		h.ReportHTML(w, r)
		return
	}

	md, err := h.service.ReportMarkdown(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeMarkdown)
	_, _ = w.Write([]byte(md))
}

// ReportHTML handles GET /api/report.html
func (h *DatasetHandler) ReportHTML(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ReportHTML(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write(page)
}

func (h *DatasetHandler) writeAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
	}
}

// exportFilename names a download after the dataset load time.
func exportFilename(ds *storage.Dataset, ext string) string {
	return fmt.Sprintf("transformers_%s.%s", ds.LoadedAt.UTC().Format("20060102-1504"), ext)
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	apierrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/services"
	"github.com/tomtap1997/dashbord-tr/internal/shared/testutil"
	"github.com/tomtap1997/dashbord-tr/internal/storage"
	"github.com/tomtap1997/dashbord-tr/internal/validation"
	api "github.com/tomtap1997/dashbord-tr/pkg/contracts/api/v1"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	svc, err := services.NewAnalysisService(services.AnalysisDeps{
		Store:     storage.NewMemoryStore(),
		Extractor: dataprocessing.NewExtractor(),
		Validator: validation.NewFileValidator(logger, config.UploadConfig{
			MaxBytes:   1 << 20,
			Extensions: []string{".xlsx", ".xlsm", ".xls", ".csv"},
		}),
		Generator: config.GeneratorConfig{Count: 20},
		Logger:    logger,
	})
	require.NoError(t, err)

	handler := NewDatasetHandler(svc, 1<<20, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api", handler.Routes())
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mpw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mpw.WriteField("note", "no file"))
	}
	require.NoError(t, mpw.Close())
	return &buf, mpw.FormDataContentType()
}

func loadDemo(t *testing.T, h http.Handler, count int) api.DatasetResponse {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/datasets/demo", "application/json",
		strings.NewReader(`{"count": `+strconv.Itoa(count)+`, "seed": 11}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDatasetHandler_NoDataset(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{
		"/api/datasets/current",
		"/api/transformers",
		"/api/summary",
		"/api/brief",
		"/api/diagnostics",
		"/api/export/csv",
		"/api/export/xlsx",
		"/api/report",
		"/api/report.html",
	} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "/errors/dataset/not-loaded")
		})
	}
}

func TestDatasetHandler_Upload(t *testing.T) {
	h := newTestRouter(t)

	path := testutil.WriteSurveyWorkbook(t, t.TempDir(), testutil.SampleSurveyRows())
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	tests := []struct {
		name       string
		field      string
		filename   string
		content    []byte
		wantStatus int
	}{
		{name: "workbook", field: "file", filename: "survey.xlsx", content: content, wantStatus: http.StatusCreated},
		{name: "missing file", wantStatus: http.StatusBadRequest},
		{name: "unsupported type", field: "file", filename: "survey.pdf", content: []byte("%PDF-1.4"), wantStatus: http.StatusUnsupportedMediaType},
		{name: "corrupt workbook", field: "file", filename: "survey.xlsx", content: []byte("not a zip"), wantStatus: http.StatusUnprocessableEntity},
		{name: "legacy xls", field: "file", filename: "survey.xls", content: []byte{0xD0, 0xCF, 0x11, 0xE0}, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.field, tt.filename, tt.content)
			rec := doRequest(t, h, http.MethodPost, "/api/datasets/upload", ct, body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				var resp api.DatasetResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, 3, resp.Dataset.RecordCount)
				assert.Equal(t, "survey.xlsx", resp.Dataset.Name)
				assert.NotEmpty(t, resp.Rejected)
			}
		})
	}

	// Failed uploads leave the first dataset current
	rec := doRequest(t, h, http.MethodGet, "/api/datasets/current", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recordCount":3`)
}

func TestDatasetHandler_Demo(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantCount   int
	}{
		{name: "configured count", contentType: "application/json", body: `{}`, wantStatus: http.StatusCreated, wantCount: 20},
		{name: "explicit count", contentType: "application/json", body: `{"count": 7, "seed": 3}`, wantStatus: http.StatusCreated, wantCount: 7},
		{name: "count too large", contentType: "application/json", body: `{"count": 50000}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", contentType: "application/json", body: `{"count": "many"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong content type", contentType: "text/plain", body: `{}`, wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/datasets/demo", tt.contentType, strings.NewReader(tt.body))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var resp api.DatasetResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCount, resp.Dataset.RecordCount)
			assert.Equal(t, domain.SourceSynthetic, resp.Dataset.Source)
		})
	}
}

func TestDatasetHandler_SheetsNotConfigured(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/datasets/sheets", "application/json",
		strings.NewReader(`{"spreadsheetId": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/datasets/sheets", "application/json",
		strings.NewReader(`{"spreadsheetId": "short"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "spreadsheetId")
}

func TestDatasetHandler_Transformers(t *testing.T) {
	h := newTestRouter(t)
	loadDemo(t, h, 40)

	rec := doRequest(t, h, http.MethodGet, "/api/transformers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all api.TransformersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 40, all.Total)
	assert.Equal(t, 40, all.Filtered)

	rec = doRequest(t, h, http.MethodGet, "/api/transformers?status=critical", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var critical api.TransformersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &critical))
	assert.Equal(t, 40, critical.Total)
	for _, r := range critical.Items {
		assert.Equal(t, domain.StatusCritical, r.Status)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/transformers?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDatasetHandler_Analysis(t *testing.T) {
	h := newTestRouter(t)
	loadDemo(t, h, 30)

	rec := doRequest(t, h, http.MethodGet, "/api/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":30`)

	rec = doRequest(t, h, http.MethodGet, "/api/brief", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalTransformers":30`)

	rec = doRequest(t, h, http.MethodGet, "/api/diagnostics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"diagnostics":[]`)
}

func TestDatasetHandler_Exports(t *testing.T) {
	h := newTestRouter(t)
	loadDemo(t, h, 12)

	tests := []struct {
		path        string
		contentType string
		ext         string
	}{
		{path: "/api/export/csv", contentType: contentTypeCSV, ext: ".csv"},
		{path: "/api/export/xlsx", contentType: contentTypeXLSX, ext: ".xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
			assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.ext)
			assert.NotZero(t, rec.Body.Len())
		})
	}
}

func TestDatasetHandler_Report(t *testing.T) {
	h := newTestRouter(t)
	loadDemo(t, h, 15)

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{path: "/api/report", wantStatus: http.StatusOK, contentType: contentTypeMarkdown},
		{path: "/api/report?format=html", wantStatus: http.StatusOK, contentType: contentTypeHTML},
		{path: "/api/report.html", wantStatus: http.StatusOK, contentType: contentTypeHTML},
		{path: "/api/report?format=pdf", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tt.path, "", nil)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	api "github.com/tomtap1997/dashbord-tr/pkg/contracts/api/v1"
)

func newTestValidation() *ValidationMiddleware {
	return NewValidationMiddleware(nil, apierrors.NewErrorHandler(nil, false))
}

func TestDecodeAndValidate_Demo(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantErr   string
	}{
		{name: "empty body", body: "", wantCount: 0},
		{name: "count", body: `{"count": 250, "seed": 7}`, wantCount: 250},
		{name: "count too large", body: `{"count": 20000}`, wantErr: "VALIDATION_FAILED"},
		{name: "negative count", body: `{"count": -1}`, wantErr: "VALIDATION_FAILED"},
		{name: "malformed json", body: `{"count":`, wantErr: "INVALID_REQUEST"},
	}

	m := newTestValidation()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dataset/demo", strings.NewReader(tt.body))
			var dst api.DemoRequest
			err := m.DecodeAndValidate(req, &dst)

			if tt.wantErr != "" {
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantErr, apiErr.ErrorCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, dst.Count)
		})
	}
}

func TestValidateStruct_SheetsImport(t *testing.T) {
	tests := []struct {
		name    string
		req     api.SheetsImportRequest
		wantMsg string
	}{
		{name: "valid", req: api.SheetsImportRequest{SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", Range: "Sheet1!A1:U500"}},
		{name: "missing id", req: api.SheetsImportRequest{}, wantMsg: "spreadsheetId is required"},
		{name: "short id", req: api.SheetsImportRequest{SpreadsheetID: "abc"}, wantMsg: "spreadsheetId must be at least 10 characters"},
		{name: "url instead of id", req: api.SheetsImportRequest{SpreadsheetID: "https://docs.google.com/x"}, wantMsg: "spreadsheetId must be a Google Sheets spreadsheet ID"},
	}

	m := newTestValidation()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateStruct(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, details.Errors, 1)
			assert.Equal(t, "spreadsheetId", details.Errors[0].Field)
			assert.Equal(t, tt.wantMsg, details.Errors[0].Message)
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator(apierrors.NewErrorHandler(nil, false), "application/json")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{name: "get skipped", method: http.MethodGet, want: http.StatusOK},
		{name: "json", method: http.MethodPost, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "form", method: http.MethodPost, contentType: "text/plain", want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	v := NewQueryParamValidator(apierrors.NewErrorHandler(nil, false))
	allowed := []string{"markdown", "html"}

	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{query: "", want: "markdown", wantOK: true},
		{query: "?format=HTML", want: "html", wantOK: true},
		{query: "?format=pdf", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/report"+tt.query, nil)
			got, ok := v.ValidateEnum(rec, req, "format", allowed, "markdown")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vgsales/internal/analytics"
	"vgsales/internal/services"
)

func newExportRouter(svc *MockExportService) http.Handler {
	parser, errorHandler := testDeps()
	return NewExportHandler(svc, parser, testLogger(), errorHandler).Routes()
}

func TestExportHandler_ListTables(t *testing.T) {
	svc := new(MockExportService)
	svc.On("Tables").Return([]string{"records", "genres", "platforms"})

	rr := httptest.NewRecorder()
	newExportRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","data":["records","genres","platforms"],"count":3}`, rr.Body.String())
}

func TestExportHandler_Export(t *testing.T) {
	body := []byte("\ufeffRank,Name\n1,Wii Sports\n")
	svc := new(MockExportService)
	svc.On("Export", services.ExportRequest{
		Table:  "records",
		Format: "csv",
		Filter: analytics.Filter{Genres: []string{"Sports"}},
		TopN:   defaultTopN,
		BOM:    true,
	}).Return(&services.ExportResult{
		FileName:    "vgsales-records-20240517.csv",
		ContentType: "text/csv; charset=utf-8",
		Rows:        1,
		Body:        body,
	}, nil)

	rr := httptest.NewRecorder()
	newExportRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records?format=csv&bom=true&genres=Sports", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="vgsales-records-20240517.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rr.Header().Get("X-Export-Rows"))
	assert.Equal(t, body, rr.Body.Bytes())
	svc.AssertExpectations(t)
}

func TestExportHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockExportService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "unknown table",
			url:  "/consoles",
			setupMock: func(m *MockExportService) {
				m.On("Export", mock.Anything).Return(nil, fmt.Errorf("%w: consoles", services.ErrUnknownTable))
				m.On("Tables").Return([]string{"records"})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"allowed":["records"]`,
		},
		{
			name:           "format rejected by validation",
			url:            "/records?format=pdf",
			setupMock:      func(m *MockExportService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"VALIDATION_ERROR"`,
		},
		{
			name: "format rejected by the exporter",
			url:  "/records?format=excel",
			setupMock: func(m *MockExportService) {
				m.On("Export", mock.Anything).Return(nil, services.ErrInvalidFormat)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"INVALID_PARAMETER"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockExportService)
			tt.setupMock(svc)

			rr := httptest.NewRecorder()
			newExportRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

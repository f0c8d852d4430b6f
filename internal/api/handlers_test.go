package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/app/usecase"
	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const sampleCSV = `country,division,fullName,fromDate,toDate,logins
Malaysia,Endo,John Doe,20250616,20250622,12
Singapore,PI,Jane Smith,20250616,20250622,5
Malaysia,IC,Bob Johnson,20250623,20250629,8
`

type memoryRepo struct {
	reports []*domain.Report
}

func (m *memoryRepo) SaveReport(ctx context.Context, report *domain.Report) error {
	m.reports = append(m.reports, report)
	return nil
}

func (m *memoryRepo) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) LatestReport(ctx context.Context) (*domain.Report, error) {
	if len(m.reports) == 0 {
		return nil, nil
	}
	return m.reports[len(m.reports)-1], nil
}

func (m *memoryRepo) ListReports(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	var out []*domain.ReportSummary
	for i := len(m.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reports[i].Summary())
	}
	return out, nil
}

func newTestMux(t *testing.T, opts Options) (*http.ServeMux, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{}
	handler := NewHandler(
		usecase.NewGenerateReportUsecase(repo, nil, walog.Noop),
		usecase.NewReportHistoryUsecase(repo),
		opts,
		walog.Noop,
	)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux, repo
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestCreateReportFromRawBody(t *testing.T) {
	mux, repo := newTestMux(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var report domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, domain.DefaultTopN, report.TopN)
	require.Equal(t, defaultSource, report.Source)
	require.Equal(t, 3, report.Overview.ActiveUsers)
	require.Equal(t, "2025-06-16 to 2025-06-29", report.Overview.DateRange)
	require.Len(t, report.CountryTotals, 2)
	require.Len(t, repo.reports, 1)
	require.Equal(t, repo.reports[0].ID, report.ID)
}

func TestCreateReportFromMultipart(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	body, contentType := multipartBody(t, "week25.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports?top_n=3", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var report domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, 3, report.TopN)
	require.Equal(t, "week25.csv", report.Source)
	require.Len(t, report.TopOverall, 3)
}

func TestCreateReportFailures(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantType   string
		check      func(t *testing.T, resp ErrorResponse)
	}{
		{
			name:       "missing columns",
			target:     "/v1/reports",
			body:       "fullName,country,division\nJohn Doe,Malaysia,Endo\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "schema_error",
			check: func(t *testing.T, resp ErrorResponse) {
				require.Equal(t, []string{"fromDate", "toDate", "logins"}, resp.Missing)
				require.Equal(t, domain.FormatHint, resp.Hint)
			},
		},
		{
			name:       "bad logins",
			target:     "/v1/reports",
			body:       "country,division,fullName,fromDate,toDate,logins\nMalaysia,Endo,John Doe,20250616,20250622,1\nMalaysia,IC,Bob,20250616,20250622,many\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "parse_error",
			check: func(t *testing.T, resp ErrorResponse) {
				require.Equal(t, 3, resp.Row)
				require.Equal(t, "logins", resp.Column)
			},
		},
		{
			name:       "header only",
			target:     "/v1/reports",
			body:       "country,division,fullName,fromDate,toDate,logins\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "empty_dataset",
		},
		{
			name:       "top_n out of range",
			target:     "/v1/reports?top_n=11",
			body:       sampleCSV,
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_failed",
		},
		{
			name:       "top_n not a number",
			target:     "/v1/reports?top_n=five",
			body:       sampleCSV,
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux, repo := newTestMux(t, Options{})

			req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "text/csv")
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			resp := decodeError(t, rr)
			require.Equal(t, tc.wantType, resp.Type)
			require.NotEmpty(t, resp.Detail)
			if tc.check != nil {
				tc.check(t, resp)
			}
			require.Empty(t, repo.reports)
		})
	}
}

func TestCreateReportIgnoresNonFiniteActivityCells(t *testing.T) {
	mux, repo := newTestMux(t, Options{})

	body := "country,division,fullName,fromDate,toDate,logins,viewHomeCounts,createEvents\n" +
		"Malaysia,Endo,John Doe,20250616,20250622,12,NaN,Infinity\n" +
		"Singapore,PI,Jane Smith,20250616,20250622,5,3,1\n"
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var report domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, []domain.ActivityTotal{{Column: "viewHomeCounts", Label: "Home", Total: 3}}, report.ActivityBreakdown)
	require.Len(t, repo.reports, 1)
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]float64{"total": math.NaN()})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "server_error", resp["type"])
}

type trackingBody struct {
	*strings.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestCreateReportClosesUpload(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	body := &trackingBody{Reader: strings.NewReader(sampleCSV)}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/reports", body))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.True(t, body.closed)
}

func TestCreateReportTooLarge(t *testing.T) {
	mux, _ := newTestMux(t, Options{MaxUploadBytes: 64})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code, rr.Body.String())
	require.Equal(t, "payload_too_large", decodeError(t, rr).Type)
}

func TestCreateReportMultipartWithoutFile(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	body, contentType := multipartBody(t, "", "", map[string]string{"top_n": "5"})
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_request", decodeError(t, rr).Type)
}

func TestReportHistoryEndpoints(t *testing.T) {
	mux, repo := newTestMux(t, Options{})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(sampleCSV))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reports?limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var list ListReportsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, repo.reports[1].ID, list.Items[0].ID)
	require.Equal(t, 3, list.Items[0].TotalUsers)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reports/"+repo.reports[0].ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var report domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, repo.reports[0].ID, report.ID)
	require.Len(t, report.Users, 3)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reports/does-not-exist", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportsRejectsOtherMethods(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/reports", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestTemplateDownload(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reports/template", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(rr.Body.String(), "country,division,fullName,salesRepEmail,fromDate,toDate,logins\n"))
}

func TestUploadPage(t *testing.T) {
	mux, _ := newTestMux(t, Options{DefaultTopN: 7})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `value="7"`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportPage(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	body, contentType := multipartBody(t, "data.csv", sampleCSV, map[string]string{"top_n": "4"})
	req := httptest.NewRequest(http.MethodPost, "/report", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "<h2>Key Insights</h2>")
	require.Contains(t, rr.Body.String(), "Most Active Country: Malaysia with 20 total logins")
}

func TestReportPageShowsErrorOnForm(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	body, contentType := multipartBody(t, "data.csv", "country,logins\nMalaysia,3\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/report", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "missing required columns: division, fullName, fromDate, toDate")
	require.Contains(t, rr.Body.String(), domain.FormatHint)
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestMux(t, Options{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

// Package api exposes HTTP handlers for the activity dashboard.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/render"
)

const defaultSource = "upload.csv"

// ReportGenerator runs the report pipeline over one uploaded file.
type ReportGenerator interface {
	Execute(ctx context.Context, input io.Reader, opts domain.ReportOptions) (*domain.Report, error)
}

// ReportHistory reads previously generated reports.
type ReportHistory interface {
	List(ctx context.Context, limit int) ([]*domain.ReportSummary, error)
	Get(ctx context.Context, id string) (*domain.Report, error)
}

// Options tunes request handling.
type Options struct {
	DefaultTopN    int
	MaxUploadBytes int64
}

// Handler coordinates HTTP requests with the report use cases.
type Handler struct {
	generator ReportGenerator
	history   ReportHistory
	opts      Options
	log       walog.Logger
}

// NewHandler builds a Handler.
func NewHandler(generator ReportGenerator, history ReportHistory, opts Options, logger walog.Logger) *Handler {
	if opts.DefaultTopN == 0 {
		opts.DefaultTopN = domain.DefaultTopN
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if logger == nil {
		logger = walog.Noop
	}
	return &Handler{generator: generator, history: history, opts: opts, log: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/reports", h.reports)
	mux.HandleFunc("/v1/reports/", h.reportByID)
	mux.HandleFunc("/v1/reports/template", h.template)
	mux.HandleFunc("/report", h.reportPage)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", h.uploadPage)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createReport(w, r)
	case http.MethodGet:
		h.listReports(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) reportByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing report id")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	report, err := h.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	topN, err := h.topN(r.URL.Query().Get("top_n"))
	if err != nil {
		writeReportError(w, err)
		return
	}

	input, source, err := h.upload(w, r)
	if err != nil {
		writeReportError(w, err)
		return
	}
	defer cleanupMultipart(r)
	defer input.Close()

	report, err := h.generator.Execute(r.Context(), input, domain.ReportOptions{TopN: topN, Source: source})
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summaries, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ListReportsResponse{Items: summaries})
}

func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_data.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, render.TemplateCSV())
}

func (h *Handler) uploadPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return render.UploadForm(buf, h.opts.DefaultTopN, nil)
	})
}

// reportPage is the browser flavour of createReport: failures re-render the
// upload form with the error and the formatting hint.
func (h *Handler) reportPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	report, err := h.generateFromForm(w, r)
	if err != nil {
		h.writeHTML(w, statusFor(err), func(buf *bytes.Buffer) error {
			return render.UploadForm(buf, h.opts.DefaultTopN, err)
		})
		return
	}
	h.writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return render.HTML(buf, report)
	})
}

func (h *Handler) generateFromForm(w http.ResponseWriter, r *http.Request) (*domain.Report, error) {
	input, source, err := h.upload(w, r)
	if err != nil {
		return nil, err
	}
	defer cleanupMultipart(r)
	defer input.Close()
	topN, err := h.topN(r.FormValue("top_n"))
	if err != nil {
		return nil, err
	}
	return h.generator.Execute(r.Context(), input, domain.ReportOptions{TopN: topN, Source: source})
}

// upload returns the CSV stream of a request: the "file" part of a multipart
// form, or the raw body otherwise. The caller closes it.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		source := r.URL.Query().Get("source")
		if source == "" {
			source = defaultSource
		}
		return r.Body, source, nil
	}

	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		cleanupMultipart(r)
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		cleanupMultipart(r)
		return nil, "", errMissingFile
	}
	return file, header.Filename, nil
}

// cleanupMultipart removes temporary files spilled by ParseMultipartForm.
func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func (h *Handler) topN(raw string) (int, error) {
	if raw == "" {
		return h.opts.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidTopN
	}
	return n, nil
}

func (h *Handler) writeHTML(w http.ResponseWriter, status int, fill func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		h.log.Errorf("Failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var errMissingFile = errors.New(`multipart upload has no "file" part`)

// ListReportsResponse packages history results.
type ListReportsResponse struct {
	Items []*domain.ReportSummary `json:"items"`
}

// ErrorResponse is the body of every failed report request.
type ErrorResponse struct {
	Type    string   `json:"type"`
	Detail  string   `json:"detail"`
	Hint    string   `json:"hint,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Row     int      `json:"row,omitempty"`
	Column  string   `json:"column,omitempty"`
}

func writeReportError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Detail: err.Error(), Hint: domain.FormatHint}

	var (
		schemaErr *domain.SchemaError
		parseErr  *domain.ParseError
		emptyErr  *domain.EmptyResultError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &schemaErr):
		resp.Type = "schema_error"
		resp.Missing = schemaErr.Missing
	case errors.As(err, &parseErr):
		resp.Type = "parse_error"
		resp.Row = parseErr.Row
		resp.Column = parseErr.Column
	case errors.As(err, &emptyErr):
		resp.Type = "empty_dataset"
	case errors.Is(err, domain.ErrInvalidTopN):
		resp.Type = "validation_failed"
		resp.Hint = ""
	case errors.As(err, &tooLarge):
		resp.Type = "payload_too_large"
		resp.Hint = ""
	case errors.Is(err, errMissingFile):
		resp.Type = "invalid_request"
	default:
		resp.Type = "server_error"
		resp.Hint = ""
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	var (
		schemaErr *domain.SchemaError
		parseErr  *domain.ParseError
		emptyErr  *domain.EmptyResultError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &schemaErr), errors.As(err, &parseErr), errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTopN), errors.Is(err, errMissingFile):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		writeEncodeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeEncodeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"type":   "server_error",
		"detail": "failed to encode response: " + err.Error(),
	})
}

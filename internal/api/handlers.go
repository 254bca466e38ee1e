package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"survey-dashboard/internal/models"
	"survey-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// DownloadError is the body of a failed download
const DownloadError = "Error: Could not load data"

type Handler struct {
	Dashboard       *service.DashboardService
	Loader          *service.CachedLoader
	ExportService   *service.ExportService
	RefreshInterval time.Duration
	CORSOrigins     []string
}

func NewHandler(dash *service.DashboardService, loader *service.CachedLoader, export *service.ExportService, refresh time.Duration, origins []string) *Handler {
	return &Handler{
		Dashboard:       dash,
		Loader:          loader,
		ExportService:   export,
		RefreshInterval: refresh,
		CORSOrigins:     origins,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)
	r.Get("/download", h.DownloadCSV)
	r.Get("/download/excel", h.DownloadExcel)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/analysis", h.GetAnalysis)
		r.Get("/summary", h.GetSummary)
		r.Get("/table", h.GetTable)
		r.Get("/status", h.GetStatus)
		r.Post("/refresh", h.Refresh)
	})
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Page
// ============================================================================

// Index renders the dashboard. Load failures are shown inside the page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	d := h.Dashboard.Build(r.Context())

	var buf bytes.Buffer
	if err := renderPage(&buf, newPageView(d, h.RefreshInterval)); err != nil {
		slog.Error("render page", "run_id", d.RunID, "error", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ============================================================================
// Downloads
// ============================================================================

func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	table, err := h.Loader.Load(r.Context())
	if err != nil {
		slog.Warn("csv download failed", "error", err)
		http.Error(w, DownloadError, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.ExportService.WriteCSV(&buf, table); err != nil {
		slog.Error("csv export failed", "error", err)
		http.Error(w, DownloadError, http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "text/csv", h.ExportService.Filename("csv"), buf.Bytes())
}

func (h *Handler) DownloadExcel(w http.ResponseWriter, r *http.Request) {
	table, err := h.Loader.Load(r.Context())
	if err != nil {
		slog.Warn("excel download failed", "error", err)
		http.Error(w, DownloadError, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.ExportService.WriteXLSX(&buf, table); err != nil {
		slog.Error("excel export failed", "error", err)
		http.Error(w, DownloadError, http.StatusInternalServerError)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.ExportService.Filename("xlsx"), buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(body)
}

// ============================================================================
// JSON API
// ============================================================================

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	_, result, err := h.Dashboard.Analyze(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Dashboard.Profiles(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Loader.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewTableResponse(table))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status(nil))
}

// Refresh drops the cached table and fetches the source again
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Loader.Invalidate()
	if _, err := h.Loader.Refresh(r.Context()); err != nil {
		slog.Warn("manual refresh failed", "source", h.Loader.Locator(), "error", err)
		writeJSON(w, http.StatusBadGateway, h.status(err))
		return
	}
	writeJSON(w, http.StatusOK, h.status(nil))
}

func (h *Handler) status(err error) models.StatusResponse {
	resp := models.StatusResponse{Source: h.Loader.Locator()}
	if entry, ok := h.Loader.LastFetch(); ok {
		resp.Loaded = true
		resp.Rows = entry.Table.Rows
		resp.Columns = len(entry.Table.Columns)
		resp.FetchedAt = entry.FetchedAt
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

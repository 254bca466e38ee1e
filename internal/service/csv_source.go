package service

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"survey-dashboard/internal/models"

	"github.com/xuri/excelize/v2"
)

// MaxSourceBytes bounds the size of a fetched CSV body
const MaxSourceBytes = 32 << 20

// Load fetches and parses the CSV body
func (s *HTTPSource) Load(ctx context.Context) (*models.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, loadFailure(s.Locator(), "create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, loadFailure(s.Locator(), "fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, loadFailure(s.Locator(), "unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/html" {
		return nil, loadFailure(s.Locator(), "source returned an HTML page; make sure the sheet is shared as 'Anyone with the link can view'")
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = MaxSourceBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, loadFailure(s.Locator(), "read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, loadFailure(s.Locator(), "source exceeds %d bytes", limit)
	}

	table, err := ReadCSV(s.Locator(), bytes.NewReader(body))
	if err != nil {
		return nil, loadFailure(s.Locator(), "parse: %w", err)
	}
	return table, nil
}

// FileSource reads a local CSV or XLSX export
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Locator() string {
	return s.Path
}

// Load parses the file; .xlsx files are read from their first sheet
func (s *FileSource) Load(ctx context.Context) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadFailure(s.Path, "%w", err)
	}
	if strings.EqualFold(filepath.Ext(s.Path), ".xlsx") {
		return s.loadXLSX()
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, loadFailure(s.Path, "open: %w", err)
	}
	defer f.Close()

	table, err := ReadCSV(s.Path, f)
	if err != nil {
		return nil, loadFailure(s.Path, "parse: %w", err)
	}
	return table, nil
}

func (s *FileSource) loadXLSX() (*models.Table, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, loadFailure(s.Path, "open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadFailure(s.Path, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, loadFailure(s.Path, "read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, loadFailure(s.Path, "sheet %q is empty", sheets[0])
	}

	table, err := BuildTable(s.Path, rows[0], rows[1:])
	if err != nil {
		return nil, loadFailure(s.Path, "parse sheet %q: %w", sheets[0], err)
	}
	return table, nil
}

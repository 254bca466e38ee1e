package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"survey-dashboard/internal/models"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Loader fetches the survey table from a configured source
type Loader interface {
	// Load retrieves and parses the source. Every error is a *LoadFailure.
	Load(ctx context.Context) (*models.Table, error)
	// Locator identifies the source, with credentials redacted.
	Locator() string
}

// LoadFailure means no data is available this cycle. It is never fatal.
type LoadFailure struct {
	Locator string
	Cause   error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load %s: %v", e.Locator, e.Cause)
}

func (e *LoadFailure) Unwrap() error {
	return e.Cause
}

func loadFailure(locator string, format string, args ...any) error {
	return &LoadFailure{Locator: locator, Cause: fmt.Errorf(format, args...)}
}

// GoogleSheetURL builds the CSV export URL of a shared Google Sheet
func GoogleSheetURL(sheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", sheetID)
}

// NewLoader picks a source implementation from the locator:
// http(s) URLs, postgres/mysql/sqlite URLs with a table parameter, or a local
// .csv/.xlsx path.
func NewLoader(locator string, timeout time.Duration) (Loader, error) {
	if locator == "" {
		return nil, fmt.Errorf("no source configured")
	}
	u, err := url.Parse(locator)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return NewHTTPSource(locator, timeout), nil
		case "postgres", "postgresql", "mysql", "sqlite":
			src, err := ParseSQLLocator(locator)
			if err != nil {
				return nil, err
			}
			src.Timeout = timeout
			return src, nil
		case "file":
			return NewFileSource(u.Path), nil
		}
	}
	return NewFileSource(locator), nil
}

// SQLSource reads a survey table from a relational database
type SQLSource struct {
	Driver  string
	DSN     string
	Table   string
	Limit   int
	Timeout time.Duration
	display string
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ParseSQLLocator parses <scheme>://...?table=<name>[&limit=N].
// The table name is validated as an identifier before it reaches a query.
func ParseSQLLocator(locator string) (*SQLSource, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("parse locator: %w", err)
	}
	q := u.Query()
	src := &SQLSource{Table: q.Get("table"), display: u.Redacted()}
	if !tableNamePattern.MatchString(src.Table) {
		return nil, fmt.Errorf("invalid or missing table parameter %q", src.Table)
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid limit %q", l)
		}
		src.Limit = n
	}
	q.Del("table")
	q.Del("limit")

	switch u.Scheme {
	case "postgres", "postgresql":
		src.Driver = "postgres"
		u.RawQuery = q.Encode()
		src.DSN = u.String()
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		cfg.ParseTime = true
		src.Driver = "mysql"
		src.DSN = cfg.FormatDSN()
	case "sqlite":
		src.Driver = "sqlite"
		src.DSN = u.Host + u.Path
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
	return src, nil
}

func (s *SQLSource) Locator() string {
	if s.display != "" {
		return s.display
	}
	return s.Driver + ":" + s.Table
}

// Load selects every row of the table and converts cells to text
func (s *SQLSource) Load(ctx context.Context) (*models.Table, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	db, err := sql.Open(s.Driver, s.DSN)
	if err != nil {
		return nil, loadFailure(s.Locator(), "open %s: %w", s.Driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, loadFailure(s.Locator(), "connect: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM %s", s.Table)
	if s.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", s.Limit)
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, loadFailure(s.Locator(), "query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, loadFailure(s.Locator(), "columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, loadFailure(s.Locator(), "scan: %w", err)
		}

		record := make([]string, len(columns))
		for i, val := range values {
			record[i] = cellText(val)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, loadFailure(s.Locator(), "rows: %w", err)
	}

	table, err := BuildTable(s.Locator(), columns, records)
	if err != nil {
		return nil, loadFailure(s.Locator(), "%w", err)
	}
	return table, nil
}

func cellText(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}

// HTTPSource fetches CSV text over HTTP(S), e.g. a Google Sheets export
type HTTPSource struct {
	URL    string
	Client *http.Client
	// MaxBytes bounds the body; larger bodies fail instead of being cut short
	MaxBytes int64
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{URL: rawURL, Client: &http.Client{Timeout: timeout}, MaxBytes: MaxSourceBytes}
}

func (s *HTTPSource) Locator() string {
	if u, err := url.Parse(s.URL); err == nil {
		return u.Redacted()
	}
	return s.URL
}

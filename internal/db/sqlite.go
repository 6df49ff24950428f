package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/psiview/internal/models"

	_ "modernc.org/sqlite"
)

// ErrReportNotFound is returned when no report has the requested name
var ErrReportNotFound = errors.New("report not found")

// Setting keys
const (
	SettingLastReport = "last_report"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Foreign keys are per connection in SQLite
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schemas := []struct {
		name string
		ddl  string
	}{
		{"reports", createReportsTable},
		{"audit_records", createAuditRecordsTable},
		{"settings", createSettingsTable},
	}
	for _, s := range schemas {
		if _, err := conn.Exec(s.ddl); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", s.name, err)
		}
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ListProjectFiles returns a list of .db files in the given directory
func ListProjectFiles(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".db" {
			projects = append(projects, name)
		}
	}
	return projects, nil
}

// SaveReport stores records under name, replacing any report with the same
// name. Returns the new report's row ID.
func (db *DB) SaveReport(name, source string, records []models.Record) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("report name is required")
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteRecordsByReportName, name); err != nil {
		return 0, fmt.Errorf("failed to clear previous records: %w", err)
	}
	if _, err := tx.Exec(deleteReportByName, name); err != nil {
		return 0, fmt.Errorf("failed to replace report: %w", err)
	}

	res, err := tx.Exec(insertReport, name, source)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}

	stmt, err := tx.Prepare(insertAuditRecord)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		scores, err := encodeJSON(r.Scores, r.Scores == nil)
		if err != nil {
			return 0, err
		}
		metrics, err := encodeJSON(r.Metrics, r.Metrics == nil)
		if err != nil {
			return 0, err
		}
		opps, err := encodeJSON(r.Opportunities, len(r.Opportunities) == 0)
		if err != nil {
			return 0, err
		}

		var loadTime sql.NullFloat64
		if ms, ok := r.LoadTime(); ok {
			loadTime = sql.NullFloat64{Float64: ms, Valid: true}
		}

		_, err = stmt.Exec(
			reportID,
			i,
			r.ID,
			r.URL,
			r.FinalURL,
			r.RootDomain,
			string(r.Strategy),
			string(r.Status),
			r.ErrorMessage,
			scores,
			loadTime,
			metrics,
			opps,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reportID, nil
}

// GetReports returns every stored report, oldest first
func (db *DB) GetReports() ([]models.ReportInfo, error) {
	rows, err := db.conn.Query(selectReports)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.ReportInfo
	for rows.Next() {
		var r models.ReportInfo
		var importedAt string
		if err := rows.Scan(&r.Name, &r.Source, &importedAt, &r.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.ImportedAt, _ = parseTimestamp(importedAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetRecords returns the records of a report in their original order
func (db *DB) GetRecords(name string) ([]models.Record, error) {
	var reportID int64
	err := db.conn.QueryRow(selectReportID, name).Scan(&reportID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up report: %w", err)
	}

	rows, err := db.conn.Query(selectAuditRecords, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var strategy, status string
		var scores, metrics, opps sql.NullString
		var loadTime sql.NullFloat64

		if err := rows.Scan(&r.ID, &r.URL, &r.FinalURL, &r.RootDomain, &strategy, &status,
			&r.ErrorMessage, &scores, &loadTime, &metrics, &opps); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Strategy = models.Strategy(strategy)
		r.Status = models.Status(status)

		if loadTime.Valid {
			ms := loadTime.Float64
			r.LoadTimeMs = &ms
		}
		if scores.Valid {
			if err := json.Unmarshal([]byte(scores.String), &r.Scores); err != nil {
				return nil, fmt.Errorf("failed to decode scores for %s: %w", r.URL, err)
			}
		}
		if metrics.Valid {
			r.Metrics = &models.Metrics{}
			if err := json.Unmarshal([]byte(metrics.String), r.Metrics); err != nil {
				return nil, fmt.Errorf("failed to decode metrics for %s: %w", r.URL, err)
			}
		}
		if opps.Valid {
			if err := json.Unmarshal([]byte(opps.String), &r.Opportunities); err != nil {
				return nil, fmt.Errorf("failed to decode opportunities for %s: %w", r.URL, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteReport removes a report and its records
func (db *DB) DeleteReport(name string) error {
	if _, err := db.conn.Exec(deleteRecordsByReportName, name); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	res, err := db.conn.Exec(deleteReportByName, name)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	return nil
}

// SetSetting saves a setting to the database
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(upsertSetting, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// GetSetting retrieves a setting from the database
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(selectSetting, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil // Not found, return empty string
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

func encodeJSON(v interface{}, null bool) (sql.NullString, error) {
	if null {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}

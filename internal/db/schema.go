package db

// Schema for imported reports
const createReportsTable = `
CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    source TEXT,
    imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// One row per audited URL/strategy pair. position keeps the report's order.
const createAuditRecordsTable = `
CREATE TABLE IF NOT EXISTS audit_records (
    report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    record_id TEXT NOT NULL,
    url TEXT NOT NULL,
    final_url TEXT,
    root_domain TEXT,
    strategy TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    scores TEXT,
    load_time_ms REAL,
    metrics TEXT,
    opportunities TEXT,
    PRIMARY KEY (report_id, position)
);

CREATE INDEX IF NOT EXISTS idx_audit_records_domain ON audit_records(root_domain);
`

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const insertReport = `
INSERT INTO reports (name, source) VALUES (?, ?)
`

const deleteReportByName = `
DELETE FROM reports WHERE name = ?
`

const deleteRecordsByReportName = `
DELETE FROM audit_records WHERE report_id IN (SELECT id FROM reports WHERE name = ?)
`

const selectReportID = `
SELECT id FROM reports WHERE name = ?
`

const selectReports = `
SELECT r.name, COALESCE(r.source, ''), r.imported_at, COUNT(a.position)
FROM reports r
LEFT JOIN audit_records a ON a.report_id = r.id
GROUP BY r.id
ORDER BY r.imported_at, r.id
`

const insertAuditRecord = `
INSERT INTO audit_records (
    report_id, position, record_id, url, final_url, root_domain,
    strategy, status, error, scores, load_time_ms, metrics, opportunities
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectAuditRecords = `
SELECT record_id, url, COALESCE(final_url, ''), COALESCE(root_domain, ''),
       strategy, status, COALESCE(error, ''), scores, load_time_ms, metrics, opportunities
FROM audit_records
WHERE report_id = ?
ORDER BY position
`

const upsertSetting = `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

const selectSetting = `
SELECT value FROM settings WHERE key = ?
`

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"invoiceparts/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL,
  hash TEXT NOT NULL UNIQUE,
  docDate TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  error TEXT NOT NULL DEFAULT '',
  recordCount INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  date TEXT NOT NULL,
  partNumber TEXT NOT NULL,
  description TEXT NOT NULL,
  UNIQUE(documentId, seq),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_records_partNumber ON records(partNumber);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveDocument stores the outcome of one document under its content hash,
// replacing whatever was stored for that hash before. A non-nil readErr marks
// the document failed and stores no records.
func (d *DB) SaveDocument(path, hash string, doc internal.ExtractedDocument, readErr error) (internal.DocumentRow, error) {
	status := internal.DocumentProcessed
	errText := ""
	items := doc.Items
	if readErr != nil {
		status = internal.DocumentFailed
		errText = readErr.Error()
		items = nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return internal.DocumentRow{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// A document saved again moves to the end of the ledger.
	if _, err := tx.Exec(`DELETE FROM records WHERE documentId IN (SELECT id FROM documents WHERE hash = ?)`, hash); err != nil {
		return internal.DocumentRow{}, err
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE hash = ?`, hash); err != nil {
		return internal.DocumentRow{}, err
	}

	res, err := tx.Exec(`
INSERT INTO documents (path, hash, docDate, status, error, recordCount)
VALUES (?, ?, ?, ?, ?, ?)
`, path, hash, doc.Date, string(status), errText, len(items))
	if err != nil {
		return internal.DocumentRow{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return internal.DocumentRow{}, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO records (documentId, seq, date, partNumber, description)
VALUES (?, ?, ?, ?, ?)
`)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(id, i+1, doc.Date, item.PartNumber, item.Description); err != nil {
			return internal.DocumentRow{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return internal.DocumentRow{}, err
	}

	row, err := d.GetDocumentByHash(hash)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, errors.New("failed to save document")
	}
	return *row, nil
}

func (d *DB) GetDocumentByHash(hash string) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	err := d.conn.QueryRow(`
SELECT id, path, hash, docDate, status, error, recordCount, createdAt
FROM documents WHERE hash = ?
`, hash).Scan(
		&row.ID, &row.Path, &row.Hash, &row.DocDate, &row.Status, &row.Error, &row.RecordCount, &row.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListDocuments() ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, path, hash, docDate, status, error, recordCount, createdAt
FROM documents ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var row internal.DocumentRow
		if err := rows.Scan(&row.ID, &row.Path, &row.Hash, &row.DocDate, &row.Status, &row.Error, &row.RecordCount, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListRecords returns every stored record in ingestion order.
func (d *DB) ListRecords() ([]internal.Record, error) {
	rows, err := d.conn.Query(`
SELECT r.date, r.partNumber, r.description
FROM records r
JOIN documents doc ON doc.id = r.documentId
ORDER BY doc.id ASC, r.seq ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Record
	for rows.Next() {
		var r internal.Record
		if err := rows.Scan(&r.Date, &r.PartNumber, &r.Description); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, err := json.Marshal(timings)
	if err != nil {
		return fmt.Errorf("encode timings: %w", err)
	}
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}
	_, err = d.conn.Exec(`INSERT INTO runs (traceId, timingsJson, countsJson) VALUES (?, ?, ?)`, traceID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) CountRuns() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

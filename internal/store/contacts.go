package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"leadscout-engine/internal/domain"
)

// Contact is the tabular shape the UI and the CSV export consume:
// emails and phones are comma-joined, possibly empty.
type Contact struct {
	ID        int64  `json:"id"`
	Keyword   string `json:"keyword"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Emails    string `json:"emails"`
	Phones    string `json:"phones"`
	ScrapedAt string `json:"scrapedAt"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS contacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  keyword TEXT NOT NULL,
  url TEXT NOT NULL,
  domain TEXT NOT NULL,
  emails TEXT NOT NULL DEFAULT '',
  phones TEXT NOT NULL DEFAULT '',
  scraped_at TEXT NOT NULL
);
PRAGMA user_version = 1;
`); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceRun swaps the result set for a fresh run's records, keeping
// their visit order.
func ReplaceRun(ctx context.Context, db *sql.DB, recs []domain.ContactRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts;`); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO contacts(keyword, url, domain, emails, phones, scraped_at)
VALUES(?,?,?,?,?,?);`,
			rec.Keyword,
			rec.URL,
			rec.Domain,
			strings.Join(rec.Emails, ", "),
			strings.Join(rec.Phones, ", "),
			now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func ListContacts(ctx context.Context, db *sql.DB) ([]Contact, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, keyword, url, domain, emails, phones, scraped_at
FROM contacts
ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Keyword, &c.URL, &c.Domain, &c.Emails, &c.Phones, &c.ScrapedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func ClearContacts(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DELETE FROM contacts;`)
	return err
}

// ExportCSV streams the result set in spreadsheet form.
func ExportCSV(ctx context.Context, db *sql.DB, w io.Writer) error {
	list, err := ListContacts(ctx, db)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"keyword", "url", "domain", "emails", "phones"}); err != nil {
		return err
	}
	for _, c := range list {
		if err := cw.Write([]string{c.Keyword, c.URL, c.Domain, c.Emails, c.Phones}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

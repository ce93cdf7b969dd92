package data

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leadpulse/leadctl/pkg/lead"
)

const (
	insertLeadSQL = `INSERT INTO lead (
			id, name, title, company, email, phone, location, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = ?,
			title = ?,
			company = ?,
			email = ?,
			phone = ?,
			location = ?,
			updated_at = ?
	`

	insertLeadSourceSQL = `INSERT INTO lead_source (lead_id, source, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(lead_id, source) DO NOTHING
	`

	insertSignalSQL = `INSERT INTO signal (
			lead_id, name, value, source, observed_at, confidence
		)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(lead_id, name, source, value) DO UPDATE SET
			observed_at = ?,
			confidence = ?
	`

	selectLeadSQL = `SELECT
			id,
			name,
			COALESCE(title, ''),
			COALESCE(company, ''),
			COALESCE(email, ''),
			COALESCE(phone, ''),
			COALESCE(location, ''),
			updated_at
		FROM lead
		WHERE id = ?
	`

	selectLeadSourcesSQL = `SELECT source FROM lead_source WHERE lead_id = ? ORDER BY seq`

	selectLeadSignalsSQL = `SELECT
			name,
			value,
			source,
			COALESCE(observed_at, ''),
			COALESCE(confidence, 0)
		FROM signal
		WHERE lead_id = ?
		ORDER BY name, source, value
	`

	queryLeadSQL = `SELECT
			id,
			name,
			COALESCE(company, '') AS company
		FROM lead
		WHERE name LIKE ?
		OR company LIKE ?
		OR title LIKE ?
		ORDER BY name
		LIMIT ?
	`
)

// LeadListItem is the compact search result row.
type LeadListItem struct {
	ID      string `json:"lead_id" yaml:"leadId"`
	Name    string `json:"name" yaml:"name"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
}

// SaveLeads upserts the canonical leads with their sources and signals in a
// single transaction.
func SaveLeads(db *sql.DB, leads []*lead.CanonicalLead) error {
	if db == nil {
		return errDBNotInitialized
	}

	if len(leads) == 0 {
		return nil
	}

	leadStmt, err := db.Prepare(insertLeadSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare lead insert statement: %w", err)
	}

	sourceStmt, err := db.Prepare(insertLeadSourceSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare lead source insert statement: %w", err)
	}

	signalStmt, err := db.Prepare(insertSignalSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare signal insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, c := range leads {
		updated := formatTime(c.LastUpdated)
		if _, err = tx.Stmt(leadStmt).Exec(c.ID,
			c.Name, c.Title, c.Company, c.Email, c.Phone, c.Location, updated,
			c.Name, c.Title, c.Company, c.Email, c.Phone, c.Location, updated); err != nil {
			slog.Error("failed to insert lead",
				"index", i,
				"error", err,
				"lead", c.ID,
				"name", c.Name,
				"company", c.Company,
			)
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting lead[%d]: %s: %w", i, c.ID, err)
		}

		for seq, src := range c.Sources {
			if _, err = tx.Stmt(sourceStmt).Exec(c.ID, src, seq); err != nil {
				rollbackTransaction(tx)
				return fmt.Errorf("error inserting source %s for lead %s: %w", src, c.ID, err)
			}
		}

		for _, list := range c.Signals {
			for _, s := range list {
				at := formatTime(s.At)
				if _, err = tx.Stmt(signalStmt).Exec(c.ID, s.Name, s.Value, s.Source, at, s.Confidence,
					at, s.Confidence); err != nil {
					rollbackTransaction(tx)
					return fmt.Errorf("error inserting signal %s for lead %s: %w", s.Name, c.ID, err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLead loads one canonical lead with its sources and signal set.
// Returns nil without error when the lead does not exist.
func GetLead(db *sql.DB, id string) (*lead.CanonicalLead, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectLeadSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare lead select statement: %w", err)
	}

	row := stmt.QueryRow(id)

	c := &lead.CanonicalLead{Signals: make(map[string][]lead.Signal)}
	var updated string
	if err = row.Scan(&c.ID, &c.Name, &c.Title, &c.Company, &c.Email, &c.Phone, &c.Location, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	c.LastUpdated = parseTime(updated)

	if c.Sources, err = getLeadSources(db, id); err != nil {
		return nil, err
	}
	if err = loadSignals(db, c); err != nil {
		return nil, err
	}

	return c, nil
}

func getLeadSources(db *sql.DB, id string) ([]string, error) {
	stmt, err := db.Prepare(selectLeadSourcesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare lead source select statement: %w", err)
	}

	rows, err := stmt.Query(id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute lead source select statement: %w", err)
	}
	defer rows.Close()

	list := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		list = append(list, s)
	}

	return list, nil
}

func loadSignals(db *sql.DB, c *lead.CanonicalLead) error {
	stmt, err := db.Prepare(selectLeadSignalsSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare signal select statement: %w", err)
	}

	rows, err := stmt.Query(c.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to execute signal select statement: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s lead.Signal
		var at string
		if err := rows.Scan(&s.Name, &s.Value, &s.Source, &at, &s.Confidence); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		s.At = parseTime(at)
		c.Signals[s.Name] = append(c.Signals[s.Name], s)
	}

	return nil
}

// SearchLeads returns a list of leads matching the given query.
func SearchLeads(db *sql.DB, val string, limit int) ([]*LeadListItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(queryLeadSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare lead query statement: %w", err)
	}

	val = fmt.Sprintf("%%%s%%", val)
	rows, err := stmt.Query(val, val, val, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*LeadListItem, 0)
	for rows.Next() {
		item := &LeadListItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Company); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		list = append(list, item)
	}

	return list, nil
}

package data

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/score"
)

const (
	insertScoreSQL = `INSERT INTO score (
			lead_id, role_fit, scientific_intent, company_intent,
			technographic, location_score, raw_total, normalized_total, scored_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lead_id) DO UPDATE SET
			role_fit = ?,
			scientific_intent = ?,
			company_intent = ?,
			technographic = ?,
			location_score = ?,
			raw_total = ?,
			normalized_total = ?,
			scored_at = ?
	`

	selectScoreSQL = `SELECT
			lead_id, role_fit, scientific_intent, company_intent,
			technographic, location_score, raw_total, normalized_total, scored_at
		FROM score
		WHERE lead_id = ?
	`
)

// SaveScores upserts score breakdowns in a single transaction. A lead has
// exactly one breakdown per scoring run; re-scoring replaces it wholesale.
func SaveScores(db *sql.DB, breakdowns []*score.Breakdown) error {
	if db == nil {
		return errDBNotInitialized
	}

	if len(breakdowns) == 0 {
		return nil
	}

	stmt, err := db.Prepare(insertScoreSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert statement: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, b := range breakdowns {
		at := formatTime(b.ScoredAt)
		if _, err = tx.Stmt(stmt).Exec(b.LeadID,
			b.RoleFit, b.ScientificIntent, b.CompanyIntent, b.Technographic,
			b.Location, b.RawTotal, b.NormalizedTotal, at,
			b.RoleFit, b.ScientificIntent, b.CompanyIntent, b.Technographic,
			b.Location, b.RawTotal, b.NormalizedTotal, at); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("error inserting score[%d]: %s: %w", i, b.LeadID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetScore loads the breakdown for one lead, or nil when the lead has not
// been scored.
func GetScore(db *sql.DB, leadID string) (*score.Breakdown, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectScoreSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare score select statement: %w", err)
	}

	row := stmt.QueryRow(leadID)

	b := &score.Breakdown{}
	var at string
	if err = row.Scan(&b.LeadID, &b.RoleFit, &b.ScientificIntent, &b.CompanyIntent,
		&b.Technographic, &b.Location, &b.RawTotal, &b.NormalizedTotal, &at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	b.ScoredAt = parseTime(at)

	return b, nil
}

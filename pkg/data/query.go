package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/lead"
	"github.com/leadpulse/leadctl/pkg/rank"
	"github.com/leadpulse/leadctl/pkg/score"
)

const (
	selectScoredLeadsSQL = `SELECT
			l.id,
			l.name,
			COALESCE(l.title, ''),
			COALESCE(l.company, ''),
			COALESCE(l.email, ''),
			COALESCE(l.phone, ''),
			COALESCE(l.location, ''),
			l.updated_at,
			s.role_fit,
			s.scientific_intent,
			s.company_intent,
			s.technographic,
			s.location_score,
			s.raw_total,
			s.normalized_total,
			s.scored_at
		FROM lead l
		JOIN score s ON l.id = s.lead_id
		WHERE s.normalized_total >= COALESCE(?, s.normalized_total)
		AND l.location LIKE COALESCE(?, l.location)
		AND (l.name LIKE COALESCE(?, l.name)
			OR l.company LIKE COALESCE(?, l.company)
			OR l.title LIKE COALESCE(?, l.title))
		ORDER BY s.normalized_total DESC, l.id
		LIMIT ? OFFSET ?
	`
)

// ScoredLeadCriteria narrows the scored-lead query. Nil pointers mean no
// constraint on that dimension.
type ScoredLeadCriteria struct {
	MinScore *float64 `json:"min_score,omitempty"`
	Location *string  `json:"location,omitempty"`
	Query    *string  `json:"query,omitempty"`
	Page     int      `json:"page,omitempty"`
	PageSize int      `json:"page_size,omitempty"`
}

func (c ScoredLeadCriteria) String() string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

func optionalLike(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := fmt.Sprintf("%%%s%%", *s)
	return &v
}

// QueryScoredLeads returns leads joined with their score breakdowns, ready
// for the ranking pipeline. Signals and sources are loaded per lead so the
// candidates carry the full canonical record.
func QueryScoredLeads(db *sql.DB, q *ScoredLeadCriteria) ([]rank.Candidate, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectScoredLeadsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scored lead statement: %w", err)
	}

	if q.PageSize <= 0 {
		q.PageSize = 100
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	offset := (q.Page - 1) * q.PageSize

	like := optionalLike(q.Query)
	rows, err := stmt.Query(q.MinScore, optionalLike(q.Location), like, like, like, q.PageSize, offset)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute scored lead statement: %w", err)
	}
	defer rows.Close()

	list := make([]rank.Candidate, 0)
	for rows.Next() {
		c := &lead.CanonicalLead{Signals: make(map[string][]lead.Signal)}
		b := &score.Breakdown{}
		var updated, scored string
		if err := rows.Scan(&c.ID, &c.Name, &c.Title, &c.Company, &c.Email, &c.Phone, &c.Location,
			&updated, &b.RoleFit, &b.ScientificIntent, &b.CompanyIntent, &b.Technographic,
			&b.Location, &b.RawTotal, &b.NormalizedTotal, &scored); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		c.LastUpdated = parseTime(updated)
		b.LeadID = c.ID
		b.ScoredAt = parseTime(scored)
		list = append(list, rank.Candidate{Lead: c, Score: b})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	for _, cand := range list {
		if cand.Lead.Sources, err = getLeadSources(db, cand.Lead.ID); err != nil {
			return nil, err
		}
		if err = loadSignals(db, cand.Lead); err != nil {
			return nil, err
		}
	}

	return list, nil
}

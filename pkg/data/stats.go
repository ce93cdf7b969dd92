package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	selectLeadCountsSQL = `SELECT
			(SELECT COUNT(*) FROM lead),
			(SELECT COUNT(*) FROM score),
			(SELECT COALESCE(AVG(normalized_total), 0) FROM score),
			(SELECT COUNT(*) FROM score WHERE normalized_total >= 80),
			(SELECT COUNT(DISTINCT lead_id) FROM signal WHERE name = 'recent_paper_topic'),
			(SELECT COUNT(*) FROM score WHERE location_score > 0)
	`

	selectScoreBandsSQL = `SELECT
			CASE
				WHEN normalized_total < 30 THEN 'low'
				WHEN normalized_total < 60 THEN 'medium'
				WHEN normalized_total < 80 THEN 'high'
				ELSE 'very_high'
			END AS band,
			COUNT(*)
		FROM score
		GROUP BY band
	`

	selectTopCompaniesSQL = `SELECT
			company,
			COUNT(*) AS leads
		FROM lead
		WHERE company IS NOT NULL AND company != ''
		GROUP BY company
		ORDER BY 2 DESC, 1
		LIMIT ?
	`
)

// LeadStats summarizes the current lead set.
type LeadStats struct {
	TotalLeads     int            `json:"total_leads" yaml:"totalLeads"`
	ScoredLeads    int            `json:"scored_leads" yaml:"scoredLeads"`
	AverageScore   float64        `json:"average_score" yaml:"averageScore"`
	HighPropensity int            `json:"high_propensity_leads" yaml:"highPropensityLeads"`
	WithPapers     int            `json:"with_papers" yaml:"withPapers"`
	InHubs         int            `json:"in_hubs" yaml:"inHubs"`
	ScoreBands     map[string]int `json:"score_distribution" yaml:"scoreDistribution"`
	TopCompanies   []*CountedItem `json:"top_companies" yaml:"topCompanies"`
}

// GetLeadStats aggregates counts, score bands, and top companies.
func GetLeadStats(db *sql.DB, topCompanies int) (*LeadStats, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stats := &LeadStats{
		ScoreBands:   map[string]int{"low": 0, "medium": 0, "high": 0, "very_high": 0},
		TopCompanies: make([]*CountedItem, 0),
	}

	row := db.QueryRow(selectLeadCountsSQL)
	if err := row.Scan(&stats.TotalLeads, &stats.ScoredLeads, &stats.AverageScore,
		&stats.HighPropensity, &stats.WithPapers, &stats.InHubs); err != nil {
		return nil, fmt.Errorf("failed to scan counts: %w", err)
	}

	rows, err := db.Query(selectScoreBandsSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute score band statement: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var band string
		var count int
		if err := rows.Scan(&band, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stats.ScoreBands[band] = count
	}

	stmt, err := db.Prepare(selectTopCompaniesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare top company statement: %w", err)
	}

	companyRows, err := stmt.Query(topCompanies)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute top company statement: %w", err)
	}
	defer companyRows.Close()

	for companyRows.Next() {
		item := &CountedItem{}
		if err := companyRows.Scan(&item.Name, &item.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stats.TopCompanies = append(stats.TopCompanies, item)
	}

	return stats, nil
}

// Package rank filters and orders scored leads for downstream consumption.
// Everything here is pure: the same candidates and filter always yield the
// same ordered sequence.
package rank

import (
	"sort"
	"strings"

	"github.com/leadpulse/leadctl/pkg/lead"
	"github.com/leadpulse/leadctl/pkg/score"
)

// Candidate pairs a canonical lead with its score breakdown.
type Candidate struct {
	Lead  *lead.CanonicalLead `json:"lead" yaml:"lead"`
	Score *score.Breakdown    `json:"score" yaml:"score"`
}

// RankedLead is a candidate with its 1-based position after sorting.
// Ephemeral, rebuilt on every ranking pass.
type RankedLead struct {
	Rank  int                 `json:"rank" yaml:"rank"`
	Lead  *lead.CanonicalLead `json:"lead" yaml:"lead"`
	Score *score.Breakdown    `json:"score" yaml:"score"`
}

// FilterSpec narrows the candidate set before ranking. Zero values mean
// "no constraint".
type FilterSpec struct {
	RoleKeywords []string `json:"role_keywords,omitempty" yaml:"role_keywords,omitempty"`
	MinScore     float64  `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	Locations    []string `json:"locations,omitempty" yaml:"locations,omitempty"`
	Search       string   `json:"search,omitempty" yaml:"search,omitempty"`
}

// Rank filters candidates, sorts them descending by normalized score with
// ties broken by lead ID, and assigns 1-based ranks.
func Rank(candidates []Candidate, f FilterSpec) []RankedLead {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Lead == nil || c.Score == nil {
			continue
		}
		if f.matches(c) {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		si, sj := kept[i].Score.NormalizedTotal, kept[j].Score.NormalizedTotal
		if si != sj {
			return si > sj
		}
		return kept[i].Lead.ID < kept[j].Lead.ID
	})

	ranked := make([]RankedLead, 0, len(kept))
	for i, c := range kept {
		ranked = append(ranked, RankedLead{Rank: i + 1, Lead: c.Lead, Score: c.Score})
	}
	return ranked
}

func (f FilterSpec) matches(c Candidate) bool {
	if c.Score.NormalizedTotal < f.MinScore {
		return false
	}

	if len(f.RoleKeywords) > 0 {
		title := strings.ToLower(c.Lead.Title)
		found := false
		for _, kw := range f.RoleKeywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Locations) > 0 {
		loc := strings.ToLower(c.Lead.Location)
		found := false
		for _, l := range f.Locations {
			if strings.Contains(loc, strings.ToLower(l)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hay := strings.ToLower(c.Lead.Name + " " + c.Lead.Company + " " + c.Lead.Title)
		if !strings.Contains(hay, q) {
			return false
		}
	}

	return true
}

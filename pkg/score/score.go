package score

import (
	"strings"
	"time"

	"github.com/leadpulse/leadctl/pkg/lead"
)

// Breakdown is the read-only result of scoring one canonical lead.
// Recomputed wholesale on every scoring pass, never mutated.
type Breakdown struct {
	LeadID           string    `json:"lead_id" yaml:"leadId"`
	RoleFit          float64   `json:"role_fit" yaml:"roleFit"`
	ScientificIntent float64   `json:"scientific_intent" yaml:"scientificIntent"`
	CompanyIntent    float64   `json:"company_intent" yaml:"companyIntent"`
	Technographic    float64   `json:"technographic" yaml:"technographic"`
	Location         float64   `json:"location_score" yaml:"locationScore"`
	RawTotal         float64   `json:"raw_total" yaml:"rawTotal"`
	NormalizedTotal  float64   `json:"normalized_total" yaml:"normalizedTotal"`
	ScoredAt         time.Time `json:"scored_at" yaml:"scoredAt"`
}

// Score computes the propensity breakdown for one lead. It is pure: the same
// lead, config, and now always produce an identical breakdown, and scoring
// one lead can never affect another.
func Score(l *lead.CanonicalLead, cfg *Config, now time.Time) (*Breakdown, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Breakdown{
		LeadID:           l.ID,
		RoleFit:          roleFit(l.Title, cfg),
		ScientificIntent: scientificIntent(l, cfg, now),
		CompanyIntent:    companyIntent(l, cfg, now),
		Technographic:    technographic(l, cfg),
		Location:         locationScore(l, cfg),
		ScoredAt:         now,
	}

	b.RawTotal = b.RoleFit + b.ScientificIntent + b.CompanyIntent + b.Technographic + b.Location
	b.NormalizedTotal = clamp(100*b.RawTotal/cfg.TotalWeight(), 0, 100)

	return b, nil
}

// roleFit scales with the number of role keywords matched in the title,
// up to the configured match cap.
func roleFit(title string, cfg *Config) float64 {
	if title == "" {
		return 0
	}
	title = strings.ToLower(title)

	matched := 0
	for _, kw := range cfg.RoleKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			matched++
		}
	}
	if matched > cfg.RoleMatchCap {
		matched = cfg.RoleMatchCap
	}

	w := cfg.Weights[CategoryRoleFit]
	return w * float64(matched) / float64(cfg.RoleMatchCap)
}

// scientificIntent awards the full weight for a qualifying publication
// within the recency window, half for a qualifying but stale one.
func scientificIntent(l *lead.CanonicalLead, cfg *Config, now time.Time) float64 {
	w := cfg.Weights[CategoryScientificIntent]

	best := 0.0
	for _, s := range l.SignalValues(lead.SignalPaperTopic) {
		if !containsAny(s.Value, cfg.TopicTerms) {
			continue
		}
		if withinWindow(s.At, now, cfg.RecencyWindowDays) {
			return w
		}
		if half := w / 2; half > best {
			best = half
		}
	}
	return best
}

// companyIntent awards the full weight for a Series A/B round within the
// recency window, half for an older one, nothing otherwise.
func companyIntent(l *lead.CanonicalLead, cfg *Config, now time.Time) float64 {
	w := cfg.Weights[CategoryCompanyIntent]

	best := 0.0
	for _, s := range l.SignalValues(lead.SignalFundingRound) {
		round := strings.ToLower(s.Value)
		if !strings.Contains(round, "series a") && !strings.Contains(round, "series b") {
			continue
		}
		if withinWindow(s.At, now, cfg.RecencyWindowDays) {
			return w
		}
		if half := w / 2; half > best {
			best = half
		}
	}
	return best
}

// technographic is binary: any in-vitro/NAMs technology signal earns the
// full weight.
func technographic(l *lead.CanonicalLead, cfg *Config) float64 {
	for _, s := range l.SignalValues(lead.SignalTechStack) {
		if containsAny(s.Value, cfg.TechTerms) {
			return cfg.Weights[CategoryTechnographic]
		}
	}
	return 0
}

func locationScore(l *lead.CanonicalLead, cfg *Config) float64 {
	if l.Location == "" {
		return 0
	}
	loc := strings.ToLower(l.Location)
	for _, hub := range cfg.HubLocations {
		if strings.Contains(loc, strings.ToLower(hub)) {
			return cfg.Weights[CategoryLocation]
		}
	}
	return 0
}

// containsAny reports whether any term occurs in val starting at a word
// boundary. Terms act as prefixes, so "hepatotox" matches "hepatotoxicity"
// while "liver" stays out of "delivery".
func containsAny(val string, terms []string) bool {
	val = strings.ToLower(val)
	for _, t := range terms {
		if containsTerm(val, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func containsTerm(val, term string) bool {
	if term == "" {
		return false
	}
	for i := 0; ; {
		j := strings.Index(val[i:], term)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isWordByte(val[at-1]) {
			return true
		}
		i = at + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// withinWindow reports whether at falls inside the recency window ending at
// now. Undated signals are treated as stale, not recent.
func withinWindow(at, now time.Time, days int) bool {
	if at.IsZero() {
		return false
	}
	cutoff := now.AddDate(0, 0, -days)
	return at.After(cutoff) && !at.After(now)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package score

import (
	"fmt"
)

// Category identifies one scoring dimension.
type Category string

const (
	CategoryRoleFit          Category = "role_fit"
	CategoryScientificIntent Category = "scientific_intent"
	CategoryCompanyIntent    Category = "company_intent"
	CategoryTechnographic    Category = "technographic"
	CategoryLocation         Category = "location"
)

// Categories lists every scoring dimension. A valid config carries a weight
// for each of them.
var Categories = []Category{
	CategoryRoleFit,
	CategoryScientificIntent,
	CategoryCompanyIntent,
	CategoryTechnographic,
	CategoryLocation,
}

// ConfigError indicates an unusable scoring configuration. It is fatal to
// the scoring call and raised before any score is computed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid scoring config: %s: %s", e.Field, e.Reason)
}

// Config is the scoring configuration surface.
//
// The declared default weights sum to 115, not 100. That is intentional
// documentation of the source material; normalization always divides by the
// live TotalWeight, so the scale stays correct whatever the weights sum to.
type Config struct {
	RoleKeywords      []string             `json:"role_keywords" yaml:"role_keywords"`
	RoleMatchCap      int                  `json:"role_match_cap" yaml:"role_match_cap"`
	HubLocations      []string             `json:"hub_locations" yaml:"hub_locations"`
	TopicTerms        []string             `json:"topic_terms" yaml:"topic_terms"`
	TechTerms         []string             `json:"tech_terms" yaml:"tech_terms"`
	RecencyWindowDays int                  `json:"recency_window_days" yaml:"recency_window_days"`
	Weights           map[Category]float64 `json:"category_weights" yaml:"category_weights"`
}

// Default returns the stock toxicology/preclinical-safety configuration.
func Default() *Config {
	return &Config{
		RoleKeywords: []string{
			"toxicology", "safety", "hepatic", "3d",
			"preclinical", "dili", "director", "head",
		},
		RoleMatchCap: 2,
		HubLocations: []string{
			"Boston", "Bay Area", "Basel", "UK Triangle", "Cambridge MA",
			"San Diego", "Research Triangle Park", "Seattle", "New York",
		},
		TopicTerms: []string{
			"liver", "hepatic", "hepatotox", "toxicity", "toxicology", "dili",
		},
		TechTerms: []string{
			"in-vitro", "in vitro", "nams", "organ-on-chip",
			"spheroid", "microphysiological",
		},
		RecencyWindowDays: 365,
		Weights: map[Category]float64{
			CategoryRoleFit:          30,
			CategoryScientificIntent: 40,
			CategoryCompanyIntent:    20,
			CategoryTechnographic:    15,
			CategoryLocation:         10,
		},
	}
}

// Validate checks that every weight and keyword set required for scoring is
// present. Missing weights are never silently defaulted.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Reason: "nil"}
	}
	if len(c.RoleKeywords) == 0 {
		return &ConfigError{Field: "role_keywords", Reason: "empty"}
	}
	if c.RoleMatchCap <= 0 {
		return &ConfigError{Field: "role_match_cap", Reason: "must be positive"}
	}
	if len(c.HubLocations) == 0 {
		return &ConfigError{Field: "hub_locations", Reason: "empty"}
	}
	if len(c.TopicTerms) == 0 {
		return &ConfigError{Field: "topic_terms", Reason: "empty"}
	}
	if len(c.TechTerms) == 0 {
		return &ConfigError{Field: "tech_terms", Reason: "empty"}
	}
	if c.RecencyWindowDays <= 0 {
		return &ConfigError{Field: "recency_window_days", Reason: "must be positive"}
	}
	for _, cat := range Categories {
		w, ok := c.Weights[cat]
		if !ok {
			return &ConfigError{Field: string(cat), Reason: "weight missing"}
		}
		if w <= 0 {
			return &ConfigError{Field: string(cat), Reason: "weight must be positive"}
		}
	}
	return nil
}

// TotalWeight is the normalization constant: the live sum of configured
// category weights, never a hardcoded 100.
func (c *Config) TotalWeight() float64 {
	var total float64
	for _, cat := range Categories {
		total += c.Weights[cat]
	}
	return total
}

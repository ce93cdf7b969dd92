package lead

import (
	"time"
)

// Known provider source IDs. Adapters register their mappers under these.
const (
	SourceHunter     = "hunter"
	SourceProxycurl  = "proxycurl"
	SourcePubMed     = "pubmed"
	SourceClearbit   = "clearbit"
	SourceCrunchbase = "crunchbase"
)

// Canonical signal names emitted by provider adapters.
const (
	SignalPaperTopic    = "recent_paper_topic"
	SignalFundingRound  = "funding_round"
	SignalTechStack     = "tech_stack"
	SignalEmailVerified = "email_verified"
)

// Signal is one piece of evidence about a lead (publication, funding event,
// technology use). At is the date of the underlying event, not the fetch time.
type Signal struct {
	Name       string    `json:"name" yaml:"name"`
	Value      string    `json:"value" yaml:"value"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	At         time.Time `json:"at,omitempty" yaml:"at,omitempty"`
	Confidence float64   `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// PartialLead is a single provider's view of a candidate.
// Instances are treated as immutable once created.
type PartialLead struct {
	SourceID    string    `json:"source_id" yaml:"sourceId"`
	ExternalRef string    `json:"external_ref,omitempty" yaml:"externalRef,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Company     string    `json:"company,omitempty" yaml:"company,omitempty"`
	Email       string    `json:"email,omitempty" yaml:"email,omitempty"`
	Phone       string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	Signals     []Signal  `json:"signals,omitempty" yaml:"signals,omitempty"`
	FetchedAt   time.Time `json:"fetched_at" yaml:"fetchedAt"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
}

// CanonicalLead is the merged, deduplicated view of a lead across providers.
// It is owned by the Merger and mutated only through Ingest.
type CanonicalLead struct {
	ID          string              `json:"lead_id" yaml:"leadId"`
	Name        string              `json:"name" yaml:"name"`
	Title       string              `json:"title,omitempty" yaml:"title,omitempty"`
	Company     string              `json:"company,omitempty" yaml:"company,omitempty"`
	Email       string              `json:"email,omitempty" yaml:"email,omitempty"`
	Phone       string              `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location    string              `json:"location,omitempty" yaml:"location,omitempty"`
	Signals     map[string][]Signal `json:"signal_set,omitempty" yaml:"signalSet,omitempty"`
	Sources     []string            `json:"contributing_sources" yaml:"contributingSources"`
	LastUpdated time.Time           `json:"last_updated" yaml:"lastUpdated"`

	// per-field provenance of the currently winning scalar values
	fields map[string]fieldOrigin
}

// fieldOrigin tracks which contribution currently owns a scalar field.
type fieldOrigin struct {
	confidence float64
	fetchedAt  time.Time
}

// outranks reports whether a new contribution beats the current one.
// Ties on both confidence and fetch time keep the first-seen value.
func (o fieldOrigin) outranks(cur fieldOrigin) bool {
	if o.confidence != cur.confidence {
		return o.confidence > cur.confidence
	}
	return o.fetchedAt.After(cur.fetchedAt)
}

// SignalValues returns every asserted value for the named signal, across all
// contributing sources. Scoring treats a signal as present if any source
// asserts it.
func (c *CanonicalLead) SignalValues(name string) []Signal {
	if c.Signals == nil {
		return nil
	}
	return c.Signals[name]
}

// HasSource reports whether the given provider contributed to this lead.
func (c *CanonicalLead) HasSource(sourceID string) bool {
	for _, s := range c.Sources {
		if s == sourceID {
			return true
		}
	}
	return false
}

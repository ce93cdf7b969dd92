package lead

import (
	"log/slog"
)

// Merger folds an unordered stream of partial leads into the minimal set of
// canonical leads. The identity-key index makes incremental ingestion O(1)
// amortized per partial lead.
//
// Merger is a single-writer structure: callers ingesting from concurrent
// provider fetches must serialize through one aggregation point.
type Merger struct {
	keyer     IdentityKeyer
	index     map[string]*CanonicalLead
	leads     []*CanonicalLead
	conflicts int
}

func NewMerger(keyer IdentityKeyer) *Merger {
	if keyer == nil {
		keyer = NameCompanyKeyer{}
	}
	return &Merger{
		keyer: keyer,
		index: make(map[string]*CanonicalLead),
		leads: make([]*CanonicalLead, 0),
	}
}

// Ingest merges one partial lead and returns the canonical lead it landed in,
// creating it if the identity key is new. A malformed partial lead returns a
// *ValidationError and leaves the canonical set untouched.
func (m *Merger) Ingest(p *PartialLead) (*CanonicalLead, error) {
	if p == nil {
		return nil, &ValidationError{Field: "partial_lead", Reason: "nil"}
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	key := m.keyer.IdentityKey(p)
	c, ok := m.index[key]
	if !ok {
		c = &CanonicalLead{
			ID:      LeadID(key),
			Name:    p.Name,
			Signals: make(map[string][]Signal),
			Sources: make([]string, 0, 1),
			fields:  make(map[string]fieldOrigin),
		}
		m.index[key] = c
		m.leads = append(m.leads, c)
	}

	m.apply(c, p)
	return c, nil
}

// Leads returns the canonical set in first-seen order.
func (m *Merger) Leads() []*CanonicalLead {
	return m.leads
}

// Len returns the number of canonical leads.
func (m *Merger) Len() int {
	return len(m.leads)
}

// Conflicts returns how many scalar field conflicts were resolved so far.
func (m *Merger) Conflicts() int {
	return m.conflicts
}

func (m *Merger) apply(c *CanonicalLead, p *PartialLead) {
	origin := fieldOrigin{confidence: p.Confidence, fetchedAt: p.FetchedAt}

	m.applyScalar(c, "name", &c.Name, p.Name, origin)
	m.applyScalar(c, "title", &c.Title, p.Title, origin)
	m.applyScalar(c, "company", &c.Company, p.Company, origin)
	m.applyScalar(c, "email", &c.Email, p.Email, origin)
	m.applyScalar(c, "phone", &c.Phone, p.Phone, origin)
	m.applyScalar(c, "location", &c.Location, p.Location, origin)

	for _, s := range p.Signals {
		s.Source = p.SourceID
		if s.Confidence == 0 {
			s.Confidence = p.Confidence
		}
		c.Signals[s.Name] = append(c.Signals[s.Name], s)
	}

	if !c.HasSource(p.SourceID) {
		c.Sources = append(c.Sources, p.SourceID)
	}

	if p.FetchedAt.After(c.LastUpdated) {
		c.LastUpdated = p.FetchedAt
	}
}

// applyScalar resolves a single scalar field conflict: highest confidence
// wins, then most recent fetch, then the first-seen value stays.
func (m *Merger) applyScalar(c *CanonicalLead, name string, field *string, val string, origin fieldOrigin) {
	if val == "" {
		return
	}

	cur, claimed := c.fields[name]
	if !claimed || *field == "" {
		*field = val
		c.fields[name] = origin
		return
	}

	if *field == val {
		// same value, keep the stronger provenance
		if origin.outranks(cur) {
			c.fields[name] = origin
		}
		return
	}

	m.conflicts++
	if origin.outranks(cur) {
		slog.Warn("merge conflict, replacing value",
			"lead", c.ID,
			"field", name,
			"kept", val,
			"dropped", *field,
		)
		*field = val
		c.fields[name] = origin
		return
	}

	slog.Warn("merge conflict, keeping value",
		"lead", c.ID,
		"field", name,
		"kept", *field,
		"dropped", val,
	)
}

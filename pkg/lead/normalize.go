package lead

import (
	"fmt"
	"log/slog"
	"time"
)

// MapperFunc converts one provider's raw response payload for one query into
// a partial lead. Returning ErrNoMatch means the provider found nothing.
type MapperFunc func(raw []byte) (*PartialLead, error)

// Normalizer validates provider results into PartialLeads. It is
// provider-agnostic; each adapter registers its own mapping function under
// its source ID.
type Normalizer struct {
	mappers map[string]MapperFunc
	now     func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		mappers: make(map[string]MapperFunc),
		now:     time.Now,
	}
}

// WithClock overrides the fetched_at clock. Used in tests.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Register binds a mapping function to a provider source ID. Registering the
// same source twice replaces the previous mapper.
func (n *Normalizer) Register(sourceID string, fn MapperFunc) {
	n.mappers[sourceID] = fn
}

// Sources returns the registered provider source IDs.
func (n *Normalizer) Sources() []string {
	list := make([]string, 0, len(n.mappers))
	for id := range n.mappers {
		list = append(list, id)
	}
	return list
}

// Normalize maps one raw provider response into a validated PartialLead.
// It returns ErrNoMatch when the provider found nothing, and a
// *ValidationError when the payload is malformed.
func (n *Normalizer) Normalize(sourceID string, raw []byte) (*PartialLead, error) {
	fn, ok := n.mappers[sourceID]
	if !ok {
		return nil, fmt.Errorf("no mapper registered for source: %s", sourceID)
	}

	p, err := fn(raw)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoMatch
	}

	p.SourceID = sourceID
	if err := validate(p); err != nil {
		return nil, err
	}

	if p.FetchedAt.IsZero() {
		p.FetchedAt = n.now().UTC()
	}
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 1 {
		p.Confidence = 1
	}

	slog.Debug("normalized provider result",
		"source", sourceID,
		"name", p.Name,
		"company", p.Company,
		"signals", len(p.Signals),
	)

	return p, nil
}

// validate enforces the required shape: a name, plus at least one of
// title or company.
func validate(p *PartialLead) error {
	if p.Name == "" {
		return &ValidationError{SourceID: p.SourceID, Field: "name", Reason: "required"}
	}
	if p.Title == "" && p.Company == "" {
		return &ValidationError{SourceID: p.SourceID, Field: "title/company", Reason: "at least one required"}
	}
	for _, s := range p.Signals {
		if s.Name == "" {
			return &ValidationError{SourceID: p.SourceID, Field: "signals", Reason: "signal without a name"}
		}
	}
	return nil
}

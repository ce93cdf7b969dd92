package provider

import (
	"encoding/json"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/lead"
)

// Authorship is matched by name only; treat publication-derived records as
// the least certain identity evidence.
const pubmedConfidence = 0.6

// pubmedResponse is an author query result: the queried author/affiliation
// plus the esummary article list fetched for them.
type pubmedResponse struct {
	Author      string `json:"author"`
	Affiliation string `json:"affiliation"`
	Articles    []struct {
		PubMedID string `json:"pubmed_id"`
		Title    string `json:"title"`
		Journal  string `json:"journal"`
		PubDate  string `json:"pub_date"`
	} `json:"articles"`
}

// MapPubMed converts a PubMed author search. Every article becomes a
// publication signal dated by its pub_date, so scoring can distinguish
// recent from stale papers.
func MapPubMed(raw []byte) (*lead.PartialLead, error) {
	var r pubmedResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing pubmed payload: %w", err)
	}

	if r.Author == "" || len(r.Articles) == 0 {
		return nil, lead.ErrNoMatch
	}

	p := &lead.PartialLead{
		Name:       r.Author,
		Company:    r.Affiliation,
		Confidence: pubmedConfidence,
	}

	for _, a := range r.Articles {
		if a.Title == "" {
			continue
		}
		p.Signals = append(p.Signals, lead.Signal{
			Name:  lead.SignalPaperTopic,
			Value: a.Title,
			At:    parseDate(a.PubDate),
		})
		if p.ExternalRef == "" {
			p.ExternalRef = a.PubMedID
		}
	}

	return p, nil
}

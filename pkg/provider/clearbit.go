package provider

import (
	"encoding/json"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/lead"
)

const clearbitConfidence = 0.75

// clearbitResponse is the combined person+company enrichment shape.
type clearbitResponse struct {
	Person *struct {
		ID   string `json:"id"`
		Name struct {
			FullName string `json:"fullName"`
		} `json:"name"`
		Title    string `json:"title"`
		Email    string `json:"email"`
		Location string `json:"location"`
	} `json:"person"`
	Company *struct {
		Name     string   `json:"name"`
		Location string   `json:"location"`
		Tech     []string `json:"tech"`
	} `json:"company"`
}

// MapClearbit converts a Clearbit combined enrichment. Company tech tags
// become technographic signals.
func MapClearbit(raw []byte) (*lead.PartialLead, error) {
	var r clearbitResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing clearbit payload: %w", err)
	}

	if r.Person == nil || r.Person.Name.FullName == "" {
		return nil, lead.ErrNoMatch
	}

	p := &lead.PartialLead{
		ExternalRef: r.Person.ID,
		Name:        r.Person.Name.FullName,
		Title:       r.Person.Title,
		Email:       r.Person.Email,
		Location:    r.Person.Location,
		Confidence:  clearbitConfidence,
	}

	if r.Company != nil {
		p.Company = r.Company.Name
		if p.Location == "" {
			p.Location = r.Company.Location
		}
		for _, tech := range r.Company.Tech {
			p.Signals = append(p.Signals, lead.Signal{
				Name:  lead.SignalTechStack,
				Value: tech,
			})
		}
	}

	return p, nil
}

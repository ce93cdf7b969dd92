package provider

import (
	"encoding/json"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/lead"
)

// hunterResponse is the shape of a Hunter.io email-finder result.
type hunterResponse struct {
	Data *struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		Score       int    `json:"score"`
		Position    string `json:"position"`
		Company     string `json:"company"`
		PhoneNumber string `json:"phone_number"`
		Verification *struct {
			Status string `json:"status"`
		} `json:"verification"`
	} `json:"data"`
}

// MapHunter converts a Hunter.io email-finder response. The Hunter score
// (0-100) becomes the partial lead confidence.
func MapHunter(raw []byte) (*lead.PartialLead, error) {
	var r hunterResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing hunter payload: %w", err)
	}

	if r.Data == nil || r.Data.Email == "" {
		return nil, lead.ErrNoMatch
	}
	d := r.Data

	p := &lead.PartialLead{
		ExternalRef: d.Email,
		Name:        joinNonEmpty(" ", d.FirstName, d.LastName),
		Title:       d.Position,
		Company:     d.Company,
		Email:       d.Email,
		Phone:       d.PhoneNumber,
		Confidence:  float64(d.Score) / 100,
	}

	if d.Verification != nil && d.Verification.Status == "valid" {
		p.Signals = append(p.Signals, lead.Signal{
			Name:  lead.SignalEmailVerified,
			Value: d.Email,
		})
	}

	return p, nil
}

package provider

import (
	"encoding/json"
	"fmt"

	"github.com/leadpulse/leadctl/pkg/lead"
)

// LinkedIn profiles are human-maintained; treat them as fairly reliable but
// below a verified email match.
const proxycurlConfidence = 0.85

type proxycurlResponse struct {
	PublicIdentifier string `json:"public_identifier"`
	FullName         string `json:"full_name"`
	Occupation       string `json:"occupation"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country_full_name"`
	Experiences      []struct {
		Company string `json:"company"`
		Title   string `json:"title"`
	} `json:"experiences"`
	PersonalEmails  []string `json:"personal_emails"`
	PersonalNumbers []string `json:"personal_numbers"`
}

// MapProxycurl converts a Proxycurl LinkedIn profile lookup. The current
// position comes from the first experience entry, which Proxycurl orders
// most-recent first.
func MapProxycurl(raw []byte) (*lead.PartialLead, error) {
	var r proxycurlResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing proxycurl payload: %w", err)
	}

	if r.FullName == "" {
		return nil, lead.ErrNoMatch
	}

	p := &lead.PartialLead{
		ExternalRef: r.PublicIdentifier,
		Name:        r.FullName,
		Title:       r.Occupation,
		Location:    joinNonEmpty(", ", r.City, r.State, r.Country),
		Confidence:  proxycurlConfidence,
	}

	if len(r.Experiences) > 0 {
		p.Company = r.Experiences[0].Company
		if p.Title == "" {
			p.Title = r.Experiences[0].Title
		}
	}
	if len(r.PersonalEmails) > 0 {
		p.Email = r.PersonalEmails[0]
	}
	if len(r.PersonalNumbers) > 0 {
		p.Phone = r.PersonalNumbers[0]
	}

	return p, nil
}

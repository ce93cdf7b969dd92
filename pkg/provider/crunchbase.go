package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leadpulse/leadctl/pkg/lead"
)

const crunchbaseConfidence = 0.7

type crunchbaseResponse struct {
	Organization *struct {
		UUID     string `json:"uuid"`
		Name     string `json:"name"`
		Location string `json:"location"`
	} `json:"organization"`
	Contact *struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"contact"`
	FundingRounds []struct {
		InvestmentType string `json:"investment_type"`
		AnnouncedOn    string `json:"announced_on"`
	} `json:"funding_rounds"`
}

// MapCrunchbase converts a Crunchbase organization lookup. Funding rounds
// become dated funding signals; the investment type arrives as "series_a"
// style identifiers and is rewritten to the human form scoring matches on.
func MapCrunchbase(raw []byte) (*lead.PartialLead, error) {
	var r crunchbaseResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing crunchbase payload: %w", err)
	}

	if r.Organization == nil || r.Contact == nil || r.Contact.Name == "" {
		return nil, lead.ErrNoMatch
	}

	p := &lead.PartialLead{
		ExternalRef: r.Organization.UUID,
		Name:        r.Contact.Name,
		Title:       r.Contact.Title,
		Company:     r.Organization.Name,
		Location:    r.Organization.Location,
		Confidence:  crunchbaseConfidence,
	}

	for _, fr := range r.FundingRounds {
		if fr.InvestmentType == "" {
			continue
		}
		p.Signals = append(p.Signals, lead.Signal{
			Name:  lead.SignalFundingRound,
			Value: fundingRoundName(fr.InvestmentType),
			At:    parseDate(fr.AnnouncedOn),
		})
	}

	return p, nil
}

// fundingRoundName turns "series_b" into "Series B".
func fundingRoundName(investmentType string) string {
	parts := strings.Split(strings.ToLower(investmentType), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

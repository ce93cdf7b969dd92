// Package provider maps raw, already-fetched provider responses into partial
// leads. The HTTP clients that produce the raw payloads live outside this
// module; adapters here only understand each provider's response shape.
package provider

import (
	"strings"
	"time"

	"github.com/leadpulse/leadctl/pkg/lead"
)

// RegisterAll binds every known provider adapter to the normalizer.
func RegisterAll(n *lead.Normalizer) {
	n.Register(lead.SourceHunter, MapHunter)
	n.Register(lead.SourceProxycurl, MapProxycurl)
	n.Register(lead.SourcePubMed, MapPubMed)
	n.Register(lead.SourceClearbit, MapClearbit)
	n.Register(lead.SourceCrunchbase, MapCrunchbase)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006 Jan 2",
	"2006 Jan",
	"2006",
}

// parseDate handles the date formats providers actually emit (PubMed alone
// uses three). Unparseable dates yield the zero time, treated downstream as
// an undated signal.
func parseDate(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, sep)
}

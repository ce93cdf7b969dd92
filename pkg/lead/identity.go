package lead

import (
	"encoding/hex"
	"hash/fnv"
	"regexp"
	"strings"
)

const identityKeySep = "|"

var nonAlphaNumRegex = regexp.MustCompile(`[^a-z0-9 ]+`)

// IdentityKeyer decides which partial leads refer to the same real-world
// person. Stricter strategies (fuzzy matching, external ID reconciliation)
// can be substituted without touching the merge logic.
type IdentityKeyer interface {
	IdentityKey(p *PartialLead) string
}

// NameCompanyKeyer is the default strategy: normalized name + company.
// This is a heuristic; same name at a differently-spelled company splits,
// and colliding normalized strings merge.
type NameCompanyKeyer struct{}

func (NameCompanyKeyer) IdentityKey(p *PartialLead) string {
	return normalizeIdentityPart(p.Name) + identityKeySep + normalizeIdentityPart(p.Company)
}

// normalizeIdentityPart lower-cases, strips punctuation, and collapses
// whitespace so cosmetic differences between providers don't split leads.
func normalizeIdentityPart(val string) string {
	val = strings.ToLower(strings.TrimSpace(val))
	val = nonAlphaNumRegex.ReplaceAllString(val, "")
	return strings.Join(strings.Fields(val), " ")
}

// LeadID derives the stable lead identity from an identity key.
func LeadID(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpulse/leadctl/pkg/lead"
	"github.com/leadpulse/leadctl/pkg/provider"
)

const hunterDump = `[
	{"data": {"first_name": "Jane", "last_name": "Doe", "email": "jane.doe@acmebio.com",
		"score": 92, "position": "Director of Toxicology", "company": "Acme Biotech"}},
	{"data": {"first_name": "John", "last_name": "Roe", "email": "john.roe@cnbio.com",
		"score": 80, "position": "Head of Preclinical Safety", "company": "CN Bio"}},
	{}
]`

const pubmedDump = `[
	{"author": "Jane Doe", "affiliation": "Acme Biotech", "articles": [
		{"pubmed_id": "38012345", "title": "Hepatic spheroids for DILI", "pub_date": "2025-01-15"}
	]},
	{"author": "", "articles": []}
]`

func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testNormalizer() *lead.Normalizer {
	n := lead.NewNormalizer()
	provider.RegisterAll(n)
	return n
}

func TestIngestDumps(t *testing.T) {
	dumps := []providerDump{
		{source: lead.SourceHunter, path: writeDump(t, "hunter.json", hunterDump)},
		{source: lead.SourcePubMed, path: writeDump(t, "pubmed.json", pubmedDump)},
	}

	res, merger, err := ingestDumps(testNormalizer(), dumps)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Candidates)
	assert.Equal(t, 2, res.NoMatch)
	assert.Equal(t, 0, res.Invalid)
	assert.Len(t, res.Files, 2)

	// Jane Doe from hunter and pubmed merges into one canonical lead
	require.Equal(t, 2, merger.Len())

	var jane *lead.CanonicalLead
	for _, l := range merger.Leads() {
		if l.Name == "Jane Doe" {
			jane = l
		}
	}
	require.NotNil(t, jane)
	assert.ElementsMatch(t, []string{lead.SourceHunter, lead.SourcePubMed}, jane.Sources)
	assert.Len(t, jane.SignalValues(lead.SignalPaperTopic), 1)
	assert.Equal(t, "jane.doe@acmebio.com", jane.Email)
}

func TestIngestDumpsMissingFile(t *testing.T) {
	dumps := []providerDump{
		{source: lead.SourceHunter, path: filepath.Join(t.TempDir(), "nope.json")},
	}

	_, _, err := ingestDumps(testNormalizer(), dumps)
	require.Error(t, err)
}

func TestNormalizeDumpRejectsNonArray(t *testing.T) {
	d := providerDump{
		source: lead.SourceHunter,
		path:   writeDump(t, "bad.json", `{"data": {}}`),
	}

	out := make(chan *lead.PartialLead, 10)
	var counts dumpCounts
	err := normalizeDump(testNormalizer(), d, out, &counts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON array")
}

func TestNormalizeDumpUnknownSource(t *testing.T) {
	d := providerDump{
		source: "zoominfo",
		path:   writeDump(t, "z.json", `[{"data": {"email": "x@y.com", "first_name": "X"}}]`),
	}

	out := make(chan *lead.PartialLead, 10)
	var counts dumpCounts
	err := normalizeDump(testNormalizer(), d, out, &counts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapper registered")
}

func TestNormalizeDumpCountsInvalid(t *testing.T) {
	// matched email but no name, title, or company
	d := providerDump{
		source: lead.SourceHunter,
		path:   writeDump(t, "partial.json", `[{"data": {"email": "x@y.com", "score": 50}}]`),
	}

	out := make(chan *lead.PartialLead, 10)
	var counts dumpCounts
	require.NoError(t, normalizeDump(testNormalizer(), d, out, &counts))

	assert.Equal(t, 1, counts.candidates)
	assert.Equal(t, 1, counts.invalid)
	assert.Empty(t, out)
}

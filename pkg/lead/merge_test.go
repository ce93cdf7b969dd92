package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mergeT0 = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mergeT1 = time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
)

func janeFromHunter() *PartialLead {
	return &PartialLead{
		SourceID:   SourceHunter,
		Name:       "Jane Doe",
		Title:      "Director of Toxicology",
		Company:    "Acme Biotech",
		Email:      "jane.doe@acmebio.com",
		Phone:      "+1-617-555-0100",
		FetchedAt:  mergeT0,
		Confidence: 0.9,
	}
}

func janeFromProxycurl() *PartialLead {
	return &PartialLead{
		SourceID:   SourceProxycurl,
		Name:       "Jane Doe",
		Company:    "Acme Biotech",
		Phone:      "+1-617-555-0199",
		Location:   "Boston, MA",
		FetchedAt:  mergeT1,
		Confidence: 0.7,
	}
}

func TestIngestCreatesCanonicalLead(t *testing.T) {
	m := NewMerger(nil)

	c, err := m.Ingest(janeFromHunter())
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, []string{SourceHunter}, c.Sources)
	assert.Equal(t, mergeT0, c.LastUpdated)
	assert.NotEmpty(t, c.ID)
}

func TestIngestMergesSameIdentity(t *testing.T) {
	m := NewMerger(nil)

	a, err := m.Ingest(janeFromHunter())
	require.NoError(t, err)
	b, err := m.Ingest(janeFromProxycurl())
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{SourceHunter, SourceProxycurl}, b.Sources)
	assert.Equal(t, mergeT1, b.LastUpdated)

	// location only known to proxycurl fills in
	assert.Equal(t, "Boston, MA", b.Location)
}

func TestConflictingPhoneKeepsHigherConfidence(t *testing.T) {
	m := NewMerger(nil)

	_, err := m.Ingest(janeFromHunter())
	require.NoError(t, err)
	c, err := m.Ingest(janeFromProxycurl())
	require.NoError(t, err)

	// hunter's 0.9 beats proxycurl's 0.7 despite the later fetch
	assert.Equal(t, "+1-617-555-0100", c.Phone)
	assert.Equal(t, 1, m.Conflicts())
}

func TestMergeOrderIndependent(t *testing.T) {
	forward := NewMerger(nil)
	_, err := forward.Ingest(janeFromHunter())
	require.NoError(t, err)
	fc, err := forward.Ingest(janeFromProxycurl())
	require.NoError(t, err)

	reverse := NewMerger(nil)
	_, err = reverse.Ingest(janeFromProxycurl())
	require.NoError(t, err)
	rc, err := reverse.Ingest(janeFromHunter())
	require.NoError(t, err)

	assert.Equal(t, fc.ID, rc.ID)
	assert.Equal(t, fc.Name, rc.Name)
	assert.Equal(t, fc.Title, rc.Title)
	assert.Equal(t, fc.Company, rc.Company)
	assert.Equal(t, fc.Email, rc.Email)
	assert.Equal(t, fc.Phone, rc.Phone)
	assert.Equal(t, fc.Location, rc.Location)
	assert.Equal(t, fc.LastUpdated, rc.LastUpdated)
}

func TestConfidenceTieBrokenByFetchTime(t *testing.T) {
	a := janeFromHunter()
	a.Confidence = 0.8
	a.Phone = "+1-617-555-0100"
	a.FetchedAt = mergeT0

	b := janeFromProxycurl()
	b.Confidence = 0.8
	b.Phone = "+1-617-555-0199"
	b.FetchedAt = mergeT1

	m := NewMerger(nil)
	_, err := m.Ingest(a)
	require.NoError(t, err)
	c, err := m.Ingest(b)
	require.NoError(t, err)

	assert.Equal(t, "+1-617-555-0199", c.Phone)
}

func TestIncrementalMatchesBatch(t *testing.T) {
	partials := []*PartialLead{
		janeFromHunter(),
		janeFromProxycurl(),
		{
			SourceID:   SourcePubMed,
			Name:       "Jane Doe",
			Company:    "Acme Biotech",
			FetchedAt:  mergeT1,
			Confidence: 0.6,
			Signals: []Signal{
				{Name: SignalPaperTopic, Value: "Hepatic spheroids for DILI", At: mergeT0},
			},
		},
		{
			SourceID:   SourceCrunchbase,
			Name:       "John Roe",
			Company:    "CN Bio",
			Title:      "Head of Preclinical Safety",
			FetchedAt:  mergeT0,
			Confidence: 0.7,
		},
	}

	oneAtATime := NewMerger(nil)
	for _, p := range partials {
		_, err := oneAtATime.Ingest(p)
		require.NoError(t, err)
	}

	allAtOnce := NewMerger(nil)
	for _, p := range partials {
		_, err := allAtOnce.Ingest(p)
		require.NoError(t, err)
	}

	require.Equal(t, oneAtATime.Len(), allAtOnce.Len())
	assert.Equal(t, 2, oneAtATime.Len())
	for i, l := range oneAtATime.Leads() {
		other := allAtOnce.Leads()[i]
		assert.Equal(t, l.ID, other.ID)
		assert.Equal(t, l.Phone, other.Phone)
		assert.Equal(t, l.Sources, other.Sources)
	}
}

func TestSignalUnionKeepsAllProvenance(t *testing.T) {
	m := NewMerger(nil)

	a := janeFromHunter()
	a.Signals = []Signal{{Name: SignalFundingRound, Value: "Series A", At: mergeT0}}
	b := janeFromProxycurl()
	b.Signals = []Signal{{Name: SignalFundingRound, Value: "Series B", At: mergeT1}}

	_, err := m.Ingest(a)
	require.NoError(t, err)
	c, err := m.Ingest(b)
	require.NoError(t, err)

	// disagreeing sources both retained
	rounds := c.SignalValues(SignalFundingRound)
	require.Len(t, rounds, 2)
	assert.Equal(t, SourceHunter, rounds[0].Source)
	assert.Equal(t, SourceProxycurl, rounds[1].Source)
}

func TestIngestInvalidLeadRejected(t *testing.T) {
	m := NewMerger(nil)

	_, err := m.Ingest(&PartialLead{SourceID: SourceHunter, Title: "Director"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, m.Len())

	_, err = m.Ingest(nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSignalInheritsLeadConfidence(t *testing.T) {
	m := NewMerger(nil)

	p := janeFromHunter()
	p.Signals = []Signal{{Name: SignalTechStack, Value: "Organ-on-chip"}}

	c, err := m.Ingest(p)
	require.NoError(t, err)

	sigs := c.SignalValues(SignalTechStack)
	require.Len(t, sigs, 1)
	assert.Equal(t, 0.9, sigs[0].Confidence)
	assert.Equal(t, SourceHunter, sigs[0].Source)
}

package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpulse/leadctl/pkg/lead"
)

var testUpdatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLead(id, name, company string) *lead.CanonicalLead {
	return &lead.CanonicalLead{
		ID:          id,
		Name:        name,
		Title:       "Director of Toxicology",
		Company:     company,
		Email:       "jane.doe@acmebio.com",
		Phone:       "+1-617-555-0100",
		Location:    "Boston, MA",
		Sources:     []string{lead.SourceHunter, lead.SourcePubMed},
		LastUpdated: testUpdatedAt,
		Signals: map[string][]lead.Signal{
			lead.SignalPaperTopic: {
				{
					Name:       lead.SignalPaperTopic,
					Value:      "Hepatic spheroids for DILI",
					Source:     lead.SourcePubMed,
					At:         testUpdatedAt.AddDate(0, -3, 0),
					Confidence: 0.6,
				},
			},
			lead.SignalTechStack: {
				{
					Name:       lead.SignalTechStack,
					Value:      "Organ-on-chip",
					Source:     lead.SourceClearbit,
					Confidence: 0.75,
				},
			},
		},
	}
}

func TestSaveAndGetLead(t *testing.T) {
	db := getTestDB(t)

	want := testLead("lead1", "Jane Doe", "Acme Biotech")
	require.NoError(t, SaveLeads(db, []*lead.CanonicalLead{want}))

	got, err := GetLead(db, "lead1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Company, got.Company)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.Location, got.Location)
	assert.Equal(t, want.LastUpdated, got.LastUpdated)
	assert.Equal(t, want.Sources, got.Sources)

	papers := got.SignalValues(lead.SignalPaperTopic)
	require.Len(t, papers, 1)
	assert.Equal(t, "Hepatic spheroids for DILI", papers[0].Value)
	assert.Equal(t, lead.SourcePubMed, papers[0].Source)
	assert.Equal(t, 0.6, papers[0].Confidence)
	assert.Equal(t, testUpdatedAt.AddDate(0, -3, 0), papers[0].At)

	// undated signal comes back undated
	tech := got.SignalValues(lead.SignalTechStack)
	require.Len(t, tech, 1)
	assert.True(t, tech[0].At.IsZero())
}

func TestSaveLeadsUpserts(t *testing.T) {
	db := getTestDB(t)

	first := testLead("lead1", "Jane Doe", "Acme Biotech")
	require.NoError(t, SaveLeads(db, []*lead.CanonicalLead{first}))

	second := testLead("lead1", "Jane Doe", "Acme Biotech")
	second.Phone = "+1-617-555-0199"
	second.LastUpdated = testUpdatedAt.AddDate(0, 0, 1)
	require.NoError(t, SaveLeads(db, []*lead.CanonicalLead{second}))

	got, err := GetLead(db, "lead1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "+1-617-555-0199", got.Phone)
	assert.Equal(t, second.LastUpdated, got.LastUpdated)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM lead").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetLeadMissing(t *testing.T) {
	db := getTestDB(t)

	got, err := GetLead(db, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearchLeads(t *testing.T) {
	db := getTestDB(t)

	leads := []*lead.CanonicalLead{
		testLead("lead1", "Jane Doe", "Acme Biotech"),
		testLead("lead2", "John Roe", "CN Bio"),
		testLead("lead3", "Ann Poe", "Acme Biotech"),
	}
	require.NoError(t, SaveLeads(db, leads))

	list, err := SearchLeads(db, "acme", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ann Poe", list[0].Name)
	assert.Equal(t, "Jane Doe", list[1].Name)

	list, err = SearchLeads(db, "", 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = SearchLeads(db, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLeadOpsRequireDB(t *testing.T) {
	err := SaveLeads(nil, []*lead.CanonicalLead{testLead("x", "x", "x")})
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = GetLead(nil, "x")
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = SearchLeads(nil, "x", 1)
	assert.ErrorIs(t, err, errDBNotInitialized)
}

func TestSaveLeadsEmptySet(t *testing.T) {
	db := getTestDB(t)
	assert.NoError(t, SaveLeads(db, nil))
}

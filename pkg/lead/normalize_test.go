package lead

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClock() func() time.Time {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func testMapper(raw []byte) (*PartialLead, error) {
	var p PartialLead
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Name == "" && p.Company == "" && p.Title == "" {
		return nil, ErrNoMatch
	}
	return &p, nil
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	p, err := n.Normalize("test", []byte(`{"name":"Jane Doe","title":"Director of Toxicology"}`))
	require.NoError(t, err)
	assert.Equal(t, "test", p.SourceID)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), p.FetchedAt)
}

func TestNormalizeMissingName(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	p, err := n.Normalize("test", []byte(`{"title":"Director of Toxicology"}`))
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNormalizeMissingTitleAndCompany(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	_, err := n.Normalize("test", []byte(`{"name":"Jane Doe"}`))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNormalizeNoMatch(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	_, err := n.Normalize("test", []byte(`{}`))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestNormalizeUnknownSource(t *testing.T) {
	n := NewNormalizer()
	_, err := n.Normalize("nope", []byte(`{}`))
	assert.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestNormalizeClampsConfidence(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	p, err := n.Normalize("test", []byte(`{"name":"Jane Doe","company":"Acme","confidence":7}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Confidence)
}

func TestNormalizeKeepsProvidedFetchTime(t *testing.T) {
	n := NewNormalizer().WithClock(testClock())
	n.Register("test", testMapper)

	p, err := n.Normalize("test", []byte(`{"name":"Jane Doe","company":"Acme","fetched_at":"2025-01-02T00:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), p.FetchedAt)
}

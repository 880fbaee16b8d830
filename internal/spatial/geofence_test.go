package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCandidates() []Candidate {
	return []Candidate{
		{ID: 1, Position: stationA},
		{ID: 2, Position: stationB},
	}
}

func TestMatcher_Nearest(t *testing.T) {
	m := NewMatcher(DefaultMatchThresholdMeters, EarthRadiusKm)

	tests := []struct {
		name    string
		pos     Position
		wantID  int64
		wantHit bool
	}{
		{name: "exactly at first station", pos: stationA, wantID: 1, wantHit: true},
		{name: "exactly at second station", pos: stationB, wantID: 2, wantHit: true},
		{name: "no fix sentinel", pos: NewPosition(0, 0), wantHit: false},
		{name: "a few meters from second station", pos: NewPosition(39.47003, -0.37643), wantID: 2, wantHit: true},
		{name: "about 1 km away", pos: NewPosition(39.4790, -0.3763), wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := m.Nearest(tt.pos, testCandidates())
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, tt.wantID, match.ID)
				assert.LessOrEqual(t, match.DistanceMeters, DefaultMatchThresholdMeters)
			}
		})
	}
}

func TestMatcher_EmptyDirectory(t *testing.T) {
	m := NewMatcher(DefaultMatchThresholdMeters, EarthRadiusKm)

	_, ok := m.Nearest(stationA, nil)
	assert.False(t, ok)
}

func TestMatcher_TieKeepsFirst(t *testing.T) {
	m := NewMatcher(DefaultMatchThresholdMeters, EarthRadiusKm)
	candidates := []Candidate{
		{ID: 7, Position: stationA},
		{ID: 3, Position: stationA},
	}

	match, ok := m.Nearest(stationA, candidates)
	assert.True(t, ok)
	assert.Equal(t, int64(7), match.ID)
}

func TestMatcher_ThresholdIsInclusive(t *testing.T) {
	d := Distance(stationA, stationB)

	exact := NewMatcher(d, EarthRadiusKm)
	match, ok := exact.Nearest(stationA, []Candidate{{ID: 2, Position: stationB}})
	assert.True(t, ok)
	assert.Equal(t, int64(2), match.ID)

	tighter := NewMatcher(d-0.01, EarthRadiusKm)
	_, ok = tighter.Nearest(stationA, []Candidate{{ID: 2, Position: stationB}})
	assert.False(t, ok)
}

func TestNewMatcher_Defaults(t *testing.T) {
	m := NewMatcher(0, -1)
	assert.Equal(t, DefaultMatchThresholdMeters, m.ThresholdMeters())
	assert.Equal(t, EarthRadiusKm, m.EarthRadiusKm())
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tourist(id string, budget float64, prefs []string, windows ...Window) TouristRequest {
	return TouristRequest{
		TouristID:    id,
		Availability: windows,
		Budget:       budget,
		Preferences:  prefs,
	}
}

func guide(id string, rate float64, capacity int, w Window, categories ...string) GuideOffer {
	return GuideOffer{
		GuideID:         id,
		Categories:      categories,
		AvailableWindow: w,
		HourlyRate:      rate,
		MaxGroupSize:    capacity,
	}
}

func TestBuildSchedule_SingleMatch(t *testing.T) {
	avail := mustWindow(t, 9, 17)
	offered := mustWindow(t, 10, 14)

	assignments := BuildSchedule(
		[]TouristRequest{tourist("t1", 60, []string{"museums"}, avail)},
		[]GuideOffer{guide("g1", 50, 2, offered, "museums")},
	)

	require.Len(t, assignments, 1)
	a := assignments[0]
	assert.Equal(t, "t1", a.TouristID)
	assert.Equal(t, "g1", a.GuideID)
	assert.Equal(t, offered, a.TimeWindow, "the guide's full offered window is booked")
	assert.Equal(t, []string{"museums"}, a.Categories)
	assert.InDelta(t, 200.0, a.TotalCost, 1e-9, "4h at rate 50")
}

func TestBuildSchedule_BudgetBoundary(t *testing.T) {
	avail := mustWindow(t, 9, 17)
	offered := mustWindow(t, 10, 14)
	g := guide("g1", 50, 1, offered)

	t.Run("budget below rate excludes", func(t *testing.T) {
		got := BuildSchedule([]TouristRequest{tourist("t1", 30, nil, avail)}, []GuideOffer{g})
		assert.Empty(t, got)
	})

	t.Run("budget equal to rate is eligible", func(t *testing.T) {
		got := BuildSchedule([]TouristRequest{tourist("t1", 50, nil, avail)}, []GuideOffer{g})
		require.Len(t, got, 1)
		assert.Equal(t, "g1", got[0].GuideID)
	})
}

func TestBuildSchedule_ContainmentNotOverlap(t *testing.T) {
	// Guide window 10:00-14:00 must lie inside one availability window.
	offered := mustWindow(t, 10, 14)
	g := guide("g1", 20, 1, offered)

	t.Run("partial overlap does not count", func(t *testing.T) {
		got := BuildSchedule([]TouristRequest{tourist("t1", 100, nil, mustWindow(t, 11, 18))}, []GuideOffer{g})
		assert.Empty(t, got)
	})

	t.Run("coverage split over two windows does not count", func(t *testing.T) {
		got := BuildSchedule(
			[]TouristRequest{tourist("t1", 100, nil, mustWindow(t, 9, 12), mustWindow(t, 12, 15))},
			[]GuideOffer{g},
		)
		assert.Empty(t, got)
	})

	t.Run("one later window contains", func(t *testing.T) {
		got := BuildSchedule(
			[]TouristRequest{tourist("t1", 100, nil, mustWindow(t, 6, 8), mustWindow(t, 9, 15))},
			[]GuideOffer{g},
		)
		require.Len(t, got, 1)
	})
}

func TestBuildSchedule_CapacityExhaustion(t *testing.T) {
	avail := mustWindow(t, 9, 17)
	g := guide("g1", 10, 2, mustWindow(t, 10, 12))

	got := BuildSchedule(
		[]TouristRequest{
			tourist("t1", 50, nil, avail),
			tourist("t2", 50, nil, avail),
			tourist("t3", 50, nil, avail),
		},
		[]GuideOffer{g},
	)

	require.Len(t, got, 2, "capacity 2 caps the guide at two assignments")
	matched := map[string]bool{}
	for _, a := range got {
		assert.Equal(t, "g1", a.GuideID)
		matched[a.TouristID] = true
	}
	assert.Len(t, matched, 2, "no tourist is assigned twice")
}

func TestBuildSchedule_PreferenceScoreAndTieBreak(t *testing.T) {
	avail := mustWindow(t, 9, 17)
	offered := mustWindow(t, 10, 14)

	t.Run("higher overlap wins", func(t *testing.T) {
		got := BuildSchedule(
			[]TouristRequest{tourist("t1", 100, []string{"museums", "food"}, avail)},
			[]GuideOffer{
				guide("gA", 50, 1, offered, "hiking"),
				guide("gB", 50, 1, offered, "museums", "food"),
			},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "gB", got[0].GuideID)
	})

	t.Run("tie keeps the first guide in list order", func(t *testing.T) {
		got := BuildSchedule(
			[]TouristRequest{tourist("t1", 100, []string{"museums"}, avail)},
			[]GuideOffer{
				guide("gA", 50, 1, offered, "museums"),
				guide("gB", 50, 1, offered, "museums"),
			},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "gA", got[0].GuideID)
	})

	t.Run("duplicate preferences count once", func(t *testing.T) {
		got := BuildSchedule(
			[]TouristRequest{tourist("t1", 100, []string{"museums", "museums", "museums"}, avail)},
			[]GuideOffer{
				guide("gA", 50, 1, offered, "museums"),
				guide("gB", 50, 1, offered, "food", "hiking"),
			},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "gA", got[0].GuideID)
	})
}

func TestBuildSchedule_TouristOrdering(t *testing.T) {
	// The earlier-starting tourist is processed first and takes the last seat.
	late := tourist("late", 100, nil, mustWindow(t, 12, 18))
	early := tourist("early", 100, nil, mustWindow(t, 8, 18))
	g := guide("g1", 10, 1, mustWindow(t, 12, 14))

	got := BuildSchedule([]TouristRequest{late, early}, []GuideOffer{g})

	require.Len(t, got, 1)
	assert.Equal(t, "early", got[0].TouristID)
}

func TestBuildSchedule_SkipsTouristsWithoutAvailability(t *testing.T) {
	got := BuildSchedule(
		[]TouristRequest{{TouristID: "t1", Budget: 100}},
		[]GuideOffer{guide("g1", 10, 1, mustWindow(t, 10, 12))},
	)
	assert.Empty(t, got)
}

func TestBuildSchedule_EmptyInputs(t *testing.T) {
	assert.Empty(t, BuildSchedule(nil, nil))
	assert.Empty(t, BuildSchedule(nil, []GuideOffer{guide("g1", 10, 1, mustWindow(t, 10, 12))}))
	assert.Empty(t, BuildSchedule([]TouristRequest{tourist("t1", 10, nil, mustWindow(t, 9, 17))}, nil))
}

func TestBuildSchedule_DoesNotMutateInputs(t *testing.T) {
	tourists := []TouristRequest{tourist("t1", 100, []string{"food"}, mustWindow(t, 9, 17))}
	guides := []GuideOffer{guide("g1", 25, 1, mustWindow(t, 10, 14), "food")}

	got := BuildSchedule(tourists, guides)
	require.Len(t, got, 1)

	// Mutating the returned categories must not touch the offer.
	got[0].Categories[0] = "changed"
	assert.Equal(t, "food", guides[0].Categories[0])
	assert.Equal(t, 1, guides[0].MaxGroupSize)
}

func TestBuildSchedule_FractionalHoursCost(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	offered, err := NewWindow(start, start.Add(90*time.Minute))
	require.NoError(t, err)

	got := BuildSchedule(
		[]TouristRequest{tourist("t1", 100, nil, mustWindow(t, 9, 17))},
		[]GuideOffer{guide("g1", 40, 1, offered)},
	)

	require.Len(t, got, 1)
	assert.InDelta(t, 60.0, got[0].TotalCost, 1e-9, "1.5h at rate 40")
}

func TestPreferenceScore(t *testing.T) {
	tests := []struct {
		name        string
		preferences []string
		categories  []string
		want        int
	}{
		{"no preferences", nil, []string{"museums"}, 0},
		{"no categories", []string{"museums"}, nil, 0},
		{"disjoint", []string{"food"}, []string{"hiking"}, 0},
		{"single match", []string{"food"}, []string{"food", "hiking"}, 1},
		{"set semantics on duplicates", []string{"food", "food"}, []string{"food"}, 1},
		{"duplicate categories count once", []string{"food"}, []string{"food", "food"}, 1},
		{"multiple matches", []string{"food", "hiking", "art"}, []string{"art", "food"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preferenceScore(tt.preferences, tt.categories))
		})
	}
}

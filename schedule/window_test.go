package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, startHour, endHour int) Window {
	t.Helper()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	w, err := NewWindow(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return w
}

func TestNewWindow(t *testing.T) {
	start := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		w, err := NewWindow(start, start.Add(4*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 4*time.Hour, w.Duration())
	})

	t.Run("zero length", func(t *testing.T) {
		_, err := NewWindow(start, start)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("inverted", func(t *testing.T) {
		_, err := NewWindow(start, start.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestWindow_Hours(t *testing.T) {
	w := mustWindow(t, 10, 14)
	assert.InDelta(t, 4.0, w.Hours(), 1e-9)

	half, err := NewWindow(w.Start, w.Start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, half.Hours(), 1e-9)
}

func TestWindow_Contains(t *testing.T) {
	outer := mustWindow(t, 9, 17)

	tests := []struct {
		name  string
		inner Window
		want  bool
	}{
		{"strictly inside", mustWindow(t, 10, 14), true},
		{"identical", mustWindow(t, 9, 17), true},
		{"shared start", mustWindow(t, 9, 12), true},
		{"shared end", mustWindow(t, 13, 17), true},
		{"overlaps left edge", mustWindow(t, 8, 10), false},
		{"overlaps right edge", mustWindow(t, 16, 18), false},
		{"disjoint", mustWindow(t, 18, 20), false},
		{"contains outer", mustWindow(t, 8, 18), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.inner))
		})
	}
}

func TestWindow_JSONRoundTrip(t *testing.T) {
	w := mustWindow(t, 9, 17)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start"`)
	assert.Contains(t, string(data), `"end"`)

	var decoded Window
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Start.Equal(w.Start))
	assert.True(t, decoded.End.Equal(w.End))
}

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage_TouristRequest(t *testing.T) {
	payload := []byte(`{
		"type": "TouristRequest",
		"tourist_id": "alice",
		"availability": [{"start": "2025-06-15T09:00:00Z", "end": "2025-06-15T17:00:00Z"}],
		"budget": 80,
		"preferences": ["museums", "food"]
	}`)

	msg, err := DecodeMessage(payload)
	require.NoError(t, err)

	req, ok := msg.(*TouristRequest)
	require.True(t, ok, "expected *TouristRequest, got %T", msg)
	assert.Equal(t, "alice", req.TouristID)
	assert.Len(t, req.Availability, 1)
	assert.InDelta(t, 80.0, req.Budget, 1e-9)
	assert.Equal(t, []string{"museums", "food"}, req.Preferences)
}

func TestDecodeMessage_GuideOffer(t *testing.T) {
	payload := []byte(`{
		"type": "GuideOffer",
		"guide_id": "bob",
		"categories": ["museums"],
		"available_window": {"start": "2025-06-15T10:00:00Z", "end": "2025-06-15T14:00:00Z"},
		"hourly_rate": 50,
		"max_group_size": 3
	}`)

	msg, err := DecodeMessage(payload)
	require.NoError(t, err)

	offer, ok := msg.(*GuideOffer)
	require.True(t, ok, "expected *GuideOffer, got %T", msg)
	assert.Equal(t, "bob", offer.GuideID)
	assert.InDelta(t, 50.0, offer.HourlyRate, 1e-9)
	assert.Equal(t, 3, offer.MaxGroupSize)
}

func TestDecodeMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"malformed json", `{"type": `, ErrInvalidMessage},
		{"missing type", `{"tourist_id": "alice"}`, ErrInvalidMessage},
		{"unknown type", `{"type": "WeatherReport"}`, ErrUnknownMessageType},
		{"tourist without id", `{"type": "TouristRequest", "budget": 10}`, ErrMissingTouristID},
		{"negative budget", `{"type": "TouristRequest", "tourist_id": "a", "budget": -5}`, ErrNegativeBudget},
		{"guide without id", `{"type": "GuideOffer", "hourly_rate": 10}`, ErrMissingGuideID},
		{
			"guide zero rate",
			`{"type": "GuideOffer", "guide_id": "g", "available_window": {"start": "2025-06-15T10:00:00Z", "end": "2025-06-15T14:00:00Z"}, "hourly_rate": 0, "max_group_size": 1}`,
			ErrInvalidRate,
		},
		{
			"guide zero capacity",
			`{"type": "GuideOffer", "guide_id": "g", "available_window": {"start": "2025-06-15T10:00:00Z", "end": "2025-06-15T14:00:00Z"}, "hourly_rate": 10, "max_group_size": 0}`,
			ErrInvalidGroupSize,
		},
		{
			"tourist inverted window",
			`{"type": "TouristRequest", "tourist_id": "a", "budget": 10, "availability": [{"start": "2025-06-15T14:00:00Z", "end": "2025-06-15T10:00:00Z"}]}`,
			ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeMessage_IgnoresExtraFields(t *testing.T) {
	payload := []byte(`{
		"type": "TouristRequest",
		"tourist_id": "alice",
		"budget": 40,
		"sender": "travel-agent-7",
		"trace": {"hop": 2}
	}`)

	msg, err := DecodeMessage(payload)
	require.NoError(t, err)
	req := msg.(*TouristRequest)
	assert.Equal(t, "alice", req.TouristID)
}

package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentCard(t *testing.T) {
	card := NewAgentCard("scheduler", "matches tourists to guides", "http://localhost:8080", "1.0.0")

	require.NoError(t, card.Validate())
	assert.Empty(t, card.Skills)
	assert.NotNil(t, card.Metadata)
}

func TestAgentCard_AddSkill(t *testing.T) {
	card := NewAgentCard("scheduler", "desc", "http://localhost:8080", "1.0.0").
		AddSkill("TouristRequest", "Schedule a tourist", "returns a proposal").
		AddSkill("GuideOffer", "Register a guide", "returns an acknowledgment")

	require.Len(t, card.Skills, 2)
	assert.True(t, card.HasSkill("TouristRequest"))
	assert.True(t, card.HasSkill("GuideOffer"))
	assert.False(t, card.HasSkill("WeatherReport"))
}

func TestAgentCard_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AgentCard)
		wantErr error
	}{
		{"missing name", func(c *AgentCard) { c.Name = "" }, ErrMissingName},
		{"missing description", func(c *AgentCard) { c.Description = "" }, ErrMissingDescription},
		{"missing url", func(c *AgentCard) { c.URL = "" }, ErrMissingURL},
		{"missing version", func(c *AgentCard) { c.Version = "" }, ErrMissingVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewAgentCard("scheduler", "desc", "http://localhost:8080", "1.0.0")
			tt.mutate(card)
			assert.ErrorIs(t, card.Validate(), tt.wantErr)
		})
	}
}

package a2a

// AgentCard is the discovery document served at /.well-known/agent.json,
// describing the scheduler agent and the message skills it accepts.
type AgentCard struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	Version     string            `json:"version"`
	Skills      []Skill           `json:"skills"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Skill describes one message type the agent handles.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewAgentCard creates an agent card with empty skill and metadata sets.
func NewAgentCard(name, description, url, version string) *AgentCard {
	return &AgentCard{
		Name:        name,
		Description: description,
		URL:         url,
		Version:     version,
		Skills:      make([]Skill, 0),
		Metadata:    make(map[string]string),
	}
}

// AddSkill appends a skill and returns the card for chaining.
func (c *AgentCard) AddSkill(id, name, description string) *AgentCard {
	c.Skills = append(c.Skills, Skill{ID: id, Name: name, Description: description})
	return c
}

// HasSkill reports whether the card lists a skill with the given id.
func (c *AgentCard) HasSkill(id string) bool {
	for _, s := range c.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Validate checks that all required card fields are present.
func (c *AgentCard) Validate() error {
	if c.Name == "" {
		return ErrMissingName
	}
	if c.Description == "" {
		return ErrMissingDescription
	}
	if c.URL == "" {
		return ErrMissingURL
	}
	if c.Version == "" {
		return ErrMissingVersion
	}
	return nil
}

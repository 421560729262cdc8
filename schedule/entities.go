package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TouristRequest is one tourist's scheduling ask. Budget is the maximum
// affordable hourly rate; a request with the same TouristID replaces any
// earlier one.
type TouristRequest struct {
	TouristID    string   `json:"tourist_id"`
	Availability []Window `json:"availability"`
	Budget       float64  `json:"budget"`
	Preferences  []string `json:"preferences"`
}

// Validate checks the data-model invariants of the request.
func (r *TouristRequest) Validate() error {
	if r.TouristID == "" {
		return ErrMissingTouristID
	}
	if r.Budget < 0 {
		return ErrNegativeBudget
	}
	for i, w := range r.Availability {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: availability[%d]", err, i)
		}
	}
	return nil
}

// covers reports whether any single availability window fully contains w.
// Partial coverage across multiple windows does not count.
func (r *TouristRequest) covers(w Window) bool {
	for _, a := range r.Availability {
		if a.Contains(w) {
			return true
		}
	}
	return false
}

// GuideOffer is one guide's availability: a single window, an hourly rate,
// category specialties, and the remaining group capacity for that window.
// An offer with the same GuideID replaces any earlier one.
type GuideOffer struct {
	GuideID         string   `json:"guide_id"`
	Categories      []string `json:"categories"`
	AvailableWindow Window   `json:"available_window"`
	HourlyRate      float64  `json:"hourly_rate"`
	MaxGroupSize    int      `json:"max_group_size"`
}

// Validate checks the data-model invariants of the offer.
func (o *GuideOffer) Validate() error {
	if o.GuideID == "" {
		return ErrMissingGuideID
	}
	if err := o.AvailableWindow.Validate(); err != nil {
		return fmt.Errorf("%w: available_window", err)
	}
	if o.HourlyRate <= 0 {
		return ErrInvalidRate
	}
	if o.MaxGroupSize < 1 {
		return ErrInvalidGroupSize
	}
	return nil
}

// Assignment is one resolved tourist-guide pairing. It is derived state:
// every scheduling run recomputes the full assignment list from scratch.
type Assignment struct {
	TouristID  string   `json:"tourist_id"`
	GuideID    string   `json:"guide_id"`
	TimeWindow Window   `json:"time_window"`
	Categories []string `json:"categories"`
	TotalCost  float64  `json:"total_cost"`
}

// ScheduleProposal is the response artifact for a tourist request. An
// unmatched tourist receives a proposal with an empty assignment list,
// not an error.
type ScheduleProposal struct {
	Type        MessageType  `json:"type"`
	ProposalID  string       `json:"proposal_id"`
	Assignments []Assignment `json:"assignments"`
}

// NewScheduleProposal builds a proposal for the given tourist. The proposal
// ID is unique per run, derived from the tourist ID and the current time.
func NewScheduleProposal(touristID string, assignments []Assignment) *ScheduleProposal {
	if assignments == nil {
		assignments = []Assignment{}
	}
	return &ScheduleProposal{
		Type:        MessageTypeScheduleProposal,
		ProposalID:  fmt.Sprintf("proposal-%s-%d-%s", touristID, time.Now().Unix(), uuid.New().String()[:8]),
		Assignments: assignments,
	}
}

// Acknowledgment is the response artifact for a guide offer.
type Acknowledgment struct {
	Type      MessageType `json:"type"`
	Message   string      `json:"message"`
	GuideID   string      `json:"guide_id"`
	Timestamp int64       `json:"timestamp"`
}

// NewAcknowledgment builds an acknowledgment for the given guide with the
// current unix timestamp.
func NewAcknowledgment(guideID string) *Acknowledgment {
	return &Acknowledgment{
		Type:      MessageTypeAcknowledgment,
		Message:   fmt.Sprintf("offer from guide %s registered", guideID),
		GuideID:   guideID,
		Timestamp: time.Now().Unix(),
	}
}

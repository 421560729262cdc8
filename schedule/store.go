package schedule

import "sync"

// Store holds all tourist requests and guide offers received so far, plus
// the assignments produced by the most recent scheduling run. It is the
// process-lifetime aggregate of the coordinator: created empty at startup,
// never persisted.
//
// Registration order is preserved for both tourists and guides so that a
// recompute over the same state is deterministic (the engine's tie-break
// depends on guide list order).
type Store struct {
	mu sync.RWMutex

	tourists     map[string]TouristRequest
	touristOrder []string
	guides       map[string]GuideOffer
	guideOrder   []string
	assignments  []Assignment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tourists: make(map[string]TouristRequest),
		guides:   make(map[string]GuideOffer),
	}
}

// UpsertTourist inserts or replaces the request keyed by its tourist ID.
// Last write wins; re-registration keeps the original position in the
// registration order.
func (s *Store) UpsertTourist(req TouristRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tourists[req.TouristID]; !exists {
		s.touristOrder = append(s.touristOrder, req.TouristID)
	}
	s.tourists[req.TouristID] = req
}

// UpsertGuide inserts or replaces the offer keyed by its guide ID.
func (s *Store) UpsertGuide(offer GuideOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.guides[offer.GuideID]; !exists {
		s.guideOrder = append(s.guideOrder, offer.GuideID)
	}
	s.guides[offer.GuideID] = offer
}

// ReplaceAssignments swaps in the result of a scheduling run. The previous
// list is discarded wholesale, never merged.
func (s *Store) ReplaceAssignments(assignments []Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append([]Assignment(nil), assignments...)
}

// Tourists returns the current requests in registration order.
func (s *Store) Tourists() []TouristRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TouristRequest, 0, len(s.touristOrder))
	for _, id := range s.touristOrder {
		out = append(out, s.tourists[id])
	}
	return out
}

// Guides returns the current offers in registration order.
func (s *Store) Guides() []GuideOffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GuideOffer, 0, len(s.guideOrder))
	for _, id := range s.guideOrder {
		out = append(out, s.guides[id])
	}
	return out
}

// Assignments returns a copy of the most recent scheduling result.
func (s *Store) Assignments() []Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Assignment(nil), s.assignments...)
}

// AssignmentsFor returns the current assignments restricted to one tourist.
func (s *Store) AssignmentsFor(touristID string) []Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Assignment, 0, 1)
	for _, a := range s.assignments {
		if a.TouristID == touristID {
			out = append(out, a)
		}
	}
	return out
}

// Summary is a point-in-time observability snapshot of the store.
type Summary struct {
	TouristCount    int      `json:"tourist_count"`
	GuideCount      int      `json:"guide_count"`
	AssignmentCount int      `json:"assignment_count"`
	TouristIDs      []string `json:"tourist_ids"`
	GuideIDs        []string `json:"guide_ids"`
}

// Summary returns counts and id lists for the current state.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		TouristCount:    len(s.tourists),
		GuideCount:      len(s.guides),
		AssignmentCount: len(s.assignments),
		TouristIDs:      append([]string(nil), s.touristOrder...),
		GuideIDs:        append([]string(nil), s.guideOrder...),
	}
}

// Metrics is the aggregate snapshot delivered to the dashboard collaborator.
type Metrics struct {
	Type              MessageType `json:"type"`
	TotalTourists     int         `json:"total_tourists"`
	TotalGuides       int         `json:"total_guides"`
	TotalAssignments  int         `json:"total_assignments"`
	SatisfiedTourists int         `json:"satisfied_tourists"`
	GuideUtilization  float64     `json:"guide_utilization"`
	AvgAssignmentCost float64     `json:"avg_assignment_cost"`
}

// Metrics computes the dashboard metrics from the current state. Guide
// utilization is assigned seats over total offered capacity; both it and
// the average cost are zero when the denominator is empty.
func (s *Store) Metrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := Metrics{
		Type:             MessageTypeMetrics,
		TotalTourists:    len(s.tourists),
		TotalGuides:      len(s.guides),
		TotalAssignments: len(s.assignments),
	}

	satisfied := make(map[string]struct{}, len(s.assignments))
	var totalCost float64
	for _, a := range s.assignments {
		satisfied[a.TouristID] = struct{}{}
		totalCost += a.TotalCost
	}
	m.SatisfiedTourists = len(satisfied)

	capacity := 0
	for _, g := range s.guides {
		capacity += g.MaxGroupSize
	}
	if capacity > 0 {
		m.GuideUtilization = float64(len(s.assignments)) / float64(capacity)
	}
	if len(s.assignments) > 0 {
		m.AvgAssignmentCost = totalCost / float64(len(s.assignments))
	}
	return m
}

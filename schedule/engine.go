package schedule

import "sort"

// BuildSchedule pairs tourist requests with guide offers in a single greedy
// pass. It is a pure function: deterministic given its inputs, no side
// effects, and it never fails — a tourist that cannot be matched simply
// produces no assignment.
//
// Tourists are processed in ascending order of the start of their first
// availability window; tourists with no availability are skipped. For each
// tourist the candidate guides are those with remaining capacity, an hourly
// rate within budget (inclusive), and an offered window fully contained in
// at least one of the tourist's availability windows. Among candidates the
// one with the most preference/category matches wins; on a score tie the
// first candidate in guide list order wins. The selected guide's entire
// offered window is booked and its remaining capacity drops by one.
func BuildSchedule(tourists []TouristRequest, guides []GuideOffer) []Assignment {
	remaining := make(map[string]int, len(guides))
	for _, g := range guides {
		remaining[g.GuideID] = g.MaxGroupSize
	}

	ordered := make([]TouristRequest, 0, len(tourists))
	for _, t := range tourists {
		if len(t.Availability) == 0 {
			continue
		}
		ordered = append(ordered, t)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Availability[0].Start.Before(ordered[j].Availability[0].Start)
	})

	assignments := make([]Assignment, 0, len(ordered))
	for _, tourist := range ordered {
		bestIdx := -1
		bestScore := -1
		for i, guide := range guides {
			if remaining[guide.GuideID] <= 0 {
				continue
			}
			if tourist.Budget < guide.HourlyRate {
				continue
			}
			if !tourist.covers(guide.AvailableWindow) {
				continue
			}
			// Strictly-greater keeps the first candidate on ties.
			if score := preferenceScore(tourist.Preferences, guide.Categories); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			continue
		}

		guide := guides[bestIdx]
		assignments = append(assignments, Assignment{
			TouristID:  tourist.TouristID,
			GuideID:    guide.GuideID,
			TimeWindow: guide.AvailableWindow,
			Categories: append([]string(nil), guide.Categories...),
			TotalCost:  guide.HourlyRate * guide.AvailableWindow.Hours(),
		})
		remaining[guide.GuideID]--
	}

	return assignments
}

// preferenceScore counts the distinct preference categories that appear in
// the guide's category list: |set(preferences) ∩ set(categories)|.
func preferenceScore(preferences, categories []string) int {
	if len(preferences) == 0 || len(categories) == 0 {
		return 0
	}
	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[c] = struct{}{}
	}
	counted := make(map[string]struct{}, len(preferences))
	score := 0
	for _, p := range preferences {
		if _, dup := counted[p]; dup {
			continue
		}
		counted[p] = struct{}{}
		if _, ok := catSet[p]; ok {
			score++
		}
	}
	return score
}

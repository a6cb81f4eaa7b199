package progress

import "sort"

// Mastery thresholds
const (
	masteryMinAttempts = 5
	masteryMinAccuracy = 80

	streakMilestone5  = 5
	streakMilestone10 = 10
)

// Milestones are level-triggered achievement predicates over a Snapshot.
// They re-fire on every evaluation while the underlying condition holds;
// de-duplicating notification delivery is the caller's job.
type Milestones struct {
	FirstCase        bool     `json:"first_case"`
	PerfectScore     bool     `json:"perfect_score"`
	Streak5          bool     `json:"streak_5"`
	Streak10         bool     `json:"streak_10"`
	CategoryComplete []string `json:"category_complete"`
}

// Evaluate computes the milestone set for a Snapshot. Pure and
// state-evaluating: no edge detection, no notified-tracking.
func Evaluate(s Snapshot) Milestones {
	ms := Milestones{
		FirstCase:    s.CasesCompleted == 1,
		PerfectScore: s.CasesCompleted > 0 && s.Accuracy == 100,
		Streak5:      s.CurrentStreak >= streakMilestone5,
		Streak10:     s.CurrentStreak >= streakMilestone10,
	}
	for cat, t := range s.Categories {
		if t.Attempted >= masteryMinAttempts && t.Accuracy >= masteryMinAccuracy {
			ms.CategoryComplete = append(ms.CategoryComplete, cat)
		}
	}
	sort.Strings(ms.CategoryComplete)
	return ms
}

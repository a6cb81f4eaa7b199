package progress

import (
	"math"
	"time"
)

type (
	// Tally is one category's or specialty track's attempted/correct rollup.
	Tally struct {
		Attempted int `json:"attempted"`
		Correct   int `json:"correct"`
		Accuracy  int `json:"accuracy"` // round(100 * Correct / Attempted), 0 when nothing attempted
	}

	// Snapshot is the per-user progress aggregate. The zero value is the
	// prior state of a user's very first submission.
	Snapshot struct {
		CasesCompleted int              `json:"cases_completed"`
		TotalCorrect   int              `json:"total_correct"`
		Accuracy       int              `json:"accuracy"`
		CurrentStreak  int              `json:"current_streak"` // consecutive-correct count
		Categories     map[string]Tally `json:"category_progress"`
		Specialties    map[string]Tally `json:"specialty_progress"`
	}

	// Submission is one case-attempt outcome, consumed exactly once.
	Submission struct {
		CaseID      string        `json:"case_id"`
		Category    string        `json:"category"`
		Specialties []string      `json:"specialties"`
		Correct     bool          `json:"correct"`
		Score       int           `json:"score"`
		TimeSpent   time.Duration `json:"time_spent"`
		HintsUsed   int           `json:"hints_used"`
	}
)

func roundPct(correct, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(attempted)))
}

// bump clones tallies and applies one attempt to key; untouched keys carry
// over unchanged.
func bump(tallies map[string]Tally, key string, correct bool) map[string]Tally {
	next := make(map[string]Tally, len(tallies)+1)
	for k, v := range tallies {
		next[k] = v
	}
	t := next[key] // zero Tally when absent
	t.Attempted++
	if correct {
		t.Correct++
	}
	t.Accuracy = roundPct(t.Correct, t.Attempted)
	next[key] = t
	return next
}

// Apply computes the next Snapshot from the previous one and a Submission.
// It is a pure function: prev is not mutated, and no validation or clamping
// is performed; a well-formed prev is the caller's responsibility.
func Apply(prev Snapshot, sub Submission) Snapshot {
	next := prev

	next.CasesCompleted++
	if sub.Correct {
		next.TotalCorrect++
		next.CurrentStreak++
	} else {
		// one miss resets the streak outright
		next.CurrentStreak = 0
	}
	next.Accuracy = roundPct(next.TotalCorrect, next.CasesCompleted)

	next.Categories = bump(prev.Categories, sub.Category, sub.Correct)

	// a submission tagged with multiple specialties updates all of them
	next.Specialties = prev.Specialties
	for _, tag := range sub.Specialties {
		next.Specialties = bump(next.Specialties, tag, sub.Correct)
	}

	return next
}

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want Milestones
	}{
		{
			name: "zero snapshot",
			snap: Snapshot{},
			want: Milestones{},
		},
		{
			name: "first case",
			snap: Snapshot{CasesCompleted: 1, TotalCorrect: 1, Accuracy: 100, CurrentStreak: 1},
			want: Milestones{FirstCase: true, PerfectScore: true},
		},
		{
			name: "streak 5",
			snap: Snapshot{CasesCompleted: 6, TotalCorrect: 5, Accuracy: 83, CurrentStreak: 5},
			want: Milestones{Streak5: true},
		},
		{
			name: "streak 10 implies streak 5",
			snap: Snapshot{CasesCompleted: 12, TotalCorrect: 11, Accuracy: 92, CurrentStreak: 11},
			want: Milestones{Streak5: true, Streak10: true},
		},
		{
			name: "category mastered",
			snap: Snapshot{
				CasesCompleted: 6,
				TotalCorrect:   5,
				Accuracy:       83,
				Categories: map[string]Tally{
					"chest-pain": {Attempted: 5, Correct: 5, Accuracy: 100},
					"headache":   {Attempted: 1, Correct: 0, Accuracy: 0},
				},
			},
			want: Milestones{CategoryComplete: []string{"chest-pain"}},
		},
		{
			name: "mastery needs both thresholds",
			snap: Snapshot{
				CasesCompleted: 8,
				TotalCorrect:   7,
				Accuracy:       88,
				Categories: map[string]Tally{
					"trauma":   {Attempted: 4, Correct: 4, Accuracy: 100}, // too few attempts
					"headache": {Attempted: 5, Correct: 3, Accuracy: 60},  // accuracy too low
				},
			},
			want: Milestones{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.snap))
		})
	}
}

// Milestones are level-triggered: they keep firing while the condition holds.
func TestEvaluateLevelTriggered(t *testing.T) {
	snap := Snapshot{CasesCompleted: 7, TotalCorrect: 7, Accuracy: 100, CurrentStreak: 7}

	first := Evaluate(snap)
	second := Evaluate(snap)
	assert.Equal(t, first, second)
	assert.True(t, second.Streak5)

	// and keep holding as the streak grows past the threshold
	snap = Apply(snap, Submission{Category: "trauma", Correct: true})
	assert.True(t, Evaluate(snap).Streak5)
}

func TestFiveCorrectMasteryScenario(t *testing.T) {
	var snap Snapshot
	for i := 0; i < 5; i++ {
		snap = Apply(snap, Submission{Category: "chest-pain", Correct: true})
	}

	assert.Equal(t, Tally{Attempted: 5, Correct: 5, Accuracy: 100}, snap.Categories["chest-pain"])
	assert.Contains(t, Evaluate(snap).CategoryComplete, "chest-pain")
}

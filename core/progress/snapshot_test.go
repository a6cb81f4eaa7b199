package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFirstSubmission(t *testing.T) {
	next := Apply(Snapshot{}, Submission{
		CaseID:      "c1",
		Category:    "chest-pain",
		Specialties: []string{"em"},
		Correct:     true,
		Score:       100,
	})

	assert.Equal(t, 1, next.CasesCompleted)
	assert.Equal(t, 1, next.TotalCorrect)
	assert.Equal(t, 100, next.Accuracy)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, Tally{Attempted: 1, Correct: 1, Accuracy: 100}, next.Categories["chest-pain"])
	assert.Equal(t, Tally{Attempted: 1, Correct: 1, Accuracy: 100}, next.Specialties["em"])
	assert.True(t, Evaluate(next).FirstCase)
}

func TestApplyIncorrectResetsStreak(t *testing.T) {
	prev := Snapshot{
		CasesCompleted: 4,
		TotalCorrect:   3,
		Accuracy:       75,
		CurrentStreak:  3,
		Categories:     map[string]Tally{"headache": {Attempted: 4, Correct: 3, Accuracy: 75}},
	}

	next := Apply(prev, Submission{CaseID: "c5", Category: "headache", Correct: false})

	assert.Equal(t, 5, next.CasesCompleted)
	assert.Equal(t, 3, next.TotalCorrect)
	assert.Equal(t, 60, next.Accuracy)
	assert.Equal(t, 0, next.CurrentStreak)
	assert.Equal(t, Tally{Attempted: 5, Correct: 3, Accuracy: 60}, next.Categories["headache"])
}

func TestApplyDoesNotMutatePrev(t *testing.T) {
	prev := Snapshot{
		CasesCompleted: 2,
		TotalCorrect:   2,
		Accuracy:       100,
		CurrentStreak:  2,
		Categories:     map[string]Tally{"trauma": {Attempted: 2, Correct: 2, Accuracy: 100}},
		Specialties:    map[string]Tally{"surgery": {Attempted: 2, Correct: 2, Accuracy: 100}},
	}

	_ = Apply(prev, Submission{Category: "trauma", Specialties: []string{"surgery", "em"}, Correct: false})

	assert.Equal(t, 2, prev.CasesCompleted)
	assert.Equal(t, Tally{Attempted: 2, Correct: 2, Accuracy: 100}, prev.Categories["trauma"])
	assert.Equal(t, Tally{Attempted: 2, Correct: 2, Accuracy: 100}, prev.Specialties["surgery"])
	_, ok := prev.Specialties["em"]
	assert.False(t, ok)
}

func TestApplySpecialtyFanOut(t *testing.T) {
	// a submission tagged with multiple specialties updates all of them
	next := Apply(Snapshot{}, Submission{
		Category:    "abdominal-pain",
		Specialties: []string{"em", "im", "surgery"},
		Correct:     true,
	})

	for _, tag := range []string{"em", "im", "surgery"} {
		assert.Equal(t, Tally{Attempted: 1, Correct: 1, Accuracy: 100}, next.Specialties[tag], tag)
	}

	// zero tags is fine too
	next = Apply(Snapshot{}, Submission{Category: "abdominal-pain", Correct: true})
	assert.Empty(t, next.Specialties)
}

func TestApplyCarriesUntouchedKeys(t *testing.T) {
	prev := Snapshot{
		CasesCompleted: 1,
		TotalCorrect:   1,
		Accuracy:       100,
		CurrentStreak:  1,
		Categories:     map[string]Tally{"headache": {Attempted: 1, Correct: 1, Accuracy: 100}},
		Specialties:    map[string]Tally{"peds": {Attempted: 1, Correct: 1, Accuracy: 100}},
	}

	next := Apply(prev, Submission{Category: "back-pain", Specialties: []string{"fm"}, Correct: false})

	assert.Equal(t, Tally{Attempted: 1, Correct: 1, Accuracy: 100}, next.Categories["headache"])
	assert.Equal(t, Tally{Attempted: 1, Correct: 1, Accuracy: 100}, next.Specialties["peds"])
	assert.Equal(t, Tally{Attempted: 1, Correct: 0, Accuracy: 0}, next.Categories["back-pain"])
	assert.Equal(t, Tally{Attempted: 1, Correct: 0, Accuracy: 0}, next.Specialties["fm"])
}

func TestApplySequenceTotals(t *testing.T) {
	subs := []Submission{
		{Category: "chest-pain", Correct: true},
		{Category: "chest-pain", Correct: false},
		{Category: "headache", Correct: true},
		{Category: "trauma", Correct: true},
		{Category: "headache", Correct: false},
		{Category: "trauma", Correct: true},
		{Category: "trauma", Correct: true},
	}

	var snap Snapshot
	for _, sub := range subs {
		snap = Apply(snap, sub)

		// the rollup invariant holds after every single update
		for k, tl := range snap.Categories {
			assert.LessOrEqual(t, tl.Correct, tl.Attempted, k)
		}
	}

	assert.Equal(t, len(subs), snap.CasesCompleted)
	assert.Equal(t, 5, snap.TotalCorrect)
	assert.Equal(t, 71, snap.Accuracy) // round(100*5/7)

	// streak is the trailing run of correct submissions
	assert.Equal(t, 2, snap.CurrentStreak)
}

func TestRoundPct(t *testing.T) {
	tests := []struct {
		correct, attempted, want int
	}{
		{0, 0, 0},
		{1, 1, 100},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 4, 75},
		{5, 7, 71},
		{1, 8, 13}, // 12.5 rounds half away from zero
	}
	for _, tt := range tests {
		if got := roundPct(tt.correct, tt.attempted); got != tt.want {
			t.Errorf("roundPct(%d, %d) = %d, want %d", tt.correct, tt.attempted, got, tt.want)
		}
	}
}

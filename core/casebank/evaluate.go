package casebank

// Scoring
const (
	maxScore    = 100
	minScore    = 50
	hintPenalty = 10
)

type Evaluation struct {
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
	CorrectOption string `json:"correct_option"`
	TeachingPoint string `json:"teaching_point"`
}

// Evaluate scores an imaging-appropriateness decision against a Case.
// A wrong decision scores 0; a right one starts at 100 and loses 10 points
// per hint used, floored at 50.
func Evaluate(cs Case, choice string, hintsUsed int) Evaluation {
	ev := Evaluation{
		CorrectOption: cs.CorrectOption,
		TeachingPoint: cs.TeachingPoint,
	}
	if choice != cs.CorrectOption {
		return ev
	}
	ev.Correct = true
	ev.Score = maxScore - hintPenalty*hintsUsed
	if ev.Score < minScore {
		ev.Score = minScore
	}
	return ev
}

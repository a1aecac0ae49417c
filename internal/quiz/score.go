// Package quiz grades product quiz submissions.
package quiz

import (
	"math"

	"github.com/eclatbeaute/eclat/internal/model"
)

const (
	DefaultPointsPerCorrect = 10
	DefaultPerfectBonus     = 50
)

// SubmittedAnswer is one raw answer as sent by the client, in question order.
type SubmittedAnswer struct {
	SelectedIndex int `json:"selected_index"`
	TimeSpent     int `json:"time_spent"`
}

// Outcome is the graded submission. PointsEarned already includes the
// perfect-score bonus.
type Outcome struct {
	Answers      []model.QuizAnswer
	Score        int
	Percentage   int
	PointsEarned int
	Badges       []string
}

// Grade marks a submission against the quiz questions. Questions without a
// submitted answer count as wrong. Badges are cumulative thresholds, so a
// perfect score carries all four.
func Grade(questions []model.QuizQuestion, submitted []SubmittedAnswer, pointsPerCorrect, perfectBonus int) Outcome {
	if pointsPerCorrect <= 0 {
		pointsPerCorrect = DefaultPointsPerCorrect
	}
	if perfectBonus < 0 {
		perfectBonus = DefaultPerfectBonus
	}

	out := Outcome{Answers: make([]model.QuizAnswer, len(questions))}
	for i, q := range questions {
		ans := model.QuizAnswer{SelectedIndex: -1}
		if i < len(submitted) {
			ans.SelectedIndex = submitted[i].SelectedIndex
			ans.TimeSpent = submitted[i].TimeSpent
		}
		ans.Correct = ans.SelectedIndex == q.Answer
		if ans.Correct {
			out.Score++
		}
		out.Answers[i] = ans
	}

	if len(questions) > 0 {
		out.Percentage = int(math.Round(float64(out.Score) / float64(len(questions)) * 100))
	}
	out.PointsEarned = out.Score * pointsPerCorrect
	if out.Percentage == 100 {
		out.PointsEarned += perfectBonus
	}
	out.Badges = badgesFor(out.Percentage)
	return out
}

func badgesFor(percentage int) []string {
	var badges []string
	if percentage == 100 {
		badges = append(badges, "Parfait 🏆")
	}
	if percentage >= 80 {
		badges = append(badges, "Excellent 🌟")
	}
	if percentage >= 60 {
		badges = append(badges, "Bon 👍")
	}
	if percentage >= 40 {
		badges = append(badges, "Passable ✓")
	}
	return badges
}

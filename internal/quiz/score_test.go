package quiz

import (
	"reflect"
	"testing"

	"github.com/eclatbeaute/eclat/internal/model"
)

func fiveQuestions() []model.QuizQuestion {
	qs := make([]model.QuizQuestion, 5)
	for i := range qs {
		qs[i] = model.QuizQuestion{
			Text:    "Question",
			Options: []string{"a", "b", "c", "d"},
			Answer:  i % 4,
		}
	}
	return qs
}

func answers(indexes ...int) []SubmittedAnswer {
	out := make([]SubmittedAnswer, len(indexes))
	for i, idx := range indexes {
		out[i] = SubmittedAnswer{SelectedIndex: idx}
	}
	return out
}

func TestGradePerfectScore(t *testing.T) {
	out := Grade(fiveQuestions(), answers(0, 1, 2, 3, 0), 10, 50)
	if out.Score != 5 {
		t.Fatalf("score = %d, want 5", out.Score)
	}
	if out.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", out.Percentage)
	}
	if out.PointsEarned != 100 {
		t.Errorf("points = %d, want 100 (5*10 + 50)", out.PointsEarned)
	}
	want := []string{"Parfait 🏆", "Excellent 🌟", "Bon 👍", "Passable ✓"}
	if !reflect.DeepEqual(out.Badges, want) {
		t.Errorf("badges = %v, want %v", out.Badges, want)
	}
}

func TestGradePartialScore(t *testing.T) {
	out := Grade(fiveQuestions(), answers(0, 1, 2, 0, 1), 10, 50)
	if out.Score != 3 {
		t.Fatalf("score = %d, want 3", out.Score)
	}
	if out.Percentage != 60 {
		t.Errorf("percentage = %d, want 60", out.Percentage)
	}
	if out.PointsEarned != 30 {
		t.Errorf("points = %d, want 30 (no perfect bonus)", out.PointsEarned)
	}
	want := []string{"Bon 👍", "Passable ✓"}
	if !reflect.DeepEqual(out.Badges, want) {
		t.Errorf("badges = %v, want %v", out.Badges, want)
	}
}

func TestGradeBadgeThresholds(t *testing.T) {
	cases := []struct {
		correct int
		badges  int
	}{
		{5, 4},
		{4, 3}, // 80%
		{3, 2}, // 60%
		{2, 1}, // 40%
		{1, 0}, // 20%
		{0, 0},
	}
	correctFor := []int{0, 1, 2, 3, 0}
	for _, c := range cases {
		sub := make([]SubmittedAnswer, 5)
		for i := range sub {
			if i < c.correct {
				sub[i].SelectedIndex = correctFor[i]
			} else {
				sub[i].SelectedIndex = (correctFor[i] + 1) % 4
			}
		}
		out := Grade(fiveQuestions(), sub, 10, 50)
		if len(out.Badges) != c.badges {
			t.Errorf("%d correct: got %d badges %v, want %d", c.correct, len(out.Badges), out.Badges, c.badges)
		}
	}
}

func TestGradeMissingAnswersCountWrong(t *testing.T) {
	out := Grade(fiveQuestions(), answers(0, 1), 10, 50)
	if out.Score != 2 {
		t.Fatalf("score = %d, want 2", out.Score)
	}
	if len(out.Answers) != 5 {
		t.Fatalf("answers = %d, want 5", len(out.Answers))
	}
	for i := 2; i < 5; i++ {
		if out.Answers[i].SelectedIndex != -1 || out.Answers[i].Correct {
			t.Errorf("answer %d = %+v, want unanswered and wrong", i, out.Answers[i])
		}
	}
}

func TestGradeDefaultsRewards(t *testing.T) {
	out := Grade(fiveQuestions(), answers(0, 1, 2, 3, 0), 0, -1)
	if out.PointsEarned != 100 {
		t.Errorf("points = %d, want 100 with default rewards", out.PointsEarned)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	out := Grade(nil, nil, 10, 50)
	if out.Score != 0 || out.Percentage != 0 || out.PointsEarned != 0 || len(out.Badges) != 0 {
		t.Errorf("empty quiz outcome = %+v, want zero", out)
	}
}

package ai

import (
	"context"
	"testing"

	"github.com/eclatbeaute/eclat/internal/model"
)

func TestGenerateProductQuizFallback(t *testing.T) {
	svc := newTestService(t)

	questions := svc.GenerateProductQuiz(context.Background(), "Crème Hydratante", model.QuizBenefits, 5)
	if !validProductQuestions(questions, 5) {
		t.Error("fallback questions must satisfy their own validation rules")
	}
}

func TestDefaultProductQuestionsFamily(t *testing.T) {
	hair := []string{"Shampoing Doux", "Après-Shampoing Réparateur", "Masque Cheveux Secs", "CONDITIONNEUR volume"}
	for _, name := range hair {
		got := DefaultProductQuestions(name)
		if got[0].Text != hairQuestions()[0].Text {
			t.Errorf("%q should get the hair set", name)
		}
	}

	skin := []string{"Crème Hydratante", "Sérum Éclat", "Gel Nettoyant"}
	for _, name := range skin {
		got := DefaultProductQuestions(name)
		if got[0].Text != skinQuestions()[0].Text {
			t.Errorf("%q should get the skin set", name)
		}
	}
}

func TestValidProductQuestions(t *testing.T) {
	good := skinQuestions()
	if !validProductQuestions(good, 5) {
		t.Fatal("default set should be valid")
	}
	if validProductQuestions(good[:4], 5) {
		t.Error("wrong count should be rejected")
	}

	badText := skinQuestions()
	badText[0].Text = "  "
	if validProductQuestions(badText, 5) {
		t.Error("blank text should be rejected")
	}

	badOptions := skinQuestions()
	badOptions[0].Options = badOptions[0].Options[:3]
	if validProductQuestions(badOptions, 5) {
		t.Error("3 options should be rejected")
	}

	badAnswer := skinQuestions()
	badAnswer[0].Answer = 4
	if validProductQuestions(badAnswer, 5) {
		t.Error("out-of-range answer should be rejected")
	}

	oddDifficulty := skinQuestions()
	oddDifficulty[0].Difficulty = "impossible"
	if !validProductQuestions(oddDifficulty, 5) {
		t.Fatal("unknown difficulty should be normalized, not rejected")
	}
	if oddDifficulty[0].Difficulty != model.DifficultyMedium {
		t.Errorf("difficulty = %q, want %q", oddDifficulty[0].Difficulty, model.DifficultyMedium)
	}
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eclatbeaute/eclat/internal/model"
)

var quizCategoryLabels = map[model.QuizCategory]string{
	model.QuizIngredients:  "les ingrédients",
	model.QuizUsage:        "le mode d'utilisation",
	model.QuizBenefits:     "les bénéfices",
	model.QuizSkincareType: "le type de peau adapté",
}

// GenerateProductQuiz builds questions about one product for the given
// angle. Always answers: a malformed or failed API response falls back to
// the static set matching the product family.
func (s *Service) GenerateProductQuiz(ctx context.Context, productName string, category model.QuizCategory, count int) []model.QuizQuestion {
	if count <= 0 {
		count = 5
	}
	prompt := fmt.Sprintf(
		"Génère %d questions à choix multiples en français sur le produit cosmétique %q, axées sur %s. "+
			"Réponds uniquement en JSON: "+
			`{"questions": [{"text": "...", "options": ["a","b","c","d"], "answer": 0, "explanation": "...", "difficulty": "facile"|"moyen"|"difficile"}]}. `+
			"Chaque question a exactement 4 options et answer est l'index de la bonne réponse.",
		count, productName, quizCategoryLabels[category],
	)
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.log.Debug("product quiz fallback", "product", productName, "error", err)
		return DefaultProductQuestions(productName)
	}

	block, ok := ExtractJSON(raw)
	if !ok {
		return DefaultProductQuestions(productName)
	}
	var payload struct {
		Questions []model.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return DefaultProductQuestions(productName)
	}
	if !validProductQuestions(payload.Questions, count) {
		s.log.Debug("product quiz response invalid", "product", productName)
		return DefaultProductQuestions(productName)
	}
	return payload.Questions
}

func validProductQuestions(questions []model.QuizQuestion, count int) bool {
	if len(questions) != count {
		return false
	}
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Text) == "" {
			return false
		}
		if len(q.Options) != 4 {
			return false
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return false
			}
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return false
		}
		if q.Difficulty != "" && !q.Difficulty.Valid() {
			q.Difficulty = model.DifficultyMedium
		}
	}
	return true
}

var hairProductKeywords = []string{"shampoing", "shampooing", "après-shampoing", "conditionneur", "cheveux"}

// DefaultProductQuestions returns the static question set used when a quiz
// is created lazily. Hair products get the hair set, everything else the
// skin set.
func DefaultProductQuestions(productName string) []model.QuizQuestion {
	name := strings.ToLower(productName)
	for _, kw := range hairProductKeywords {
		if strings.Contains(name, kw) {
			return hairQuestions()
		}
	}
	return skinQuestions()
}

func hairQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		{
			Text:        "À quelle fréquence faut-il laver des cheveux normaux ?",
			Options:     []string{"Tous les jours", "2 à 3 fois par semaine", "Une fois par mois", "Deux fois par jour"},
			Answer:      1,
			Explanation: "Des lavages trop fréquents agressent le cuir chevelu.",
			Difficulty:  model.DifficultyEasy,
		},
		{
			Text:        "Sur quelle partie des cheveux applique-t-on l'après-shampoing ?",
			Options:     []string{"Les racines", "Les longueurs et pointes", "Le cuir chevelu", "Partout en massant"},
			Answer:      1,
			Explanation: "Les racines graissent plus vite si on les enduit de soin.",
			Difficulty:  model.DifficultyEasy,
		},
		{
			Text:        "Quelle eau de rinçage apporte de la brillance ?",
			Options:     []string{"Très chaude", "Tiède puis fraîche", "Bouillante", "Glacée uniquement"},
			Answer:      1,
			Explanation: "Un jet frais resserre les écailles du cheveu.",
			Difficulty:  model.DifficultyMedium,
		},
		{
			Text:        "Comment protéger les cheveux avant un brushing ?",
			Options:     []string{"Avec un soin thermo-protecteur", "Avec de la laque", "Rien, les cheveux résistent", "Avec de l'eau froide"},
			Answer:      0,
			Explanation: "La chaleur fragilise la fibre sans protection adaptée.",
			Difficulty:  model.DifficultyMedium,
		},
		{
			Text:        "Quel geste limite la casse au démêlage ?",
			Options:     []string{"Brosser des pointes vers les racines", "Tirer d'un coup sec", "Démêler mouillé sans soin", "Utiliser un peigne fin sur cheveux secs"},
			Answer:      0,
			Explanation: "On démêle progressivement en remontant vers les racines.",
			Difficulty:  model.DifficultyHard,
		},
	}
}

func skinQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		{
			Text:        "Quel est le premier geste d'une routine visage ?",
			Options:     []string{"La crème", "Le nettoyage", "Le parfum", "Le maquillage"},
			Answer:      1,
			Explanation: "Une peau propre absorbe mieux les soins qui suivent.",
			Difficulty:  model.DifficultyEasy,
		},
		{
			Text:        "Quand faut-il appliquer une protection solaire ?",
			Options:     []string{"Uniquement à la plage", "Tous les matins", "Seulement en été", "Jamais"},
			Answer:      1,
			Explanation: "Les UV atteignent la peau toute l'année, même par temps couvert.",
			Difficulty:  model.DifficultyEasy,
		},
		{
			Text:        "Quel ingrédient est réputé pour l'hydratation ?",
			Options:     []string{"L'acide hyaluronique", "L'alcool", "Le talc", "Le menthol"},
			Answer:      0,
			Explanation: "Il retient l'eau dans les couches superficielles de la peau.",
			Difficulty:  model.DifficultyMedium,
		},
		{
			Text:        "Dans quel ordre applique-t-on sérum et crème ?",
			Options:     []string{"Crème puis sérum", "Sérum puis crème", "Ensemble mélangés", "Peu importe"},
			Answer:      1,
			Explanation: "Du plus léger au plus riche pour laisser pénétrer les actifs.",
			Difficulty:  model.DifficultyMedium,
		},
		{
			Text:        "À quelle fréquence exfolier une peau sensible ?",
			Options:     []string{"Tous les jours", "Une fois par semaine au maximum", "Trois fois par jour", "Jamais de soin du tout"},
			Answer:      1,
			Explanation: "Une exfoliation trop fréquente abîme la barrière cutanée.",
			Difficulty:  model.DifficultyHard,
		},
	}
}

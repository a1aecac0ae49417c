package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eclatbeaute/eclat/internal/model"
)

// Service exposes the assistant features built on the Gemini client. The
// description and sentiment surfaces fail when the API does; advice, chat
// and quiz always answer via static fallbacks.
type Service struct {
	client *Client
	log    *slog.Logger
}

func NewService(client *Client, log *slog.Logger) *Service {
	return &Service{client: client, log: log.With("component", "ai")}
}

// Configured reports whether the underlying client reaches the API.
func (s *Service) Configured() bool {
	return s.client.Configured()
}

// ProductDescription writes marketing copy for a product. No fallback.
func (s *Service) ProductDescription(ctx context.Context, name, category string) (string, error) {
	prompt := fmt.Sprintf(
		"Rédige une description marketing élégante de 2 à 3 phrases en français pour un produit cosmétique. "+
			"Nom: %s. Catégorie: %s. Réponds uniquement avec la description, sans titre.",
		name, category,
	)
	return s.client.Generate(ctx, prompt)
}

// Sentiment is the analysis of a piece of customer text.
type Sentiment struct {
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
	Summary   string `json:"summary"`
}

// AnalyzeSentiment classifies text as positif, négatif or neutre with a
// 1..5 score. No fallback.
func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (*Sentiment, error) {
	prompt := fmt.Sprintf(
		"Analyse le sentiment de cet avis client en français. Réponds uniquement en JSON: "+
			`{"sentiment": "positif"|"négatif"|"neutre", "score": 1-5, "summary": "résumé en une phrase"}. `+
			"Avis: %q",
		text,
	)
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	block, ok := ExtractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("sentiment response has no JSON: %w", ErrUnavailable)
	}
	var result Sentiment
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return nil, fmt.Errorf("parse sentiment: %w", err)
	}

	switch result.Sentiment {
	case "positif", "négatif", "neutre":
	default:
		result.Sentiment = "neutre"
	}
	if result.Score < 1 {
		result.Score = 1
	}
	if result.Score > 5 {
		result.Score = 5
	}
	return &result, nil
}

var adviceFallbacks = map[model.TaskCategory]string{
	model.CategorySkincare: "Appliquez vos soins sur une peau propre, matin et soir, et n'oubliez pas la protection solaire.",
	model.CategoryHaircare: "Espacez les shampoings et terminez par un soin sans rinçage adapté à votre type de cheveux.",
	model.CategoryRoutine:  "La régularité compte plus que la quantité : quelques gestes simples chaque jour suffisent.",
	model.CategoryShopping: "Consultez les avis et la composition avant d'ajouter un produit à votre panier.",
	model.CategoryReview:   "Un avis utile décrit votre type de peau ou de cheveux et l'effet constaté après quelques utilisations.",
	model.CategorySocial:   "Partagez vos routines préférées, la communauté adore découvrir de nouvelles astuces.",
}

const adviceDefault = "Prenez votre temps et faites de cette mission un moment de soin pour vous."

// TaskAdvice gives one short coaching sentence for a mission. Always
// answers: on API failure the per-category fallback is returned.
func (s *Service) TaskAdvice(ctx context.Context, title, description string, category model.TaskCategory) string {
	prompt := fmt.Sprintf(
		"Donne un conseil court (une ou deux phrases, en français) pour aider à accomplir cette mission beauté. "+
			"Titre: %s. Description: %s. Catégorie: %s. Réponds uniquement avec le conseil.",
		title, description, category,
	)
	advice, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.log.Debug("task advice fallback", "category", category, "error", err)
		if fb, ok := adviceFallbacks[category]; ok {
			return fb
		}
		return adviceDefault
	}
	return advice
}

// Quiz is a 5-question multiple-choice beauty quiz.
type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// GenerateQuiz builds a quiz on a topic. Responses are validated (5
// questions, 4 options each, answer index in range); anything malformed
// falls back to the static quiz.
func (s *Service) GenerateQuiz(ctx context.Context, topic, difficulty string) *Quiz {
	prompt := fmt.Sprintf(
		"Génère un quiz beauté de 5 questions à choix multiples en français sur le thème %q, difficulté %s. "+
			"Réponds uniquement en JSON: "+
			`{"topic": "...", "questions": [{"question": "...", "options": ["a","b","c","d"], "answer": 0}]}. `+
			"Chaque question a exactement 4 options et answer est l'index de la bonne réponse.",
		topic, difficulty,
	)
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.log.Debug("quiz fallback", "topic", topic, "error", err)
		return fallbackQuiz(topic)
	}

	block, ok := ExtractJSON(raw)
	if !ok {
		return fallbackQuiz(topic)
	}
	var quiz Quiz
	if err := json.Unmarshal([]byte(block), &quiz); err != nil {
		return fallbackQuiz(topic)
	}
	if !validQuiz(&quiz) {
		s.log.Debug("quiz response invalid", "topic", topic)
		return fallbackQuiz(topic)
	}
	if strings.TrimSpace(quiz.Topic) == "" {
		quiz.Topic = topic
	}
	return &quiz
}

func validQuiz(q *Quiz) bool {
	if len(q.Questions) != 5 {
		return false
	}
	for _, question := range q.Questions {
		if strings.TrimSpace(question.Question) == "" {
			return false
		}
		if len(question.Options) != 4 {
			return false
		}
		for _, opt := range question.Options {
			if strings.TrimSpace(opt) == "" {
				return false
			}
		}
		if question.Answer < 0 || question.Answer >= len(question.Options) {
			return false
		}
	}
	return true
}

func fallbackQuiz(topic string) *Quiz {
	return &Quiz{
		Topic: topic,
		Questions: []QuizQuestion{
			{
				Question: "À quel moment faut-il appliquer une protection solaire ?",
				Options:  []string{"Uniquement à la plage", "Tous les matins", "Seulement en été", "Jamais"},
				Answer:   1,
			},
			{
				Question: "Quel est le premier geste d'une routine visage le soir ?",
				Options:  []string{"Le sérum", "La crème de nuit", "Le démaquillage", "Le gommage"},
				Answer:   2,
			},
			{
				Question: "À quelle fréquence faut-il faire un gommage du visage ?",
				Options:  []string{"Tous les jours", "1 à 2 fois par semaine", "Une fois par mois", "Jamais"},
				Answer:   1,
			},
			{
				Question: "Quel ingrédient est réputé pour l'hydratation de la peau ?",
				Options:  []string{"L'acide hyaluronique", "L'alcool", "Le parfum", "Le talc"},
				Answer:   0,
			},
			{
				Question: "Comment limiter la casse des cheveux ?",
				Options:  []string{"Brosser mouillé énergiquement", "Sécher à température maximale", "Utiliser un soin thermo-protecteur", "Laver deux fois par jour"},
				Answer:   2,
			},
		},
	}
}

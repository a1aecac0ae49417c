package ai

import (
	"context"
	"fmt"
	"strings"
)

type chatRule struct {
	keywords []string
	answer   string
}

// Rule order matters: the first matching rule answers.
var chatRules = []chatRule{
	{
		keywords: []string{"livraison", "expédition", "délai", "colis"},
		answer:   "Nos commandes sont expédiées sous 24 à 48h et livrées en 2 à 5 jours ouvrés. La livraison est offerte dès 50€ d'achat.",
	},
	{
		keywords: []string{"retour", "rembourse", "échange"},
		answer:   "Vous disposez de 30 jours après réception pour retourner un produit non ouvert. Le remboursement est effectué sous 14 jours.",
	},
	{
		keywords: []string{"paiement", "payer", "carte", "paypal"},
		answer:   "Nous acceptons la carte bancaire, PayPal et le virement. Vos points fidélité peuvent aussi réduire le montant de votre commande.",
	},
	{
		keywords: []string{"ingrédient", "composition", "naturel", "bio"},
		answer:   "La composition complète de chaque produit figure sur sa fiche. Nos formules privilégient des ingrédients d'origine naturelle.",
	},
	{
		keywords: []string{"qualité", "garantie", "authentique"},
		answer:   "Tous nos produits sont authentiques et contrôlés avant expédition. En cas de souci, notre service client vous répond sous 24h.",
	},
	{
		keywords: []string{"point", "fidélité", "niveau", "badge", "récompense"},
		answer:   "Complétez vos missions beauté pour gagner des points : chaque tranche de 100 points vous fait passer un niveau, et vos points réduction sont déductibles en caisse.",
	},
}

const chatDefault = "Bonjour ! Je suis l'assistante Éclat. Posez-moi vos questions sur la livraison, les retours, le paiement ou nos produits."

// Chat answers a customer question. The model is tried first when
// configured; the keyword rules guarantee an answer either way.
func (s *Service) Chat(ctx context.Context, question string) string {
	if s.client.Configured() {
		prompt := fmt.Sprintf(
			"Tu es l'assistante virtuelle d'Éclat, une boutique de cosmétiques en ligne. "+
				"Réponds en français, en 2 à 3 phrases, de façon chaleureuse et précise. Question: %q",
			question,
		)
		if answer, err := s.client.Generate(ctx, prompt); err == nil {
			return answer
		}
		s.log.Debug("chat fallback", "question_len", len(question))
	}
	return ruleAnswer(question)
}

func ruleAnswer(question string) string {
	q := strings.ToLower(question)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.answer
			}
		}
	}
	return chatDefault
}

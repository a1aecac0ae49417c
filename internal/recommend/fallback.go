package recommend

import (
	"strings"

	"github.com/eclatbeaute/eclat/internal/model"
)

// FallbackPlan builds a deterministic onboarding plan from the questionnaire
// keywords. It always yields at least five missions, with the shopping and
// review ones carrying the highest discount points.
func FallbackPlan(skin model.SkinProfile, hair model.HairProfile) *Plan {
	plan := &Plan{
		Tasks: []TaskDraft{
			skinTask(skin),
			hairTask(hair),
			{
				Title:       "Adopter le rituel du soir",
				Description: "Pendant trois soirs, démaquillez et nettoyez votre visage avant le coucher.",
				Category:    model.CategoryRoutine,
				Icon:        "🌙",
				Points:      20,
			},
			{
				Title:       "Composer votre première sélection",
				Description: "Parcourez la boutique et ajoutez un produit adapté à votre profil à votre panier.",
				Category:    model.CategoryShopping,
				Icon:        "🛍️",
				Points:      25,
				DiscountPoints: 15,
			},
			{
				Title:       "Partager votre premier avis",
				Description: "Donnez votre avis sur un produit que vous connaissez pour guider la communauté.",
				Category:    model.CategoryReview,
				Icon:        "⭐",
				Points:      25,
				DiscountPoints: 10,
			},
			{
				Title:       "Rejoindre la communauté",
				Description: "Suivez Éclat et partagez votre routine préférée avec les autres membres.",
				Category:    model.CategorySocial,
				Icon:        "💬",
				Points:      15,
				DiscountPoints: 5,
			},
		},
		SkinRoutine: skinRoutine(skin),
		HairRoutine: hairRoutine(hair),
		Tips: []string{
			"La régularité vaut mieux que l'accumulation de produits.",
			"Buvez suffisamment d'eau, votre peau et vos cheveux en profitent.",
			"Introduisez un seul nouveau produit à la fois pour repérer ce qui vous réussit.",
		},
		Source: SourceFallback,
	}
	return plan
}

func skinTask(skin model.SkinProfile) TaskDraft {
	d := TaskDraft{
		Title:       "Découvrir votre routine visage",
		Description: "Réalisez votre routine du matin trois jours de suite : nettoyant, hydratant, protection solaire.",
		Category:    model.CategorySkincare,
		Icon:        "🧴",
		Points:      20,
	}
	switch {
	case hasKeyword(skin.SkinConcerns, "acné", "imperfections", "pores"):
		d.Title = "Apaiser les imperfections"
		d.Description = "Adoptez un nettoyant doux matin et soir pendant une semaine, sans gommage agressif."
	case hasKeyword(skin.SkinConcerns, "rides", "âge", "fermeté"):
		d.Title = "Rituel anti-âge"
		d.Description = "Appliquez un soin ciblé le soir et massez le visage quelques minutes pour stimuler la peau."
	case hasKeyword(skin.SkinConcerns, "sécheresse", "déshydratation") || hasKeyword(skin.SkinGoals, "hydratation"):
		d.Title = "Cap sur l'hydratation"
		d.Description = "Appliquez votre crème hydratante matin et soir pendant cinq jours sur peau légèrement humide."
	}
	return d
}

func hairTask(hair model.HairProfile) TaskDraft {
	d := TaskDraft{
		Title:       "Prendre soin de vos cheveux",
		Description: "Offrez à vos cheveux un soin adapté à leur nature cette semaine.",
		Category:    model.CategoryHaircare,
		Icon:        "💆",
		Points:      20,
	}
	switch {
	case hasKeyword(hair.HairConcerns, "chute", "casse") || hasKeyword(hair.HairGoals, "fortifier"):
		d.Title = "Fortifier la fibre"
		d.Description = "Faites un masque fortifiant et espacez les appareils chauffants pendant une semaine."
	case hasKeyword(hair.HairConcerns, "sécheresse", "frisottis") || hasKeyword(hair.HairGoals, "hydratation"):
		d.Title = "Hydrater en profondeur"
		d.Description = "Appliquez un masque hydratant, laissez poser dix minutes et terminez à l'eau fraîche."
	case hair.ScalpType == "gras":
		d.Title = "Rééquilibrer le cuir chevelu"
		d.Description = "Espacez les shampoings d'un jour et rincez à l'eau tiède plutôt que chaude."
	}
	return d
}

func skinRoutine(skin model.SkinProfile) []string {
	routine := []string{
		"Matin : nettoyant doux adapté à votre type de peau",
		"Matin : soin hydratant puis protection solaire",
		"Soir : démaquillage et nettoyage",
		"Soir : soin ciblé selon vos préoccupations",
	}
	if skin.Sensitivity == "très-sensible" || skin.Sensitivity == "sensible" {
		routine = append(routine, "Privilégier des formules sans parfum et tester chaque nouveau produit sur une petite zone")
	}
	return routine
}

func hairRoutine(hair model.HairProfile) []string {
	routine := []string{
		"Shampoing adapté à votre cuir chevelu, deux à trois fois par semaine",
		"Après-shampoing ou démêlant sur les longueurs",
		"Masque nourrissant hebdomadaire",
	}
	if hair.HairType == "bouclés" || hair.HairType == "crépus" {
		routine = append(routine, "Définir les boucles sur cheveux humides avec un soin sans rinçage")
	}
	return routine
}

func hasKeyword(values []string, keywords ...string) bool {
	for _, v := range values {
		lv := strings.ToLower(v)
		for _, kw := range keywords {
			if strings.Contains(lv, kw) {
				return true
			}
		}
	}
	return false
}
